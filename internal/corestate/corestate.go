// Copyright 2024 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package corestate holds the tri-state status word shared by every future
// core: NotStarted, Running, Ready.
//
// The teacher (github.com/asmsh/promise) packs status, fate, chain-mode, and
// feature flags into a single uint32 (internal/status) because its public
// façade tracks several orthogonal concerns (Pending/Fulfilled/Rejected/
// Panicked state, Unresolved/Resolving/Resolved/Handled fate, chain mode,
// once/timed/unsafe/external flags) that all need to change together under
// one lock bit. A future core only has the three-state machine of spec §3,
// and refcount/allocator-tag/group-counter are already separate fields on
// core[T] (not additional bits to pack), so a single plain atomic word with
// two-value CompareAndSwap is enough; there is no second concern to
// interleave with it, and packing one enum into a lock-guarded word the way
// the teacher does would only add the teacher's read-acquire-lock/CAS-release
// dance for no benefit.
package corestate

import "sync/atomic"

// Status is the lifecycle stage of a future core (spec §3).
type Status int32

const (
	NotStarted Status = iota
	Running
	Ready
)

// Word is an atomically-updated Status. The zero value is NotStarted.
type Word struct {
	v atomic.Int32
}

// Load reads the current status. Relaxed use (e.g. the ready() hint of
// spec §4.3) is safe from any goroutine; a reader that must synchronize with
// the published result should follow up with a CompletionEvent wait instead
// of relying on Load alone.
func (w *Word) Load() Status {
	return Status(w.v.Load())
}

// TryStart attempts the unique NotStarted->Running transition. It returns
// true iff this call performed the transition.
//
// Go's atomic.CompareAndSwap is the strong form: it never fails spuriously,
// only when the observed value genuinely differs from old. This resolves
// spec §9's open question about re-looping past a weak-CAS spurious failure
// — there is none to re-loop past in this port.
func (w *Word) TryStart() bool {
	return w.v.CompareAndSwap(int32(NotStarted), int32(Running))
}

// SetReady publishes the Running->Ready transition. Callers must already
// hold the unique Running state (i.e. have won TryStart) before calling
// this — it is not itself a CAS, since only the winner of TryStart may call
// it (spec §3 "Exactly one thread wins the transition").
func (w *Word) SetReady() {
	w.v.Store(int32(Ready))
}

// ForceReady initializes an already-Ready core (spec §4.5 make_ready), where
// there is no NotStarted->Running transition to race at all.
func (w *Word) ForceReady() {
	w.v.Store(int32(Ready))
}

// Reset returns the word to NotStarted, for reuse by the allocator when a
// core is recycled out of its slab (spec §4.4).
func (w *Word) Reset() {
	w.v.Store(int32(NotStarted))
}
