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

package future

// resultStorage holds the success value of a core[T], constructed exactly
// once on success and left untouched if the body failed instead (spec §4.2).
//
// The source material specializes storage by result shape — a raw aligned
// buffer for value types, a bare pointer slot for reference types, and
// nothing at all for a unit/void result — to avoid an extra indirection for
// the latter two. Go's generics don't need that three-way split: storing T
// directly already puts a pointer-sized reference result inline with no
// boxing, and instantiating T as struct{} for the unit case is a zero-size
// field the compiler drops entirely. One generic holder covers all three
// shapes described in spec §4.2.
type resultStorage[T any] struct {
	value T
	set   bool
}

// construct stores v as the settled result. Called at most once (spec §4.2
// "Constructed in place on success").
func (r *resultStorage[T]) construct(v T) {
	r.value = v
	r.set = true
}

// get returns the stored value and whether one was ever constructed.
func (r *resultStorage[T]) get() (T, bool) {
	return r.value, r.set
}

// reset clears the slot, run on core destruction or recycling (spec §4.2
// "destroyed exactly once on core destruction, skipped if failure is set" —
// skipping is implicit here since reset is only ever meaningful when set is
// true).
func (r *resultStorage[T]) reset() {
	var zero T
	r.value = zero
	r.set = false
}
