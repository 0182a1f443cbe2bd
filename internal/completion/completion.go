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

// Package completion provides the CompletionEvent collaborator of spec §2: a
// condition variable over an integer state, supporting load, store, notify,
// and both untimed and timed waits.
//
// Grounded on the teacher's own single-writer synchronization primitive: a
// genericPromise is resolved by closing its unbuffered syncChan exactly
// once (internal.go's wait/interWaitProc), and every waiter blocks on a
// receive from that channel. Event generalizes this to an arbitrary target
// value instead of a single implicit "resolved" state, and adds the timed
// variants using time.Timer the way metalgrid-go-future's Future.Wait uses
// context.WithTimeout/context.AfterFunc around the same channel-close
// pattern.
package completion

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event is a condition variable over an int32 state.
type Event struct {
	state atomic.Int32
	mu    sync.Mutex
	done  chan struct{}
}

// New constructs an Event already set to initial.
func New(initial int32) *Event {
	e := &Event{done: make(chan struct{})}
	e.state.Store(initial)
	return e
}

// Load reads the current state (relaxed; see spec §4.3 "ready()").
func (e *Event) Load() int32 {
	return e.state.Load()
}

// Store sets the state without waking waiters. Used for intermediate
// (non-terminal) transitions that no one blocks on, such as NotStarted ->
// Running.
func (e *Event) Store(v int32) {
	e.state.Store(v)
}

// Notify sets the state to v and wakes every current and future waiter.
// The wake-up channel is closed only on the first Notify, mirroring the
// teacher's single-writer, close-once syncChan; a later Notify only stores v.
func (e *Event) Notify(v int32) {
	e.state.Store(v)
	e.mu.Lock()
	defer e.mu.Unlock()
	select {
	case <-e.done:
	default:
		close(e.done)
	}
}

// Wait returns at once if the state equals target; otherwise it blocks
// until the first Notify, whatever value that Notify set.
func (e *Event) Wait(target int32) {
	if e.state.Load() == target {
		return
	}
	<-e.done
}

// WaitFor returns true at once if the state equals target; otherwise it
// blocks until the first Notify (returning true, whatever value that Notify
// set) or until d elapses (returning whether the state then equals target).
func (e *Event) WaitFor(target int32, d time.Duration) bool {
	if e.state.Load() == target {
		return true
	}
	if d <= 0 {
		return e.state.Load() == target
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-e.done:
		return true
	case <-t.C:
		return e.state.Load() == target
	}
}

// WaitUntil blocks until the state equals target or the deadline passes.
func (e *Event) WaitUntil(target int32, deadline time.Time) bool {
	return e.WaitFor(target, time.Until(deadline))
}

// Reset returns the Event to an unnotified form holding initial, so the same
// Event can be notified again. The future core does not call it: newCore
// allocates a fresh Event for every core.
func (e *Event) Reset(initial int32) {
	e.state.Store(initial)
	select {
	case <-e.done:
		e.done = make(chan struct{})
	default:
	}
}
