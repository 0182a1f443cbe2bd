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

import "time"

// Policy bundles the two independent scheduling bits of spec §4.1/§6.
type Policy struct {
	// Async, when set, forces queued execution through
	// Executor.ScheduleForced, which must not run its callable inline.
	Async bool

	// Deferred, when set, permits a waiter to steal a not-yet-started body
	// onto its own goroutine instead of blocking (spec §4.1 "allow_inline").
	Deferred bool
}

// Handle is the movable/cloneable owning handle to a core, exposing the
// user contract of spec §6. The zero Handle is invalid; Valid reports this.
type Handle[T any] struct {
	c *core[T]
}

// Valid reports whether h holds a live core.
func (h Handle[T]) Valid() bool {
	return h.c != nil
}

func (h Handle[T]) mustValid() {
	assertValid(h.c != nil)
}

// Ready is the non-blocking readiness hint of spec §4.3/§6. Precondition:
// Valid.
func (h Handle[T]) Ready() bool {
	h.mustValid()
	return h.c.ready()
}

// Wait blocks until the underlying core is Ready, per spec §4.3.
// Precondition: Valid.
func (h Handle[T]) Wait() {
	h.mustValid()
	h.c.wait()
}

// WaitFor blocks until Ready or d elapses, returning whether Ready was
// reached. Precondition: Valid.
func (h Handle[T]) WaitFor(d time.Duration) bool {
	h.mustValid()
	return h.c.waitFor(d)
}

// WaitUntil blocks until Ready or the deadline passes, returning whether
// Ready was reached. Precondition: Valid.
func (h Handle[T]) WaitUntil(t time.Time) bool {
	h.mustValid()
	return h.c.waitUntil(t)
}

// Get waits for the core to settle, then returns its result, resurfacing
// the failure payload if the body failed. Precondition: Valid.
func (h Handle[T]) Get() (T, error) {
	h.mustValid()
	h.c.wait()
	return h.c.get()
}

// Clone returns an independent owning handle to the same core, incrementing
// its refcount (spec §3 "Mutated by... any thread adjusting refcount").
// Precondition: Valid.
func (h Handle[T]) Clone() Handle[T] {
	h.mustValid()
	h.c.retain()
	return Handle[T]{c: h.c}
}

// Release drops this handle's ownership share of the core. h must not be
// used again afterward (mirrors a moved-from handle, spec §7
// InvalidHandle). Precondition: Valid.
func (h Handle[T]) Release() {
	h.mustValid()
	h.c.release()
}

// New constructs a pending Handle whose body runs on ex according to policy
// (spec §6 construction overload (i)).
func New[T any](body Body[T], ex Executor, policy Policy) Handle[T] {
	c := newCore[T](body, policy.Deferred, nil)
	scheduleRun(ex, policy, c.run)
	return Handle[T]{c: c}
}

// NewInGroup constructs a pending Handle scheduled on tg's pool, with tg's
// outstanding counter incremented before scheduling and decremented by the
// core exactly once it becomes Ready (spec §6 construction overloads
// (ii)/(iii); spec §5(b)).
func NewInGroup[T any](tg *TaskGroup, body Body[T], policy Policy) Handle[T] {
	tg.counter.Add(1)
	c := newCore[T](body, policy.Deferred, &tg.counter)
	scheduleRun(tg.pool, policy, c.run)
	return Handle[T]{c: c}
}

func scheduleRun(ex Executor, policy Policy, run func()) {
	if policy.Async {
		ex.ScheduleForced(run)
	} else {
		ex.Schedule(run)
	}
}

// Then attaches f as a continuation of h (spec §4.1/§6). f receives a
// cloned handle to h; when the continuation runs, it waits on that clone
// and then invokes f, so a deferred child can steal the whole
// "wait-then-invoke-f" step onto its own goroutine exactly like any other
// body.
//
// Then is a package-level generic function, not a method on Handle[T],
// because Go does not allow a method to introduce a type parameter (R) of
// its own beyond its receiver's — there is no way to write
// `func (h Handle[T]) Then[R any](...)`.
func Then[T, R any](h Handle[T], f func(Handle[T]) (R, error), ex Executor, policy Policy) Handle[R] {
	h.mustValid()
	upstream := h.Clone()

	body := Body[R](func() (R, error) {
		defer upstream.Release()
		upstream.Wait()
		return f(upstream)
	})

	child := newCore[R](body, policy.Deferred, nil)

	schedule := func() { scheduleRun(ex, policy, child.run) }

	if h.c.ready() {
		schedule()
	} else {
		h.c.attachContinuation(newThenNode(schedule))
	}

	return Handle[R]{c: child}
}
