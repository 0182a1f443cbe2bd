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

import (
	"sync/atomic"
	"time"

	"github.com/asmsh/futurecore/internal/alloc"
	"github.com/asmsh/futurecore/internal/completion"
	"github.com/asmsh/futurecore/internal/corestate"
)

// Body is the zero-argument, type-erased callable a core invokes exactly
// once, on its first transition out of NotStarted (spec §3 "body", §9
// "Type-erased body").
//
// The source material erases the body behind a OnceCallable with a single
// run() entry point, choosing between small-inline and heap-boxed storage
// for it. A Go closure already erases its captured state behind a single
// function value with no extra vtable or storage decision to make, so Body
// is declared as a concrete func type rather than wrapped in an interface —
// the teacher's own callback plumbing (its goCallback/goErrCallback/
// goResCallback function types in calls.go) takes exactly this approach for
// the same reason.
type Body[T any] func() (T, error)

// core is the FutureCore of spec §3: the sole long-lived, reference-counted
// entity backing a Handle[T].
type core[T any] struct {
	status corestate.Word

	refcount atomic.Int32

	body Body[T]

	res  resultStorage[T]
	fail failurePayload

	chain thenChain

	event *completion.Event

	// allowInline mirrors spec §3's allow_inline: when set, a waiter that
	// finds the core still NotStarted may run body on its own goroutine.
	allowInline bool

	// groupCounter, if non-nil, is decremented exactly once, after status
	// is set Ready and before the then-chain runs (spec §3 "group_counter").
	groupCounter *atomic.Int32

	tag alloc.Tag
}

func corePool[T any]() *alloc.SlabPool[core[T]] {
	return alloc.SlabPoolFor[core[T]]()
}

// newCore allocates a pending core with refcount 2: one share for the
// caller's Handle, one for the scheduled invocation of run (spec §4.4).
func newCore[T any](body Body[T], allowInline bool, groupCounter *atomic.Int32) *core[T] {
	pool := corePool[T]()
	c := pool.Alloc()
	c.status.Reset()
	c.refcount.Store(2)
	c.body = body
	c.res.reset()
	c.fail.drop()
	c.chain = thenChain{}
	c.event = completion.New(int32(corestate.NotStarted))
	c.allowInline = allowInline
	c.groupCounter = groupCounter
	c.tag = pool.Tag()
	return c
}

// newReadyCore allocates an already-Ready core with no body and refcount 1
// (spec §4.5 make_ready).
func newReadyCore[T any](value T) *core[T] {
	pool := corePool[T]()
	c := pool.Alloc()
	c.status.Reset()
	c.status.ForceReady()
	c.refcount.Store(1)
	c.body = nil
	c.res.reset()
	c.res.construct(value)
	c.fail.drop()
	c.chain = thenChain{}
	c.event = completion.New(int32(corestate.Ready))
	c.allowInline = false
	c.groupCounter = nil
	c.tag = pool.Tag()
	return c
}

// tryRun attempts the unique NotStarted->Running transition. It returns
// true iff this call performed the transition and ran the body.
func (c *core[T]) tryRun() bool {
	if !c.status.TryStart() {
		return false
	}
	c.runBody()
	return true
}

// runBody executes body, capturing either its result or its failure, then
// publishes Ready, decrements the group counter if any, and drains the
// then-chain — in that order, per spec §4.1/§5(a).
func (c *core[T]) runBody() {
	func() {
		defer func() {
			if r := recover(); r != nil {
				c.fail.capture(r)
			}
		}()
		if c.body == nil {
			return
		}
		v, err := c.body()
		if err != nil {
			c.fail.capture(err)
			return
		}
		c.res.construct(v)
	}()
	c.body = nil

	c.status.SetReady()
	c.event.Notify(int32(corestate.Ready))

	if c.groupCounter != nil {
		c.groupCounter.Add(-1)
	}

	c.chain.drainThenChain()
}

// run is the external entry point a scheduled invocation calls (spec §4.1
// "run()"): it runs the body if no one else has, then releases the
// scheduled-invocation's refcount share.
func (c *core[T]) run() {
	c.tryRun()
	c.release()
}

// attachContinuation implements spec §4.1's attach_continuation: if the
// core is already Ready, n runs immediately on the caller's goroutine;
// otherwise n is pushed onto the then-chain, and, since a concurrent
// runBody may have already drained an empty chain before n's push landed,
// the status is re-checked and a drain re-triggered if needed.
func (c *core[T]) attachContinuation(n *thenNode) {
	if c.status.Load() == corestate.Ready {
		run := n.run
		releaseThenNode(n)
		run()
		return
	}
	c.chain.push(n)
	if c.status.Load() == corestate.Ready {
		c.chain.drainThenChain()
	}
}

// wait implements spec §4.3's wait(): a deferred core found still
// NotStarted is run inline by the waiter (work-stealing); otherwise the
// waiter blocks on the completion event.
func (c *core[T]) wait() {
	if c.allowInline && c.status.Load() == corestate.NotStarted && c.tryRun() {
		return
	}
	c.event.Wait(int32(corestate.Ready))
}

// waitFor implements wait_for(d): same inline fast path, otherwise a timed
// wait. Returns true iff the core is Ready by the time it returns.
func (c *core[T]) waitFor(d time.Duration) bool {
	if c.allowInline && c.status.Load() == corestate.NotStarted && c.tryRun() {
		return true
	}
	return c.event.WaitFor(int32(corestate.Ready), d)
}

// waitUntil implements wait_until(t).
func (c *core[T]) waitUntil(t time.Time) bool {
	return c.waitFor(time.Until(t))
}

// ready is the non-blocking status hint of spec §4.3.
func (c *core[T]) ready() bool {
	return c.status.Load() == corestate.Ready
}

// get reads the settled result (spec §4.2): the failure, if any, takes
// precedence, otherwise the constructed value is returned. Precondition:
// the core is Ready.
func (c *core[T]) get() (T, error) {
	if err := c.fail.resurface(); err != nil {
		var zero T
		return zero, err
	}
	v, _ := c.res.get()
	return v, nil
}

// retain adds one refcount share (spec §3 "Mutated by... any thread
// adjusting refcount").
func (c *core[T]) retain() {
	c.refcount.Add(1)
}

// release drops one refcount share, destroying the core when the count
// reaches zero (spec §3 "Refcount reaching zero strictly follows the final
// observer releasing").
func (c *core[T]) release() {
	if c.refcount.Add(-1) == 0 {
		c.destroy()
	}
}

// destroy returns the core's storage to its tagged allocator (spec §3
// "Lifecycle" / §4.4 "Self-destruction dispatches on the tag"). Go's
// garbage collector reclaims the result value itself; what remains is
// dropping the failure payload and resetting the body/group-counter
// references before the backing memory is recycled.
func (c *core[T]) destroy() {
	c.fail.drop()
	c.res.reset()
	c.body = nil
	c.groupCounter = nil
	corePool[T]().Dealloc(c)
}
