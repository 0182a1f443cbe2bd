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
	"sync"
	"sync/atomic"
	"testing"

	"github.com/asmsh/futurecore/internal/corestate"
)

// TestMonotonicStatus covers spec §8 property 1: status never decreases,
// observed across many concurrent waiters racing one core's transition.
func TestMonotonicStatus(t *testing.T) {
	c := newCore[int](func() (int, error) { return 1, nil }, true, nil)
	defer c.release()

	var wg sync.WaitGroup
	seen := make([]corestate.Status, 64)
	for i := range seen {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			before := c.status.Load()
			c.wait()
			after := c.status.Load()
			if before > after {
				t.Errorf("status decreased: %d -> %d", before, after)
			}
			seen[i] = after
		}(i)
	}
	wg.Wait()
	for i, v := range seen {
		if v != corestate.Ready {
			t.Fatalf("waiter %d observed non-Ready status %d after wait", i, v)
		}
	}
}

// TestAtMostOnceBody covers spec §8 property 2: N concurrent wait() calls
// on a deferred core run the body exactly once.
func TestAtMostOnceBody(t *testing.T) {
	var runs atomic.Int32
	c := newCore[int](func() (int, error) {
		runs.Add(1)
		return 42, nil
	}, true, nil)
	defer c.release()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.wait()
		}()
	}
	wg.Wait()

	if got := runs.Load(); got != 1 {
		t.Fatalf("body ran %d times, want exactly 1", got)
	}
	v, err := c.get()
	if err != nil || v != 42 {
		t.Fatalf("get() = (%d, %v), want (42, nil)", v, err)
	}
}

// TestResultVisibility covers spec §8 property 3: once ready() observes
// true, a subsequent get() on any goroutine returns the published value.
func TestResultVisibility(t *testing.T) {
	c := newCore[string](func() (string, error) { return "done", nil }, false, nil)
	defer c.release()
	go c.run()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !c.ready() {
			}
			v, err := c.get()
			if err != nil || v != "done" {
				t.Errorf("get() = (%q, %v), want (\"done\", nil)", v, err)
			}
		}()
	}
	wg.Wait()
}

// TestThenChainCompleteness covers spec §8 property 4: every continuation
// ever attached, whether before or after Ready, runs exactly once.
func TestThenChainCompleteness(t *testing.T) {
	c := newCore[int](func() (int, error) { return 0, nil }, false, nil)
	defer c.release()

	var before, after atomic.Int32
	const n = 20
	for i := 0; i < n; i++ {
		c.attachContinuation(newThenNode(func() { before.Add(1) }))
	}

	go c.run()
	c.wait()

	for i := 0; i < n; i++ {
		c.attachContinuation(newThenNode(func() { after.Add(1) }))
	}

	if got := before.Load(); got != n {
		t.Fatalf("pre-ready continuations ran %d times, want %d", got, n)
	}
	if got := after.Load(); got != n {
		t.Fatalf("post-ready continuations ran %d times, want %d", got, n)
	}
}

// TestRefcountBalance covers spec §8 property 7: in each of 50 cycles a
// core's two initial shares plus two retained ones are all released (one by
// run, three by the test), and the refcount ends at exactly zero, the point
// at which release hands the core to destroy.
func TestRefcountBalance(t *testing.T) {
	for i := 0; i < 50; i++ {
		c := newCore[int](func() (int, error) { return i, nil }, false, nil)
		c.retain()
		c.retain()
		go c.run()
		c.wait()
		if _, err := c.get(); err != nil {
			t.Fatalf("get() error: %v", err)
		}
		c.release()
		c.release()
		c.release()
		if got := c.refcount.Load(); got != 0 {
			t.Fatalf("refcount after matched retain/release = %d, want 0", got)
		}
	}
}

// TestIdempotentMakeReady covers spec §8 property 8.
func TestIdempotentMakeReady(t *testing.T) {
	c := newReadyCore(99)
	defer c.release()

	if !c.ready() {
		t.Fatal("newReadyCore: ready() = false, want true")
	}
	for i := 0; i < 5; i++ {
		v, err := c.get()
		if err != nil || v != 99 {
			t.Fatalf("get() call %d = (%d, %v), want (99, nil)", i, v, err)
		}
	}
}

// TestBodyFailureResurfaces checks that a body's returned error is stored
// and resurfaced verbatim on get(), per spec §7's BodyFailure propagation.
func TestBodyFailureResurfaces(t *testing.T) {
	sentinel := testSentinelError("boom")
	c := newCore[int](func() (int, error) { return 0, sentinel }, false, nil)
	defer c.release()
	go c.run()
	c.wait()

	_, err := c.get()
	if err == nil {
		t.Fatal("get() returned nil error for a failed body")
	}
	var bf *BodyFailure
	if !asBodyFailure(err, &bf) {
		t.Fatalf("get() error %v is not a *BodyFailure", err)
	}
	if bf.Cause() != error(sentinel) {
		t.Fatalf("BodyFailure.Cause() = %v, want %v", bf.Cause(), sentinel)
	}
}

// TestBodyPanicCaptured checks that a recovered panic is stored as a
// BodyFailure instead of propagating out of run().
func TestBodyPanicCaptured(t *testing.T) {
	c := newCore[int](func() (int, error) { panic("kaboom") }, false, nil)
	defer c.release()
	go c.run()
	c.wait()

	_, err := c.get()
	if err == nil {
		t.Fatal("get() returned nil error for a panicking body")
	}
	var bf *BodyFailure
	if !asBodyFailure(err, &bf) {
		t.Fatalf("get() error %v is not a *BodyFailure", err)
	}
	if bf.Cause() != "kaboom" {
		t.Fatalf("BodyFailure.Cause() = %v, want %q", bf.Cause(), "kaboom")
	}
}

type testSentinelError string

func (e testSentinelError) Error() string { return string(e) }

func asBodyFailure(err error, out **BodyFailure) bool {
	bf, ok := err.(*BodyFailure)
	if ok {
		*out = bf
	}
	return ok
}
