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

	"github.com/asmsh/futurecore/internal/corestate"
)

// MakeReady allocates a Ready Handle with its result already constructed,
// refcount 1, and no body (spec §4.5).
func MakeReady[T any](value T) Handle[T] {
	return Handle[T]{c: newReadyCore(value)}
}

// anyCore is the readiness/attachment surface WhenAll and friends need from
// a core[T], independent of T. core[T]'s ready and attachContinuation
// methods satisfy this without any change, since neither signature
// mentions T.
type anyCore interface {
	ready() bool
	attachContinuation(n *thenNode)
}

// join attaches a completion trigger to every core in cs and invokes finish
// exactly once, after the last one becomes Ready.
//
// Grounded on the teacher's pipeline/extens combinator pattern (pipeline.go,
// extens.go): a shared countdown plus a captured completion closure, drained
// by a lightweight per-input continuation. The teacher fans inputs in over a
// channel; join instead attaches directly to each core's own lock-free
// then-chain, since that rendezvous already exists and needs no extra
// channel. Each per-input continuation is itself run through an immediate
// attach-or-run check (mirroring spec §4.5's "lightweight continuation
// attached via an immediate executor"), and the actual finish call is
// intercepted via InterceptingExecutor exactly as spec §4.5 describes: "a
// completion one-shot callable is intercepted from a would-be scheduling
// step and captured into the shared state."
func join(cs []anyCore, finish func()) {
	var remaining atomic.Int32
	remaining.Store(int32(len(cs)))

	var intercept InterceptingExecutor
	intercept.Schedule(finish)

	for _, c := range cs {
		trigger := func() {
			if remaining.Add(-1) == 0 {
				intercept.Run()
			}
		}
		if c.ready() {
			trigger()
			continue
		}
		c.attachContinuation(newThenNode(trigger))
	}
}

// settleAggregate publishes value as agg's result, marks it Ready, and
// releases its scheduled-invocation refcount share — the combinator
// equivalent of runBody's publish-then-release sequence, used because
// aggregate cores are never run through an Executor; they settle the
// instant join's countdown reaches zero. join's countdown guarantees this
// runs exactly once, so, like newReadyCore's make_ready, there is no
// NotStarted->Running transition to race and ForceReady applies directly.
func settleAggregate[T any](agg *core[T], value T) {
	agg.res.construct(value)
	agg.status.ForceReady()
	agg.event.Notify(int32(corestate.Ready))
	agg.chain.drainThenChain()
	agg.release()
}

// WhenAll returns a Handle whose result is handles, in input order, once
// every one of them is Ready (spec §4.5). An empty range yields an
// already-Ready Handle wrapping an empty slice (spec §4.5 edge case).
//
// Per spec §4.5's edge case, a failed input's failure stays on that input's
// own Handle; WhenAll's aggregate never fails.
func WhenAll[T any](handles []Handle[T]) Handle[[]Handle[T]] {
	if len(handles) == 0 {
		return MakeReady([]Handle[T]{})
	}

	out := append([]Handle[T](nil), handles...)
	agg := newCore[[]Handle[T]](nil, false, nil)

	cs := make([]anyCore, len(out))
	for i := range out {
		cs[i] = out[i].c
	}

	join(cs, func() { settleAggregate(agg, out) })

	return Handle[[]Handle[T]]{c: agg}
}

// WhenAllPair is the settled result of WhenAll2.
type WhenAllPair[A, B any] struct {
	First  Handle[A]
	Second Handle[B]
}

// WhenAll2 is the 2-ary form of spec §4.5's "when_all(tuple of handles)".
// Go has no variadic generic tuples, so, following the fixed-arity-function
// pattern used elsewhere in the Go combinator ecosystem, heterogeneous
// when_all is provided as concrete arities instead of one variadic/tuple
// form.
func WhenAll2[A, B any](ha Handle[A], hb Handle[B]) Handle[WhenAllPair[A, B]] {
	agg := newCore[WhenAllPair[A, B]](nil, false, nil)
	join([]anyCore{ha.c, hb.c}, func() {
		settleAggregate(agg, WhenAllPair[A, B]{First: ha, Second: hb})
	})
	return Handle[WhenAllPair[A, B]]{c: agg}
}

// WhenAllTriple is the settled result of WhenAll3.
type WhenAllTriple[A, B, C any] struct {
	First  Handle[A]
	Second Handle[B]
	Third  Handle[C]
}

// WhenAll3 is the 3-ary form of when_all(tuple of handles).
func WhenAll3[A, B, C any](ha Handle[A], hb Handle[B], hc Handle[C]) Handle[WhenAllTriple[A, B, C]] {
	agg := newCore[WhenAllTriple[A, B, C]](nil, false, nil)
	join([]anyCore{ha.c, hb.c, hc.c}, func() {
		settleAggregate(agg, WhenAllTriple[A, B, C]{First: ha, Second: hb, Third: hc})
	})
	return Handle[WhenAllTriple[A, B, C]]{c: agg}
}

// WhenAllQuad is the settled result of WhenAll4.
type WhenAllQuad[A, B, C, D any] struct {
	First  Handle[A]
	Second Handle[B]
	Third  Handle[C]
	Fourth Handle[D]
}

// WhenAll4 is the 4-ary form of when_all(tuple of handles).
func WhenAll4[A, B, C, D any](ha Handle[A], hb Handle[B], hc Handle[C], hd Handle[D]) Handle[WhenAllQuad[A, B, C, D]] {
	agg := newCore[WhenAllQuad[A, B, C, D]](nil, false, nil)
	join([]anyCore{ha.c, hb.c, hc.c, hd.c}, func() {
		settleAggregate(agg, WhenAllQuad[A, B, C, D]{First: ha, Second: hb, Third: hc, Fourth: hd})
	})
	return Handle[WhenAllQuad[A, B, C, D]]{c: agg}
}

// WhenAllEmptyTuple returns an already-Ready Handle wrapping an empty
// struct, covering spec §4.5's "Zero handles (tuple) -> a Ready future with
// an empty tuple" edge case.
func WhenAllEmptyTuple() Handle[struct{}] {
	return MakeReady(struct{}{})
}
