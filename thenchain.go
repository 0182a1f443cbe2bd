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

	"github.com/asmsh/futurecore/internal/alloc"
)

// thenNode is one link in a core's lock-free LIFO continuation chain
// (spec §4.1, §9 "Then-chain node"). Each node holds the next pointer and a
// single scheduling closure; allocated from the small-buffer allocator
// since nodes are short-lived and numerous.
type thenNode struct {
	next atomic.Pointer[thenNode]
	run  func()
}

var thenNodePool = alloc.NewSlabPool[thenNode]()

// newThenNode allocates a node wrapping run.
func newThenNode(run func()) *thenNode {
	n := thenNodePool.Alloc()
	n.run = run
	n.next.Store(nil)
	return n
}

// releaseThenNode returns n to its allocator once it has been run.
func releaseThenNode(n *thenNode) {
	n.run = nil
	thenNodePool.Dealloc(n)
}

// thenChain is the atomic LIFO head described in spec §3 ("then_head").
// Empty is represented by a nil head.
type thenChain struct {
	head atomic.Pointer[thenNode]
}

// push adds n to the head of the chain via a CAS loop, setting n's next
// pointer to the observed head and swinging the chain head to n (spec §4.1
// "attach_continuation").
func (c *thenChain) push(n *thenNode) {
	for {
		old := c.head.Load()
		n.next.Store(old)
		if c.head.CompareAndSwap(old, n) {
			return
		}
	}
}

// drain atomically swaps the chain head out for nil and returns whatever
// list was there. The caller owns the returned list exclusively: because
// only one Swap call can ever observe a given non-nil head, two concurrent
// drain calls can never walk the same node (spec §5 "drained lists are
// owned exclusively by the draining thread").
func (c *thenChain) drain() *thenNode {
	return c.head.Swap(nil)
}

// drainThenChain walks one snapshot of the chain, in LIFO order, running
// and releasing each node (spec §4.1 "drain_then_chain"). If a push races
// this drain and lands after the Swap(nil), that push's own caller is
// responsible for re-triggering a drain (see core.attachContinuation) —
// this function only ever walks the list it captured.
func (c *thenChain) drainThenChain() {
	n := c.drain()
	for n != nil {
		next := n.next.Load()
		run := n.run
		releaseThenNode(n)
		run()
		n = next
	}
}
