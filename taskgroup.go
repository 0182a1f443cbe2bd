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
	"context"
	"sync/atomic"
)

// TaskGroupConfig configures a TaskGroup.
type TaskGroupConfig struct {
	Pool PoolConfig
}

// TaskGroup is a TaskGroupCounter + Executor pair (spec §6), grounded on
// the teacher's Group[T] (group.go): an outstanding-work counter and a pool
// of goroutines shared by every future registered through it. Where the
// teacher's Group tracks completion of promise callbacks via a
// sync.WaitGroup, TaskGroup instead exposes the raw atomic counter the core
// itself decrements (spec §3 "group_counter"), since spec §5(b) requires
// that decrement to happen release-ordered after the status store, which a
// plain WaitGroup.Done call cannot express on its own.
type TaskGroup struct {
	counter atomic.Int32
	pool    *Pool
}

// NewTaskGroup constructs a TaskGroup per c.
func NewTaskGroup(c TaskGroupConfig) *TaskGroup {
	return &TaskGroup{
		pool: NewPool(c.Pool),
	}
}

// OutstandingCounter returns the group's atomic outstanding-task counter
// (spec §6 "outstanding_counter() -> &atomic<i32>").
func (g *TaskGroup) OutstandingCounter() *atomic.Int32 {
	return &g.counter
}

// Pool returns the group's Executor (spec §6 "pool() -> Executor").
func (g *TaskGroup) Pool() Executor {
	return g.pool
}

// Wait blocks until every future scheduled through this group has
// completed. Spec §5(b): because a core decrements the counter only after
// its status store to Ready, every future scheduled through this group is
// observably Ready once Wait returns.
func (g *TaskGroup) Wait() {
	g.pool.Wait()
}

// WaitContext is Wait bounded by ctx, returning ctx.Err() if ctx is done
// before every scheduled future in the group has settled.
func (g *TaskGroup) WaitContext(ctx context.Context) error {
	return g.pool.WaitContext(ctx)
}
