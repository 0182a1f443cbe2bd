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
	"sync"
)

// Executor is any collaborator that accepts scheduled callables (spec §6).
// A real work-stealing thread pool is an external collaborator named only
// by this interface (spec §2); Pool below is a minimal, concrete
// implementation kept in-package so futures here are independently usable
// and testable without one.
type Executor interface {
	// Schedule submits fn for execution; the executor is free to run it
	// inline on the calling goroutine.
	Schedule(fn func())

	// ScheduleForced submits fn for execution and must not run it inline
	// (spec §4.1 "Asynchronous bit set").
	ScheduleForced(fn func())
}

// ImmediateExecutor runs every scheduled callable synchronously on the
// calling goroutine. It is the GLOSSARY's "immediate invoker", directly
// useful in tests exercising S4's synchronous-continuation semantics.
// WhenAll's per-input continuations run inline the same way, but join calls
// them directly rather than through an ImmediateExecutor.
type ImmediateExecutor struct{}

func (ImmediateExecutor) Schedule(fn func())       { fn() }
func (ImmediateExecutor) ScheduleForced(fn func()) { fn() }

// InterceptingExecutor captures the first callable scheduled on it instead
// of running it — the GLOSSARY's "interception invoker" — so a caller can
// stash a completion closure and run it later, on its own terms. WhenAll
// uses one per aggregate to hold the closure that settles the aggregate
// core once every input is Ready (spec §4.5).
type InterceptingExecutor struct {
	captured func()
}

func (e *InterceptingExecutor) Schedule(fn func())       { e.captured = fn }
func (e *InterceptingExecutor) ScheduleForced(fn func()) { e.captured = fn }

// Run invokes the captured callable, if any, and clears it so Run is
// idempotent after the first call that finds one.
func (e *InterceptingExecutor) Run() {
	if e.captured != nil {
		c := e.captured
		e.captured = nil
		c()
	}
}

// PoolConfig configures a Pool, following the teacher's convention of typed
// constructor options (GroupConfig, PipelineConfig) rather than flags, env,
// or config files.
type PoolConfig struct {
	// Size bounds the number of callables Pool runs concurrently. Zero or
	// negative means unbounded.
	Size int
}

// Pool is a concrete, bounded, goroutine-backed Executor. Grounded on the
// teacher's groupCore (group.go): a sync.WaitGroup tracks outstanding work
// and a buffered channel acts as a counting semaphore enforcing Size.
//
// Both Schedule and ScheduleForced always spawn a genuine goroutine, so
// neither ever inlines — Pool trivially satisfies the "must not inline"
// requirement of ScheduleForced for both methods.
type Pool struct {
	wg      sync.WaitGroup
	reserve chan struct{}
}

// NewPool constructs a Pool per c.
func NewPool(c PoolConfig) *Pool {
	p := &Pool{}
	if c.Size > 0 {
		p.reserve = make(chan struct{}, c.Size)
	}
	return p
}

func (p *Pool) Schedule(fn func())       { p.spawn(fn) }
func (p *Pool) ScheduleForced(fn func()) { p.spawn(fn) }

func (p *Pool) spawn(fn func()) {
	p.wg.Add(1)
	if p.reserve != nil {
		p.reserve <- struct{}{}
	}
	go func() {
		defer p.wg.Done()
		defer func() {
			if p.reserve != nil {
				<-p.reserve
			}
		}()
		fn()
	}()
}

// Wait blocks until every callable scheduled on p so far has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// WaitContext blocks like Wait, but returns ctx.Err() early if ctx is done
// first. Per spec §7, this bounds only the wait for already-scheduled work
// to drain — it never cancels a body already running on a worker goroutine.
func (p *Pool) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
