// Copyright 2020 Ahmad Sameh(asmsh)
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

// Package future provides a reference-counted future primitive: a
// lock-free, allocator-tagged core that carries the result of a deferred
// computation, lets a waiter steal not-yet-started work onto its own
// goroutine, chains continuations without locks, and hands scheduling off
// to any collaborator shaped like an Executor.
//
// A future core has three states, and it is in only one of them at any
// time:
//
// NotStarted: the body has not run yet. A waiter with the deferred policy
// bit set may run it inline instead of blocking.
//
// Running: exactly one goroutine is executing the body. No other goroutine
// will ever run it.
//
// Ready: the body has finished (or the core was constructed already
// settled, as with MakeReady); the result or failure is fixed and safe to
// read from any number of goroutines.
//
// State only ever moves NotStarted -> Running -> Ready; it never moves
// back.
//
//
// General Notes:-
//
// * A core's result or failure is written exactly once, before its status
// becomes Ready, and is read-only thereafter.
//
// * A continuation attached with Then always runs exactly once, whether it
// was attached before or after the upstream core became Ready; there is no
// ordering guarantee between continuations attached at different times.
//
// * There is no cancellation of a running body. WaitFor/WaitUntil report a
// timeout without affecting the body's eventual completion.
//
//
// Scheduling Notes:-
//
// * Policy has two independent bits: Async forces a continuation through
// Executor.ScheduleForced (which must not run it inline), and Deferred
// permits a waiter to steal a not-yet-started body onto its own goroutine
// instead of blocking on the completion event.
//
// * ImmediateExecutor runs everything synchronously on the calling
// goroutine; InterceptingExecutor captures the first scheduled callable
// instead of running it. The combinators in combinators.go use an
// InterceptingExecutor to hold the closure that settles an aggregate; both
// types are also useful directly in tests.
//
// * Pool is a minimal, bounded, goroutine-backed Executor. The thread pool
// a real work-stealing scheduler would use is an external collaborator by
// design (see README-level spec); Pool exists only so this package is
// independently usable and testable without one.
package future
