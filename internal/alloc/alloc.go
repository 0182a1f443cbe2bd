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

// Package alloc provides the two allocator collaborators of spec §2/§4.4: a
// small-buffer, per-size-class slab allocator for objects that round up to a
// power of two no larger than 256 bytes, and an aligned-heap fallback for
// anything bigger.
//
// Go has no manual malloc/free, so "slab" and "aligned heap" are realized as
// two sync.Pool disciplines rather than raw memory arenas: small-class
// objects are returned to their type's pool on Dealloc (reused, like a
// slab), while heap-tagged objects are simply dropped for the garbage
// collector to reclaim (freed, like a one-off aligned allocation). Each
// concrete T has its own sync.Pool (see SlabPoolFor); two types in the same
// size class share no storage. The size classes key only the Stats ledger,
// which counts allocations per class across every pool.
package alloc

import (
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Tag records which allocator produced a given object, so the core can
// dispatch its self-destruction correctly (spec §3 "allocator_tag").
type Tag int

const (
	TagSmall Tag = iota
	TagHeap
)

// Class indexes the small-buffer size classes, 16 through 256 bytes.
type Class int

const (
	Class16 Class = iota
	Class32
	Class64
	Class128
	Class256
	numClasses
)

var classSizes = [numClasses]uintptr{16, 32, 64, 128, 256}

// ClassFor returns the smallest class that fits size and whether size falls
// within the small-buffer ceiling of 256 bytes (spec §4.4).
func ClassFor(size uintptr) (class Class, ok bool) {
	for c, limit := range classSizes {
		if size <= limit {
			return Class(c), true
		}
	}
	return 0, false
}

// Stats accounts outstanding allocations per class and for the heap
// fallback, backing the allocator-duality test of spec §8 property 6.
type Stats struct {
	smallAllocs   [numClasses]atomic.Int64
	smallDeallocs [numClasses]atomic.Int64
	heapAllocs    atomic.Int64
	heapDeallocs  atomic.Int64
}

// Global is the process-wide allocation ledger, mirroring the fact that the
// slabs described in spec §2 ("Allocator slabs are external and may be
// process-wide") are shared, not per-core, resources.
var Global Stats

func (s *Stats) recordAlloc(tag Tag, class Class) {
	if tag == TagSmall {
		s.smallAllocs[class].Add(1)
	} else {
		s.heapAllocs.Add(1)
	}
}

func (s *Stats) recordDealloc(tag Tag, class Class) {
	if tag == TagSmall {
		s.smallDeallocs[class].Add(1)
	} else {
		s.heapDeallocs.Add(1)
	}
}

// SmallOutstanding returns the current alloc-minus-dealloc count for class.
func (s *Stats) SmallOutstanding(class Class) int64 {
	return s.smallAllocs[class].Load() - s.smallDeallocs[class].Load()
}

// HeapOutstanding returns the current alloc-minus-dealloc count for the
// aligned-heap fallback.
func (s *Stats) HeapOutstanding() int64 {
	return s.heapAllocs.Load() - s.heapDeallocs.Load()
}

// Balanced reports whether every allocation, across every class and the
// heap fallback, has a matching deallocation.
func (s *Stats) Balanced() bool {
	for c := Class(0); c < numClasses; c++ {
		if s.SmallOutstanding(c) != 0 {
			return false
		}
	}
	return s.HeapOutstanding() == 0
}

// SlabPool is a small-buffer/aligned-heap allocator for T, selecting its
// allocation tag once at construction based on unsafe.Sizeof(T).
type SlabPool[T any] struct {
	pool  sync.Pool
	tag   Tag
	class Class
}

// NewSlabPool constructs a pool for T, computing T's rounded size class at
// construction time (spec §4.4 "On creation, the implementation computes
// the concrete core size").
func NewSlabPool[T any]() *SlabPool[T] {
	var zero T
	size := unsafe.Sizeof(zero)
	class, small := ClassFor(size)
	tag := TagHeap
	if small {
		tag = TagSmall
	}
	return &SlabPool[T]{
		pool:  sync.Pool{New: func() any { return new(T) }},
		tag:   tag,
		class: class,
	}
}

// Tag reports whether this pool serves the small-buffer or the aligned-heap
// path.
func (p *SlabPool[T]) Tag() Tag { return p.tag }

// Alloc returns a *T: a fresh zero value, or, when the pool is small-tagged,
// possibly an object reused from the slab that still holds the field values
// it had when it was passed to Dealloc.
func (p *SlabPool[T]) Alloc() *T {
	v := p.pool.Get().(*T)
	Global.recordAlloc(p.tag, p.class)
	return v
}

// Dealloc returns v to its allocator. Small-tagged objects go back to the
// slab for reuse; heap-tagged objects are simply released to the garbage
// collector, matching an aligned-heap allocation that is freed rather than
// pooled.
//
// T is opaque to this generic allocator and may embed sync/atomic types
// (atomic.Int32, atomic.Pointer[T], ...), which must never be struct-copied.
// Dealloc therefore returns v to the pool as-is; it is the caller's
// responsibility to reset every field it cares about before the next Alloc
// hands v back out, field-by-field via each type's own Store/Reset methods —
// the same discipline metalgrid-go-future's atomic.Future.Reset uses.
func (p *SlabPool[T]) Dealloc(v *T) {
	Global.recordDealloc(p.tag, p.class)
	if p.tag == TagSmall {
		p.pool.Put(v)
	}
}

var registry sync.Map // reflect.Type -> *SlabPool[T] (boxed as any)

// SlabPoolFor returns the process-wide SlabPool for T, creating it on first
// use. Go disallows generic package-level variables, so — following the
// same "one pool shared by every caller of a type" precedent as the
// teacher's package-level groupCore semaphore and metalgrid-go-future's
// package-level futurePool — the pool is memoized in a type-keyed sync.Map
// instead of a per-T package var.
func SlabPoolFor[T any]() *SlabPool[T] {
	var zero T
	key := reflect.TypeOf(&zero)
	if v, ok := registry.Load(key); ok {
		return v.(*SlabPool[T])
	}
	p := NewSlabPool[T]()
	actual, _ := registry.LoadOrStore(key, p)
	return actual.(*SlabPool[T])
}
