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
	"testing"
)

func TestWhenAllOverVector(t *testing.T) {
	handles := []Handle[int]{
		MakeReady(1),
		MakeReady(2),
		MakeReady(3),
	}
	agg := WhenAll(handles)
	got, err := agg.Get()
	if err != nil {
		t.Fatalf("WhenAll Get() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("WhenAll result has %d handles, want 3", len(got))
	}
	for i, want := range []int{1, 2, 3} {
		v, err := got[i].Get()
		if err != nil || v != want {
			t.Fatalf("handle %d = (%d, %v), want (%d, nil)", i, v, err, want)
		}
	}
}

func TestWhenAllEmpty(t *testing.T) {
	agg := WhenAll[int](nil)
	if !agg.Ready() {
		t.Fatal("WhenAll(nil) is not immediately Ready")
	}
	got, err := agg.Get()
	if err != nil || len(got) != 0 {
		t.Fatalf("WhenAll(nil) Get() = (%v, %v), want ([], nil)", got, err)
	}
}

func TestWhenAllPendingInputs(t *testing.T) {
	release1, release2 := make(chan struct{}), make(chan struct{})
	h1 := New[int](func() (int, error) { <-release1; return 1, nil }, newGoroutinePerCallExecutor(), Policy{Async: true})
	h2 := New[int](func() (int, error) { <-release2; return 2, nil }, newGoroutinePerCallExecutor(), Policy{Async: true})

	agg := WhenAll([]Handle[int]{h1, h2})
	if agg.Ready() {
		t.Fatal("WhenAll is Ready before every input settled")
	}

	close(release1)
	close(release2)

	got, err := agg.Get()
	if err != nil {
		t.Fatalf("WhenAll Get() error: %v", err)
	}
	v1, _ := got[0].Get()
	v2, _ := got[1].Get()
	if v1 != 1 || v2 != 2 {
		t.Fatalf("WhenAll preserved values = (%d, %d), want (1, 2)", v1, v2)
	}
}

func TestWhenAll2(t *testing.T) {
	pair := WhenAll2(MakeReady(1), MakeReady("two"))
	got, err := pair.Get()
	if err != nil {
		t.Fatalf("WhenAll2 Get() error: %v", err)
	}
	a, _ := got.First.Get()
	b, _ := got.Second.Get()
	if a != 1 || b != "two" {
		t.Fatalf("WhenAll2 = (%d, %q), want (1, \"two\")", a, b)
	}
}

func TestWhenAll3(t *testing.T) {
	triple := WhenAll3(MakeReady(1), MakeReady(2), MakeReady(3))
	got, err := triple.Get()
	if err != nil {
		t.Fatalf("WhenAll3 Get() error: %v", err)
	}
	a, _ := got.First.Get()
	b, _ := got.Second.Get()
	c, _ := got.Third.Get()
	if a != 1 || b != 2 || c != 3 {
		t.Fatalf("WhenAll3 = (%d, %d, %d), want (1, 2, 3)", a, b, c)
	}
}

func TestWhenAll4(t *testing.T) {
	quad := WhenAll4(MakeReady(1), MakeReady(2), MakeReady(3), MakeReady(4))
	got, err := quad.Get()
	if err != nil {
		t.Fatalf("WhenAll4 Get() error: %v", err)
	}
	a, _ := got.First.Get()
	b, _ := got.Second.Get()
	c, _ := got.Third.Get()
	d, _ := got.Fourth.Get()
	if a != 1 || b != 2 || c != 3 || d != 4 {
		t.Fatalf("WhenAll4 = (%d, %d, %d, %d), want (1, 2, 3, 4)", a, b, c, d)
	}
}

func TestWhenAllEmptyTuple(t *testing.T) {
	h := WhenAllEmptyTuple()
	if !h.Ready() {
		t.Fatal("WhenAllEmptyTuple is not immediately Ready")
	}
	if _, err := h.Get(); err != nil {
		t.Fatalf("WhenAllEmptyTuple Get() error: %v", err)
	}
}

func TestWhenAllFailureStaysOnInput(t *testing.T) {
	failing := New[int](func() (int, error) { return 0, testSentinelError("bad") }, ImmediateExecutor{}, Policy{})
	ok := MakeReady(1)

	agg := WhenAll([]Handle[int]{failing, ok})
	got, err := agg.Get()
	if err != nil {
		t.Fatalf("WhenAll's own Get() should not fail, got: %v", err)
	}
	if _, err := got[0].Get(); err == nil {
		t.Fatal("failing input's own Get() should still surface its failure")
	}
	if v, err := got[1].Get(); err != nil || v != 1 {
		t.Fatalf("ok input's Get() = (%d, %v), want (1, nil)", v, err)
	}
}
