// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMPMCOfferRejectsNilElement(t *testing.T) {
	q := NewMPMC[*int]()
	if err := q.Offer(nil); !errors.Is(err, ErrNilElement) {
		t.Fatalf("offer(nil) = %v, want ErrNilElement", err)
	}
	if _, ok := q.Poll(); ok {
		t.Fatal("a rejected nil offer was enqueued")
	}
}

func TestMPMCOfferPollRoundTrip(t *testing.T) {
	q := NewMPMC[int]()
	if _, ok := q.Poll(); ok {
		t.Fatal("poll on empty queue returned an element")
	}
	_ = q.Offer(3)
	v, ok := q.Poll()
	if !ok || v != 3 {
		t.Fatalf("poll = (%v, %v), want (3, true)", v, ok)
	}
}

func TestMPMCRemoveAndForEach(t *testing.T) {
	q := NewMPMC[int]()
	for i := 1; i <= 5; i++ {
		_ = q.Offer(i)
	}
	eq := func(a, b int) bool { return a == b }
	if !q.Remove(3, eq) {
		t.Fatal("Remove(3) reported not found")
	}
	if q.Remove(3, eq) {
		t.Fatal("Remove(3) twice reported found")
	}

	var seen []int
	q.ForEach(func(v int) bool {
		seen = append(seen, v)
		return true
	})
	want := []int{1, 2, 4, 5}
	if len(seen) != len(want) {
		t.Fatalf("ForEach saw %v, want %v", seen, want)
	}
	for i, v := range want {
		if seen[i] != v {
			t.Fatalf("ForEach saw %v, want %v", seen, want)
		}
	}
}

func TestMPMCContainsAndIterator(t *testing.T) {
	q := NewMPMC[int]()
	for i := 0; i < 3; i++ {
		_ = q.Offer(i)
	}
	eq := func(a, b int) bool { return a == b }
	if !q.Contains(1, eq) {
		t.Fatal("Contains(1) = false")
	}
	if q.Contains(99, eq) {
		t.Fatal("Contains(99) = true")
	}

	it := q.Iterator()
	var got []int
	for {
		v, ok := it()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 3 {
		t.Fatalf("Iterator produced %v, want 3 elements", got)
	}
}

func TestMPMCClearDoesNotLoseSubsequentOffer(t *testing.T) {
	q := NewMPMC[int]()
	_ = q.Offer(1)
	q.Clear()
	_ = q.Offer(2)
	v, ok := q.Poll()
	if !ok || v != 2 {
		t.Fatalf("poll after Clear+Offer = (%v, %v), want (2, true)", v, ok)
	}
}

// TestMPMCAtMostOnce exercises invariant 2: every successful Offer is
// observed by exactly one successful Poll, across multiple concurrent
// producers and consumers.
func TestMPMCAtMostOnce(t *testing.T) {
	const producers = 4
	const perProducer = 20000
	const consumers = 4
	const total = producers * perProducer

	q := NewMPMC[int]()

	var produceWG sync.WaitGroup
	produceWG.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer produceWG.Done()
			base := p * perProducer
			for i := 0; i < perProducer; i++ {
				_ = q.Offer(base + i)
			}
		}(p)
	}

	seen := make([]int32, total)
	var consumed atomic.Int64
	var consumeWG sync.WaitGroup
	consumeWG.Add(consumers)
	for c := 0; c < consumers; c++ {
		go func() {
			defer consumeWG.Done()
			for consumed.Load() < int64(total) {
				v, ok := q.Poll()
				if !ok {
					continue
				}
				if atomic.AddInt32(&seen[v], 1) != 1 {
					t.Errorf("value %d consumed more than once", v)
				}
				consumed.Add(1)
			}
		}()
	}

	produceWG.Wait()
	consumeWG.Wait()

	for v, n := range seen {
		if n != 1 {
			t.Fatalf("value %d consumed %d times, want exactly 1", v, n)
		}
	}
}
