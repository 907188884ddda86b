// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"errors"
	"sync"
	"testing"
)

func TestMPSCOfferRejectsNilElement(t *testing.T) {
	q := NewMPSC[*int]()
	if err := q.Offer(nil); !errors.Is(err, ErrNilElement) {
		t.Fatalf("offer(nil) = %v, want ErrNilElement", err)
	}
	if _, ok := q.Poll(); ok {
		t.Fatal("a rejected nil offer was enqueued")
	}
}

func TestMPSCOfferPollRoundTrip(t *testing.T) {
	q := NewMPSC[int]()
	if _, ok := q.Poll(); ok {
		t.Fatal("poll on empty queue returned an element")
	}
	if err := q.Offer(7); err != nil {
		t.Fatalf("offer: %v", err)
	}
	v, ok := q.Poll()
	if !ok || v != 7 {
		t.Fatalf("poll = (%v, %v), want (7, true)", v, ok)
	}
	if _, ok := q.Poll(); ok {
		t.Fatal("poll after drain returned an element")
	}
}

func TestMPSCPeekDoesNotRemove(t *testing.T) {
	q := NewMPSC[string]()
	_ = q.Offer("a")
	v, ok := q.Peek()
	if !ok || v != "a" {
		t.Fatalf("peek = (%v, %v), want (a, true)", v, ok)
	}
	v, ok = q.Poll()
	if !ok || v != "a" {
		t.Fatalf("poll after peek = (%v, %v), want (a, true)", v, ok)
	}
}

func TestMPSCClear(t *testing.T) {
	q := NewMPSC[int]()
	for i := 0; i < 5; i++ {
		_ = q.Offer(i)
	}
	q.Clear()
	if _, ok := q.Poll(); ok {
		t.Fatal("poll after Clear returned an element")
	}
	_ = q.Offer(42)
	v, ok := q.Poll()
	if !ok || v != 42 {
		t.Fatalf("poll after Clear+Offer = (%v, %v), want (42, true)", v, ok)
	}
}

// TestMPSCOrderUnderConcurrentProducers exercises invariant 1 (MPSC order):
// each producer's sequence must be observed by the single consumer in the
// order it was offered, and the union of all elements must match exactly.
func TestMPSCOrderUnderConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 20000

	q := NewMPSC[[2]int]() // [producerID, seq]

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p int) {
			defer wg.Done()
			for s := 0; s < perProducer; s++ {
				if err := q.Offer([2]int{p, s}); err != nil {
					t.Errorf("producer %d: offer: %v", p, err)
					return
				}
			}
		}(p)
	}

	lastSeq := make([]int, producers)
	for i := range lastSeq {
		lastSeq[i] = -1
	}
	count := 0
	for count < producers*perProducer {
		v, ok := q.Poll()
		if !ok {
			continue
		}
		p, s := v[0], v[1]
		if s != lastSeq[p]+1 {
			t.Fatalf("producer %d: out-of-order sequence %d after %d", p, s, lastSeq[p])
		}
		lastSeq[p] = s
		count++
	}
	wg.Wait()

	for p, last := range lastSeq {
		if last != perProducer-1 {
			t.Fatalf("producer %d: last sequence seen %d, want %d", p, last, perProducer-1)
		}
	}
}

func TestMPSCSize(t *testing.T) {
	q := NewMPSC[int]()
	for i := 0; i < 10; i++ {
		_ = q.Offer(i)
	}
	if n := q.Size(); n != 10 {
		t.Fatalf("Size() = %d, want 10", n)
	}
	_, _ = q.Poll()
	if n := q.Size(); n != 9 {
		t.Fatalf("Size() after one Poll = %d, want 9", n)
	}
}
