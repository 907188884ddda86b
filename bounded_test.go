// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"errors"
	"sync"
	"testing"
)

func TestBoundedMPSCCapacityExceeded(t *testing.T) {
	bq := NewBoundedMPSC[int](2)
	if err := bq.Offer(1); err != nil {
		t.Fatalf("offer 1: %v", err)
	}
	if err := bq.Offer(2); err != nil {
		t.Fatalf("offer 2: %v", err)
	}
	if err := bq.Offer(3); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("offer at capacity = %v, want ErrWouldBlock", err)
	}
	if _, err := bq.Poll(); err != nil {
		t.Fatalf("poll: %v", err)
	}
	if err := bq.Offer(3); err != nil {
		t.Fatalf("offer after drain: %v", err)
	}
}

func TestBoundedMPSCSizeAndRemainingCapacity(t *testing.T) {
	bq := NewBoundedMPSC[int](4)
	_ = bq.Offer(1)
	_ = bq.Offer(2)
	if bq.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", bq.Size())
	}
	if bq.RemainingCapacity() != 2 {
		t.Fatalf("RemainingCapacity() = %d, want 2", bq.RemainingCapacity())
	}
}

func TestBoundedMPSCDrain(t *testing.T) {
	bq := NewBoundedMPSC[int](8)
	for i := 0; i < 5; i++ {
		_ = bq.Offer(i)
	}
	got := bq.Drain(10)
	if len(got) != 5 {
		t.Fatalf("Drain returned %d elements, want 5", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("Drain()[%d] = %d, want %d", i, v, i)
		}
	}
}

// TestBoundedMPMCNeverUnderReportsAfterOffer exercises invariant 4: a
// successful Offer implies an ingress increment, so Size() never drops
// below the number of successful offers minus successful polls so far.
func TestBoundedMPMCNeverUnderReportsAfterOffer(t *testing.T) {
	const producers = 8
	const perProducer = 5000
	bq := NewBoundedMPMC[int](producers * perProducer)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := bq.Offer(i); err != nil {
					t.Errorf("offer: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if got := bq.Size(); got != producers*perProducer {
		t.Fatalf("Size() = %d, want %d", got, producers*perProducer)
	}
}
