// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import "code.hybscloud.com/atomix"

// BoundedMPSC wraps MPSC with a capacity enforced via eventually-consistent
// ingress/egress counters. Offer/Poll delegate to the unbounded queue;
// Size() == ingress - egress is a conservative upper bound that may
// momentarily overshoot under concurrent producers by at most O(producers),
// an accepted tradeoff (see DESIGN.md).
type BoundedMPSC[E any] struct {
	_        pad
	ingress  atomix.Uint64
	_        pad
	egress   atomix.Uint64
	_        pad
	capacity int
	q        *MPSC[E]
}

// NewBoundedMPSC creates a bounded MPSC wrapper with the given capacity.
func NewBoundedMPSC[E any](capacity int) *BoundedMPSC[E] {
	if capacity < 1 {
		panic("concurrent: capacity must be >= 1")
	}
	return &BoundedMPSC[E]{capacity: capacity, q: NewMPSC[E]()}
}

// Offer enqueues x, returning ErrWouldBlock if the queue is at capacity.
func (b *BoundedMPSC[E]) Offer(x E) error {
	if int(b.ingress.LoadRelaxed()-b.egress.LoadAcquire()) >= b.capacity {
		return ErrWouldBlock
	}
	if err := b.q.Offer(x); err != nil {
		return err
	}
	b.ingress.AddAcqRel(1)
	return nil
}

// Poll dequeues an element, or returns (zero, ErrWouldBlock) if empty.
func (b *BoundedMPSC[E]) Poll() (E, error) {
	e, ok := b.q.Poll()
	if !ok {
		var zero E
		return zero, ErrWouldBlock
	}
	b.egress.AddAcqRel(1)
	return e, nil
}

// Drain removes up to max elements, non-blocking, and returns them in FIFO
// order. len(result) may be less than max if the queue empties first.
func (b *BoundedMPSC[E]) Drain(max int) []E {
	out := make([]E, 0, max)
	for len(out) < max {
		e, err := b.Poll()
		if err != nil {
			break
		}
		out = append(out, e)
	}
	return out
}

// Size returns a conservative upper bound on the current element count.
func (b *BoundedMPSC[E]) Size() int {
	n := int(b.ingress.LoadRelaxed() - b.egress.LoadAcquire())
	if n < 0 {
		return 0
	}
	return n
}

// RemainingCapacity returns capacity - Size(), floored at 0.
func (b *BoundedMPSC[E]) RemainingCapacity() int {
	r := b.capacity - b.Size()
	if r < 0 {
		return 0
	}
	return r
}

// Capacity returns the configured capacity.
func (b *BoundedMPSC[E]) Capacity() int { return b.capacity }

// BoundedMPMC is the MPMC analogue of BoundedMPSC.
type BoundedMPMC[E any] struct {
	_        pad
	ingress  atomix.Uint64
	_        pad
	egress   atomix.Uint64
	_        pad
	capacity int
	q        *MPMC[E]
}

// NewBoundedMPMC creates a bounded MPMC wrapper with the given capacity.
func NewBoundedMPMC[E any](capacity int) *BoundedMPMC[E] {
	if capacity < 1 {
		panic("concurrent: capacity must be >= 1")
	}
	return &BoundedMPMC[E]{capacity: capacity, q: NewMPMC[E]()}
}

// Offer enqueues x, returning ErrWouldBlock if the queue is at capacity.
func (b *BoundedMPMC[E]) Offer(x E) error {
	if int(b.ingress.LoadRelaxed()-b.egress.LoadAcquire()) >= b.capacity {
		return ErrWouldBlock
	}
	if err := b.q.Offer(x); err != nil {
		return err
	}
	b.ingress.AddAcqRel(1)
	return nil
}

// Poll dequeues an element, or returns (zero, ErrWouldBlock) if empty.
func (b *BoundedMPMC[E]) Poll() (E, error) {
	e, ok := b.q.Poll()
	if !ok {
		var zero E
		return zero, ErrWouldBlock
	}
	b.egress.AddAcqRel(1)
	return e, nil
}

// Drain removes up to max elements, non-blocking, in poll order.
func (b *BoundedMPMC[E]) Drain(max int) []E {
	out := make([]E, 0, max)
	for len(out) < max {
		e, err := b.Poll()
		if err != nil {
			break
		}
		out = append(out, e)
	}
	return out
}

// Size returns a conservative upper bound on the current element count.
func (b *BoundedMPMC[E]) Size() int {
	n := int(b.ingress.LoadRelaxed() - b.egress.LoadAcquire())
	if n < 0 {
		return 0
	}
	return n
}

// RemainingCapacity returns capacity - Size(), floored at 0.
func (b *BoundedMPMC[E]) RemainingCapacity() int {
	r := b.capacity - b.Size()
	if r < 0 {
		return 0
	}
	return r
}

// Capacity returns the configured capacity.
func (b *BoundedMPMC[E]) Capacity() int { return b.capacity }
