// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// MPMC is an unbounded multi-producer multi-consumer linked FIFO queue.
//
// Offer, Poll, Peek, Remove, ForEach, Contains and Iterator are all safe to
// call concurrently from any number of goroutines.
type MPMC[E any] struct {
	_    pad
	tail atomic.Pointer[node[E]]
	_    pad
	head atomic.Pointer[node[E]]
	_    pad
}

// NewMPMC creates an empty MPMC queue.
func NewMPMC[E any]() *MPMC[E] {
	sentinel := &node[E]{}
	q := &MPMC[E]{}
	q.tail.Store(sentinel)
	q.head.Store(sentinel)
	return q
}

func (q *MPMC[E]) putNode(x E) *node[E] {
	n := newNode(x)
	prev := q.head.Swap(n)
	prev.next.Store(n)
	return n
}

// Offer enqueues x. Never blocks. Rejects a nil x (pointer, interface, map,
// slice, func or chan) with ErrNilElement.
func (q *MPMC[E]) Offer(x E) error {
	if isNilElement(x) {
		return ErrNilElement
	}
	q.putNode(x)
	return nil
}

// Poll removes and returns an element, or (zero, false) if the queue is
// empty. Many consumers may call Poll concurrently; each successful Offer
// is observed by exactly one successful Poll.
func (q *MPMC[E]) Poll() (E, bool) {
	sw := spin.Wait{}
	for {
		t := q.tail.Load()
		n := t.next.Load()
		if n == nil {
			var zero E
			return zero, false
		}
		if !q.tail.CompareAndSwap(t, n) {
			sw.Once()
			continue
		}
		if e, ok := n.clear(); ok {
			return e, true
		}
		sw.Once()
	}
}

// Peek returns a live element without removing it, pruning tombstones it
// encounters along the way, or (zero, false) if the queue is empty.
func (q *MPMC[E]) Peek() (E, bool) {
	t := q.tail.Load()
	for {
		n := t.next.Load()
		if n == nil {
			var zero E
			return zero, false
		}
		if e, ok := n.get(); ok {
			return e, ok
		}
		if q.tail.CompareAndSwap(t, n) {
			t = n
		} else {
			t = q.tail.Load()
		}
	}
}

// Remove tombstones the first element equal to x, as judged by eq, and
// reports whether an element was removed. The node itself remains linked
// until a subsequent traversal prunes it.
func (q *MPMC[E]) Remove(x E, eq func(a, b E) bool) bool {
	for n := q.tail.Load().next.Load(); n != nil; n = n.next.Load() {
		if n.casElementIf(eq, x) {
			return true
		}
	}
	return false
}

// Contains reports whether any live element equals x, as judged by eq.
func (q *MPMC[E]) Contains(x E, eq func(a, b E) bool) bool {
	for n := q.tail.Load().next.Load(); n != nil; n = n.next.Load() {
		if e, ok := n.get(); ok && eq(e, x) {
			return true
		}
	}
	return false
}

// ForEach calls action for every live element in queue order, pruning
// tombstones it encounters along the way. If action returns false,
// iteration stops early.
func (q *MPMC[E]) ForEach(action func(E) bool) {
	var p *node[E]
	t := q.tail.Load()
	n := t.next.Load()
	for n != nil {
		e, ok := n.get()
		if !ok {
			if p == nil {
				if q.tail.CompareAndSwap(t, n) {
					t = n
				} else {
					t = q.tail.Load()
				}
			} else {
				// unlink n from its live predecessor t; the last node is
				// never unlinked, since producers still append after it
				nn := n.next.Load()
				if nn == nil || !t.next.CompareAndSwap(n, nn) {
					p = t
					t = n
				}
			}
		} else {
			if !action(e) {
				return
			}
			p = t
			t = n
		}
		n = t.next.Load()
	}
}

// Iterator returns a pull-style iterator over live elements, skipping
// tombstones as it advances; it does not unlink them. Calling the returned
// function after it has returned ok=false continues to return ok=false.
func (q *MPMC[E]) Iterator() func() (E, bool) {
	n := q.tail.Load().next.Load()
	return func() (E, bool) {
		for n != nil {
			e, ok := n.get()
			if ok {
				cur := n
				n = cur.next.Load()
				return e, true
			}
			n = n.next.Load()
		}
		var zero E
		return zero, false
	}
}

// Size walks the chain and returns the approximate count of live elements.
// Intended for debugging; the result may be stale by the time it returns.
func (q *MPMC[E]) Size() int {
	size := 0
	for n := q.tail.Load().next.Load(); n != nil; n = n.next.Load() {
		if _, ok := n.get(); ok {
			size++
		}
	}
	return size
}

// Clear discards all elements. A fresh sentinel is installed as the new
// head first, then as the new tail, so that concurrent Offers racing with
// Clear are never lost.
func (q *MPMC[E]) Clear() {
	n := &node[E]{}
	q.head.Store(n)
	q.tail.Store(n)
}
