// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package concurrent provides a small set of lock-free and hybrid
// coordination primitives for shared-memory programs:
//
//   - MPSC / MPMC: unbounded, node-linked FIFO queues, plus bounded
//     wrappers and spin/yield/park blocking facades over either.
//   - Lock: a reentrant mutual-exclusion lock with an atomic fast path and
//     a parked-waiter chain for fairness under contention.
//   - Condition: a condition variable bound to a Lock.
//   - LeftRight: a double-buffered reader/writer wrapper giving wait-free
//     reads with eventually-consistent writer visibility.
//   - OrderedExecutor: per-key serialization of tasks submitted to an
//     arbitrary Executor, without blocking worker goroutines.
//
// # Queues
//
//	q := concurrent.NewMPMC[int]()
//	_ = q.Offer(42)
//	v, ok := q.Poll()
//
// Bounded variants track size via eventually-consistent ingress/egress
// counters rather than by allocating fixed storage:
//
//	bq := concurrent.NewBoundedMPSC[int](1024)
//	if err := bq.Offer(1); concurrent.IsWouldBlock(err) {
//	    // at capacity
//	}
//
// Blocking facades add Put/Take on top of any bounded queue:
//
//	bc := concurrent.NewBlockingSC[int](bq)
//	bc.Put(context.Background(), 1)
//	v, err := bc.Take(context.Background())
//
// # Lock
//
//	var l concurrent.Lock
//	l.Lock()
//	defer l.Unlock()
//
// LockContext supports cancellation in place of Java's thread-interrupt
// model:
//
//	if err := l.LockContext(ctx); err != nil {
//	    // ctx was canceled before the lock was acquired
//	}
//
// # LeftRight
//
//	lr := concurrent.NewLeftRight(map[string]int{}, map[string]int{})
//	lr.Read(func(m map[string]int) { _ = m["x"] })
//	lr.Write(func(m *map[string]int) { (*m)["x"]++ })
//
// # Ordered execution
//
//	oe := concurrent.NewOrderedExecutor(concurrent.NewWorkerPoolExecutor(4))
//	oe.Submit("user-42", func() error { return nil })
package concurrent
