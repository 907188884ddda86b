// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"code.hybscloud.com/atomix"
)

const maxLockSpins = 100

// waiter is one entry in the lock's FIFO queue of parked goroutines. next is
// CAS-linked; signal moves 0 (ready) -> -1 (canceled, self-unregistered) or
// 0 -> 1 (the owner has targeted a wakeup at this waiter, and it must not
// unregister even if it also observes cancellation).
type waiter struct {
	goroutineID uint64
	wake        chan struct{}
	next        atomic.Pointer[waiter]
	signal      atomix.Int32
}

// invalidatedWaiter terminates a closed chain; its presence as some
// waiter's next tells pushWaiter to start a fresh chain from a new head.
var invalidatedWaiter = &waiter{}

// Lock is a reentrant mutual-exclusion lock combining an atomic fast path
// with a FIFO chain of parked waiters. Unlike sync.Mutex, the zero value is
// ready to use and Lock is safe to acquire more than once by the same
// goroutine (reentrant).
type Lock struct {
	_         pad
	lockCount atomix.Int32
	_         pad
	ownerID   atomix.Uint64 // 0 means unowned; goroutine IDs are never 0
	_         pad
	head      atomic.Pointer[waiter]
	_         pad
	tail      atomic.Pointer[waiter]
	_         pad
}

func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}

// Lock acquires the lock, blocking until it is available. Reentrant: if the
// calling goroutine already holds the lock, Lock increments the hold count
// and returns immediately.
func (l *Lock) Lock() {
	_ = l.acquire(context.Background(), 1)
}

// TryLock acquires the lock without blocking, reporting whether it
// succeeded.
func (l *Lock) TryLock() bool {
	gid := getGoroutineID()
	if l.ownerID.LoadAcquire() == gid {
		l.lockCount.AddAcqRel(1)
		return true
	}
	spins := maxLockSpins
	for spins > 0 {
		if l.head.Load() == nil && l.lockCount.CompareAndSwapAcqRel(0, 1) {
			l.ownerID.StoreRelease(gid)
			return true
		}
		spins--
	}
	return false
}

// TryLockTimeout acquires the lock, blocking up to d, reporting whether it
// succeeded within that time.
func (l *Lock) TryLockTimeout(d time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return l.acquire(ctx, 1) == nil
}

// LockContext acquires the lock, blocking until it is available or ctx is
// done. This is the cancellation-aware analogue of Java's
// lockInterruptibly.
func (l *Lock) LockContext(ctx context.Context) error {
	return l.acquire(ctx, 1)
}

func (l *Lock) acquire(ctx context.Context, lockIncrement int32) error {
	gid := getGoroutineID()
	if l.ownerID.LoadAcquire() == gid {
		l.lockCount.AddAcqRel(lockIncrement)
		return nil
	}

	var h *waiter
	spins := maxLockSpins
	for spins > 0 {
		h = l.head.Load()
		if h == nil && l.lockCount.CompareAndSwapAcqRel(0, lockIncrement) {
			l.ownerID.StoreRelease(gid)
			return nil
		}
		spins--
	}

	w := &waiter{goroutineID: gid, wake: make(chan struct{}, 1)}
	l.pushWaiter(h, w)

	for {
		if l.head.Load() == w && l.lockCount.CompareAndSwapAcqRel(0, lockIncrement) {
			l.ownerID.StoreRelease(gid)
			return nil
		}

		select {
		case <-w.wake:
			continue
		case <-ctx.Done():
			if w.signal.CompareAndSwapAcqRel(0, -1) {
				return ctx.Err()
			}
			// a signal has already been (or is about to be) targeted at us;
			// the wakeup must not be wasted, so spin-acquire instead of
			// unregistering.
			for !l.lockCount.CompareAndSwapAcqRel(0, lockIncrement) {
				runtime.Gosched()
			}
			l.ownerID.StoreRelease(gid)
			return nil
		}
	}
}

// pushWaiter appends w to the end of the waiter chain, starting a fresh
// chain if head is nil or the cached tail has been invalidated.
func (l *Lock) pushWaiter(head *waiter, w *waiter) {
	for {
		if head == nil {
			if l.head.CompareAndSwap(nil, w) {
				l.tail.Store(w)
				return
			}
		} else {
			t := l.tail.Load()
			if t == nil {
				t = head
			}
			for t != invalidatedWaiter {
				n := t.next.Load()
				if n == nil {
					if t.next.CompareAndSwap(nil, w) {
						l.tail.Store(w)
						return
					}
					continue
				}
				t = n
			}
		}
		head = l.head.Load()
	}
}

// Unlock releases one level of the hold. If the calling goroutine's hold
// count drops to zero, ownership passes to the next live waiter in chain
// order, if any. Unlock panics with ErrIllegalState if the calling
// goroutine does not hold the lock; use HeldByCaller to check first.
func (l *Lock) Unlock() {
	l.release(true)
}

func (l *Lock) release(nested bool) {
	gid := getGoroutineID()
	if l.ownerID.LoadAcquire() != gid {
		panic(ErrIllegalState)
	}

	if nested && l.lockCount.LoadAcquire() > 1 {
		l.lockCount.AddAcqRel(-1)
		return
	}

	l.ownerID.StoreRelease(0)
	l.lockCount.StoreRelease(0)

	for {
		h := l.head.Load()
		if h == nil {
			return
		}

		// h is only skipped when it is the releasing goroutine's own waiter
		// entry (left behind by the already-signaled race in acquire); any
		// other head waiter is still live and must be considered for wakeup.
		w, n := h, h
		if h.goroutineID == gid {
			n = h.next.Load()
		}
		for n != nil {
			if n.signal.CompareAndSwapAcqRel(0, 1) {
				l.head.Store(n)
				select {
				case n.wake <- struct{}{}:
				default:
				}
				return
			}
			w, n = n, n.next.Load()
		}

		if w.next.CompareAndSwap(nil, invalidatedWaiter) {
			l.tail.Store(invalidatedWaiter)
			l.head.Store(nil)
			return
		}
	}
}

// HeldByCaller reports whether the calling goroutine currently holds the
// lock.
func (l *Lock) HeldByCaller() bool {
	return l.ownerID.LoadAcquire() == getGoroutineID()
}

// HoldCount returns the calling goroutine's current nested hold count, or 0
// if it does not hold the lock.
func (l *Lock) HoldCount() int {
	if !l.HeldByCaller() {
		return 0
	}
	return int(l.lockCount.LoadAcquire())
}

// releaseLock is the MonitorCondition.Support bridge: it fully releases the
// lock (regardless of nesting depth) and returns the nested hold count so
// Condition.Wait can restore it on regain.
func (l *Lock) releaseLock() int {
	gid := getGoroutineID()
	if l.ownerID.LoadAcquire() != gid {
		panic(ErrIllegalState)
	}
	n := int(l.lockCount.LoadAcquire())
	l.release(false)
	return n
}

// regainLock re-acquires the lock with the given nested hold count,
// restoring it after a Condition.Wait.
func (l *Lock) regainLock(ctx context.Context, lockCount int) error {
	return l.acquire(ctx, int32(lockCount))
}

// checkLock panics with ErrIllegalState unless the calling goroutine owns
// the lock; used by Condition.Signal/Broadcast.
func (l *Lock) checkLock() {
	if !l.HeldByCaller() {
		panic(ErrIllegalState)
	}
}
