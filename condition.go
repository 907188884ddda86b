// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"context"
	"sync"
)

// Condition is a condition variable bound to a Lock. Unlike sync.Cond,
// Wait accepts a context.Context so waiting can be canceled without relying
// on a per-thread interrupt flag.
//
// The caller must hold lock before calling any Condition method.
type Condition struct {
	lock *Lock

	mu      sync.Mutex
	waiters []chan struct{}
}

// NewCondition creates a Condition bound to lock.
func NewCondition(lock *Lock) *Condition {
	return &Condition{lock: lock}
}

// Wait atomically releases lock (including any nested hold count) and
// blocks until signaled, broadcast to, or ctx is done, then re-acquires
// lock with its prior nested hold count before returning. If ctx is done
// before a signal arrives, Wait still regains the lock before returning the
// context's error.
func (c *Condition) Wait(ctx context.Context) error {
	c.lock.checkLock()

	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	c.mu.Unlock()

	n := c.lock.releaseLock()

	var err error
	select {
	case <-ch:
	case <-ctx.Done():
		err = ctx.Err()
		c.removeWaiter(ch)
	}

	if regainErr := c.lock.regainLock(context.Background(), n); regainErr != nil {
		return regainErr
	}
	return err
}

func (c *Condition) removeWaiter(ch chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range c.waiters {
		if w == ch {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

// Signal wakes one goroutine waiting on c, if any. The caller must hold the
// bound Lock.
func (c *Condition) Signal() {
	c.lock.checkLock()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.waiters) == 0 {
		return
	}
	ch := c.waiters[0]
	c.waiters = c.waiters[1:]
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Broadcast wakes every goroutine currently waiting on c. The caller must
// hold the bound Lock.
func (c *Condition) Broadcast() {
	c.lock.checkLock()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.waiters {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	c.waiters = nil
}
