// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"code.hybscloud.com/spin"
)

// timeoutToErrTimeout translates the context.DeadlineExceeded produced by an
// internal context.WithTimeout into ErrTimeout, so PutTimeout/TakeTimeout
// report a timed-out wait distinctly from an externally canceled one.
func timeoutToErrTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}

// defaultSpins is the number of bounded-spin iterations attempted before a
// blocking operation falls back to yielding (and, on the consumer side,
// parking). It is shrunk to 1 under the race detector, whose own overhead
// otherwise swamps the spin phase.
var defaultSpins = func() int {
	if RaceEnabled {
		return 1
	}
	return 5
}()

// boundedQueue is the minimal collaborator a blocking facade needs: a
// non-blocking Offer/Poll pair, satisfied by both BoundedMPSC and
// BoundedMPMC.
type boundedQueue[E any] interface {
	Offer(E) error
	Poll() (E, error)
}

func backoffSpin(sw *spin.Wait, c int) int {
	if c < defaultSpins {
		sw.Once()
		return c + 1
	}
	sw.Once()
	return c
}

// BlockingSC adds Put/Take blocking semantics to a bounded single-consumer
// queue. Take must only be called from one goroutine at a time; Put is safe
// from any number of producer goroutines.
type BlockingSC[E any] struct {
	q        boundedQueue[E]
	consumer atomic.Pointer[chan struct{}]
	_        padPtr
}

// NewBlockingSC wraps q with blocking Put/Take.
func NewBlockingSC[E any](q boundedQueue[E]) *BlockingSC[E] {
	return &BlockingSC[E]{q: q}
}

// Put blocks, spinning then yielding, until x is accepted or ctx is done.
func (b *BlockingSC[E]) Put(ctx context.Context, x E) error {
	sw := spin.Wait{}
	c := 0
	for {
		if err := b.q.Offer(x); err == nil {
			b.wakeConsumer()
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c = backoffSpin(&sw, c)
	}
}

// PutTimeout is like Put but blocks for at most d, returning ErrTimeout
// instead of the underlying context.DeadlineExceeded if x was not accepted
// in time.
func (b *BlockingSC[E]) PutTimeout(d time.Duration, x E) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return timeoutToErrTimeout(b.Put(ctx, x))
}

func (b *BlockingSC[E]) wakeConsumer() {
	ch := b.consumer.Load()
	if ch == nil {
		return
	}
	select {
	case *ch <- struct{}{}:
	default:
	}
}

// Take blocks, spinning, then yielding, then parking, until an element is
// available or ctx is done. Take must not be called from more than one
// goroutine concurrently on the same BlockingSC.
func (b *BlockingSC[E]) Take(ctx context.Context) (E, error) {
	sw := spin.Wait{}
	c := 0
	for c < defaultSpins {
		if e, err := b.q.Poll(); err == nil {
			return e, nil
		}
		if err := ctx.Err(); err != nil {
			var zero E
			return zero, err
		}
		c = backoffSpin(&sw, c)
	}

	ch := make(chan struct{}, 1)
	b.consumer.Store(&ch)
	defer b.consumer.Store(nil)

	for {
		// poll once more after registering to close the missed-wakeup race
		if e, err := b.q.Poll(); err == nil {
			return e, nil
		}
		select {
		case <-ch:
			continue
		case <-ctx.Done():
			var zero E
			return zero, ctx.Err()
		}
	}
}

// TakeTimeout is like Take but blocks for at most d, returning ErrTimeout
// instead of the underlying context.DeadlineExceeded if no element became
// available in time.
func (b *BlockingSC[E]) TakeTimeout(d time.Duration) (E, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	e, err := b.Take(ctx)
	return e, timeoutToErrTimeout(err)
}

// BlockingMC adds Put/Take blocking semantics to a bounded multi-consumer
// queue. Both Put and Take are safe to call from any number of goroutines
// concurrently.
type BlockingMC[E any] struct {
	q         boundedQueue[E]
	consumers *MPMC[chan struct{}]
}

// NewBlockingMC wraps q with blocking Put/Take for multiple consumers.
func NewBlockingMC[E any](q boundedQueue[E]) *BlockingMC[E] {
	return &BlockingMC[E]{q: q, consumers: NewMPMC[chan struct{}]()}
}

// Put blocks, spinning then yielding, until x is accepted or ctx is done.
// On success it wakes every currently registered parked consumer.
func (b *BlockingMC[E]) Put(ctx context.Context, x E) error {
	sw := spin.Wait{}
	c := 0
	for {
		if err := b.q.Offer(x); err == nil {
			b.consumers.ForEach(func(ch chan struct{}) bool {
				select {
				case ch <- struct{}{}:
				default:
				}
				return true
			})
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c = backoffSpin(&sw, c)
	}
}

// PutTimeout is like Put but blocks for at most d, returning ErrTimeout
// instead of the underlying context.DeadlineExceeded if x was not accepted
// in time.
func (b *BlockingMC[E]) PutTimeout(d time.Duration, x E) error {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return timeoutToErrTimeout(b.Put(ctx, x))
}

// Take blocks, spinning, then yielding, then parking, until an element is
// available or ctx is done.
func (b *BlockingMC[E]) Take(ctx context.Context) (E, error) {
	sw := spin.Wait{}
	c := 0
	for c < defaultSpins {
		if e, err := b.q.Poll(); err == nil {
			return e, nil
		}
		if err := ctx.Err(); err != nil {
			var zero E
			return zero, err
		}
		c = backoffSpin(&sw, c)
	}

	ch := make(chan struct{}, 1)
	_ = b.consumers.Offer(ch)
	defer b.consumers.Remove(ch, func(a, c chan struct{}) bool { return a == c })

	for {
		if e, err := b.q.Poll(); err == nil {
			return e, nil
		}
		select {
		case <-ch:
			continue
		case <-ctx.Done():
			var zero E
			return zero, ctx.Err()
		}
	}
}

// TakeTimeout is like Take but blocks for at most d, returning ErrTimeout
// instead of the underlying context.DeadlineExceeded if no element became
// available in time.
func (b *BlockingMC[E]) TakeTimeout(d time.Duration) (E, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	e, err := b.Take(ctx)
	return e, timeoutToErrTimeout(err)
}
