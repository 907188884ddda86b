// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"sync"
	"sync/atomic"
)

// box holds one of LeftRight's two state copies behind a stable address, so
// "leftState"/"rightState" can be swapped by repointing rather than copying.
type box[S any] struct{ v S }

// LeftRight is a double-buffered reader/writer wrapper: readers never
// block and never CAS; writers serialize with each other and wait only for
// currently active readers to drain. S must be a type whose mutations are
// deterministic and replayable, since every writer mutation is applied
// twice — once to each copy.
type LeftRight[S any] struct {
	leftState   atomic.Pointer[box[S]]
	leftReaders atomic.Pointer[EEW]

	mu           sync.Mutex // serializes writers; the Java source's "lock" field
	rightState   *box[S]
	rightReaders EEW
}

// NewLeftRight creates a LeftRight starting with leftState and rightState as
// its two copies (both should represent the same logical value) and the
// default CounterEEW reader-counting strategy.
func NewLeftRight[S any](leftState, rightState S) *LeftRight[S] {
	return NewLeftRightWithEEW(leftState, NewCounterEEW(), rightState, NewCounterEEW())
}

// NewLeftRightWithEEW is like NewLeftRight but lets the caller pick the EEW
// implementation for each side, e.g. ShardedEEW under high reader fan-out.
func NewLeftRightWithEEW[S any](leftState S, leftReaders EEW, rightState S, rightReaders EEW) *LeftRight[S] {
	lr := &LeftRight[S]{rightState: &box[S]{v: rightState}, rightReaders: rightReaders}
	lr.leftState.Store(&box[S]{v: leftState})
	var lrEEW EEW = leftReaders
	lr.leftReaders.Store(&lrEEW)
	return lr
}

// Read calls fn with a consistent snapshot of the state: either exactly the
// pre-write or exactly the post-write value of every writer that has
// returned, never a partial mutation. fn must not retain the value it is
// given beyond the call.
func (lr *LeftRight[S]) Read(fn func(S)) {
	readers := *lr.leftReaders.Load()
	readers.Enter()
	defer readers.Exit()
	fn(lr.leftState.Load().v)
}

// Write applies mutate in place to both state copies under the writer lock,
// following the spec's literal six-step protocol: mutate right, swap state
// labels, wait for right-readers to drain, swap reader-counter labels, wait
// again, then mutate the now-right (former-left) copy.
func (lr *LeftRight[S]) Write(mutate func(*S)) {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	rs := lr.rightState
	mutate(&rs.v)

	ls := lr.leftState.Load()
	lr.leftState.Store(rs)
	lr.rightState = ls

	rr := lr.rightReaders
	rr.WaitEmpty()

	lrEEW := *lr.leftReaders.Load()
	lr.leftReaders.Store(&rr)
	lr.rightReaders = lrEEW

	lrEEW.WaitEmpty()

	mutate(&ls.v)
}

// WriteReplace is like Write but for state types that are replaced rather
// than mutated in place: replace receives the current value and returns
// the new one. Both copies end up holding replace's result.
func (lr *LeftRight[S]) WriteReplace(replace func(S) S) {
	lr.Write(func(s *S) {
		*s = replace(*s)
	})
}
