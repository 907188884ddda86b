// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed immediately:
// a bounded queue is full on offer, or empty on poll.
//
// ErrWouldBlock is a control flow signal, not a failure. Callers of the
// blocking facades never see it; callers of the raw bounded/unbounded
// offer/poll operations should retry with backoff.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal, not a failure.
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}

var (
	// ErrIllegalState is the panic value when an operation is attempted
	// outside the context it requires: releasing a lock the caller does not
	// hold, using a Condition whose Lock the caller does not own.
	ErrIllegalState = errors.New("concurrent: illegal state")

	// ErrTimeout is returned by the blocking facades' PutTimeout/TakeTimeout
	// when they reach their deadline without succeeding.
	ErrTimeout = errors.New("concurrent: timed out")

	// ErrNilElement is returned by MPSC.Offer and MPMC.Offer when the
	// element argument is nil: a nil pointer, interface, map, slice, func or
	// chan value. Element types with no nil representation (numbers,
	// structs, arrays) never trigger it.
	ErrNilElement = errors.New("concurrent: nil element")

	// ErrExpired reports an ExpirableTask whose deadline passed before it
	// could be started: OrderedExecutor.SubmitExpirable returns it, or passes
	// it to OnError if the deadline passes while the task is queued.
	ErrExpired = errors.New("concurrent: task expired before execution")
)
