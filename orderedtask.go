// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

const (
	taskFirst int32 = iota
	taskChained
	taskTriggered
)

// orderedTask is one wrapped task in a per-key chain. state and next
// implement the FIRST/CHAINED/TRIGGERED handoff protocol: at most one
// goroutine at a time ever runs the chain for a given key, and every
// wrapped task runs exactly once.
type orderedTask struct {
	task func() error
	key  any
	oe   *OrderedExecutor

	state atomix.Int32
	next  chan *orderedTask // capacity 1, populated at most once
}

// multiError aggregates a primary error plus any further errors observed
// while draining a chain, mirroring Throwable.addSuppressed without
// flattening which error was first.
type multiError struct {
	primary    error
	suppressed []error
}

func (m *multiError) add(err error) {
	if err == nil {
		return
	}
	if m.primary == nil {
		m.primary = err
		return
	}
	m.suppressed = append(m.suppressed, err)
}

func (m *multiError) err() error {
	if m.primary == nil {
		return nil
	}
	if len(m.suppressed) == 0 {
		return m.primary
	}
	return m
}

func (m *multiError) Error() string {
	var b strings.Builder
	b.WriteString(m.primary.Error())
	for _, s := range m.suppressed {
		b.WriteString("; suppressed: ")
		b.WriteString(s.Error())
	}
	return b.String()
}

func (m *multiError) Unwrap() []error {
	return append([]error{m.primary}, m.suppressed...)
}

func runCapturingPanic(task func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("concurrent: task panicked: %v", r)
		}
	}()
	return task()
}

// OrderedExecutor serializes execution of tasks submitted under the same
// key, in submission order, on top of an arbitrary Executor. Tasks
// submitted under different keys run without any ordering guarantee
// between them, and may run concurrently.
type OrderedExecutor struct {
	exec      Executor
	lastTasks sync.Map // key -> *orderedTask

	// OnError, if non-nil, is called with the aggregated error from a
	// key's chain whenever one or more of its tasks return a non-nil
	// error. It is invoked on the goroutine that drained the chain.
	OnError func(key any, err error)
}

// NewOrderedExecutor wraps exec with per-key task ordering.
func NewOrderedExecutor(exec Executor) *OrderedExecutor {
	return &OrderedExecutor{exec: exec}
}

// Submit wraps task and key, chains it behind any not-yet-finished task
// previously submitted for the same key, and hands the wrapper to the
// underlying Executor. Submit never blocks.
func (oe *OrderedExecutor) Submit(key any, task func() error) {
	newTask := &orderedTask{task: task, key: key, oe: oe, next: make(chan *orderedTask, 1)}

	prev, loaded := oe.lastTasks.Swap(key, newTask)
	if loaded {
		newTask.state.StoreRelease(taskChained)
		putUninterruptibly(prev.(*orderedTask).next, newTask)
	} else {
		newTask.state.StoreRelease(taskFirst)
	}

	oe.exec.Execute(newTask.run)
}

// ExpirableTask is a task with a deadline: OrderedExecutor.SubmitExpirable
// rejects it with ErrExpired without running it if the deadline has
// already passed by the time it would start.
type ExpirableTask struct {
	Deadline time.Time
	Run      func() error
}

// SubmitExpirable is like Submit but for an ExpirableTask; it returns
// ErrExpired immediately, without ever calling Run, if t.Deadline is
// non-zero and has already passed. If the deadline passes while the task
// waits to start, Run is not called and ErrExpired is passed to OnError.
func (oe *OrderedExecutor) SubmitExpirable(key any, t ExpirableTask) error {
	if !t.Deadline.IsZero() && time.Now().After(t.Deadline) {
		return ErrExpired
	}
	oe.Submit(key, func() error {
		if !t.Deadline.IsZero() && time.Now().After(t.Deadline) {
			return ErrExpired
		}
		return t.Run()
	})
	return nil
}

// run is invoked by the Executor exactly once per orderedTask. Only the
// goroutine that observes itself transitioning FIRST->TRIGGERED actually
// drains the chain; every other invocation is a no-op CAS.
func (t *orderedTask) run() {
	old := t.state.LoadAcquire()
	for !t.state.CompareAndSwapAcqRel(old, taskTriggered) {
		old = t.state.LoadAcquire()
	}
	if old != taskFirst {
		return
	}

	var errs multiError
	for ordered := t; ordered != nil; {
		errs.add(runCapturingPanic(ordered.task))

		if t.oe.lastTasks.CompareAndDelete(ordered.key, ordered) {
			ordered = nil
			break
		}

		next := takeUninterruptibly(ordered.next)
		prevState := next.state.LoadAcquire()
		for !next.state.CompareAndSwapAcqRel(prevState, taskFirst) {
			prevState = next.state.LoadAcquire()
		}
		if prevState == taskTriggered {
			ordered = next
		} else {
			ordered = nil
		}
	}

	if err := errs.err(); err != nil && t.oe.OnError != nil {
		t.oe.OnError(t.key, err)
	}
}

// putUninterruptibly is BlockingQueue.put ignoring interrupts, ported as a
// named helper per the teacher's habit of naming small blocking steps even
// where Go's channel send has no interrupt flag left to suppress.
func putUninterruptibly(ch chan *orderedTask, v *orderedTask) {
	ch <- v
}

// takeUninterruptibly is BlockingQueue.take ignoring interrupts.
func takeUninterruptibly(ch chan *orderedTask) *orderedTask {
	return <-ch
}
