// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"sync"

	"github.com/eapache/queue"
)

// Executor is the external collaborator OrderedExecutor delegates actual
// execution to. Any conforming type works; OrderedExecutor never assumes
// task order, concurrency limits, or synchronicity beyond "Execute will
// eventually run task exactly once".
type Executor interface {
	Execute(task func())
}

// WorkerPoolExecutor is a small fixed-size worker pool Executor. Each
// worker owns a mutex-guarded github.com/eapache/queue ring buffer; tasks
// are spread round-robin across workers and woken via a per-worker
// condition variable.
type WorkerPoolExecutor struct {
	workers []*poolWorker
	next    uint64
	nextMu  sync.Mutex
}

type poolWorker struct {
	mu     sync.Mutex
	cond   *sync.Cond
	q      *queue.Queue
	closed bool
}

// NewWorkerPoolExecutor starts n worker goroutines and returns an Executor
// backed by them. n must be >= 1.
func NewWorkerPoolExecutor(n int) *WorkerPoolExecutor {
	if n < 1 {
		panic("concurrent: worker count must be >= 1")
	}
	e := &WorkerPoolExecutor{workers: make([]*poolWorker, n)}
	for i := range e.workers {
		w := &poolWorker{q: queue.New()}
		w.cond = sync.NewCond(&w.mu)
		e.workers[i] = w
		go w.run()
	}
	return e
}

func (w *poolWorker) run() {
	for {
		w.mu.Lock()
		for w.q.Length() == 0 && !w.closed {
			w.cond.Wait()
		}
		if w.q.Length() == 0 && w.closed {
			w.mu.Unlock()
			return
		}
		task := w.q.Remove().(func())
		w.mu.Unlock()
		task()
	}
}

// Execute schedules task on one of the pool's workers, chosen round-robin.
func (e *WorkerPoolExecutor) Execute(task func()) {
	e.nextMu.Lock()
	idx := e.next % uint64(len(e.workers))
	e.next++
	e.nextMu.Unlock()

	w := e.workers[idx]
	w.mu.Lock()
	w.q.Add(task)
	w.cond.Signal()
	w.mu.Unlock()
}

// Close stops all workers once their queues drain. Pending tasks already
// enqueued still run; Execute must not be called again after Close.
func (e *WorkerPoolExecutor) Close() {
	for _, w := range e.workers {
		w.mu.Lock()
		w.closed = true
		w.cond.Signal()
		w.mu.Unlock()
	}
}
