// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolExecutorRunsAllTasks(t *testing.T) {
	e := NewWorkerPoolExecutor(3)
	defer e.Close()

	const n = 200
	var ran atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		e.Execute(func() {
			ran.Add(1)
			wg.Done()
		})
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("not all tasks ran within 2s")
	}
	if got := ran.Load(); got != n {
		t.Fatalf("ran %d tasks, want %d", got, n)
	}
}

func TestWorkerPoolExecutorStartsNWorkersAndRunsEachTask(t *testing.T) {
	e := NewWorkerPoolExecutor(4)
	defer e.Close()

	if len(e.workers) != 4 {
		t.Fatalf("len(workers) = %d, want 4", len(e.workers))
	}

	var mu sync.Mutex
	seen := make(map[int]bool)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		idx := i
		wg.Add(1)
		e.Execute(func() {
			mu.Lock()
			seen[idx] = true
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()
	if len(seen) != 4 {
		t.Fatalf("saw %d distinct tasks run, want 4", len(seen))
	}
}

func TestWorkerPoolExecutorCloseDrainsPending(t *testing.T) {
	e := NewWorkerPoolExecutor(1)

	var ran atomic.Bool
	done := make(chan struct{})
	e.Execute(func() {
		ran.Store(true)
		close(done)
	})
	e.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pending task did not run before worker shut down")
	}
	if !ran.Load() {
		t.Fatal("task flagged as not run")
	}
}
