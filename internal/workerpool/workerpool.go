// Copyright 2026 go-zimg Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a persistent worker pool for the strip
// parallelism of the graph driver. A Pool is created once and reused
// across frames, so per-frame traversals pay no goroutine spawn cost.
package workerpool

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a persistent worker pool. Workers are spawned at creation and
// reused until Close.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a pool with the given number of workers. If numWorkers <= 0,
// GOMAXPROCS is used.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for i := 0; i < numWorkers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts the pool down. Pending work completes. Safe to call twice.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// Run executes jobs concurrently on the pool and blocks until all of them
// return. Each job runs exactly once. A closed pool runs the jobs
// sequentially on the calling goroutine.
func (p *Pool) Run(jobs []func()) {
	if len(jobs) == 0 {
		return
	}
	if p.closed.Load() || len(jobs) == 1 {
		for _, fn := range jobs {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(jobs))
	for _, fn := range jobs {
		p.workC <- workItem{fn: fn, barrier: &wg}
	}
	wg.Wait()
}
