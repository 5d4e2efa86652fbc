// Copyright 2026 go-zimg Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workerpool

import (
	"sync/atomic"
	"testing"
)

func TestRunExecutesEveryJobOnce(t *testing.T) {
	p := New(4)
	defer p.Close()

	const n = 100
	var counts [n]atomic.Int32
	jobs := make([]func(), n)
	for i := range jobs {
		i := i
		jobs[i] = func() { counts[i].Add(1) }
	}
	p.Run(jobs)

	for i := range counts {
		if got := counts[i].Load(); got != 1 {
			t.Errorf("job %d ran %d times, want 1", i, got)
		}
	}
}

func TestRunEmpty(t *testing.T) {
	p := New(2)
	defer p.Close()
	p.Run(nil) // must not block
}

func TestDefaultWorkerCount(t *testing.T) {
	p := New(0)
	defer p.Close()
	if p.NumWorkers() < 1 {
		t.Errorf("NumWorkers() = %d, want at least 1", p.NumWorkers())
	}
}

func TestRunAfterClose(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close() // idempotent

	var ran atomic.Int32
	p.Run([]func(){
		func() { ran.Add(1) },
		func() { ran.Add(1) },
	})
	if got := ran.Load(); got != 2 {
		t.Errorf("closed pool ran %d jobs, want 2", got)
	}
}

func TestRunReusableAcrossBatches(t *testing.T) {
	p := New(3)
	defer p.Close()

	var total atomic.Int32
	for batch := 0; batch < 10; batch++ {
		jobs := make([]func(), 7)
		for i := range jobs {
			jobs[i] = func() { total.Add(1) }
		}
		p.Run(jobs)
	}
	if got := total.Load(); got != 70 {
		t.Errorf("ran %d jobs across batches, want 70", got)
	}
}
