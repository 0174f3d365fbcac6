// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

// Package concurrent provides the primitives the ingestion worker uses to
// bound and serialize concurrent work.
package concurrent

import (
	"golang.org/x/sync/errgroup"
)

// WorkerPool bounds the number of ingestion jobs executing at once. Jobs
// are submitted as they arrive from the queue; Submit blocks once the limit
// is reached, which back-pressures the subscription instead of piling up
// goroutines.
type WorkerPool struct {
	group *errgroup.Group
}

// NewWorkerPool creates a pool executing at most workerCount jobs at once.
func NewWorkerPool(workerCount int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(workerCount)
	return &WorkerPool{group: g}
}

// Submit schedules fn on the pool, blocking while all workers are busy.
// Job errors are handled inside fn (logged, dead-lettered); they are not
// propagated through the pool.
func (wp *WorkerPool) Submit(fn func()) {
	wp.group.Go(func() error {
		fn()
		return nil
	})
}

// Wait blocks until every submitted job has finished. Used during graceful
// shutdown to drain in-flight ingestions.
func (wp *WorkerPool) Wait() {
	_ = wp.group.Wait()
}
