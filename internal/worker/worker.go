// Package worker provides the bounded task pool the dispatch coordinator fans
// out on.
package worker

import (
	"context"
	"sync"
)

// Task is one unit of work. Tasks observe cancellation through the context
// passed to Start; the pool itself never drops a submitted task, so every
// task runs exactly once even when the context is already canceled.
type Task func(ctx context.Context)

type Pool struct {
	numWorkers int
	tasks      chan Task
	wg         sync.WaitGroup
}

func NewPool(numWorkers, bufferSize int) *Pool {
	return &Pool{
		numWorkers: numWorkers,
		tasks:      make(chan Task, bufferSize),
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for task := range p.tasks {
		task(ctx)
	}
}

func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

// Stop closes the queue and waits for every submitted task to finish.
func (p *Pool) Stop() {
	close(p.tasks)
	p.wg.Wait()
}
