package worker

import (
	"context"
	"sort"
	"sync"
)

// Task is a unit of work executed by a Pool
type Task[T any] func(ctx context.Context) T

type queued[T any] struct {
	seq  int
	task Task[T]
}

type done[T any] struct {
	seq   int
	value T
}

// Pool runs tasks on a fixed number of goroutines and hands back their
// results in submission order
type Pool[T any] struct {
	workers    int
	jobQueue   chan queued[T]
	results    chan done[T]
	collected  []done[T]
	submitted  int
	wg         sync.WaitGroup
	collector  sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// NewPoolWithContext creates a pool whose workers stop when ctx is done
func NewPoolWithContext[T any](ctx context.Context, workers int) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool[T]{
		workers:    workers,
		jobQueue:   make(chan queued[T], workers*2), // Buffered to prevent blocking
		results:    make(chan done[T], workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the workers and the result collector
func (p *Pool[T]) Start() {
	p.collector.Add(1)
	go func() {
		defer p.collector.Done()
		for r := range p.results {
			p.collected = append(p.collected, r)
		}
	}()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			value := job.task(p.ctx)
			select {
			case p.results <- done[T]{seq: job.seq, value: value}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a task. Submit is not safe for concurrent use and must not
// be called after Wait.
func (p *Pool[T]) Submit(task Task[T]) {
	job := queued[T]{seq: p.submitted, task: task}
	p.submitted++

	select {
	case <-p.ctx.Done():
		return
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for every task and returns the results in
// the order the tasks were submitted. Tasks dropped by cancellation are
// missing from the result.
func (p *Pool[T]) Wait() []T {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.results)
	p.collector.Wait()
	p.cancelFunc()

	sort.Slice(p.collected, func(i, j int) bool {
		return p.collected[i].seq < p.collected[j].seq
	})

	values := make([]T, len(p.collected))
	for i, r := range p.collected {
		values[i] = r.value
	}
	return values
}

// Run executes tasks on a pool of the given size and returns their results
// in task order
func Run[T any](ctx context.Context, workers int, tasks []Task[T]) []T {
	p := NewPoolWithContext[T](ctx, workers)
	p.Start()

	for _, task := range tasks {
		p.Submit(task)
	}

	return p.Wait()
}
