package workpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when submitting to a pool after Close.
var ErrClosed = errors.New("worker pool closed")

// Config sizes a Pool. Zero Workers means GOMAXPROCS; QueueSize is the number of
// jobs that may wait for a worker before Submit blocks.
type Config struct {
	Workers   int
	QueueSize int
}

// Pool is a fixed-size goroutine pool.
type Pool struct {
	jobs      chan func()
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	wg        sync.WaitGroup
	inFlight  atomic.Int64
	completed atomic.Uint64
}

// New starts cfg.Workers goroutines.
func New(cfg Config) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}

	p := &Pool{jobs: make(chan func(), cfg.QueueSize)}
	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.inFlight.Add(1)
		job()
		p.inFlight.Add(-1)
		p.completed.Add(1)
	}
}

// Submit queues job. It returns ctx.Err() if ctx ends before a queue slot frees
// up, or ErrClosed after Close.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	if ctx == nil {
		ctx = context.Background()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting jobs, waits for queued and running jobs, and stops the
// workers. It is safe to call more than once.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

// Queued reports jobs waiting for a worker.
func (p *Pool) Queued() int {
	return len(p.jobs)
}

// InFlight reports jobs currently executing.
func (p *Pool) InFlight() int64 {
	return p.inFlight.Load()
}

// Completed reports jobs finished since New.
func (p *Pool) Completed() uint64 {
	return p.completed.Load()
}

// Future is the pending result of a job submitted with Go.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the job has finished and returns its result.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}

// Go submits fn to p and returns a Future for its result. A panic in fn is
// reported as the Future's error.
func Go[T any](ctx context.Context, p *Pool, fn func() (T, error)) (*Future[T], error) {
	f := &Future[T]{done: make(chan struct{})}
	err := p.Submit(ctx, func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("workpool: job panicked: %v", r)
			}
		}()
		f.val, f.err = fn()
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Do is Go followed by Wait.
func Do[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	f, err := Go(ctx, p, fn)
	if err != nil {
		var zero T
		return zero, err
	}
	return f.Wait()
}
