// Package workerpool implements the fixed-size worker pool primitive
// §5 specifies as an external collaborator of the sort engine: submit
// with bounded-queue back-pressure, a broadcast that runs a function once
// on every worker's own goroutine (so it can touch that worker's private
// state), and a drain-then-exit shutdown/join pair.
package workerpool

import "sync"

// StateFactory builds the private state owned by worker i. It is called
// once per worker at pool construction and never again; the returned
// value is never touched by any other worker's goroutine.
type StateFactory func(i int) interface{}

// Task is work submitted to the pool or broadcast to every worker. It
// runs against the calling worker's own state.
type Task func(state interface{}) error

// ShutdownMode controls how Shutdown drains in-flight work. The engine
// only ever uses CompletePending (§4.5(g), §5), but the type leaves room
// for a future immediate-stop mode without changing the call signature.
type ShutdownMode int

const (
	// CompletePending stops accepting new submissions but lets every
	// task already queued run to completion before workers exit.
	CompletePending ShutdownMode = iota
)

// Pool is a fixed-size worker pool with persistent, goroutine-local
// per-worker state.
type Pool struct {
	tasks chan Task

	workers []*worker
	wg      sync.WaitGroup

	mu       sync.Mutex
	firstErr error

	closeOnce sync.Once
}

type worker struct {
	state     interface{}
	broadcast chan broadcastJob
}

type broadcastJob struct {
	fn   Task
	done chan error
}

// New starts size workers (each seeded via factory) reading from a
// submission queue of the given capacity.
func New(size, queueSize int, factory StateFactory) *Pool {
	if size < 1 {
		size = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	p := &Pool{tasks: make(chan Task, queueSize)}

	p.workers = make([]*worker, size)
	for i := 0; i < size; i++ {
		w := &worker{
			state:     factory(i),
			broadcast: make(chan broadcastJob),
		}
		p.workers[i] = w
		p.wg.Add(1)
		go p.run(w)
	}
	return p
}

func (p *Pool) run(w *worker) {
	defer p.wg.Done()
	for {
		select {
		case job := <-w.broadcast:
			job.done <- job.fn(w.state)
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			if err := task(w.state); err != nil {
				p.recordErr(err)
			}
		}
	}
}

func (p *Pool) recordErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.firstErr == nil {
		p.firstErr = err
	}
}

// Submit enqueues task, blocking when the queue is already full — the
// pool's only form of back-pressure on chunk production (§5).
func (p *Pool) Submit(task Task) {
	p.tasks <- task
}

// BroadcastToAllWorkers runs fn once on every worker's own goroutine,
// against that worker's own state, and blocks until every worker has
// finished. Used for the per-worker premerge collapse and for draining
// each worker's surviving runs into the collection vector (§4.5(f)/(g)).
func (p *Pool) BroadcastToAllWorkers(fn Task) error {
	dones := make([]chan error, len(p.workers))
	for i, w := range p.workers {
		done := make(chan error, 1)
		dones[i] = done
		w.broadcast <- broadcastJob{fn: fn, done: done}
	}

	var firstErr error
	for _, done := range dones {
		if err := <-done; err != nil {
			p.recordErr(err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Shutdown stops accepting new submissions. Under CompletePending (the
// only mode), everything already queued still runs before workers exit.
func (p *Pool) Shutdown(mode ShutdownMode) {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
}

// Join waits for every worker goroutine to exit and returns the first
// task error recorded during Submit or BroadcastToAllWorkers, if any.
func (p *Pool) Join() error {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.firstErr
}

// States returns every worker's private state. Only meaningful after
// Join (or after a BroadcastToAllWorkers that drained it), since workers
// still running may be mutating their state concurrently.
func (p *Pool) States() []interface{} {
	out := make([]interface{}, len(p.workers))
	for i, w := range p.workers {
		out[i] = w.state
	}
	return out
}
