package worker

import (
	"context"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// Task is a unit of work run by the pool. The context is cancelled when the
// pool stops.
type Task func(ctx context.Context)

type job struct {
	id   string
	name string
	run  Task
}

// Pool runs tasks on a fixed number of workers fed by a bounded queue.
type Pool struct {
	workers int
	queue   chan job
	logger  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

func NewPool(workers, queueSize int, logger zerolog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		queue:   make(chan job, queueSize),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Debug().Int("workers", p.workers).Int("queue", cap(p.queue)).Msg("worker pool started")
}

func (p *Pool) worker(n int) {
	defer p.wg.Done()
	for {
		select {
		case j := <-p.queue:
			p.run(n, j)
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) run(n int, j job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Interface("panic", r).
				Str("task", j.name).
				Str("task_id", j.id).
				Int("worker", n).
				Msg("task panicked")
		}
	}()
	p.logger.Debug().Str("task", j.name).Str("task_id", j.id).Int("worker", n).Msg("task started")
	j.run(p.ctx)
}

// Submit enqueues a task without blocking. It returns false when the queue
// is full or the pool is stopped; the caller owns any cleanup in that case.
func (p *Pool) Submit(name string, task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}

	id, err := gonanoid.New(10)
	if err != nil {
		id = "unknown"
	}

	select {
	case p.queue <- job{id: id, name: name, run: task}:
		return true
	default:
		p.logger.Warn().Str("task", name).Msg("worker queue full, task dropped")
		return false
	}
}

// Stop cancels the pool context and waits for running tasks to return.
// Queued tasks that have not started are discarded.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.logger.Debug().Msg("worker pool stopped")
}
