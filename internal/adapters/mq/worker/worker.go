// Package worker runs forecast jobs pulled from a queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/co2atlas/internal/adapters/mq/queue"
	"github.com/okian/co2atlas/internal/domain/forecast"
	"github.com/okian/co2atlas/internal/domain/model"
	"github.com/okian/co2atlas/pkg/logger"
	"github.com/okian/co2atlas/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// ErrJobPanicked wraps a panic recovered while computing a job.
var ErrJobPanicked = errors.New("forecast job panicked")

// Forecaster computes one forecast.
type Forecaster interface {
	Forecast(ctx context.Context, req model.ForecastRequest) (forecast.Result, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue() <-chan queue.Job
}

// InMemoryWorker processes jobs until the queue closes or it is stopped.
type InMemoryWorker struct {
	queue      Queue
	forecaster Forecaster
	name       string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, f Forecaster, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      q,
		forecaster: f,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.process(job)
		}
	}
}

// Shutdown signals the worker to stop and waits for the current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process runs one job and always replies.
func (w *InMemoryWorker) process(job queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	ctx := job.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	out := queue.Outcome{Index: job.Index}

	if err := ctx.Err(); err != nil {
		metrics.RecordBatchJob("cancelled")
		out.Err = err
		job.Reply <- out
		return
	}

	out.Result, out.Err = w.forecast(ctx, job)
	if out.Err != nil {
		metrics.RecordBatchJob("error")
		w.logger.Debug(ctx, "forecast job failed",
			logger.String("job_id", job.ID),
			logger.Error(out.Err),
		)
	} else {
		metrics.RecordBatchJob("ok")
	}
	job.Reply <- out
}

// forecast calls the forecaster, turning a panic into an error so one bad
// job cannot take the pool down.
func (w *InMemoryWorker) forecast(ctx context.Context, job queue.Job) (res forecast.Result, err error) { //nolint:gocritic // hugeParam
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error(ctx, "forecast job panicked",
				logger.String("job_id", job.ID),
				logger.Any("panic", r),
			)
			metrics.RecordErrorByComponent("batch", "panic")
			res, err = forecast.Result{}, fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return w.forecaster.Forecast(ctx, job.Request)
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a worker pool; workerCount < 1 uses runtime.NumCPU().
func NewPool(workerCount int, q Queue, f Forecaster, l logger.Logger) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	if l == nil {
		l = logger.Nop()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  l,
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, f,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(l),
		)
	}
	metrics.UpdateBatchWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	return nil
}
