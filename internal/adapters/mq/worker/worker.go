// Package worker applies queued live games to the rating engine. A single
// worker keeps rating updates in submission order.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// Applier rates one game after everything applied before it.
type Applier interface {
	Apply(ctx context.Context, g model.GameRecord) (model.GameRecord, error)
}

// Queue defines how the worker receives games.
type Queue interface {
	Dequeue() <-chan model.GameRecord
}

// ResultFunc observes the outcome of each applied game. err is nil on success.
type ResultFunc func(ctx context.Context, rated model.GameRecord, submitted model.GameRecord, err error)

// Worker drains a queue into an Applier.
type Worker struct {
	queue    Queue
	applier  Applier
	onResult ResultFunc
	name     string
	logger   logger.Logger

	shutdown chan struct{}
	done     chan struct{}
}

// New creates a worker. Call Run to start it.
func New(queue Queue, applier Applier, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		applier:  applier,
		name:     "worker",
		logger:   logger.Nop(),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes games until ctx is cancelled, Shutdown is called or the
// queue is closed and drained.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	games := w.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case g, ok := <-games:
			if !ok {
				return
			}
			w.process(ctx, g)
		}
	}
}

// Shutdown stops the worker after the game in flight.
func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) process(ctx context.Context, g model.GameRecord) { //nolint:gocritic // hugeParam: received by value from the channel
	start := time.Now()
	rated, err := w.applier.Apply(ctx, g)
	metrics.RecordWorkerLatency(float64(time.Since(start).Microseconds()) / 1000)

	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "apply failed",
			logger.String("worker", w.name),
			logger.String("game", g.ID),
			logger.Error(err))
	} else {
		w.logger.Debug(ctx, "game applied",
			logger.String("worker", w.name),
			logger.String("game", g.ID))
	}
	if w.onResult != nil {
		w.onResult(ctx, rated, g, err)
	}
}
