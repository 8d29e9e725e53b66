package worker

import (
	"github.com/okian/gridiron/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name used in logs.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithResultFunc registers a callback run after every game.
func WithResultFunc(fn ResultFunc) Option {
	return func(w *Worker) { w.onResult = fn }
}
