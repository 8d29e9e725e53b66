package engine

import (
	"github.com/okian/gridiron/internal/domain/elo"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	"github.com/okian/gridiron/pkg/logger"
)

// Option configures an Engine.
type Option func(*Engine)

// WithModel sets the forecast model.
func WithModel(m *elo.Model) Option {
	return func(e *Engine) {
		if m != nil {
			e.model = m
		}
	}
}

// WithQBTracker enables quarterback adjusted forecasts.
func WithQBTracker(t *qbvalue.Tracker) Option {
	return func(e *Engine) { e.qb = t }
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithIncludePlayoffs controls whether playoff games are kept in the
// returned log. They always update ratings.
func WithIncludePlayoffs(include bool) Option {
	return func(e *Engine) { e.includePlayoffs = include }
}
