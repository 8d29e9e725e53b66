package annotate

import "github.com/okian/gridiron/pkg/logger"

// Option configures an Annotator.
type Option func(*Annotator)

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l logger.Logger) Option {
	return func(a *Annotator) {
		if l != nil {
			a.log = l
		}
	}
}

// WithFallback replaces the continental center fallback.
func WithFallback(c Coordinates) Option {
	return func(a *Annotator) { a.fallback = c }
}
