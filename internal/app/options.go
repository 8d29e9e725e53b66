package service

import (
	"github.com/okian/gridiron/internal/adapters/repository"
	"github.com/okian/gridiron/internal/adapters/source"
	"github.com/okian/gridiron/internal/domain/annotate"
	"github.com/okian/gridiron/internal/domain/elo"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	"github.com/okian/gridiron/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGameSource sets where the game log is loaded from.
func WithGameSource(src source.GameSource) Option {
	return func(s *Service) { s.source = src }
}

// WithGeocoder sets how stadium coordinates are resolved.
func WithGeocoder(geo annotate.Geocoder) Option {
	return func(s *Service) { s.geo = geo }
}

// WithDraft sets the draft picks used as quarterback priors.
func WithDraft(picks []qbvalue.DraftPick) Option {
	return func(s *Service) { s.draft = picks }
}

// WithDraftCurve sets the prior of the first pick and its decline per pick.
func WithDraftCurve(best, perPick float64) Option {
	return func(s *Service) {
		s.draftBest = best
		s.draftPerPick = perPick
	}
}

// WithModel sets the forecast model.
func WithModel(m *elo.Model) Option {
	return func(s *Service) {
		if m != nil {
			s.model = m
		}
	}
}

// WithStoreOptions configures the rating store.
func WithStoreOptions(opts ...repository.Option) Option {
	return func(s *Service) { s.storeOp = append(s.storeOp, opts...) }
}

// WithQBOptions configures the quarterback tracker.
func WithQBOptions(opts ...qbvalue.Option) Option {
	return func(s *Service) { s.qbOpts = append(s.qbOpts, opts...) }
}

// WithQBEnabled turns quarterback adjusted forecasts on or off.
func WithQBEnabled(enabled bool) Option {
	return func(s *Service) { s.qbEnabled = enabled }
}

// WithIncludePlayoffs controls whether playoff games are reported.
func WithIncludePlayoffs(include bool) Option {
	return func(s *Service) { s.includePlayoffs = include }
}

// WithQueueSize sets the maximum number of queued live games.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many game ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
