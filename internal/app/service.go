// Package service wires the game source, annotator, rating engine and live
// submission pipeline behind the operations the HTTP API needs.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gridiron/internal/adapters/mq/queue"
	"github.com/okian/gridiron/internal/adapters/mq/worker"
	"github.com/okian/gridiron/internal/adapters/repository"
	"github.com/okian/gridiron/internal/adapters/source"
	"github.com/okian/gridiron/internal/domain/annotate"
	"github.com/okian/gridiron/internal/domain/dedupe"
	"github.com/okian/gridiron/internal/domain/elo"
	"github.com/okian/gridiron/internal/domain/engine"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	"github.com/okian/gridiron/internal/domain/types"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = queue.DefaultCapacity
	defaultDedupeSize = dedupe.DefaultMaxSize
	shutdownTimeout   = 10 * time.Second
)

// ErrNotStarted is returned by operations that need a started service.
var ErrNotStarted = errors.New("service not started")

// Service holds one rated game log and keeps it current as live results
// arrive.
type Service struct {
	mu sync.RWMutex

	// Inputs
	source       source.GameSource
	geo          annotate.Geocoder
	draft        []qbvalue.DraftPick
	draftBest    float64
	draftPerPick float64
	model        *elo.Model
	storeOp      []repository.Option
	qbOpts       []qbvalue.Option

	// Configuration
	qbEnabled       bool
	includePlayoffs bool
	queueSize       int
	dedupeSize      int

	// Runtime
	store     *repository.MemoryStore
	annotator *annotate.Annotator
	engine    *engine.Engine
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	worker    *worker.Worker
	history   []model.GameRecord
	games     []model.GameRecord
	cancel    context.CancelFunc

	started bool
	logger  logger.Logger
}

// New constructs a Service. Nothing is loaded until Start.
func New(opts ...Option) *Service {
	s := &Service{
		model:           elo.New(),
		draftBest:       qbvalue.DefaultBestValue,
		draftPerPick:    qbvalue.DefaultPerPick,
		qbEnabled:       true,
		includePlayoffs: true,
		queueSize:       defaultQueueSize,
		dedupeSize:      defaultDedupeSize,
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads and rates the game log, then starts accepting live games.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting rating service...")

	var history []model.GameRecord
	if s.source != nil {
		var err error
		if history, err = s.source.Games(ctx); err != nil {
			return fmt.Errorf("load games: %w", err)
		}
	}

	s.annotator = annotate.New(s.geo, annotate.WithLogger(s.logger.Named("annotate")))
	s.annotator.Annotate(ctx, history)
	metrics.UpdateLogLength(len(history))

	s.store = repository.NewMemoryStore(s.storeOp...)
	engineOpts := []engine.Option{
		engine.WithModel(s.model),
		engine.WithLogger(s.logger.Named("engine")),
		engine.WithIncludePlayoffs(s.includePlayoffs),
	}
	if s.qbEnabled {
		priors := qbvalue.NewDraftTable(s.draft, s.draftBest, s.draftPerPick)
		qbOpts := append([]qbvalue.Option{
			qbvalue.WithPriors(priors),
			qbvalue.WithLogger(s.logger.Named("qb")),
		}, s.qbOpts...)
		engineOpts = append(engineOpts, engine.WithQBTracker(qbvalue.NewTracker(s.store, qbOpts...)))
	}
	s.engine = engine.New(s.store, engineOpts...)

	rated, err := s.engine.Walk(ctx, history)
	if err != nil {
		return fmt.Errorf("walk games: %w", err)
	}
	s.history = history
	s.games = rated

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	for i := range history {
		s.deduper.SeenAndRecord(ctx, history[i].ID)
	}
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.New(s.queue, s,
		worker.WithName("live"),
		worker.WithLogger(s.logger.Named("worker")),
		worker.WithResultFunc(s.onResult))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	go s.worker.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("games", len(history)),
		logger.Int("teams", s.store.Count(ctx)),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize))
	return nil
}

// Stop closes the live queue and waits for queued games to drain.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	q, w, cancel := s.queue, s.worker, s.cancel
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping rating service...")
	_ = q.Close()

	sctx, scancel := context.WithTimeout(ctx, shutdownTimeout)
	defer scancel()
	select {
	case <-w.Done():
	case <-sctx.Done():
		s.logger.Warn(ctx, "live queue did not drain", logger.Int("remaining", q.Len()))
	}
	cancel()
	s.logger.Info(ctx, "rating service stopped")
}

// Submit accepts a live game for asynchronous rating and returns its id. A
// game without an id is given one.
func (s *Service) Submit(ctx context.Context, g model.GameRecord) (string, error) { //nolint:gocritic // hugeParam: copied into the queue
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return "", ErrNotStarted
	}

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.Forecast, g.Outcome, g.HomeQBTrace, g.AwayQBTrace = nil, nil, nil, nil
	if err := g.Validate(); err != nil {
		return "", err
	}
	if season, week, ok := s.engine.Last(); ok && g.Before(season, week) {
		return "", fmt.Errorf("%w: game %s (%d/%d) after %d/%d",
			engine.ErrOrderingViolation, g.ID, g.Season, g.Week, season, week)
	}
	if s.deduper.SeenAndRecord(ctx, g.ID) {
		metrics.RecordGameDuplicate()
		return "", fmt.Errorf("%w: %s", engine.ErrDuplicateGame, g.ID)
	}
	if err := s.queue.Enqueue(ctx, g); err != nil {
		s.deduper.Unrecord(ctx, g.ID)
		return "", err
	}
	metrics.RecordGameSubmitted()
	s.logger.Debug(ctx, "game queued", logger.String("game", g.ID))
	return g.ID, nil
}

// Apply annotates and rates g after the current log. It implements
// worker.Applier.
func (s *Service) Apply(ctx context.Context, g model.GameRecord) (model.GameRecord, error) { //nolint:gocritic // hugeParam: worker passes by value
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return model.GameRecord{}, ErrNotStarted
	}
	s.annotator.AnnotateNext(ctx, s.history, &g)
	rated, err := s.engine.Append(ctx, g)
	if err != nil {
		return model.GameRecord{}, err
	}
	s.history = append(s.history, g)
	if s.includePlayoffs || !rated.IsPlayoff() {
		s.games = append(s.games, rated)
	}
	metrics.UpdateLogLength(len(s.history))
	return rated, nil
}

// onResult frees the id of a game that could not be rated so a corrected
// submission is accepted.
func (s *Service) onResult(ctx context.Context, _, submitted model.GameRecord, err error) {
	if err != nil {
		s.deduper.Unrecord(ctx, submitted.ID)
	}
}

// TopN returns the n highest rated teams.
func (s *Service) TopN(ctx context.Context, n int) ([]types.RatingEntry, error) {
	st, err := s.ratings()
	if err != nil {
		return nil, err
	}
	return st.TopN(ctx, n)
}

// Rating returns a team's rank and rating.
func (s *Service) Rating(ctx context.Context, team string) (types.RatingEntry, error) {
	st, err := s.ratings()
	if err != nil {
		return types.RatingEntry{}, err
	}
	return st.Rank(ctx, team)
}

// QB returns a quarterback's current value.
func (s *Service) QB(ctx context.Context, player string) (types.QBEntry, error) {
	st, err := s.ratings()
	if err != nil {
		return types.QBEntry{}, err
	}
	q, err := st.QB(ctx, player)
	if err != nil {
		return types.QBEntry{}, err
	}
	return types.QBEntry{PlayerID: q.PlayerID, Value: q.Value, Games: q.Games, Season: q.Season, Team: q.Team}, nil
}

// Games returns rated games, all of them when season is zero.
func (s *Service) Games(_ context.Context, season int) ([]model.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.engine == nil {
		return nil, ErrNotStarted
	}
	out := make([]model.GameRecord, 0, len(s.games))
	for i := range s.games {
		if season == 0 || s.games[i].Season == season {
			out = append(out, s.games[i].Clone())
		}
	}
	return out, nil
}

// Forecast predicts a hypothetical game from current ratings.
func (s *Service) Forecast(ctx context.Context, m types.Matchup) (model.Forecast, error) { //nolint:gocritic // hugeParam: request value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.engine == nil {
		return model.Forecast{}, ErrNotStarted
	}
	season, week := forecastSlot(m.Season, s.engine)
	g := model.GameRecord{
		ID:          "forecast",
		Season:      season,
		Week:        week,
		Home:        m.Home,
		Away:        m.Away,
		Neutral:     m.Neutral,
		SiteStadium: m.Stadium,
		HomeRested:  m.HomeRested,
		AwayRested:  m.AwayRested,
	}
	if m.Playoff {
		g.WeekLabel = "Playoff"
	}
	if m.HomeQB != "" && m.AwayQB != "" {
		g.HomeQB = &model.QBStart{PlayerID: m.HomeQB}
		g.AwayQB = &model.QBStart{PlayerID: m.AwayQB}
	}
	g.HomeTravel, g.AwayTravel = s.annotator.Travel(ctx, season, m.Home, m.Away, m.Neutral, m.Stadium)
	return s.engine.Preview(ctx, g)
}

// forecastSlot places a hypothetical game at the engine's last processed
// week, or at the opening week of a later season.
func forecastSlot(requested int, e *engine.Engine) (season, week int) {
	last, lastWeek, ok := e.Last()
	switch {
	case !ok:
		return requested, 1
	case requested == 0 || requested == last:
		return last, max(lastWeek, 1)
	default:
		return requested, 1
	}
}

// Accuracy scores the forecasts of the completed games in the log.
func (s *Service) Accuracy(_ context.Context) types.Accuracy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return engine.Summarize(s.games)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
		"qbEnabled":  s.qbEnabled,
	}
	if s.engine != nil {
		stats["games"] = len(s.history)
		stats["teams"] = s.store.Count(ctx)
		stats["quarterbacks"] = s.store.QBCount(ctx)
		stats["queueLength"] = s.queue.Len()
		stats["accuracy"] = engine.Summarize(s.games)
		if season, week, ok := s.engine.Last(); ok {
			stats["lastSeason"] = season
			stats["lastWeek"] = week
		}
		metrics.UpdateTracked(s.store.Count(ctx), s.store.QBCount(ctx))
	}
	return stats
}

func (s *Service) ratings() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}
