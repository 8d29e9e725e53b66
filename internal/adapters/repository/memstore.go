package repository

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	"github.com/okian/gridiron/internal/domain/types"
)

// Rating defaults.
const (
	DefaultInitRating = 1300.0
	DefaultLeagueMean = 1505.0
	DefaultRegressPct = 0.333
)

// MemoryStore is an in-memory Store. One instance lives for one walk.
type MemoryStore struct {
	mu    sync.RWMutex
	teams map[string]model.TeamRatingState
	qbs   map[string]model.QBRatingState
	index rankIndex

	initRating float64
	leagueMean float64
	regressPct float64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		teams:      make(map[string]model.TeamRatingState),
		qbs:        make(map[string]model.QBRatingState),
		initRating: DefaultInitRating,
		leagueMean: DefaultLeagueMean,
		regressPct: DefaultRegressPct,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrInit implements Store.GetOrInit.
//
//   - no record: the initial rating
//   - pending record: its pre-game rating, whatever the season
//   - same season: carried forward
//   - next season: regressed toward the league mean
//   - two or more seasons later: the initial rating
func (s *MemoryStore) GetOrInit(_ context.Context, team string, season int) (float64, bool, error) {
	s.mu.RLock()
	rec, ok := s.teams[team]
	s.mu.RUnlock()

	if !ok {
		return s.initRating, true, nil
	}
	if rec.Pending {
		return rec.Rating, false, nil
	}
	switch gap := season - rec.Season; {
	case gap < 0:
		return 0, false, fmt.Errorf("%w: %s rated in %d, asked for %d", ErrStaleSeason, team, rec.Season, season)
	case gap == 0:
		return rec.Rating, false, nil
	case gap == 1:
		return rec.Rating + (s.leagueMean-rec.Rating)*s.regressPct, false, nil
	default:
		return s.initRating, false, nil
	}
}

// Commit implements Store.Commit.
func (s *MemoryStore) Commit(_ context.Context, team string, rating float64, season int) error {
	return s.put(model.TeamRatingState{TeamID: team, Rating: rating, Season: season})
}

// CommitPending implements Store.CommitPending.
func (s *MemoryStore) CommitPending(_ context.Context, team string, preRating float64, season int) error {
	return s.put(model.TeamRatingState{TeamID: team, Rating: preRating, Season: season, Pending: true})
}

func (s *MemoryStore) put(rec model.TeamRatingState) error {
	if math.IsNaN(rec.Rating) || math.IsInf(rec.Rating, 0) {
		return fmt.Errorf("%w: %s", ErrInvalidRating, rec.TeamID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.teams[rec.TeamID]; ok {
		s.index.remove(rec.TeamID, old.Rating)
	}
	s.teams[rec.TeamID] = rec
	s.index.insert(rec.TeamID, rec.Rating)
	return nil
}

// GetOrInitQB implements Store.GetOrInitQB.
func (s *MemoryStore) GetOrInitQB(_ context.Context, player string, priors qbvalue.DraftPriors) (model.QBRatingState, bool, error) {
	s.mu.RLock()
	st, ok := s.qbs[player]
	s.mu.RUnlock()
	if ok {
		return st, false, nil
	}
	st = model.QBRatingState{PlayerID: player}
	if priors != nil {
		if v, found := priors.Prior(player); found {
			st.Value = v
		}
	}
	return st, true, nil
}

// CommitQB implements Store.CommitQB.
func (s *MemoryStore) CommitQB(_ context.Context, st model.QBRatingState) error {
	if math.IsNaN(st.Value) || math.IsInf(st.Value, 0) {
		return fmt.Errorf("%w: qb %s", ErrInvalidRating, st.PlayerID)
	}
	s.mu.Lock()
	s.qbs[st.PlayerID] = st
	s.mu.Unlock()
	return nil
}

// Team implements Store.Team.
func (s *MemoryStore) Team(_ context.Context, team string) (model.TeamRatingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.teams[team]
	if !ok {
		return model.TeamRatingState{}, fmt.Errorf("team %s: %w", team, ErrNotFound)
	}
	return rec, nil
}

// QB implements Store.QB.
func (s *MemoryStore) QB(_ context.Context, player string) (model.QBRatingState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.qbs[player]
	if !ok {
		return model.QBRatingState{}, fmt.Errorf("qb %s: %w", player, ErrNotFound)
	}
	return st, nil
}

// TopN implements Store.TopN. Tied ratings share a rank.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]types.RatingEntry, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.RatingEntry, 0, min(n, s.index.len()))
	s.index.top(n, func(id string, rating float64) {
		rank := len(out) + 1
		if len(out) > 0 && out[len(out)-1].Rating == rating {
			rank = out[len(out)-1].Rank
		}
		out = append(out, s.entry(id, rank))
	})
	return out, nil
}

// Rank implements Store.Rank.
func (s *MemoryStore) Rank(_ context.Context, team string) (types.RatingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.teams[team]
	if !ok {
		return types.RatingEntry{}, fmt.Errorf("team %s: %w", team, ErrNotFound)
	}
	return s.entry(team, s.index.above(rec.Rating)+1), nil
}

func (s *MemoryStore) entry(team string, rank int) types.RatingEntry {
	rec := s.teams[team]
	return types.RatingEntry{
		Rank:    rank,
		TeamID:  team,
		Rating:  rec.Rating,
		Season:  rec.Season,
		Pending: rec.Pending,
	}
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.teams)
}

// QBCount implements Store.QBCount.
func (s *MemoryStore) QBCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.qbs)
}
