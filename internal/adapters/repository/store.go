// Package repository holds the rating state of teams and quarterbacks.
package repository

import (
	"context"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	"github.com/okian/gridiron/internal/domain/types"
)

// Store provides read/write access to the rating state.
type Store interface {
	// GetOrInit returns the pre-game rating of team for a game in season
	// without changing state. isNew is true when the team has no record.
	GetOrInit(ctx context.Context, team string, season int) (float64, bool, error)
	// Commit records a post-game rating.
	Commit(ctx context.Context, team string, rating float64, season int) error
	// CommitPending records the pre-game rating of an unplayed game.
	CommitPending(ctx context.Context, team string, preRating float64, season int) error

	// GetOrInitQB returns a quarterback's state, seeding unknown players
	// from priors without storing them.
	GetOrInitQB(ctx context.Context, player string, priors qbvalue.DraftPriors) (model.QBRatingState, bool, error)
	// CommitQB records a quarterback's post-game state.
	CommitQB(ctx context.Context, state model.QBRatingState) error

	// Team returns a team's committed state or ErrNotFound.
	Team(ctx context.Context, team string) (model.TeamRatingState, error)
	// QB returns a quarterback's committed state or ErrNotFound.
	QB(ctx context.Context, player string) (model.QBRatingState, error)

	// TopN returns the top-N teams ordered by rating desc, team id asc.
	TopN(ctx context.Context, n int) ([]types.RatingEntry, error)
	// Rank returns a team's current rank or ErrNotFound.
	Rank(ctx context.Context, team string) (types.RatingEntry, error)

	// Count returns the number of teams tracked.
	Count(ctx context.Context) int
	// QBCount returns the number of quarterbacks tracked.
	QBCount(ctx context.Context) int
}
