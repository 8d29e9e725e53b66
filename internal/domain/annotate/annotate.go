// Package annotate fills the rest and travel context of game records.
package annotate

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/pkg/logger"
	"github.com/okian/gridiron/pkg/metrics"
)

// ContinentalCenter is used when a location cannot be resolved.
var ContinentalCenter = Coordinates{Lat: 37.0902, Lon: -95.7129} //nolint:gochecknoglobals // fixed fallback point

// Geocoder resolves team home fields and named stadiums to coordinates.
type Geocoder interface {
	TeamCoordinates(ctx context.Context, team string, season int) (Coordinates, bool)
	StadiumCoordinates(ctx context.Context, stadium string) (Coordinates, bool)
}

// Annotator computes rest flags and travel distances.
type Annotator struct {
	geo      Geocoder
	log      logger.Logger
	fallback Coordinates

	mu    sync.Mutex
	cache map[string]Coordinates
}

// New creates an Annotator backed by geo. A nil geo resolves nothing and
// every lookup falls back.
func New(geo Geocoder, opts ...Option) *Annotator {
	a := &Annotator{
		geo:      geo,
		log:      logger.Nop(),
		fallback: ContinentalCenter,
		cache:    make(map[string]Coordinates),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate sets rest and travel on every game in place. games must already be
// in chronological order.
func (a *Annotator) Annotate(ctx context.Context, games []model.GameRecord) {
	MarkRest(games)
	for i := range games {
		a.setTravel(ctx, &games[i])
	}
}

// AnnotateNext sets rest and travel on g as the game following history.
func (a *Annotator) AnnotateNext(ctx context.Context, history []model.GameRecord, g *model.GameRecord) {
	first := g.Week
	prev := make(map[string]bool)
	for i := range history {
		h := &history[i]
		if h.Season != g.Season {
			continue
		}
		if h.Week < first {
			first = h.Week
		}
		if h.Week == g.Week-1 {
			prev[h.Home] = true
			prev[h.Away] = true
		}
	}
	rested := g.Week > first
	g.HomeRested = rested && !prev[g.Home]
	g.AwayRested = rested && !prev[g.Away]
	a.setTravel(ctx, g)
}

// Travel returns the miles each side covers to reach the game site.
func (a *Annotator) Travel(ctx context.Context, season int, home, away string, neutral bool, stadium string) (float64, float64) {
	homeAt := a.team(ctx, home, season)
	awayAt := a.team(ctx, away, season)
	site := homeAt
	if neutral {
		site = a.stadium(ctx, stadium)
	}
	return Miles(homeAt, site), Miles(awayAt, site)
}

func (a *Annotator) setTravel(ctx context.Context, g *model.GameRecord) {
	g.HomeTravel, g.AwayTravel = a.Travel(ctx, g.Season, g.Home, g.Away, g.Neutral, g.SiteStadium)
}

// MarkRest flags, per season, teams that play in a week but not in the week
// before it. The first week of a season never rests.
func MarkRest(games []model.GameRecord) {
	type key struct{ season, week int }
	playing := make(map[key]map[string]bool)
	first := make(map[int]int)
	for i := range games {
		g := &games[i]
		k := key{g.Season, g.Week}
		if playing[k] == nil {
			playing[k] = make(map[string]bool)
		}
		playing[k][g.Home] = true
		playing[k][g.Away] = true
		if w, ok := first[g.Season]; !ok || g.Week < w {
			first[g.Season] = g.Week
		}
	}
	for i := range games {
		g := &games[i]
		if g.Week == first[g.Season] {
			g.HomeRested, g.AwayRested = false, false
			continue
		}
		prev := playing[key{g.Season, g.Week - 1}]
		g.HomeRested = !prev[g.Home]
		g.AwayRested = !prev[g.Away]
	}
}

func (a *Annotator) team(ctx context.Context, team string, season int) Coordinates {
	return a.resolve(ctx, fmt.Sprintf("team/%s/%d", team, season), func() (Coordinates, bool) {
		if a.geo == nil {
			return Coordinates{}, false
		}
		return a.geo.TeamCoordinates(ctx, team, season)
	})
}

func (a *Annotator) stadium(ctx context.Context, stadium string) Coordinates {
	return a.resolve(ctx, "stadium/"+stadium, func() (Coordinates, bool) {
		if a.geo == nil || stadium == "" {
			return Coordinates{}, false
		}
		return a.geo.StadiumCoordinates(ctx, stadium)
	})
}

// resolve memoises lookups for the annotator's lifetime. Each unresolved key
// is logged and counted once.
func (a *Annotator) resolve(ctx context.Context, key string, lookup func() (Coordinates, bool)) Coordinates {
	a.mu.Lock()
	defer a.mu.Unlock()

	if c, ok := a.cache[key]; ok {
		return c
	}
	c, ok := lookup()
	if !ok {
		c = a.fallback
		a.log.Warn(ctx, "location unresolved, using continental center",
			logger.String("key", key))
		metrics.RecordGeocodeFallback()
	}
	a.cache[key] = c
	return c
}
