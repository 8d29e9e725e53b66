// Package leaguesim generates synthetic, reproducible leagues for replays and
// property tests.
package leaguesim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
)

// Generation defaults.
const (
	defaultTeams       = 16
	defaultSeasons     = 3
	defaultStartSeason = 2018
	defaultWeeks       = 17

	// Byes are spread over the middle of the season.
	firstByeWeek = 4

	baseScore     = 21.0
	strengthScale = 0.05
	scoreNoise    = 10.0
	strengthSpan  = 150.0
	qbChangeOdds  = 0.15
	draftRounds   = 7
	picksPerRound = 32
)

// League is a generated game log plus the draft board of its quarterbacks.
type League struct {
	Teams []string
	Games []model.GameRecord
	Draft []qbvalue.DraftPick
}

// Generator builds leagues from a fixed seed.
type Generator struct {
	teams       int
	seasons     int
	startSeason int
	weeks       int
	playoffs    bool
	qbs         bool
	unplayed    int
	neutral     string
	seed        int64
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		teams:       defaultTeams,
		seasons:     defaultSeasons,
		startSeason: defaultStartSeason,
		weeks:       defaultWeeks,
		playoffs:    true,
		qbs:         true,
		neutral:     "neutral-site",
		seed:        1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type club struct {
	id       string
	strength float64
	qb       string
	wins     int
}

type phase struct {
	season   int
	week     int
	label    string
	unplayed bool
}

// Generate produces the league. The same options always yield the same league.
func (g *Generator) Generate() League {
	rng := rand.New(rand.NewSource(g.seed)) //nolint:gosec // reproducible, not security sensitive
	clubs := make([]*club, g.teams)
	league := League{Teams: make([]string, g.teams)}
	qbSeq := 0
	newQB := func() string {
		qbSeq++
		id := fmt.Sprintf("QB%03d", qbSeq)
		league.Draft = append(league.Draft, qbvalue.DraftPick{
			PlayerID: id,
			Year:     g.startSeason - 1 - rng.Intn(10),
			Pick:     1 + rng.Intn(draftRounds*picksPerRound),
		})
		return id
	}
	for i := range clubs {
		clubs[i] = &club{
			id:       teamID(i),
			strength: (rng.Float64()*2 - 1) * strengthSpan,
		}
		if g.qbs {
			clubs[i].qb = newQB()
		}
		league.Teams[i] = clubs[i].id
	}

	lastSeason := g.startSeason + g.seasons - 1
	for season := g.startSeason; season <= lastSeason; season++ {
		for _, c := range clubs {
			c.wins = 0
			if g.qbs && season > g.startSeason && rng.Float64() < qbChangeOdds {
				c.qb = newQB()
			}
		}
		for week := 1; week <= g.weeks; week++ {
			ph := phase{season: season, week: week, label: fmt.Sprint(week)}
			ph.unplayed = season == lastSeason && week > g.weeks-g.unplayed
			playing := g.available(clubs, week)
			rng.Shuffle(len(playing), func(i, j int) { playing[i], playing[j] = playing[j], playing[i] })
			for k := 0; k+1 < len(playing); k += 2 {
				league.Games = append(league.Games, g.game(rng, ph, playing[k], playing[k+1], false))
			}
		}
		if g.playoffs && (g.unplayed == 0 || season < lastSeason) {
			league.Games = append(league.Games, g.postseason(rng, season, clubs)...)
		}
	}
	return league
}

// available drops the clubs on bye this week.
func (g *Generator) available(clubs []*club, week int) []*club {
	span := g.weeks - firstByeWeek - 1
	out := make([]*club, 0, len(clubs))
	for i, c := range clubs {
		if span > 1 && week == firstByeWeek+i%span {
			continue
		}
		out = append(out, c)
	}
	return out
}

// postseason seeds the four clubs with most wins into semifinals and a final
// at a neutral site.
func (g *Generator) postseason(rng *rand.Rand, season int, clubs []*club) []model.GameRecord {
	if len(clubs) < 4 {
		return nil
	}
	seeds := append([]*club(nil), clubs...)
	sort.SliceStable(seeds, func(i, j int) bool {
		if seeds[i].wins != seeds[j].wins {
			return seeds[i].wins > seeds[j].wins
		}
		return seeds[i].id < seeds[j].id
	})
	semi := phase{season: season, week: g.weeks + 1, label: "ConfChamp"}
	a := g.game(rng, semi, seeds[0], seeds[3], false)
	b := g.game(rng, semi, seeds[1], seeds[2], false)
	final := phase{season: season, week: g.weeks + 2, label: "SuperBowl"}
	c := g.game(rng, final, winner(a, seeds[0], seeds[3]), winner(b, seeds[1], seeds[2]), true)
	return []model.GameRecord{a, b, c}
}

func (g *Generator) game(rng *rand.Rand, ph phase, home, away *club, neutral bool) model.GameRecord {
	rec := model.GameRecord{
		ID:        fmt.Sprintf("%d%02d%s%s", ph.season, ph.week, home.id, away.id),
		Season:    ph.season,
		Week:      ph.week,
		WeekLabel: ph.label,
		Home:      home.id,
		Away:      away.id,
		Neutral:   neutral,
	}
	if neutral {
		rec.SiteStadium = g.neutral
	}
	if g.qbs {
		rec.HomeQB = &model.QBStart{PlayerID: home.qb}
		rec.AwayQB = &model.QBStart{PlayerID: away.qb}
	}
	if ph.unplayed {
		return rec
	}

	edge := (home.strength - away.strength) * strengthScale
	hs := points(baseScore + edge/2 + rng.NormFloat64()*scoreNoise)
	as := points(baseScore - edge/2 + rng.NormFloat64()*scoreNoise)
	rec.HomeScore, rec.AwayScore = model.IntPtr(hs), model.IntPtr(as)
	switch {
	case hs > as:
		home.wins++
	case as > hs:
		away.wins++
	}
	if g.qbs {
		rec.HomeQB.Value = model.FloatPtr(qbvalue.GameValue(statLine(rng, hs)))
		rec.AwayQB.Value = model.FloatPtr(qbvalue.GameValue(statLine(rng, as)))
	}
	return rec
}

// statLine invents a box score loosely consistent with the points scored.
func statLine(rng *rand.Rand, pts int) qbvalue.StatLine {
	att := 25 + rng.Intn(20)
	cmp := att * (55 + rng.Intn(20)) / 100
	td := pts / 10
	return qbvalue.StatLine{
		PassAtt: att,
		PassCmp: cmp,
		PassYds: cmp*10 + rng.Intn(60),
		PassTD:  td,
		PassInt: rng.Intn(3),
		Sacked:  rng.Intn(5),
		RushAtt: rng.Intn(6),
		RushYds: rng.Intn(40),
		RushTD:  rng.Intn(2) * (pts % 2),
	}
}

func winner(g model.GameRecord, home, away *club) *club {
	if *g.AwayScore > *g.HomeScore {
		return away
	}
	return home
}

func points(x float64) int {
	return int(math.Max(0, math.Round(x)))
}

func teamID(i int) string {
	return fmt.Sprintf("T%02d", i+1)
}
