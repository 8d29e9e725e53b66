package source

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/okian/gridiron/internal/domain/model"
)

// exportRow is the flattened form of a rated game.
type exportRow struct {
	ID         string   `csv:"game_id"`
	Season     int      `csv:"season"`
	Week       int      `csv:"week"`
	WeekLabel  string   `csv:"week_label"`
	Home       string   `csv:"home"`
	Away       string   `csv:"away"`
	Neutral    flag     `csv:"neutral"`
	HomeScore  optInt   `csv:"home_score"`
	AwayScore  optInt   `csv:"away_score"`
	HomeRested flag     `csv:"home_rested"`
	AwayRested flag     `csv:"away_rested"`
	HomeTravel float64  `csv:"home_travel"`
	AwayTravel float64  `csv:"away_travel"`
	HomeEloPre optFloat `csv:"home_elo_pre"`
	AwayEloPre optFloat `csv:"away_elo_pre"`
	EloDiff    optFloat `csv:"elo_diff"`
	EloSpread  optFloat `csv:"elo_spread"`
	HomeProb   optFloat `csv:"home_prob"`
	AwayProb   optFloat `csv:"away_prob"`
	QBHomeAdj  optFloat `csv:"qb_home_adj"`
	QBAwayAdj  optFloat `csv:"qb_away_adj"`
	QBHomeProb optFloat `csv:"qb_home_prob"`
	QBSpread   optFloat `csv:"qb_spread"`
	EloDelta   optFloat `csv:"elo_delta"`
	HomeElo    optFloat `csv:"home_elo_post"`
	AwayElo    optFloat `csv:"away_elo_post"`
}

func some(v float64) optFloat { return optFloat{v: v, set: true} }

func exportOf(g *model.GameRecord) exportRow {
	row := exportRow{
		ID:         g.ID,
		Season:     g.Season,
		Week:       g.Week,
		WeekLabel:  g.Label(),
		Home:       g.Home,
		Away:       g.Away,
		Neutral:    flag(g.Neutral),
		HomeScore:  optIntOf(g.HomeScore),
		AwayScore:  optIntOf(g.AwayScore),
		HomeRested: flag(g.HomeRested),
		AwayRested: flag(g.AwayRested),
		HomeTravel: g.HomeTravel,
		AwayTravel: g.AwayTravel,
	}
	if f := g.Forecast; f != nil {
		row.HomeEloPre, row.AwayEloPre = some(f.HomeElo), some(f.AwayElo)
		row.EloDiff, row.EloSpread = some(f.EloDiff), some(f.EloSpread)
		row.HomeProb, row.AwayProb = some(f.HomeProb), some(f.AwayProb)
		if qb := f.QB; qb != nil {
			row.QBHomeAdj, row.QBAwayAdj = some(qb.HomeAdj), some(qb.AwayAdj)
			row.QBHomeProb, row.QBSpread = some(qb.HomeProb), some(qb.Spread)
		}
	}
	if o := g.Outcome; o != nil {
		row.EloDelta = some(o.EloDelta)
		row.HomeElo, row.AwayElo = some(o.HomeEloPost), some(o.AwayEloPost)
	}
	return row
}

// WriteCSV writes rated games as CSV with a header row.
func WriteCSV(w io.Writer, games []model.GameRecord) error {
	rows := make([]exportRow, 0, len(games))
	for i := range games {
		rows = append(rows, exportOf(&games[i]))
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
