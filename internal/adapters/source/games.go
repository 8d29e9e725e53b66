// Package source reads game logs, draft boards and stadium directories from
// local files, and writes rated logs back out.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
)

const dateLayout = "2006-01-02"

// GameSource yields a chronological game log.
type GameSource interface {
	Games(ctx context.Context) ([]model.GameRecord, error)
}

// gameRow is one line of a game log CSV. Only game_id, season, home and away
// are required; week may be left blank when game_date is present.
type gameRow struct {
	ID          string   `csv:"game_id"`
	Season      int      `csv:"season"`
	Date        string   `csv:"game_date"`
	Week        optInt   `csv:"week"`
	WeekLabel   string   `csv:"week_label"`
	Home        string   `csv:"home"`
	Away        string   `csv:"away"`
	Neutral     flag     `csv:"neutral"`
	SiteStadium string   `csv:"site_stadium"`
	HomeScore   optInt   `csv:"home_score"`
	AwayScore   optInt   `csv:"away_score"`
	HomeQB      string   `csv:"home_qb"`
	AwayQB      string   `csv:"away_qb"`
	HomeQBValue optFloat `csv:"home_qb_value"`
	AwayQBValue optFloat `csv:"away_qb_value"`
	HomeQBLine  statCell `csv:"home_qb_line"`
	AwayQBLine  statCell `csv:"away_qb_line"`
}

// CSVFile is a GameSource backed by a CSV file on disk.
type CSVFile struct {
	path string
}

// NewCSVFile returns a GameSource reading path.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{path: path}
}

// Games implements GameSource.
func (f *CSVFile) Games(ctx context.Context) ([]model.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	defer fh.Close()
	return ReadGames(fh)
}

// ReadGames decodes a game log. Rows keep their file order.
func ReadGames(r io.Reader) ([]model.GameRecord, error) {
	var rows []gameRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	openers, err := seasonOpeners(rows)
	if err != nil {
		return nil, err
	}
	games := make([]model.GameRecord, 0, len(rows))
	for i := range rows {
		g, err := rows[i].record(openers)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		games = append(games, g)
	}
	return games, nil
}

// seasonOpeners finds the earliest game date of each season.
func seasonOpeners(rows []gameRow) (map[int]time.Time, error) {
	openers := make(map[int]time.Time)
	for i := range rows {
		if rows[i].Date == "" {
			continue
		}
		d, err := time.Parse(dateLayout, strings.TrimSpace(rows[i].Date))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: date %q", i+2, ErrParseRow, rows[i].Date)
		}
		if first, ok := openers[rows[i].Season]; !ok || d.Before(first) {
			openers[rows[i].Season] = d
		}
	}
	return openers, nil
}

func (r *gameRow) record(openers map[int]time.Time) (model.GameRecord, error) {
	week, err := r.ordinal(openers)
	if err != nil {
		return model.GameRecord{}, err
	}
	g := model.GameRecord{
		ID:          strings.TrimSpace(r.ID),
		Season:      r.Season,
		Week:        week,
		WeekLabel:   strings.TrimSpace(r.WeekLabel),
		Home:        strings.TrimSpace(r.Home),
		Away:        strings.TrimSpace(r.Away),
		Neutral:     bool(r.Neutral),
		SiteStadium: strings.TrimSpace(r.SiteStadium),
		HomeScore:   r.HomeScore.ptr(),
		AwayScore:   r.AwayScore.ptr(),
		HomeQB:      start(r.HomeQB, r.HomeQBValue, r.HomeQBLine),
		AwayQB:      start(r.AwayQB, r.AwayQBValue, r.AwayQBLine),
	}
	return g, nil
}

// ordinal is the explicit week, else the week inferred from the date. A
// numeric label that disagrees with the date wins, so midweek holiday games
// stay in their published week.
func (r *gameRow) ordinal(openers map[int]time.Time) (int, error) {
	if r.Week.set {
		return r.Week.v, nil
	}
	if r.Date == "" {
		if n, err := strconv.Atoi(strings.TrimSpace(r.WeekLabel)); err == nil {
			return n, nil
		}
		return 0, fmt.Errorf("%w: game %s has neither week nor game_date", ErrParseRow, r.ID)
	}
	d, _ := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	week := int(d.Sub(openers[r.Season]).Hours()/24)/7 + 1
	if n, err := strconv.Atoi(strings.TrimSpace(r.WeekLabel)); err == nil && n != week {
		week = n
	}
	return week, nil
}

// start builds a QBStart. An explicit value takes precedence over a stat line.
func start(player string, value optFloat, line statCell) *model.QBStart {
	player = strings.TrimSpace(player)
	if player == "" {
		return nil
	}
	s := &model.QBStart{PlayerID: player, Value: value.ptr()}
	if s.Value == nil && line.set {
		v := qbvalue.GameValue(line.line)
		s.Value = &v
	}
	return s
}
