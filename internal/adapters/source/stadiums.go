package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/gridiron/internal/domain/annotate"
)

// Tenure is a span of seasons a team played in one stadium. A zero To means
// the tenure is ongoing.
type Tenure struct {
	Stadium string `yaml:"stadium"`
	From    int    `yaml:"from"`
	To      int    `yaml:"to"`
}

func (t Tenure) covers(season int) bool {
	return season >= t.From && (t.To == 0 || season <= t.To)
}

// Directory is a file-backed annotate.Geocoder:
//
//	stadiums:
//	  KAN00: {lat: 39.0489, lon: -94.4839}
//	teams:
//	  kan:
//	    - {stadium: KAN00, from: 1972}
type Directory struct {
	Stadiums map[string]annotate.Coordinates `yaml:"stadiums"`
	Teams    map[string][]Tenure             `yaml:"teams"`
}

var _ annotate.Geocoder = (*Directory)(nil)

// LoadStadiums reads a stadium directory file.
func LoadStadiums(ctx context.Context, path string) (*Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	return ParseStadiums(raw)
}

// ParseStadiums decodes a stadium directory and checks every tenure names a
// known stadium.
func ParseStadiums(raw []byte) (*Directory, error) {
	var d Directory
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	for team, spans := range d.Teams {
		for _, t := range spans {
			if _, ok := d.Stadiums[t.Stadium]; !ok {
				return nil, fmt.Errorf("%w: team %s uses unknown stadium %q", ErrParseRow, team, t.Stadium)
			}
			if t.To != 0 && t.To < t.From {
				return nil, fmt.Errorf("%w: team %s tenure %d-%d", ErrParseRow, team, t.From, t.To)
			}
		}
	}
	return &d, nil
}

// TeamStadium is the stadium team played home games in during season.
func (d *Directory) TeamStadium(team string, season int) (string, bool) {
	for _, t := range d.Teams[team] {
		if t.covers(season) {
			return t.Stadium, true
		}
	}
	return "", false
}

// TeamCoordinates implements annotate.Geocoder.
func (d *Directory) TeamCoordinates(_ context.Context, team string, season int) (annotate.Coordinates, bool) {
	id, ok := d.TeamStadium(team, season)
	if !ok {
		return annotate.Coordinates{}, false
	}
	c, ok := d.Stadiums[id]
	return c, ok
}

// StadiumCoordinates implements annotate.Geocoder.
func (d *Directory) StadiumCoordinates(_ context.Context, stadium string) (annotate.Coordinates, bool) {
	c, ok := d.Stadiums[stadium]
	return c, ok
}
