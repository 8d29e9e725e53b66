package source_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/gridiron/internal/adapters/source"
	"github.com/okian/gridiron/internal/domain/model"
	"github.com/okian/gridiron/internal/domain/qbvalue"
	. "github.com/smartystreets/goconvey/convey"
)

const gameLog = `game_id,season,game_date,week,week_label,home,away,neutral,site_stadium,home_score,away_score,home_qb,away_qb,home_qb_value,away_qb_value,home_qb_line,away_qb_line
g1,2020,2020-09-10,,1,kan,hou,,,34,20,mahopa00,watsde00,95.5,,,30/20/200/1/1/2/3/10/0
g2,2020,2020-09-24,,3,kan,bal,N,LON00,,,mahopa00,jackla00,,,,
g3,2020,2020-12-23,,16,kan,atl,,,17,14,,,,,,
g4,2020,,19,WildCard,kan,mia,,,27,24,,,,,,
`

func TestReadGames(t *testing.T) {
	Convey("Given a game log CSV", t, func() {
		games, err := source.ReadGames(strings.NewReader(gameLog))

		Convey("Then every row becomes a record", func() {
			So(err, ShouldBeNil)
			So(len(games), ShouldEqual, 4)
			So(games[0].ID, ShouldEqual, "g1")
			So(*games[0].HomeScore, ShouldEqual, 34)
			So(games[0].Played(), ShouldBeTrue)
			So(games[1].Played(), ShouldBeFalse)
		})

		Convey("Then weeks are inferred from dates", func() {
			So(games[0].Week, ShouldEqual, 1)
			So(games[1].Week, ShouldEqual, 3)
		})

		Convey("Then a numeric label overrides the date", func() {
			// 104 days after the opener is week 15 by date.
			So(games[2].Week, ShouldEqual, 16)
		})

		Convey("Then explicit ordinals and playoff labels are kept", func() {
			So(games[3].Week, ShouldEqual, 19)
			So(games[3].IsPlayoff(), ShouldBeTrue)
		})

		Convey("Then neutral sites are flagged", func() {
			So(games[1].Neutral, ShouldBeTrue)
			So(games[1].SiteStadium, ShouldEqual, "LON00")
			So(games[0].Neutral, ShouldBeFalse)
		})

		Convey("Then the starters carry their values", func() {
			So(*games[0].HomeQB.Value, ShouldEqual, 95.5)
			line := qbvalue.StatLine{PassAtt: 30, PassCmp: 20, PassYds: 200, PassTD: 1, PassInt: 1, Sacked: 2, RushAtt: 3, RushYds: 10}
			So(*games[0].AwayQB.Value, ShouldAlmostEqual, qbvalue.GameValue(line), 1e-9)
			So(games[1].HomeQB.Value, ShouldBeNil)
			So(games[2].HomeQB, ShouldBeNil)
		})
	})

	Convey("Given rows that cannot be parsed", t, func() {
		header := "game_id,season,week,home,away,home_score,away_score,home_qb_line\n"
		for _, row := range []string{
			"g1,2020,x,kan,hou,,,",
			"g1,2020,,kan,hou,,,",
			"g1,2020,1,kan,hou,,,1/2/3",
		} {
			_, err := source.ReadGames(strings.NewReader(header + row + "\n"))
			So(err, ShouldNotBeNil)
		}
	})
}

func TestCSVFile(t *testing.T) {
	Convey("Given a game log on disk", t, func() {
		path := filepath.Join(t.TempDir(), "games.csv")
		So(os.WriteFile(path, []byte(gameLog), 0o600), ShouldBeNil)

		games, err := source.NewCSVFile(path).Games(context.Background())

		So(err, ShouldBeNil)
		So(len(games), ShouldEqual, 4)
	})

	Convey("Given a missing file", t, func() {
		_, err := source.NewCSVFile(filepath.Join(t.TempDir(), "nope.csv")).Games(context.Background())

		So(errors.Is(err, source.ErrReadSource), ShouldBeTrue)
	})
}

func TestReadDraft(t *testing.T) {
	Convey("Given a draft board with several positions", t, func() {
		board := "player_id,year,pick,pos\nmahopa00,2017,10,QB\nwatsde00,2017,12,qb\nsomeWR,2017,1,WR\njackla00,2018,32,\n"

		picks, err := source.ReadDraft(strings.NewReader(board))

		Convey("Then only quarterbacks are kept", func() {
			So(err, ShouldBeNil)
			So(len(picks), ShouldEqual, 3)
			So(picks[0], ShouldResemble, qbvalue.DraftPick{PlayerID: "mahopa00", Year: 2017, Pick: 10})
			So(picks[2].PlayerID, ShouldEqual, "jackla00")
		})
	})

	Convey("Given a pick without a player", t, func() {
		_, err := source.ReadDraft(strings.NewReader("player_id,year,pick,pos\n,2017,1,QB\n"))

		So(errors.Is(err, source.ErrParseRow), ShouldBeTrue)
	})
}

const directory = `
stadiums:
  KAN00: {lat: 39.0489, lon: -94.4839}
  OAK00: {lat: 37.7516, lon: -122.2005}
  VEG00: {lat: 36.0909, lon: -115.1833}
teams:
  kan:
    - {stadium: KAN00, from: 1972}
  rai:
    - {stadium: OAK00, from: 1995, to: 2019}
    - {stadium: VEG00, from: 2020}
`

func TestDirectory(t *testing.T) {
	Convey("Given a stadium directory", t, func() {
		d, err := source.ParseStadiums([]byte(directory))
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("Then home fields follow the tenure for the season", func() {
			c, ok := d.TeamCoordinates(ctx, "rai", 2019)
			So(ok, ShouldBeTrue)
			So(c.Lat, ShouldEqual, 37.7516)

			c, ok = d.TeamCoordinates(ctx, "rai", 2021)
			So(ok, ShouldBeTrue)
			So(c.Lat, ShouldEqual, 36.0909)
		})

		Convey("Then unknown teams and seasons are unresolved", func() {
			_, ok := d.TeamCoordinates(ctx, "rai", 1990)
			So(ok, ShouldBeFalse)
			_, ok = d.TeamCoordinates(ctx, "nwe", 2020)
			So(ok, ShouldBeFalse)
		})

		Convey("Then stadiums resolve by id", func() {
			c, ok := d.StadiumCoordinates(ctx, "KAN00")
			So(ok, ShouldBeTrue)
			So(c.Lon, ShouldEqual, -94.4839)
		})
	})

	Convey("Given a tenure at an unknown stadium", t, func() {
		_, err := source.ParseStadiums([]byte("teams:\n  kan:\n    - {stadium: NOPE, from: 1972}\n"))

		So(errors.Is(err, source.ErrParseRow), ShouldBeTrue)
	})

	Convey("Given a directory file", t, func() {
		path := filepath.Join(t.TempDir(), "stadiums.yaml")
		So(os.WriteFile(path, []byte(directory), 0o600), ShouldBeNil)

		d, err := source.LoadStadiums(context.Background(), path)

		So(err, ShouldBeNil)
		So(len(d.Stadiums), ShouldEqual, 3)
	})
}

func TestWriteCSV(t *testing.T) {
	Convey("Given rated games", t, func() {
		played := model.GameRecord{
			ID: "g1", Season: 2020, Week: 1, Home: "kan", Away: "hou",
			HomeScore: model.IntPtr(34), AwayScore: model.IntPtr(20),
			Forecast: &model.Forecast{HomeElo: 1300, AwayElo: 1300, EloDiff: 48, HomeProb: 0.5, AwayProb: 0.5},
			Outcome:  &model.Outcome{EloDelta: 20, HomeEloPost: 1320, AwayEloPost: 1280},
		}
		pending := model.GameRecord{ID: "g2", Season: 2020, Week: 2, Home: "kan", Away: "bal"}

		var buf bytes.Buffer
		So(source.WriteCSV(&buf, []model.GameRecord{played, pending}), ShouldBeNil)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

		Convey("Then there is a header and one line per game", func() {
			So(len(lines), ShouldEqual, 3)
			So(lines[0], ShouldStartWith, "game_id,season,week,week_label")
			So(lines[1], ShouldContainSubstring, "g1,2020,1,1,kan,hou,false,34,20")
			So(lines[1], ShouldContainSubstring, "1320")
		})

		Convey("Then unplayed games leave result columns blank", func() {
			So(lines[2], ShouldStartWith, "g2,2020,2,2,kan,bal,false,,")
			So(lines[2], ShouldEndWith, ",,")
		})
	})
}
