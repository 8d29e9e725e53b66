package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/okian/gridiron/internal/domain/qbvalue"
)

// draftRow is one selection of a draft board CSV.
type draftRow struct {
	PlayerID string `csv:"player_id"`
	Year     int    `csv:"year"`
	Pick     int    `csv:"pick"`
	Pos      string `csv:"pos"`
}

// LoadDraft reads the quarterback picks of a draft board file.
func LoadDraft(ctx context.Context, path string) ([]qbvalue.DraftPick, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	defer fh.Close()
	return ReadDraft(fh)
}

// ReadDraft decodes a draft board. Rows with a position other than QB are
// skipped; a blank position is taken as QB.
func ReadDraft(r io.Reader) ([]qbvalue.DraftPick, error) {
	var rows []draftRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	picks := make([]qbvalue.DraftPick, 0, len(rows))
	for i, row := range rows {
		if pos := strings.TrimSpace(row.Pos); pos != "" && !strings.EqualFold(pos, "QB") {
			continue
		}
		id := strings.TrimSpace(row.PlayerID)
		if id == "" || row.Pick < 1 {
			return nil, fmt.Errorf("line %d: %w: draft pick needs player_id and pick", i+2, ErrParseRow)
		}
		picks = append(picks, qbvalue.DraftPick{PlayerID: id, Year: row.Year, Pick: row.Pick})
	}
	return picks, nil
}
