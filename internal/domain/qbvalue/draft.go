package qbvalue

// Draft prior defaults: value at pick zero and the change per pick. The
// slope is negative so earlier picks start higher.
const (
	DefaultBestValue = 34.313
	DefaultPerPick   = -0.137
)

// DraftPriors supplies a starting value for quarterbacks with no history.
type DraftPriors interface {
	Prior(player string) (float64, bool)
}

// DraftPick is one quarterback selection.
type DraftPick struct {
	PlayerID string
	Year     int
	Pick     int
}

// DraftTable is a DraftPriors built from draft picks with a linear value.
type DraftTable struct {
	best    float64
	perPick float64
	picks   map[string]int
}

// NewDraftTable indexes picks. When a player appears more than once the first
// entry wins.
func NewDraftTable(picks []DraftPick, best, perPick float64) *DraftTable {
	t := &DraftTable{best: best, perPick: perPick, picks: make(map[string]int, len(picks))}
	for _, p := range picks {
		if _, seen := t.picks[p.PlayerID]; seen || p.PlayerID == "" {
			continue
		}
		t.picks[p.PlayerID] = p.Pick
	}
	return t
}

// Prior returns best + perPick*pick for drafted players.
func (t *DraftTable) Prior(player string) (float64, bool) {
	pick, ok := t.picks[player]
	if !ok {
		return 0, false
	}
	return t.best + t.perPick*float64(pick), true
}

// Len is the number of distinct drafted players.
func (t *DraftTable) Len() int { return len(t.picks) }

type noPriors struct{}

func (noPriors) Prior(string) (float64, bool) { return 0, false }
