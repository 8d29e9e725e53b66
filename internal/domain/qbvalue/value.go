package qbvalue

// StatLine is a quarterback's box score for one game.
type StatLine struct {
	PassAtt int
	PassCmp int
	PassYds int
	PassTD  int
	PassInt int
	Sacked  int
	RushAtt int
	RushYds int
	RushTD  int
}

// Per-stat weights of the game value.
const (
	wPassAtt = -2.2
	wPassCmp = 3.7
	wPassYds = 0.2
	wPassTD  = 11.3
	wPassInt = -14.1
	wSacked  = -8.0
	wRushAtt = -1.1
	wRushYds = 0.6
	wRushTD  = 15.9
)

// GameValue is the observed value of a stat line.
func GameValue(s StatLine) float64 {
	return wPassAtt*float64(s.PassAtt) +
		wPassCmp*float64(s.PassCmp) +
		wPassYds*float64(s.PassYds) +
		wPassTD*float64(s.PassTD) +
		wPassInt*float64(s.PassInt) +
		wSacked*float64(s.Sacked) +
		wRushAtt*float64(s.RushAtt) +
		wRushYds*float64(s.RushYds) +
		wRushTD*float64(s.RushTD)
}
