package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/gridiron/internal/domain/qbvalue"
)

// optInt is an integer cell that may be blank.
type optInt struct {
	v   int
	set bool
}

func (c *optInt) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*c = optInt{}
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%w: integer %q", ErrParseRow, s)
	}
	*c = optInt{v: v, set: true}
	return nil
}

func (c optInt) MarshalCSV() (string, error) {
	if !c.set {
		return "", nil
	}
	return strconv.Itoa(c.v), nil
}

func (c optInt) ptr() *int {
	if !c.set {
		return nil
	}
	v := c.v
	return &v
}

func optIntOf(p *int) optInt {
	if p == nil {
		return optInt{}
	}
	return optInt{v: *p, set: true}
}

// optFloat is a decimal cell that may be blank.
type optFloat struct {
	v   float64
	set bool
}

func (c *optFloat) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*c = optFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("%w: number %q", ErrParseRow, s)
	}
	*c = optFloat{v: v, set: true}
	return nil
}

func (c optFloat) MarshalCSV() (string, error) {
	if !c.set {
		return "", nil
	}
	return strconv.FormatFloat(c.v, 'f', -1, 64), nil
}

func (c optFloat) ptr() *float64 {
	if !c.set {
		return nil
	}
	v := c.v
	return &v
}

func optFloatOf(p *float64) optFloat {
	if p == nil {
		return optFloat{}
	}
	return optFloat{v: *p, set: true}
}

// flag accepts the usual boolean spellings plus "N", the neutral-site marker
// of published schedules.
type flag bool

func (f *flag) UnmarshalCSV(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "f", "false", "no":
		*f = false
	case "1", "t", "true", "yes", "n":
		*f = true
	default:
		return fmt.Errorf("%w: flag %q", ErrParseRow, s)
	}
	return nil
}

func (f flag) MarshalCSV() (string, error) {
	return strconv.FormatBool(bool(f)), nil
}

// statCell is a quarterback box score written as nine slash separated
// counts: att/cmp/yds/td/int/sacked/rush_att/rush_yds/rush_td.
type statCell struct {
	line qbvalue.StatLine
	set  bool
}

const statFields = 9

func (c *statCell) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*c = statCell{}
		return nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != statFields {
		return fmt.Errorf("%w: stat line %q needs %d fields", ErrParseRow, s, statFields)
	}
	var n [statFields]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("%w: stat line %q", ErrParseRow, s)
		}
		n[i] = v
	}
	*c = statCell{set: true, line: qbvalue.StatLine{
		PassAtt: n[0], PassCmp: n[1], PassYds: n[2], PassTD: n[3], PassInt: n[4],
		Sacked: n[5], RushAtt: n[6], RushYds: n[7], RushTD: n[8],
	}}
	return nil
}

func (c statCell) MarshalCSV() (string, error) {
	if !c.set {
		return "", nil
	}
	l := c.line
	return fmt.Sprintf("%d/%d/%d/%d/%d/%d/%d/%d/%d",
		l.PassAtt, l.PassCmp, l.PassYds, l.PassTD, l.PassInt,
		l.Sacked, l.RushAtt, l.RushYds, l.RushTD), nil
}
