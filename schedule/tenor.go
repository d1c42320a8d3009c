package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/couponleg/utils"
)

// Unit is the time unit of a Tenor.
type Unit int

const (
	Days Unit = iota
	Weeks
	Months
	Years
)

func (u Unit) suffix() string {
	switch u {
	case Days:
		return "D"
	case Weeks:
		return "W"
	case Years:
		return "Y"
	default:
		return "M"
	}
}

// Tenor is a period length such as 3M or 10Y.
type Tenor struct {
	Length int
	Unit   Unit
}

// ParseTenor converts tenor strings like "1W", "3M", "10Y" into a Tenor.
func ParseTenor(s string) (Tenor, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return Tenor{}, fmt.Errorf("invalid tenor %q", s)
	}
	var unit Unit
	switch s[len(s)-1] {
	case 'D':
		unit = Days
	case 'W':
		unit = Weeks
	case 'M':
		unit = Months
	case 'Y':
		unit = Years
	default:
		return Tenor{}, fmt.Errorf("invalid tenor unit in %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Tenor{}, fmt.Errorf("invalid tenor length in %q: %w", s, err)
	}
	return Tenor{Length: n, Unit: unit}, nil
}

// MustParseTenor is ParseTenor for package-level presets; it panics on malformed input.
func MustParseTenor(s string) Tenor {
	t, err := ParseTenor(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Tenor) String() string {
	return strconv.Itoa(t.Length) + t.Unit.suffix()
}

// IsZero reports whether the tenor has no length.
func (t Tenor) IsZero() bool {
	return t.Length == 0
}

// Months returns the tenor in months; day and week tenors return 0.
func (t Tenor) Months() int {
	switch t.Unit {
	case Months:
		return t.Length
	case Years:
		return 12 * t.Length
	default:
		return 0
	}
}

// Years returns the tenor as a year fraction (days on a 365 basis).
func (t Tenor) Years() float64 {
	switch t.Unit {
	case Days:
		return float64(t.Length) / 365.0
	case Weeks:
		return float64(t.Length) * 7.0 / 365.0
	case Months:
		return float64(t.Length) / 12.0
	default:
		return float64(t.Length)
	}
}

// AddTo shifts d by n tenors (n may be negative). Month arithmetic clamps to
// month end the way EDATE does, so 31 Aug - 6M is 28 Feb.
func AddTo(d time.Time, t Tenor, n int) time.Time {
	switch t.Unit {
	case Days:
		return d.AddDate(0, 0, n*t.Length)
	case Weeks:
		return d.AddDate(0, 0, 7*n*t.Length)
	default:
		return utils.AddMonth(d, n*t.Months())
	}
}

// Advance returns d + t.
func Advance(d time.Time, t Tenor) time.Time {
	return AddTo(d, t, 1)
}

// Retreat returns d - t.
func Retreat(d time.Time, t Tenor) time.Time {
	return AddTo(d, t, -1)
}
