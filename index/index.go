package index

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/daycount"
	"github.com/meenmo/couponleg/schedule"
)

// IborIndex is a term interbank rate (EURIBOR, TIBOR, ...).
type IborIndex struct {
	Name       string
	Tenor      schedule.Tenor
	FixingDays int
	Calendar   calendar.CalendarID
	DayCounter daycount.DayCounter
}

// FixingDate is the date on which a rate for the given value date is fixed.
func (ix *IborIndex) FixingDate(valueDate time.Time) time.Time {
	return calendar.AddBusinessDays(ix.Calendar, valueDate, -ix.FixingDays)
}

func (ix *IborIndex) String() string {
	return ix.Name
}

// SwapIndex is a constant-maturity swap rate: the par rate of a fixed-vs-IBOR swap
// of the given tenor, observed on each fixing date.
type SwapIndex struct {
	Name               string
	Tenor              schedule.Tenor
	FixingDays         int
	Calendar           calendar.CalendarID
	FixedLegTenor      schedule.Tenor
	FixedLegDayCounter daycount.DayCounter
	IborIndex          *IborIndex
}

// FixingDate is the date on which a swap rate for the given value date is fixed.
func (ix *SwapIndex) FixingDate(valueDate time.Time) time.Time {
	return calendar.AddBusinessDays(ix.Calendar, valueDate, -ix.FixingDays)
}

func (ix *SwapIndex) String() string {
	return ix.Name
}

// Presets for EUR and JPY benchmarks.
var (
	Euribor3M = &IborIndex{
		Name:       "EURIBOR3M",
		Tenor:      schedule.MustParseTenor("3M"),
		FixingDays: 2,
		Calendar:   calendar.TARGET,
		DayCounter: daycount.Actual360{},
	}

	Euribor6M = &IborIndex{
		Name:       "EURIBOR6M",
		Tenor:      schedule.MustParseTenor("6M"),
		FixingDays: 2,
		Calendar:   calendar.TARGET,
		DayCounter: daycount.Actual360{},
	}

	Tibor3M = &IborIndex{
		Name:       "TIBOR3M",
		Tenor:      schedule.MustParseTenor("3M"),
		FixingDays: 2,
		Calendar:   calendar.JPN,
		DayCounter: daycount.Actual365Fixed{},
	}

	Tibor6M = &IborIndex{
		Name:       "TIBOR6M",
		Tenor:      schedule.MustParseTenor("6M"),
		FixingDays: 2,
		Calendar:   calendar.JPN,
		DayCounter: daycount.Actual365Fixed{},
	}
)

var iborPresets = map[string]*IborIndex{
	Euribor3M.Name: Euribor3M,
	Euribor6M.Name: Euribor6M,
	Tibor3M.Name:   Tibor3M,
	Tibor6M.Name:   Tibor6M,
}

// EurSwapIsdaFixA is the EUR swap rate against 6M EURIBOR (3M for tenors of one
// year), annual 30/360 fixed leg, fixed at 11:00 Frankfurt.
func EurSwapIsdaFixA(tenor schedule.Tenor) *SwapIndex {
	float := Euribor6M
	if tenor.Months() <= 12 {
		float = Euribor3M
	}
	return &SwapIndex{
		Name:               "EURSWAP_ISDAFIXA_" + tenor.String(),
		Tenor:              tenor,
		FixingDays:         2,
		Calendar:           calendar.TARGET,
		FixedLegTenor:      schedule.MustParseTenor("1Y"),
		FixedLegDayCounter: daycount.Thirty360{},
		IborIndex:          float,
	}
}

// JpySwap is the JPY swap rate against 6M TIBOR with a semiannual ACT/365F fixed leg.
func JpySwap(tenor schedule.Tenor) *SwapIndex {
	return &SwapIndex{
		Name:               "JPYSWAP_" + tenor.String(),
		Tenor:              tenor,
		FixingDays:         2,
		Calendar:           calendar.JPN,
		FixedLegTenor:      schedule.MustParseTenor("6M"),
		FixedLegDayCounter: daycount.Actual365Fixed{},
		IborIndex:          Tibor6M,
	}
}

// LookupIbor returns a preset IBOR index by name.
func LookupIbor(name string) (*IborIndex, error) {
	ix, ok := iborPresets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown ibor index %q", name)
	}
	return ix, nil
}

// LookupSwap returns a preset swap index family ("EURSWAP", "JPYSWAP") at the given tenor.
func LookupSwap(family string, tenor schedule.Tenor) (*SwapIndex, error) {
	if tenor.Length <= 0 {
		return nil, fmt.Errorf("swap index %q: tenor must be positive", family)
	}
	switch strings.ToUpper(strings.TrimSpace(family)) {
	case "EURSWAP", "EURSWAP_ISDAFIXA", "EUR":
		return EurSwapIsdaFixA(tenor), nil
	case "JPYSWAP", "JPY":
		return JpySwap(tenor), nil
	default:
		return nil, fmt.Errorf("unknown swap index family %q", family)
	}
}
