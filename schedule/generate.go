package schedule

import (
	"fmt"
	"time"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/utils"
)

// Rule selects the direction in which dates are rolled out from the anchor date.
type Rule string

const (
	// Forward rolls from the effective date; a stub, if any, is the last period.
	Forward Rule = "FORWARD"
	// Backward rolls from the termination date; a stub, if any, is the first period.
	Backward Rule = "BACKWARD"
)

// GenerateSpec describes a schedule to be rolled out between two dates.
type GenerateSpec struct {
	Effective   time.Time
	Termination time.Time
	Tenor       Tenor
	Calendar    calendar.CalendarID
	Convention  calendar.BusinessDayConvention
	// TerminationConvention adjusts the final date; empty means Convention.
	TerminationConvention calendar.BusinessDayConvention
	Rule                  Rule
	// EndOfMonth pins every generated date to month end when the anchor date is a month end.
	EndOfMonth bool
	// MinStubDays merges a stub shorter than this many days into its neighbour,
	// producing a long stub instead (0 keeps every stub).
	MinStubDays int
}

// Generate builds a Schedule by rolling the tenor out from the anchor date and
// business-day adjusting every date. Regularity is decided on unadjusted dates.
// Dates that land on the same business day after adjustment are collapsed.
func Generate(spec GenerateSpec) (*Schedule, error) {
	if !spec.Termination.After(spec.Effective) {
		return nil, fmt.Errorf("schedule: termination %s not after effective %s",
			utils.FormatDate(spec.Termination), utils.FormatDate(spec.Effective))
	}
	if spec.Tenor.Length <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTenor, spec.Tenor)
	}

	var (
		unadjusted []time.Time
		regular    []bool
	)
	switch spec.Rule {
	case Backward:
		unadjusted, regular = rollBackward(spec)
	case Forward, "":
		unadjusted, regular = rollForward(spec)
	default:
		return nil, fmt.Errorf("schedule: unknown rule %q", spec.Rule)
	}

	termConv := spec.TerminationConvention
	if termConv == "" {
		termConv = spec.Convention
	}
	adjusted := make([]time.Time, len(unadjusted))
	last := len(unadjusted) - 1
	for i, d := range unadjusted {
		conv := spec.Convention
		if i == last {
			conv = termConv
		}
		adjusted[i] = calendar.AdjustWith(spec.Calendar, d, conv)
	}
	dates, regular, err := collapse(adjusted, regular)
	if err != nil {
		return nil, err
	}
	return New(dates, regular, spec.Tenor, spec.Calendar, spec.Convention)
}

// collapse drops adjusted dates that are not after the date kept before them.
// An inner date that collides is removed and the next period keeps its own flag.
// When the termination date collides, the dates it overtakes are removed and the
// merged final period is irregular.
func collapse(adjusted []time.Time, regular []bool) ([]time.Time, []bool, error) {
	dates := []time.Time{adjusted[0]}
	flags := make([]bool, 0, len(regular))
	last := len(adjusted) - 1
	for i := 1; i <= last; i++ {
		d := adjusted[i]
		if d.After(dates[len(dates)-1]) {
			dates = append(dates, d)
			flags = append(flags, regular[i-1])
			continue
		}
		if i < last {
			continue
		}
		for len(dates) > 1 && !d.After(dates[len(dates)-1]) {
			dates = dates[:len(dates)-1]
			flags = flags[:len(flags)-1]
		}
		if !d.After(dates[0]) {
			return nil, nil, fmt.Errorf("schedule: adjusted termination %s not after adjusted effective %s",
				utils.FormatDate(d), utils.FormatDate(dates[0]))
		}
		dates = append(dates, d)
		flags = append(flags, false)
	}
	return dates, flags, nil
}

func (spec GenerateSpec) roll(anchor time.Time, n int) time.Time {
	d := AddTo(anchor, spec.Tenor, n)
	if spec.EndOfMonth && spec.Tenor.Months() > 0 && anchor.Equal(calendar.EndOfMonth(anchor)) {
		d = calendar.EndOfMonth(d)
	}
	return d
}

// rollBackward generates dates from termination back to effective; the first period
// becomes a front stub when the term is not a whole number of tenors.
func rollBackward(spec GenerateSpec) ([]time.Time, []bool) {
	var inner []time.Time
	for i := 1; ; i++ {
		d := spec.roll(spec.Termination, -i)
		if !d.After(spec.Effective) {
			break
		}
		inner = append([]time.Time{d}, inner...)
	}

	firstRegular := spec.roll(spec.Termination, -(len(inner) + 1)).Equal(spec.Effective)
	if !firstRegular && spec.MinStubDays > 0 && len(inner) > 0 &&
		int(utils.Days(spec.Effective, inner[0])) < spec.MinStubDays {
		inner = inner[1:]
	}

	dates := append([]time.Time{spec.Effective}, inner...)
	dates = append(dates, spec.Termination)
	regular := make([]bool, len(dates)-1)
	for i := range regular {
		regular[i] = true
	}
	regular[0] = firstRegular
	return dates, regular
}

// rollForward generates dates from effective up to termination; the last period
// becomes a back stub when the term is not a whole number of tenors.
func rollForward(spec GenerateSpec) ([]time.Time, []bool) {
	dates := []time.Time{spec.Effective}
	lastRegular := true
	for i := 1; ; i++ {
		d := spec.roll(spec.Effective, i)
		if !d.Before(spec.Termination) {
			lastRegular = d.Equal(spec.Termination)
			break
		}
		dates = append(dates, d)
	}

	if !lastRegular && spec.MinStubDays > 0 && len(dates) > 1 &&
		int(utils.Days(dates[len(dates)-1], spec.Termination)) < spec.MinStubDays {
		dates = dates[:len(dates)-1]
	}
	dates = append(dates, spec.Termination)

	regular := make([]bool, len(dates)-1)
	for i := range regular {
		regular[i] = true
	}
	regular[len(regular)-1] = lastRegular
	return dates, regular
}
