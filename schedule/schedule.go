package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/utils"
)

var (
	// ErrTooFewDates is returned when a schedule has fewer than two dates.
	ErrTooFewDates = errors.New("schedule: at least two dates required")
	// ErrNotIncreasing is returned when schedule dates are not strictly increasing.
	ErrNotIncreasing = errors.New("schedule: dates must be strictly increasing")
	// ErrRegularityMismatch is returned when the regular flags do not match the period count.
	ErrRegularityMismatch = errors.New("schedule: one regularity flag per period required")
	// ErrInvalidTenor is returned when the tenor is not positive.
	ErrInvalidTenor = errors.New("schedule: tenor must be positive")
)

// Schedule is an ordered set of accrual boundary dates plus, per period, whether the
// period spans exactly one tenor. It is read-only once built.
//
// Period i runs from Date(i) to Date(i+1); IsRegular(i) describes that period.
type Schedule struct {
	dates      []time.Time
	regular    []bool
	tenor      Tenor
	cal        calendar.CalendarID
	convention calendar.BusinessDayConvention
}

// New validates and wraps an explicit date list. The slices are copied.
func New(dates []time.Time, regular []bool, tenor Tenor, cal calendar.CalendarID, conv calendar.BusinessDayConvention) (*Schedule, error) {
	if len(dates) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewDates, len(dates))
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return nil, fmt.Errorf("%w: date %d (%s) not after %s", ErrNotIncreasing, i,
				utils.FormatDate(dates[i]), utils.FormatDate(dates[i-1]))
		}
	}
	if len(regular) != len(dates)-1 {
		return nil, fmt.Errorf("%w: %d dates, %d flags", ErrRegularityMismatch, len(dates), len(regular))
	}
	if tenor.Length <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTenor, tenor)
	}

	s := &Schedule{
		dates:      append([]time.Time(nil), dates...),
		regular:    append([]bool(nil), regular...),
		tenor:      tenor,
		cal:        cal,
		convention: conv,
	}
	return s, nil
}

// Size is the number of dates.
func (s *Schedule) Size() int { return len(s.dates) }

// Periods is the number of accrual periods (Size-1).
func (s *Schedule) Periods() int { return len(s.dates) - 1 }

// Date returns the i-th boundary date.
func (s *Schedule) Date(i int) time.Time { return s.dates[i] }

// Dates returns a copy of all boundary dates.
func (s *Schedule) Dates() []time.Time { return append([]time.Time(nil), s.dates...) }

// IsRegular reports whether period i (zero-based) spans exactly one tenor.
func (s *Schedule) IsRegular(period int) bool { return s.regular[period] }

func (s *Schedule) Tenor() Tenor                               { return s.tenor }
func (s *Schedule) Calendar() calendar.CalendarID              { return s.cal }
func (s *Schedule) Convention() calendar.BusinessDayConvention { return s.convention }
func (s *Schedule) StartDate() time.Time                       { return s.dates[0] }
func (s *Schedule) EndDate() time.Time                         { return s.dates[len(s.dates)-1] }
