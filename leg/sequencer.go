package leg

import (
	"time"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/daycount"
	"github.com/meenmo/couponleg/schedule"
)

// period is one accrual interval of a schedule, ready to become a coupon.
type period struct {
	index        int
	accrualStart time.Time
	accrualEnd   time.Time
	refStart     time.Time
	refEnd       time.Time
	paymentDate  time.Time
	dayCounter   daycount.DayCounter
}

type sequenceOptions struct {
	paymentAdjustment calendar.BusinessDayConvention
	// stubAdjustment rolls the notional reference date of a stub.
	stubAdjustment calendar.BusinessDayConvention
	dayCounter     daycount.DayCounter
	// firstPeriodDayCounter overrides dayCounter on an irregular first period.
	firstPeriodDayCounter daycount.DayCounter
	// zeroCoupon pays every period on the adjusted final schedule date.
	zeroCoupon bool
}

// sequencePeriods walks the schedule and returns one period per interval.
//
// The first period may be a front stub and the last a back stub; on a stub the
// reference period is the full schedule tenor measured from the stub's regular
// end (front) or start (back), so day counters that prorate against the
// reference period see a notional regular coupon.
func sequencePeriods(s *schedule.Schedule, opts sequenceOptions) ([]period, error) {
	n := s.Size()
	cal := s.Calendar()
	out := make([]period, 0, n-1)

	payment := func(end time.Time) time.Time {
		return calendar.AdjustWith(cal, end, opts.paymentAdjustment)
	}
	if opts.zeroCoupon {
		final := payment(s.EndDate())
		payment = func(time.Time) time.Time { return final }
	}

	// first period might be short or long
	start, end := s.Date(0), s.Date(1)
	first := period{
		index:        0,
		accrualStart: start,
		accrualEnd:   end,
		refStart:     start,
		refEnd:       end,
		paymentDate:  payment(end),
		dayCounter:   opts.dayCounter,
	}
	if s.IsRegular(0) {
		if opts.firstPeriodDayCounter != nil && !daycount.Equal(opts.firstPeriodDayCounter, opts.dayCounter) {
			return nil, ErrRegularFirstOverride
		}
	} else {
		first.refStart = calendar.AdjustWith(cal, schedule.Retreat(end, s.Tenor()), opts.stubAdjustment)
		if opts.firstPeriodDayCounter != nil {
			first.dayCounter = opts.firstPeriodDayCounter
		}
	}
	out = append(out, first)

	// regular periods
	for i := 1; i < n-2; i++ {
		start, end = end, s.Date(i+1)
		out = append(out, period{
			index:        i,
			accrualStart: start,
			accrualEnd:   end,
			refStart:     start,
			refEnd:       end,
			paymentDate:  payment(end),
			dayCounter:   opts.dayCounter,
		})
	}

	if n > 2 {
		// last period might be short or long
		start, end = end, s.Date(n-1)
		last := period{
			index:        n - 2,
			accrualStart: start,
			accrualEnd:   end,
			refStart:     start,
			refEnd:       end,
			paymentDate:  payment(end),
			dayCounter:   opts.dayCounter,
		}
		if !s.IsRegular(n - 2) {
			last.refEnd = calendar.AdjustWith(cal, schedule.Advance(start, s.Tenor()), opts.stubAdjustment)
		}
		out = append(out, last)
	}
	return out, nil
}
