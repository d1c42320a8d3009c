package leg

import (
	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/daycount"
	"github.com/meenmo/couponleg/schedule"
)

// FixedRateCoupon pays nominal × rate × accrual period.
type FixedRateCoupon struct {
	couponPeriod
	rate float64
}

// Rate is the simple annual coupon rate as a decimal.
func (c *FixedRateCoupon) Rate() float64 { return c.rate }

// Amount is the coupon cash amount.
func (c *FixedRateCoupon) Amount() float64 {
	return c.nominal * c.rate * c.AccrualPeriod()
}

// FixedRateLegSpec are the inputs of FixedRateLeg. Nominals and CouponRates are
// broadcast per period (a short slice repeats its last value).
type FixedRateLegSpec struct {
	Schedule          *schedule.Schedule
	PaymentAdjustment calendar.BusinessDayConvention
	Nominals          []float64
	CouponRates       []float64
	DayCounter        daycount.DayCounter
	// FirstPeriodDayCounter applies to an irregular first period only; nil means DayCounter.
	FirstPeriodDayCounter daycount.DayCounter
}

// FixedRateLeg builds one FixedRateCoupon per schedule period.
func FixedRateLeg(spec FixedRateLegSpec) (Leg, error) {
	const builder = "FixedRateLeg"

	switch {
	case spec.Schedule == nil || spec.Schedule.Size() < 2:
		return nil, configError(builder, ErrNilSchedule)
	case len(spec.CouponRates) == 0:
		return nil, configError(builder, ErrNoCouponRates)
	case len(spec.Nominals) == 0:
		return nil, configError(builder, ErrNoNominals)
	case spec.DayCounter == nil:
		return nil, configError(builder, ErrNoDayCounter)
	}

	periods, err := sequencePeriods(spec.Schedule, sequenceOptions{
		paymentAdjustment:     spec.PaymentAdjustment,
		stubAdjustment:        spec.Schedule.Convention(),
		dayCounter:            spec.DayCounter,
		firstPeriodDayCounter: spec.FirstPeriodDayCounter,
	})
	if err != nil {
		return nil, configError(builder, err)
	}

	leg := make(Leg, 0, len(periods))
	for _, p := range periods {
		leg = append(leg, &FixedRateCoupon{
			couponPeriod: newCouponPeriod(Resolve(spec.Nominals, p.index, 0), p),
			rate:         Resolve(spec.CouponRates, p.index, 0),
		})
	}
	return leg, nil
}
