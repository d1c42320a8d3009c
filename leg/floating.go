package leg

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/daycount"
	"github.com/meenmo/couponleg/index"
	"github.com/meenmo/couponleg/schedule"
)

// Representation selects when a floating coupon's index fixing applies.
type Representation int

const (
	// UpFrontIndexed fixes the index FixingDays business days before accrual start.
	UpFrontIndexed Representation = iota
	// InArrearsIndexed fixes the index FixingDays business days before accrual end.
	InArrearsIndexed
)

func (r Representation) String() string {
	if r == InArrearsIndexed {
		return "IN_ARREARS"
	}
	return "UP_FRONT"
}

// ParseRepresentation accepts "UP_FRONT" / "IN_ARREARS" (case-insensitive).
func ParseRepresentation(s string) (Representation, error) {
	switch strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s))) {
	case "", "UP_FRONT", "UPFRONT", "IN_ADVANCE":
		return UpFrontIndexed, nil
	case "IN_ARREARS", "ARREARS":
		return InArrearsIndexed, nil
	default:
		return 0, fmt.Errorf("unknown coupon representation %q", s)
	}
}

// FloatingRateCoupon pays nominal × (gearing × fixing + spread) × accrual period.
type FloatingRateCoupon struct {
	couponPeriod
	index          *index.IborIndex
	fixingDays     int
	gearing        float64
	spread         float64
	representation Representation
}

func (c *FloatingRateCoupon) Index() *index.IborIndex        { return c.index }
func (c *FloatingRateCoupon) FixingDays() int                { return c.fixingDays }
func (c *FloatingRateCoupon) Gearing() float64               { return c.gearing }
func (c *FloatingRateCoupon) Spread() float64                { return c.spread }
func (c *FloatingRateCoupon) Representation() Representation { return c.representation }

// FixingDate is when the index is observed for this coupon.
func (c *FloatingRateCoupon) FixingDate() time.Time {
	anchor := c.accrualStart
	if c.representation == InArrearsIndexed {
		anchor = c.accrualEnd
	}
	return calendar.AddBusinessDays(c.index.Calendar, anchor, -c.fixingDays)
}

// Rate applies gearing and spread to an index fixing.
func (c *FloatingRateCoupon) Rate(fixing float64) float64 {
	return c.gearing*fixing + c.spread
}

// Amount is the coupon cash amount for a given index fixing.
func (c *FloatingRateCoupon) Amount(fixing float64) float64 {
	return c.nominal * c.Rate(fixing) * c.AccrualPeriod()
}

// FloatingRateLegSpec are the inputs of FloatingRateLeg. Gearings default to 1
// and spreads to 0 when empty.
type FloatingRateLegSpec struct {
	Schedule          *schedule.Schedule
	PaymentAdjustment calendar.BusinessDayConvention
	Nominals          []float64
	FixingDays        int
	Index             *index.IborIndex
	Gearings          []float64
	Spreads           []float64
	DayCounter        daycount.DayCounter
	Representation    Representation
}

// FloatingRateLeg builds one FloatingRateCoupon per schedule period using the
// representation chosen by the caller.
func FloatingRateLeg(spec FloatingRateLegSpec) (Leg, error) {
	return indexedCouponVector("FloatingRateLeg", spec)
}

// indexedCouponVector is the shared assembly routine for index-linked coupons.
func indexedCouponVector(builder string, spec FloatingRateLegSpec) (Leg, error) {
	switch {
	case spec.Schedule == nil || spec.Schedule.Size() < 2:
		return nil, configError(builder, ErrNilSchedule)
	case len(spec.Nominals) == 0:
		return nil, configError(builder, ErrNoNominals)
	case spec.Index == nil:
		return nil, configError(builder, ErrNoIndex)
	case spec.DayCounter == nil:
		return nil, configError(builder, ErrNoDayCounter)
	}

	periods, err := sequencePeriods(spec.Schedule, sequenceOptions{
		paymentAdjustment: spec.PaymentAdjustment,
		stubAdjustment:    spec.Schedule.Convention(),
		dayCounter:        spec.DayCounter,
	})
	if err != nil {
		return nil, configError(builder, err)
	}

	leg := make(Leg, 0, len(periods))
	for _, p := range periods {
		leg = append(leg, &FloatingRateCoupon{
			couponPeriod:   newCouponPeriod(Resolve(spec.Nominals, p.index, 0), p),
			index:          spec.Index,
			fixingDays:     spec.FixingDays,
			gearing:        Resolve(spec.Gearings, p.index, 1.0),
			spread:         Resolve(spec.Spreads, p.index, 0.0),
			representation: spec.Representation,
		})
	}
	return leg, nil
}
