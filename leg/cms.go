package leg

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/daycount"
	"github.com/meenmo/couponleg/index"
	"github.com/meenmo/couponleg/schedule"
	"github.com/meenmo/couponleg/volatility"
)

// CMSCouponPricer estimates the convexity-adjusted swap rate observed by a CMS
// coupon. Models live outside this package.
type CMSCouponPricer interface {
	SwapletRate(c *CMSCoupon) (float64, error)
}

// CMSCoupon pays a capped/floored gearing × swap rate + spread.
type CMSCoupon struct {
	couponPeriod
	index         *index.SwapIndex
	fixingDays    int
	gearing       float64
	spread        float64
	capRate       Optional
	floorRate     Optional
	meanReversion Optional
	inArrears     bool
	pricer        CMSCouponPricer
	vol           volatility.SwaptionVolatility
}

func (c *CMSCoupon) Index() *index.SwapIndex { return c.index }
func (c *CMSCoupon) FixingDays() int         { return c.fixingDays }
func (c *CMSCoupon) Gearing() float64        { return c.gearing }
func (c *CMSCoupon) Spread() float64         { return c.spread }
func (c *CMSCoupon) Cap() Optional           { return c.capRate }
func (c *CMSCoupon) Floor() Optional         { return c.floorRate }
func (c *CMSCoupon) MeanReversion() Optional { return c.meanReversion }
func (c *CMSCoupon) IsInArrears() bool       { return c.inArrears }
func (c *CMSCoupon) Pricer() CMSCouponPricer { return c.pricer }

// Volatility is the swaption volatility shared by the whole leg.
func (c *CMSCoupon) Volatility() volatility.SwaptionVolatility { return c.vol }

// FixingDate observes the swap rate before accrual start, or before accrual end
// when the coupon is in arrears.
func (c *CMSCoupon) FixingDate() time.Time {
	anchor := c.accrualStart
	if c.inArrears {
		anchor = c.accrualEnd
	}
	return calendar.AddBusinessDays(c.index.Calendar, anchor, -c.fixingDays)
}

// Rate applies gearing, spread, cap and floor to a swap rate.
func (c *CMSCoupon) Rate(swapRate float64) float64 {
	r := c.gearing*swapRate + c.spread
	if f, ok := c.floorRate.Get(); ok {
		r = math.Max(r, f)
	}
	if cp, ok := c.capRate.Get(); ok {
		r = math.Min(r, cp)
	}
	return r
}

// Amount prices the swap rate through the coupon's pricer.
func (c *CMSCoupon) Amount() (float64, error) {
	if c.pricer == nil {
		return 0, ErrNoPricer
	}
	swapRate, err := c.pricer.SwapletRate(c)
	if err != nil {
		return 0, fmt.Errorf("cms coupon paying %s: %w", c.paymentDate.Format("2006-01-02"), err)
	}
	return c.nominal * c.Rate(swapRate) * c.AccrualPeriod(), nil
}

// CMSCoupons is a leg known to hold only CMS coupons.
type CMSCoupons []*CMSCoupon

// Leg widens the coupons to a generic leg.
func (cs CMSCoupons) Leg() Leg {
	out := make(Leg, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

// SetVolatility points every coupon at the same volatility structure.
// It panics on a nil vol, which would leave the coupons unpriceable.
func (cs CMSCoupons) SetVolatility(vol volatility.SwaptionVolatility) {
	if vol == nil {
		panic(configError("SetVolatility", ErrNoVolatility))
	}
	for _, c := range cs {
		c.vol = vol
	}
}

// CMSLegSpec are the inputs of the CMS builders. FixingDays is the settlement
// lag of plain CMS legs and the fixing lag of the zero and in-arrears variants.
// Empty Caps, Floors or MeanReversions leave the value unset on every coupon.
type CMSLegSpec struct {
	Schedule          *schedule.Schedule
	PaymentAdjustment calendar.BusinessDayConvention
	Nominals          []float64
	Index             *index.SwapIndex
	FixingDays        int
	DayCounter        daycount.DayCounter
	Gearings          []float64
	Spreads           []float64
	Caps              []float64
	Floors            []float64
	MeanReversions    []float64
	Pricer            CMSCouponPricer
	Volatility        volatility.SwaptionVolatility
}

// CMSLeg builds CMS coupons paid at each period end and fixed in advance.
func CMSLeg(spec CMSLegSpec) (CMSCoupons, error) {
	return cmsCouponVector("CMSLeg", spec, false, false)
}

// CMSZeroLeg builds CMS coupons that all pay on the adjusted final schedule date.
func CMSZeroLeg(spec CMSLegSpec) (CMSCoupons, error) {
	return cmsCouponVector("CMSZeroLeg", spec, true, false)
}

// CMSInArrearsLeg builds CMS coupons fixed at period end.
func CMSInArrearsLeg(spec CMSLegSpec) (CMSCoupons, error) {
	return cmsCouponVector("CMSInArrearsLeg", spec, false, true)
}

func cmsCouponVector(builder string, spec CMSLegSpec, zeroCoupon, inArrears bool) (CMSCoupons, error) {
	switch {
	case spec.Schedule == nil || spec.Schedule.Size() < 2:
		return nil, configError(builder, ErrNilSchedule)
	case len(spec.Nominals) == 0:
		return nil, configError(builder, ErrNoNominals)
	case spec.Index == nil:
		return nil, configError(builder, ErrNoIndex)
	case spec.DayCounter == nil:
		return nil, configError(builder, ErrNoDayCounter)
	case spec.Volatility == nil:
		return nil, configError(builder, ErrNoVolatility)
	}

	periods, err := sequencePeriods(spec.Schedule, sequenceOptions{
		paymentAdjustment: spec.PaymentAdjustment,
		stubAdjustment:    spec.PaymentAdjustment,
		dayCounter:        spec.DayCounter,
		zeroCoupon:        zeroCoupon,
	})
	if err != nil {
		return nil, configError(builder, err)
	}

	coupons := make(CMSCoupons, 0, len(periods))
	for _, p := range periods {
		coupons = append(coupons, &CMSCoupon{
			couponPeriod:  newCouponPeriod(Resolve(spec.Nominals, p.index, 0), p),
			index:         spec.Index,
			fixingDays:    spec.FixingDays,
			gearing:       Resolve(spec.Gearings, p.index, 1.0),
			spread:        Resolve(spec.Spreads, p.index, 0.0),
			capRate:       ResolveOptional(spec.Caps, p.index),
			floorRate:     ResolveOptional(spec.Floors, p.index),
			meanReversion: ResolveOptional(spec.MeanReversions, p.index),
			inArrears:     inArrears,
			pricer:        spec.Pricer,
			vol:           spec.Volatility,
		})
	}
	return coupons, nil
}
