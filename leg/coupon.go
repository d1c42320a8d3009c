package leg

import (
	"time"

	"github.com/meenmo/couponleg/daycount"
)

// CashFlow is anything paid on a date.
type CashFlow interface {
	Date() time.Time
}

// Coupon is an accruing cash flow over one schedule period.
type Coupon interface {
	CashFlow
	Nominal() float64
	AccrualStartDate() time.Time
	AccrualEndDate() time.Time
	ReferencePeriodStart() time.Time
	ReferencePeriodEnd() time.Time
	DayCounter() daycount.DayCounter
	AccrualPeriod() float64
}

// Leg is an ordered sequence of coupons, one per schedule period.
type Leg []Coupon

// PaymentDates lists the payment date of every coupon in order.
func (l Leg) PaymentDates() []time.Time {
	out := make([]time.Time, len(l))
	for i, c := range l {
		out[i] = c.Date()
	}
	return out
}

// couponPeriod holds the dates and nominal shared by every coupon kind.
type couponPeriod struct {
	nominal      float64
	paymentDate  time.Time
	accrualStart time.Time
	accrualEnd   time.Time
	refStart     time.Time
	refEnd       time.Time
	dayCounter   daycount.DayCounter
}

func newCouponPeriod(nominal float64, p period) couponPeriod {
	return couponPeriod{
		nominal:      nominal,
		paymentDate:  p.paymentDate,
		accrualStart: p.accrualStart,
		accrualEnd:   p.accrualEnd,
		refStart:     p.refStart,
		refEnd:       p.refEnd,
		dayCounter:   p.dayCounter,
	}
}

func (c *couponPeriod) Date() time.Time                 { return c.paymentDate }
func (c *couponPeriod) Nominal() float64                { return c.nominal }
func (c *couponPeriod) AccrualStartDate() time.Time     { return c.accrualStart }
func (c *couponPeriod) AccrualEndDate() time.Time       { return c.accrualEnd }
func (c *couponPeriod) ReferencePeriodStart() time.Time { return c.refStart }
func (c *couponPeriod) ReferencePeriodEnd() time.Time   { return c.refEnd }
func (c *couponPeriod) DayCounter() daycount.DayCounter { return c.dayCounter }

// AccrualPeriod is the day-count fraction of the accrual period, measured
// against the reference period.
func (c *couponPeriod) AccrualPeriod() float64 {
	return c.dayCounter.YearFraction(c.accrualStart, c.accrualEnd, c.refStart, c.refEnd)
}
