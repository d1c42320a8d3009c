package legstore

import (
	"database/sql"
	"time"

	"github.com/meenmo/couponleg/leg"
)

// Coupon types as stored in leg_coupons.coupon_type.
const (
	TypeFixed    = "FIXED"
	TypeFloating = "FLOATING"
	TypeCMS      = "CMS"
)

// CouponRow is one coupon flattened for storage. Columns that do not apply to
// a coupon type are NULL.
type CouponRow struct {
	Seq           int
	Type          string
	Nominal       float64
	AccrualStart  time.Time
	AccrualEnd    time.Time
	RefStart      time.Time
	RefEnd        time.Time
	PaymentDate   time.Time
	DayCounter    string
	Index         sql.NullString
	FixingDate    sql.NullTime
	Rate          sql.NullFloat64
	Gearing       sql.NullFloat64
	Spread        sql.NullFloat64
	Cap           sql.NullFloat64
	Floor         sql.NullFloat64
	MeanReversion sql.NullFloat64
	InArrears     bool
}

// Rows flattens a leg into storage rows, numbered from zero in leg order.
func Rows(l leg.Leg) []CouponRow {
	out := make([]CouponRow, 0, len(l))
	for i, c := range l {
		r := CouponRow{
			Seq:          i,
			Nominal:      c.Nominal(),
			AccrualStart: c.AccrualStartDate(),
			AccrualEnd:   c.AccrualEndDate(),
			RefStart:     c.ReferencePeriodStart(),
			RefEnd:       c.ReferencePeriodEnd(),
			PaymentDate:  c.Date(),
			DayCounter:   c.DayCounter().Name(),
		}

		switch cp := c.(type) {
		case *leg.FixedRateCoupon:
			r.Type = TypeFixed
			r.Rate = nullFloat(cp.Rate())
		case *leg.FloatingRateCoupon:
			r.Type = TypeFloating
			r.Index = nullString(cp.Index().String())
			r.FixingDate = sql.NullTime{Time: cp.FixingDate(), Valid: true}
			r.Gearing = nullFloat(cp.Gearing())
			r.Spread = nullFloat(cp.Spread())
			r.InArrears = cp.Representation() == leg.InArrearsIndexed
		case *leg.CMSCoupon:
			r.Type = TypeCMS
			r.Index = nullString(cp.Index().String())
			r.FixingDate = sql.NullTime{Time: cp.FixingDate(), Valid: true}
			r.Gearing = nullFloat(cp.Gearing())
			r.Spread = nullFloat(cp.Spread())
			r.Cap = optionalFloat(cp.Cap())
			r.Floor = optionalFloat(cp.Floor())
			r.MeanReversion = optionalFloat(cp.MeanReversion())
			r.InArrears = cp.IsInArrears()
		}
		out = append(out, r)
	}
	return out
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func optionalFloat(o leg.Optional) sql.NullFloat64 {
	v, ok := o.Get()
	return sql.NullFloat64{Float64: v, Valid: ok}
}
