// Package report renders built legs as JSON coupon tables.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/meenmo/couponleg/leg"
	"github.com/meenmo/couponleg/utils"
)

// Decimal places kept in the output.
const (
	amountPlaces  = 2
	ratePlaces    = 8
	accrualPlaces = 10
)

// LegReport is the output of one leg request.
type LegReport struct {
	Name        string           `json:"name"`
	Kind        string           `json:"kind"`
	LegID       int64            `json:"leg_id,omitempty"`
	Coupons     []CouponLine     `json:"coupons,omitempty"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// CouponLine is one coupon. Rate and Amount are only known for fixed coupons.
type CouponLine struct {
	Seq            int              `json:"seq"`
	Type           string           `json:"type"`
	AccrualStart   string           `json:"accrual_start"`
	AccrualEnd     string           `json:"accrual_end"`
	RefStart       string           `json:"ref_start"`
	RefEnd         string           `json:"ref_end"`
	PaymentDate    string           `json:"payment_date"`
	FixingDate     string           `json:"fixing_date,omitempty"`
	DayCounter     string           `json:"day_counter"`
	Nominal        decimal.Decimal  `json:"nominal"`
	AccrualPeriod  decimal.Decimal  `json:"accrual_period"`
	Rate           *decimal.Decimal `json:"rate,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Index          string           `json:"index,omitempty"`
	Gearing        *decimal.Decimal `json:"gearing,omitempty"`
	Spread         *decimal.Decimal `json:"spread,omitempty"`
	Cap            *decimal.Decimal `json:"cap,omitempty"`
	Floor          *decimal.Decimal `json:"floor,omitempty"`
	MeanReversion  *decimal.Decimal `json:"mean_reversion,omitempty"`
	InArrears      bool             `json:"in_arrears,omitempty"`
	Representation string           `json:"representation,omitempty"`
}

// Failed reports a request that could not be built.
func Failed(name, kind string, err error) LegReport {
	return LegReport{Name: name, Kind: kind, Error: err.Error()}
}

// New tabulates a leg.
func New(name, kind string, l leg.Leg) LegReport {
	rep := LegReport{Name: name, Kind: kind, Coupons: make([]CouponLine, 0, len(l))}

	total := decimal.Zero
	allFixed := len(l) > 0
	for i, c := range l {
		line := CouponLine{
			Seq:           i,
			AccrualStart:  utils.FormatDate(c.AccrualStartDate()),
			AccrualEnd:    utils.FormatDate(c.AccrualEndDate()),
			RefStart:      utils.FormatDate(c.ReferencePeriodStart()),
			RefEnd:        utils.FormatDate(c.ReferencePeriodEnd()),
			PaymentDate:   utils.FormatDate(c.Date()),
			DayCounter:    c.DayCounter().Name(),
			Nominal:       round(c.Nominal(), amountPlaces),
			AccrualPeriod: round(c.AccrualPeriod(), accrualPlaces),
		}

		switch cp := c.(type) {
		case *leg.FixedRateCoupon:
			line.Type = "FIXED"
			line.Rate = roundPtr(cp.Rate(), ratePlaces)
			amount := round(cp.Amount(), amountPlaces)
			line.Amount = &amount
			total = total.Add(amount)
		case *leg.FloatingRateCoupon:
			allFixed = false
			line.Type = "FLOATING"
			line.Index = cp.Index().String()
			line.FixingDate = utils.FormatDate(cp.FixingDate())
			line.Gearing = roundPtr(cp.Gearing(), ratePlaces)
			line.Spread = roundPtr(cp.Spread(), ratePlaces)
			line.Representation = cp.Representation().String()
		case *leg.CMSCoupon:
			allFixed = false
			line.Type = "CMS"
			line.Index = cp.Index().String()
			line.FixingDate = utils.FormatDate(cp.FixingDate())
			line.Gearing = roundPtr(cp.Gearing(), ratePlaces)
			line.Spread = roundPtr(cp.Spread(), ratePlaces)
			if v, ok := cp.Cap().Get(); ok {
				line.Cap = roundPtr(v, ratePlaces)
			}
			if v, ok := cp.Floor().Get(); ok {
				line.Floor = roundPtr(v, ratePlaces)
			}
			if v, ok := cp.MeanReversion().Get(); ok {
				line.MeanReversion = roundPtr(v, ratePlaces)
			}
			line.InArrears = cp.IsInArrears()
		default:
			allFixed = false
		}
		rep.Coupons = append(rep.Coupons, line)
	}

	if allFixed {
		rep.TotalAmount = &total
	}
	return rep
}

func round(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

func roundPtr(v float64, places int32) *decimal.Decimal {
	d := round(v, places)
	return &d
}
