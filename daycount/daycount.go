package daycount

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meenmo/couponleg/utils"
)

// DayCounter computes the accrual year fraction between two dates.
//
// refStart/refEnd describe the notional coupon period the accrual belongs to; they
// differ from start/end only on stub periods and are ignored by every convention
// except ACT/ACT (ISMA). Zero reference dates mean "no reference period".
type DayCounter interface {
	Name() string
	YearFraction(start, end, refStart, refEnd time.Time) float64
}

// Actual360 is ACT/360.
type Actual360 struct{}

func (Actual360) Name() string { return "ACT/360" }

func (Actual360) YearFraction(start, end, _, _ time.Time) float64 {
	return utils.Days(start, end) / 360.0
}

// Actual365Fixed is ACT/365F.
type Actual365Fixed struct{}

func (Actual365Fixed) Name() string { return "ACT/365F" }

func (Actual365Fixed) YearFraction(start, end, _, _ time.Time) float64 {
	return utils.Days(start, end) / 365.0
}

// Thirty360 is 30E/360 ISDA (Eurobond basis): D1 and D2 are capped at 30.
type Thirty360 struct{}

func (Thirty360) Name() string { return "30E/360" }

func (Thirty360) YearFraction(start, end, _, _ time.Time) float64 {
	d1 := start.Day()
	if d1 > 30 {
		d1 = 30
	}
	d2 := end.Day()
	if d2 > 30 {
		d2 = 30
	}
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

// ActualActualISMA is ACT/ACT (ISMA/ICMA), the bond convention that prorates
// actual days against the length of the reference coupon period.
type ActualActualISMA struct{}

func (ActualActualISMA) Name() string { return "ACT/ACT" }

func (a ActualActualISMA) YearFraction(start, end, refStart, refEnd time.Time) float64 {
	if start.Equal(end) {
		return 0
	}
	if end.Before(start) {
		return -a.YearFraction(end, start, refStart, refEnd)
	}
	if refStart.IsZero() {
		refStart = start
	}
	if refEnd.IsZero() {
		refEnd = end
	}

	months := int(math.Round(12 * utils.Days(refStart, refEnd) / 365))
	if months == 0 {
		refStart = start
		refEnd = start.AddDate(1, 0, 0)
		months = 12
	}
	period := float64(months) / 12.0

	if !end.After(refEnd) {
		if !start.Before(refStart) {
			return period * utils.Days(start, end) / utils.Days(refStart, refEnd)
		}
		// long first coupon: split at refStart
		prevRef := utils.AddMonth(refStart, -months)
		if end.After(refStart) {
			return a.YearFraction(start, refStart, prevRef, refStart) +
				a.YearFraction(refStart, end, refStart, refEnd)
		}
		return a.YearFraction(start, end, prevRef, refStart)
	}

	// long final coupon: whole reference periods plus a prorated tail
	sum := a.YearFraction(start, refEnd, refStart, refEnd)
	for i := 0; ; i++ {
		newRefStart := utils.AddMonth(refEnd, months*i)
		newRefEnd := utils.AddMonth(refEnd, months*(i+1))
		if end.Before(newRefEnd) {
			return sum + a.YearFraction(newRefStart, end, newRefStart, newRefEnd)
		}
		sum += period
	}
}

// Parse maps a convention name (as used in leg conventions and request files) to a DayCounter.
func Parse(name string) (DayCounter, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ACT/360", "A360", "ACTUAL/360":
		return Actual360{}, nil
	case "ACT/365F", "ACT/365", "A365F", "ACTUAL/365 (FIXED)":
		return Actual365Fixed{}, nil
	case "30/360", "30E/360", "EUROBOND":
		return Thirty360{}, nil
	case "ACT/ACT", "ACT/ACT ISMA", "ACT/ACT ICMA", "ACTUAL/ACTUAL":
		return ActualActualISMA{}, nil
	default:
		return nil, fmt.Errorf("unsupported day count %q", name)
	}
}

// Equal reports whether two day counters implement the same convention.
func Equal(a, b DayCounter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name() == b.Name()
}
