package leg

import (
	"fmt"

	"github.com/meenmo/couponleg/volatility"
)

// AttachVolatility points every coupon of a CMS leg at vol. The same value is
// shared, not copied.
//
// Every element must be a *CMSCoupon. Anything else means the leg did not come
// from a CMS builder, which is a programming error: AttachVolatility panics with
// an *InvariantViolation and leaves the leg untouched. A nil vol panics with a
// *ConfigurationError matching ErrNoVolatility, also before any coupon changes.
func AttachVolatility(l Leg, vol volatility.SwaptionVolatility) {
	if vol == nil {
		panic(configError("AttachVolatility", ErrNoVolatility))
	}
	coupons := make(CMSCoupons, len(l))
	for i, c := range l {
		cms, ok := c.(*CMSCoupon)
		if !ok || cms == nil {
			panic(&InvariantViolation{Index: i, Got: fmt.Sprintf("%T", c)})
		}
		coupons[i] = cms
	}
	coupons.SetVolatility(vol)
}
