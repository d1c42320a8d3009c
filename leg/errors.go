package leg

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks every input error raised before a leg is built.
	ErrConfiguration = errors.New("leg: invalid configuration")

	ErrNilSchedule          = errors.New("schedule not specified")
	ErrNoNominals           = errors.New("no nominal given")
	ErrNoCouponRates        = errors.New("coupon rates not specified")
	ErrNoDayCounter         = errors.New("day counter not specified")
	ErrNoIndex              = errors.New("index not specified")
	ErrNoVolatility         = errors.New("swaption volatility not specified")
	ErrRegularFirstOverride = errors.New("regular first coupon does not allow a first-period day count")

	// ErrInvariantViolation marks a leg whose elements are not the kind its builder promises.
	ErrInvariantViolation = errors.New("leg: invariant violation")

	// ErrNoPricer is returned when a CMS coupon amount is requested without a pricer.
	ErrNoPricer = errors.New("leg: no CMS coupon pricer set")
)

// ConfigurationError reports which builder rejected its inputs. It matches both
// ErrConfiguration and the specific cause under errors.Is.
type ConfigurationError struct {
	Builder string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Builder, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	return []error{ErrConfiguration, e.Err}
}

func configError(builder string, err error) error {
	return &ConfigurationError{Builder: builder, Err: err}
}

// InvariantViolation is the panic value raised when a leg handed to a CMS-only
// operation contains something other than a *CMSCoupon.
type InvariantViolation struct {
	Index int
	Got   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%v: element %d is %s, expected *leg.CMSCoupon", ErrInvariantViolation, e.Index, e.Got)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariantViolation
}
