package volatility

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/meenmo/couponleg/schedule"
	"github.com/meenmo/couponleg/utils"
)

// SwaptionVolatility is a read-only swaption volatility structure. One value is
// shared by every CMS coupon of a leg, so implementations must not be mutated
// after they are handed to a leg builder.
type SwaptionVolatility interface {
	ReferenceDate() time.Time
	Volatility(expiry time.Time, swapTenor schedule.Tenor, strike float64) float64
}

// Constant is a flat volatility.
type Constant struct {
	Reference time.Time
	Vol       float64
}

// NewConstant returns a flat volatility as of ref.
func NewConstant(ref time.Time, vol float64) *Constant {
	return &Constant{Reference: ref, Vol: vol}
}

func (c *Constant) ReferenceDate() time.Time { return c.Reference }

func (c *Constant) Volatility(time.Time, schedule.Tenor, float64) float64 { return c.Vol }

var (
	// ErrGridShape is returned when the vol matrix does not match its axes.
	ErrGridShape = errors.New("volatility: grid shape mismatch")
	// ErrGridAxis is returned when an axis is empty or not strictly increasing.
	ErrGridAxis = errors.New("volatility: grid axis must be non-empty and strictly increasing")
)

// Grid is an ATM swaption matrix: rows are option expiries, columns are swap
// tenors, both in years. It interpolates bilinearly and extrapolates flat; the
// strike is ignored.
type Grid struct {
	reference time.Time
	expiries  []float64
	tenors    []float64
	vols      [][]float64
}

// NewGrid validates and copies the matrix.
func NewGrid(ref time.Time, expiries, tenors []float64, vols [][]float64) (*Grid, error) {
	if err := checkAxis(expiries); err != nil {
		return nil, fmt.Errorf("expiries: %w", err)
	}
	if err := checkAxis(tenors); err != nil {
		return nil, fmt.Errorf("tenors: %w", err)
	}
	if len(vols) != len(expiries) {
		return nil, fmt.Errorf("%w: %d rows for %d expiries", ErrGridShape, len(vols), len(expiries))
	}
	cp := make([][]float64, len(vols))
	for i, row := range vols {
		if len(row) != len(tenors) {
			return nil, fmt.Errorf("%w: row %d has %d columns for %d tenors", ErrGridShape, i, len(row), len(tenors))
		}
		cp[i] = append([]float64(nil), row...)
	}
	return &Grid{
		reference: ref,
		expiries:  append([]float64(nil), expiries...),
		tenors:    append([]float64(nil), tenors...),
		vols:      cp,
	}, nil
}

func checkAxis(axis []float64) error {
	if len(axis) == 0 {
		return ErrGridAxis
	}
	for i := 1; i < len(axis); i++ {
		if axis[i] <= axis[i-1] {
			return ErrGridAxis
		}
	}
	return nil
}

func (g *Grid) ReferenceDate() time.Time { return g.reference }

func (g *Grid) Volatility(expiry time.Time, swapTenor schedule.Tenor, _ float64) float64 {
	t := utils.Days(g.reference, expiry) / 365.0
	i0, i1, wi := bracket(g.expiries, t)
	j0, j1, wj := bracket(g.tenors, swapTenor.Years())

	lo := g.vols[i0][j0]*(1-wj) + g.vols[i0][j1]*wj
	hi := g.vols[i1][j0]*(1-wj) + g.vols[i1][j1]*wj
	return lo*(1-wi) + hi*wi
}

// bracket returns the neighbouring indices around x and the weight of the upper
// one; outside the axis both indices collapse onto the boundary.
func bracket(axis []float64, x float64) (int, int, float64) {
	n := len(axis)
	idx := sort.SearchFloat64s(axis, x)
	if idx <= 0 {
		return 0, 0, 0
	}
	if idx >= n {
		return n - 1, n - 1, 0
	}
	x0, x1 := axis[idx-1], axis[idx]
	return idx - 1, idx, (x - x0) / (x1 - x0)
}
