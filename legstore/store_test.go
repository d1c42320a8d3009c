package legstore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/daycount"
	"github.com/meenmo/couponleg/index"
	"github.com/meenmo/couponleg/leg"
	"github.com/meenmo/couponleg/schedule"
	"github.com/meenmo/couponleg/volatility"
)

func testSchedule(t *testing.T) *schedule.Schedule {
	t.Helper()
	s, err := schedule.New(
		[]time.Time{
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		[]bool{true, true}, schedule.MustParseTenor("6M"), calendar.TARGET, calendar.ModifiedFollowing)
	require.NoError(t, err)
	return s
}

func TestRowsFixed(t *testing.T) {
	l, err := leg.FixedRateLeg(leg.FixedRateLegSpec{
		Schedule:    testSchedule(t),
		Nominals:    []float64{100},
		CouponRates: []float64{0.02, 0.025},
		DayCounter:  daycount.Thirty360{},
	})
	require.NoError(t, err)

	rows := Rows(l)
	require.Len(t, rows, 2)
	for i, r := range rows {
		assert.Equal(t, i, r.Seq)
		assert.Equal(t, TypeFixed, r.Type)
		assert.Equal(t, "30E/360", r.DayCounter)
		assert.False(t, r.Index.Valid)
		assert.False(t, r.FixingDate.Valid)
		assert.False(t, r.Cap.Valid)
	}
	assert.Equal(t, 0.025, rows[1].Rate.Float64)
	assert.Equal(t, l[1].Date(), rows[1].PaymentDate)
}

func TestRowsCMS(t *testing.T) {
	coupons, err := leg.CMSInArrearsLeg(leg.CMSLegSpec{
		Schedule:       testSchedule(t),
		Nominals:       []float64{1e6},
		Index:          index.EurSwapIsdaFixA(schedule.MustParseTenor("10Y")),
		FixingDays:     2,
		DayCounter:     daycount.Actual360{},
		Caps:           []float64{0.04},
		MeanReversions: []float64{0.01},
		Volatility:     volatility.NewConstant(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 0.2),
	})
	require.NoError(t, err)

	rows := Rows(coupons.Leg())
	require.Len(t, rows, 2)
	r := rows[0]
	assert.Equal(t, TypeCMS, r.Type)
	assert.Equal(t, "EURSWAP_ISDAFIXA_10Y", r.Index.String)
	assert.True(t, r.InArrears)
	assert.Equal(t, coupons[0].FixingDate(), r.FixingDate.Time)
	assert.True(t, r.Cap.Valid)
	assert.Equal(t, 0.04, r.Cap.Float64)
	assert.False(t, r.Floor.Valid)
	assert.True(t, r.MeanReversion.Valid)
	assert.Equal(t, 0.01, r.MeanReversion.Float64)
	assert.False(t, r.Rate.Valid)
	assert.Equal(t, 1.0, r.Gearing.Float64)
}

func TestRowsFloating(t *testing.T) {
	l, err := leg.FloatingRateLeg(leg.FloatingRateLegSpec{
		Schedule:   testSchedule(t),
		Nominals:   []float64{1e6},
		Index:      index.Euribor6M,
		FixingDays: 2,
		Spreads:    []float64{0.0015},
		DayCounter: daycount.Actual360{},
	})
	require.NoError(t, err)

	r := Rows(l)[1]
	assert.Equal(t, TypeFloating, r.Type)
	assert.Equal(t, "EURIBOR6M", r.Index.String)
	assert.Equal(t, 0.0015, r.Spread.Float64)
	assert.False(t, r.InArrears)
}

// TestStoreRoundTrip needs a disposable database, e.g.
// COUPONLEG_TEST_DSN=postgres://postgres@localhost/couponleg_test?sslmode=disable
func TestStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("COUPONLEG_TEST_DSN")
	if dsn == "" {
		t.Skip("COUPONLEG_TEST_DSN not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))

	l, err := leg.FixedRateLeg(leg.FixedRateLegSpec{
		Schedule:    testSchedule(t),
		Nominals:    []float64{100},
		CouponRates: []float64{0.02},
		DayCounter:  daycount.Actual360{},
	})
	require.NoError(t, err)

	name := fmt.Sprintf("roundtrip-%d", time.Now().UnixNano())
	id, err := s.SaveLeg(ctx, name, "fixed", l)
	require.NoError(t, err)

	_, err = s.SaveLeg(ctx, name, "fixed", l)
	require.ErrorIs(t, err, ErrDuplicateLeg)

	got, err := s.LoadCoupons(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, len(l))
	for i, r := range got {
		assert.Equal(t, i, r.Seq)
		assert.True(t, l[i].Date().Equal(r.PaymentDate))
		assert.InDelta(t, 0.02, r.Rate.Float64, 1e-15)
	}

	_, err = s.LoadCoupons(ctx, -1)
	require.ErrorIs(t, err, ErrLegNotFound)

	_, err = s.SaveLeg(ctx, name+"-empty", "fixed", nil)
	require.ErrorIs(t, err, ErrEmptyLeg)
}
