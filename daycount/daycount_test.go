package daycount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/couponleg/daycount"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSimpleConventions(t *testing.T) {
	t.Parallel()

	start, end := date(2025, 1, 31), date(2025, 7, 31)
	var zero time.Time

	assert.InDelta(t, 181.0/360.0, daycount.Actual360{}.YearFraction(start, end, zero, zero), 1e-12)
	assert.InDelta(t, 181.0/365.0, daycount.Actual365Fixed{}.YearFraction(start, end, zero, zero), 1e-12)
	assert.InDelta(t, 0.5, daycount.Thirty360{}.YearFraction(start, end, zero, zero), 1e-12)
}

func TestActualActualISMA_RegularPeriodIsExactFraction(t *testing.T) {
	t.Parallel()

	dc := daycount.ActualActualISMA{}
	start, end := date(2025, 1, 15), date(2025, 7, 15)
	assert.InDelta(t, 0.5, dc.YearFraction(start, end, start, end), 1e-12)
}

func TestActualActualISMA_ShortFirstStubUsesReferencePeriod(t *testing.T) {
	t.Parallel()

	dc := daycount.ActualActualISMA{}
	refStart, start, end := date(2025, 1, 15), date(2025, 4, 15), date(2025, 7, 15)
	got := dc.YearFraction(start, end, refStart, end)
	want := 0.5 * 91.0 / 181.0
	assert.InDelta(t, want, got, 1e-12)
}

func TestActualActualISMA_LongFinalPeriod(t *testing.T) {
	t.Parallel()

	dc := daycount.ActualActualISMA{}
	start, refEnd, end := date(2025, 1, 15), date(2025, 7, 15), date(2025, 10, 15)
	got := dc.YearFraction(start, end, start, refEnd)
	want := 0.5 + 0.5*92.0/184.0
	assert.InDelta(t, want, got, 1e-12)
}

func TestParseAndEqual(t *testing.T) {
	t.Parallel()

	dc, err := daycount.Parse("act/365")
	require.NoError(t, err)
	assert.Equal(t, "ACT/365F", dc.Name())

	other, err := daycount.Parse("ACT/365F")
	require.NoError(t, err)
	assert.True(t, daycount.Equal(dc, other))
	assert.False(t, daycount.Equal(dc, daycount.Actual360{}))
	assert.False(t, daycount.Equal(dc, nil))
	assert.True(t, daycount.Equal(nil, nil))

	_, err = daycount.Parse("BUS/252")
	require.Error(t, err)
}
