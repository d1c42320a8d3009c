package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/meenmo/couponleg/calendar"
	"github.com/meenmo/couponleg/schedule"
	"github.com/meenmo/couponleg/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertDates(t *testing.T, s *schedule.Schedule, want ...time.Time) {
	t.Helper()
	if s.Size() != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), s.Size(), s.Dates())
	}
	for i, w := range want {
		if !s.Date(i).Equal(w) {
			t.Fatalf("date %d: got %s want %s", i, utils.FormatDate(s.Date(i)), utils.FormatDate(w))
		}
	}
}

func assertRegular(t *testing.T, s *schedule.Schedule, want ...bool) {
	t.Helper()
	for i, w := range want {
		if s.IsRegular(i) != w {
			t.Fatalf("period %d: IsRegular=%v want %v", i, s.IsRegular(i), w)
		}
	}
}

func TestParseTenor(t *testing.T) {
	t.Parallel()

	cases := map[string]schedule.Tenor{
		"3M":  {Length: 3, Unit: schedule.Months},
		"10y": {Length: 10, Unit: schedule.Years},
		"2W":  {Length: 2, Unit: schedule.Weeks},
		"1D":  {Length: 1, Unit: schedule.Days},
	}
	for in, want := range cases {
		got, err := schedule.ParseTenor(in)
		if err != nil {
			t.Fatalf("ParseTenor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseTenor(%q) = %+v, want %+v", in, got, want)
		}
	}
	for _, bad := range []string{"", "M", "3X", "xM"} {
		if _, err := schedule.ParseTenor(bad); err == nil {
			t.Fatalf("ParseTenor(%q): expected error", bad)
		}
	}
	if s := schedule.MustParseTenor("18M").String(); s != "18M" {
		t.Fatalf("String() = %s", s)
	}
}

func TestTenorArithmeticClampsMonthEnd(t *testing.T) {
	t.Parallel()

	sixM := schedule.MustParseTenor("6M")
	if got := schedule.Retreat(date(2025, 8, 31), sixM); !got.Equal(date(2025, 2, 28)) {
		t.Fatalf("Retreat = %s", utils.FormatDate(got))
	}
	if got := schedule.Advance(date(2025, 8, 31), sixM); !got.Equal(date(2026, 2, 28)) {
		t.Fatalf("Advance = %s", utils.FormatDate(got))
	}
	if got := schedule.Advance(date(2025, 1, 1), schedule.MustParseTenor("2W")); !got.Equal(date(2025, 1, 15)) {
		t.Fatalf("Advance 2W = %s", utils.FormatDate(got))
	}
}

func TestNewValidates(t *testing.T) {
	t.Parallel()

	tenor := schedule.MustParseTenor("3M")
	cases := []struct {
		name    string
		dates   []time.Time
		regular []bool
		tenor   schedule.Tenor
		want    error
	}{
		{"too few", []time.Time{date(2025, 1, 1)}, nil, tenor, schedule.ErrTooFewDates},
		{"not increasing", []time.Time{date(2025, 4, 1), date(2025, 1, 1)}, []bool{true}, tenor, schedule.ErrNotIncreasing},
		{"duplicate", []time.Time{date(2025, 1, 1), date(2025, 1, 1)}, []bool{true}, tenor, schedule.ErrNotIncreasing},
		{"flag count", []time.Time{date(2025, 1, 1), date(2025, 4, 1)}, []bool{true, true}, tenor, schedule.ErrRegularityMismatch},
		{"zero tenor", []time.Time{date(2025, 1, 1), date(2025, 4, 1)}, []bool{true}, schedule.Tenor{}, schedule.ErrInvalidTenor},
	}
	for _, tc := range cases {
		_, err := schedule.New(tc.dates, tc.regular, tc.tenor, calendar.WeekendsOnly, calendar.Unadjusted)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestNewCopiesInput(t *testing.T) {
	t.Parallel()

	dates := []time.Time{date(2025, 1, 1), date(2025, 4, 1)}
	s, err := schedule.New(dates, []bool{true}, schedule.MustParseTenor("3M"), calendar.WeekendsOnly, calendar.Unadjusted)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dates[1] = date(2030, 1, 1)
	if !s.EndDate().Equal(date(2025, 4, 1)) {
		t.Fatalf("schedule aliased caller slice")
	}
}

func TestGenerate_BackwardFrontStub(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.GenerateSpec{
		Effective:   date(2025, 1, 15),
		Termination: date(2026, 4, 15),
		Tenor:       schedule.MustParseTenor("6M"),
		Calendar:    calendar.WeekendsOnly,
		Convention:  calendar.Unadjusted,
		Rule:        schedule.Backward,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertDates(t, s, date(2025, 1, 15), date(2025, 4, 15), date(2025, 10, 15), date(2026, 4, 15))
	assertRegular(t, s, false, true, true)
}

func TestGenerate_ForwardBackStub(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.GenerateSpec{
		Effective:   date(2025, 1, 15),
		Termination: date(2026, 4, 15),
		Tenor:       schedule.MustParseTenor("6M"),
		Calendar:    calendar.WeekendsOnly,
		Convention:  calendar.Unadjusted,
		Rule:        schedule.Forward,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertDates(t, s, date(2025, 1, 15), date(2025, 7, 15), date(2026, 1, 15), date(2026, 4, 15))
	assertRegular(t, s, true, true, false)
}

func TestGenerate_MergesShortStub(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.GenerateSpec{
		Effective:   date(2025, 4, 10),
		Termination: date(2026, 4, 15),
		Tenor:       schedule.MustParseTenor("6M"),
		Calendar:    calendar.WeekendsOnly,
		Convention:  calendar.Unadjusted,
		Rule:        schedule.Backward,
		MinStubDays: 7,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertDates(t, s, date(2025, 4, 10), date(2025, 10, 15), date(2026, 4, 15))
	assertRegular(t, s, false, true)
}

func TestGenerate_EndOfMonthAndAdjustment(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.GenerateSpec{
		Effective:   date(2025, 2, 28),
		Termination: date(2025, 6, 30),
		Tenor:       schedule.MustParseTenor("1M"),
		Calendar:    calendar.TARGET,
		Convention:  calendar.ModifiedFollowing,
		Rule:        schedule.Forward,
		EndOfMonth:  true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// 31 May 2025 is a Saturday: modified following rolls back to Friday 30 May.
	assertDates(t, s, date(2025, 2, 28), date(2025, 3, 31), date(2025, 4, 30), date(2025, 5, 30), date(2025, 6, 30))
	assertRegular(t, s, true, true, true, true)
	if s.Periods() != 4 {
		t.Fatalf("Periods() = %d", s.Periods())
	}
}

func TestGenerate_TerminationCollidesWithRolledDate(t *testing.T) {
	t.Parallel()

	// Good Friday 18 Apr and Saturday 19 Apr 2025 both roll to Tuesday 22 Apr.
	s, err := schedule.Generate(schedule.GenerateSpec{
		Effective:   date(2025, 1, 18),
		Termination: date(2025, 4, 19),
		Tenor:       schedule.MustParseTenor("3M"),
		Calendar:    calendar.TARGET,
		Convention:  calendar.ModifiedFollowing,
		Rule:        schedule.Forward,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertDates(t, s, date(2025, 1, 20), date(2025, 4, 22))
	assertRegular(t, s, false)
}

func TestGenerate_DropsInnerDuplicates(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.GenerateSpec{
		Effective:   date(2025, 1, 1),
		Termination: date(2025, 1, 10),
		Tenor:       schedule.MustParseTenor("1D"),
		Calendar:    calendar.TARGET,
		Convention:  calendar.Following,
		Rule:        schedule.Forward,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	assertDates(t, s,
		date(2025, 1, 2), date(2025, 1, 3), date(2025, 1, 6), date(2025, 1, 7),
		date(2025, 1, 8), date(2025, 1, 9), date(2025, 1, 10))
	assertRegular(t, s, true, true, true, true, true, true)
	for i := 1; i < s.Size(); i++ {
		if !s.Date(i).After(s.Date(i - 1)) {
			t.Fatalf("date %d (%s) not after %s", i, utils.FormatDate(s.Date(i)), utils.FormatDate(s.Date(i-1)))
		}
	}
}

func TestGenerate_RejectsTermOnOneBusinessDay(t *testing.T) {
	t.Parallel()

	// Saturday to Sunday: both ends roll to Monday 13 Jan.
	_, err := schedule.Generate(schedule.GenerateSpec{
		Effective:   date(2025, 1, 11),
		Termination: date(2025, 1, 12),
		Tenor:       schedule.MustParseTenor("1D"),
		Calendar:    calendar.WeekendsOnly,
		Convention:  calendar.Following,
	})
	if err == nil {
		t.Fatalf("expected error when effective and termination adjust to the same day")
	}
}

func TestGenerate_RejectsInvertedDates(t *testing.T) {
	t.Parallel()

	_, err := schedule.Generate(schedule.GenerateSpec{
		Effective:   date(2026, 1, 1),
		Termination: date(2025, 1, 1),
		Tenor:       schedule.MustParseTenor("3M"),
	})
	if err == nil {
		t.Fatalf("expected error for termination before effective")
	}
}
