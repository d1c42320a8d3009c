package utils

import (
	"testing"
	"time"
)

func TestAddMonthClampsToMonthEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), -6, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), 6, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := AddMonth(tc.in, tc.months); !got.Equal(tc.want) {
			t.Fatalf("AddMonth(%s, %d) = %s, want %s", FormatDate(tc.in), tc.months, FormatDate(got), FormatDate(tc.want))
		}
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate(" 2025-06-16 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if want := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("ParseDate = %s, want %s", got, want)
	}
	if _, err := ParseDate("16/06/2025"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
	if FormatDate(time.Time{}) != "" {
		t.Fatalf("zero time should format as empty string")
	}
}
