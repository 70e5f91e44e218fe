package core

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthWindowBounds(t *testing.T) {
	cases := []struct {
		ref        time.Time
		start, end time.Time
	}{
		{date(2024, time.February, 15), date(2024, time.February, 1), date(2024, time.February, 29)}, // leap year
		{date(2023, time.February, 10), date(2023, time.February, 1), date(2023, time.February, 28)},
		{date(2024, time.December, 31), date(2024, time.December, 1), date(2024, time.December, 31)},
		{date(2024, time.January, 1), date(2024, time.January, 1), date(2024, time.January, 31)},
	}
	for _, tc := range cases {
		w := MonthWindow(tc.ref)
		if !w.Start.Equal(tc.start) {
			t.Fatalf("MonthWindow(%v).Start = %v, want %v", tc.ref, w.Start, tc.start)
		}
		if w.End.Year() != tc.end.Year() || w.End.Month() != tc.end.Month() || w.End.Day() != tc.end.Day() {
			t.Fatalf("MonthWindow(%v).End = %v, want day %v", tc.ref, w.End, tc.end)
		}
		if !w.End.Before(w.Start.AddDate(0, 1, 0)) {
			t.Fatalf("window end %v leaks into next month", w.End)
		}
	}
}

func TestWindowContainsBoundaryDays(t *testing.T) {
	w := MonthWindow(date(2024, time.March, 15))

	first := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, time.March, 31, 23, 59, 0, 0, time.UTC)
	if !w.Contains(first) {
		t.Fatalf("first day of month excluded")
	}
	if !w.Contains(last) {
		t.Fatalf("last day of month excluded")
	}
	offset := time.Date(2024, time.March, 31, 23, 59, 0, 0, time.FixedZone("", -5*3600))
	if !w.Contains(offset) {
		t.Fatalf("last day of month in non-UTC offset excluded")
	}
	if w.Contains(date(2024, time.April, 1)) {
		t.Fatalf("first day of next month included")
	}
	if w.Contains(date(2024, time.February, 29)) {
		t.Fatalf("last day of previous month included")
	}
}

func TestAdvanceMonth(t *testing.T) {
	got := AdvanceMonth(date(2024, time.January, 10), -1)
	if got.Year() != 2023 || got.Month() != time.December {
		t.Fatalf("advance(2024-01-10, -1) = %v, want December 2023", got)
	}

	// Day clamped to the shorter month, not rolled over.
	got = AdvanceMonth(date(2024, time.January, 31), 1)
	if got.Year() != 2024 || got.Month() != time.February || got.Day() != 29 {
		t.Fatalf("advance(2024-01-31, +1) = %v, want 2024-02-29", got)
	}

	got = AdvanceMonth(date(2024, time.December, 5), 1)
	if got.Year() != 2025 || got.Month() != time.January {
		t.Fatalf("advance(2024-12-05, +1) = %v, want January 2025", got)
	}
}

func TestAdvanceMonthRoundTrip(t *testing.T) {
	refs := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2023, time.June, 15),
		date(2024, time.December, 1),
	}
	for _, ref := range refs {
		for _, k := range []int{1, 3, 12, -5} {
			got := AdvanceMonth(AdvanceMonth(ref, k), -k)
			if got.Year() != ref.Year() || got.Month() != ref.Month() {
				t.Fatalf("advance(advance(%v, %d), %d) = %v, not month-equal", ref, k, -k, got)
			}
		}
	}
}
