package core

import "testing"

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "$0"},
		{5, "$5"},
		{950, "$950"},
		{1000, "$1.000"},
		{50000, "$50.000"},
		{1234567, "$1.234.567"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.out {
			t.Fatalf("FormatAmount(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormatAmountString(t *testing.T) {
	cases := []struct {
		in  string
		out string
	}{
		{"", "$0"},
		{"abc", "$0"},
		{"12x", "$0"},
		{"0", "$0"},
		{"1500", "$1.500"},
		{"1500.4", "$1.500"},
		{"1500.5", "$1.501"},
	}
	for _, tc := range cases {
		if got := FormatAmountString(tc.in); got != tc.out {
			t.Fatalf("FormatAmountString(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"", 0},
		{"$", 0},
		{"...", 0},
		{"$1.234.567", 1234567},
		{"1,234,567", 1234567},
		{"  42  ", 42},
		{"-500", 500}, // minus sign is not part of the format
		{"12.5", 125}, // decimal point stripped, integer-only format
	}
	for _, tc := range cases {
		if got := ParseAmount(tc.in); got != tc.out {
			t.Fatalf("ParseAmount(%q) = %d, want %d", tc.in, got, tc.out)
		}
	}
}

func TestCurrencyRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 9, 10, 999, 1000, 1001, 999999, 1000000, 123456789} {
		if got := ParseAmount(FormatAmount(n)); got != n {
			t.Fatalf("round trip %d -> %q -> %d", n, FormatAmount(n), got)
		}
	}
}
