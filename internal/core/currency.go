// Package core provides the domain model and the pure computations behind
// the dashboard: currency formatting, month windows and monthly aggregation.
package core

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amounts are whole currency units displayed with Colombian-peso grouping:
// "$1.234.567". The printer owns the grouping rules; only the "$" prefix is
// added here.
var currencyPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatAmount renders a whole-unit amount for display.
func FormatAmount(n int64) string {
	return "$" + currencyPrinter.Sprintf("%d", n)
}

// FormatAmountString renders a raw string amount for display. Empty and
// non-numeric input degrade to "$0" rather than failing; decimal input is
// rounded to the nearest whole unit. This leniency is deliberate: the codec
// never validates, callers that need validation do it before formatting.
func FormatAmountString(s string) string {
	if s == "" {
		return "$0"
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "$0"
	}
	return FormatAmount(int64(math.Round(f)))
}

// ParseAmount recovers the numeric value from a formatted display string by
// stripping every non-digit rune. Decimal points, minus signs and grouping
// separators are all discarded; the format is integer-only and non-negative
// by construction, so ParseAmount(FormatAmount(n)) == n for every n >= 0.
// Input with no digits at all parses to 0.
func ParseAmount(s string) int64 {
	digits := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits = append(digits, s[i])
		}
	}
	if len(digits) == 0 {
		return 0
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		// Digit run too long for int64; degrade to zero like any other
		// unusable input.
		return 0
	}
	return n
}
