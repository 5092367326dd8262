// Package format renders money and dates the way the portal displays them.
// These strings are the only external serialization of monetary and date
// values, so their exact shape must not drift.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	currencyPrefix = "RM "
	zeroCurrency   = "RM 0.00"
	invalidDate    = "-"
	dateLayout     = "02 Jan 2006"
)

// Location is the zone dates are displayed in
var Location = time.Local

// Currency formats v as "RM X.XX". NaN renders as "RM 0.00".
func Currency(v float64) string {
	if math.IsNaN(v) {
		return zeroCurrency
	}
	return currencyPrefix + toFixed2(v)
}

// CurrencyPtr formats an optional amount; nil renders as "RM 0.00"
func CurrencyPtr(v *float64) string {
	if v == nil {
		return zeroCurrency
	}
	return Currency(*v)
}

// Money formats a decimal amount as "RM X.XX"
func Money(d decimal.Decimal) string {
	return currencyPrefix + d.StringFixed(2)
}

// toFixed2 mirrors Number.prototype.toFixed(2): exact halfway values round
// away from zero, -0 prints unsigned, and magnitudes of 1e21 and above use
// the shortest exponent form.
func toFixed2(v float64) string {
	if v == 0 {
		return "0.00"
	}
	if math.IsInf(v, 1) {
		return "Infinity"
	}
	if math.IsInf(v, -1) {
		return "-Infinity"
	}
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	// A float whose shortest decimal form is exact can sit on a tie, where
	// FormatFloat would round to even.
	d := decimal.NewFromFloat(v)
	if _, exact := d.Float64(); exact && d.Exponent() < -2 {
		return d.StringFixed(2)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Date formats t as "DD Mon YYYY". The zero time renders as "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return invalidDate
	}
	return t.In(Location).Format(dateLayout)
}

// DatePtr formats an optional time; nil renders as "-"
func DatePtr(t *time.Time) string {
	if t == nil {
		return invalidDate
	}
	return Date(*t)
}

// DateString parses an ISO date or date-time and formats it like Date.
// Unparseable input renders as "-".
func DateString(s string) string {
	t, ok := parseDate(strings.TrimSpace(s))
	if !ok {
		return invalidDate
	}
	return Date(t)
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	// Date-only forms are UTC, date-time forms without a zone are local time.
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, true
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, Location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
