// Package money is the parse-and-validate boundary between decimal columns
// persisted as strings and the float64 arithmetic used by aggregations.
// Values that fail to parse fall back to 0 and are counted so callers can
// log the anomaly instead of letting a NaN propagate into sums.
package money

import (
	"math"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

var anomalies atomic.Int64

// Parse converts a stored decimal string to float64. Empty strings, malformed
// values and non-finite results all yield 0.
func Parse(s string) float64 {
	v, ok := ParseStrict(s)
	if !ok {
		anomalies.Add(1)
		return 0
	}
	return v
}

// ParseStrict reports whether s is a well-formed finite decimal.
func ParseStrict(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Format renders a float as a decimal string with two fractional digits,
// the canonical storage form for monetary amounts.
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Anomalies returns the number of malformed values coerced to 0 so far.
func Anomalies() int64 {
	return anomalies.Load()
}
