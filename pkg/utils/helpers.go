package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// missingTokens are the cell values a CSV reader treats as "no value".
var missingTokens = map[string]struct{}{
	"":         {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// plainNumber matches decimal notation with an optional exponent. Go-only
// syntax such as digit separators or hex floats is not a number here.
var plainNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsMissing reports whether a raw cell is one of the null tokens. The match
// is exact: a whitespace-only cell is a value, not a missing one.
func IsMissing(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// ParseAmount coerces a raw cell into a finite float.
// ok is false for anything that is not a plain number.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if IsMissing(s) || !plainNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDate coerces a raw cell into a calendar date (UTC midnight).
// Any layout dateparse understands is accepted.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if IsMissing(s) {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	// keep the wall-clock day of the source, whatever its offset
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// FormatAmount renders an amount in its shortest round-tripping form.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}
