// Package convert holds the unit and text-to-number conversions applied to
// leaderboard tables after they have been assembled.
package convert

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	centimetresPerInch = 2.54
	kilogramsPerPound  = 0.4536
)

var (
	digitRun     = regexp.MustCompile(`\d+`)
	centimetres  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*cm$`)
	feetInches   = regexp.MustCompile(`^(\d+)\s*'\s*(?:(\d+(?:\.\d+)?)\s*(?:"|'')?)?$`)
	plainInches  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(?:in|inch|inches|")?$`)
	weightString = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(lbs?|pounds?|kgs?)?\.?$`)
	tiedRank     = regexp.MustCompile(`^t?\s*(\d+)\s*t?$`)
)

// InchesToCm converts a height to centimetres. It understands plain inches
// ("72", "72 in"), feet and inches ("6'0\"", "6' 1\"", "6'") and heights
// that are already in centimetres ("183 cm").
func InchesToCm(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	if m := centimetres.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		return v, err == nil
	}

	if m := feetInches.FindStringSubmatch(s); m != nil {
		feet, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		inches := 0.0
		if m[2] != "" {
			inches, err = strconv.ParseFloat(m[2], 64)
			if err != nil {
				return 0, false
			}
		}
		return (feet*12 + inches) * centimetresPerInch, true
	}

	if m := plainInches.FindStringSubmatch(s); m != nil {
		inches, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		return inches * centimetresPerInch, true
	}

	return 0, false
}

// LbToKg converts a weight string to kilograms. A bare number or a number
// followed by a pound unit is treated as pounds; a kg suffix is returned
// unchanged. Anything else (times, rep counts, free text) does not encode a
// weight and yields false.
func LbToKg(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	m := weightString.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	if strings.HasPrefix(m[2], "kg") {
		return v, true
	}
	return v * kilogramsPerPound, true
}

// FirstNumber returns the first run of digits in s ("205 lb" -> 205,
// "205-210" -> 205).
func FirstNumber(s string) (int64, bool) {
	run := digitRun.FindString(s)
	if run == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(run, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// StripTieMarker removes the "T" tie marker from a rank such as "12T" or
// "T12". Strings that are not a tied rank are returned trimmed but
// otherwise untouched.
func StripTieMarker(s string) string {
	s = strings.TrimSpace(s)
	if m := tiedRank.FindStringSubmatch(strings.ToLower(s)); m != nil {
		return m[1]
	}
	return s
}
