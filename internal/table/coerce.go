package table

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumeric converts every column whose non-null values all read as
// numbers. A column becomes int64 when every value is integral and written
// without a fractional part, float64 otherwise. Columns with any
// non-numeric value are left as they are. The table is modified in place
// and returned.
func CoerceNumeric(t *Table) *Table {
	for _, col := range t.columns {
		coerceColumn(t, col)
	}
	return t
}

func coerceColumn(t *Table, col string) {
	allInt := true
	seen := false

	for _, r := range t.rows {
		v, ok := r[col]
		if !ok || v == nil {
			continue
		}
		isInt, numeric := classify(v)
		if !numeric {
			return
		}
		seen = true
		allInt = allInt && isInt
	}

	if !seen {
		return
	}

	for _, r := range t.rows {
		v, ok := r[col]
		if !ok || v == nil {
			continue
		}
		if allInt {
			r[col] = toInt(v)
			continue
		}
		f, _ := Float(v)
		r[col] = f
	}
}

// toInt converts a cell already classified as integral. Integer cells and
// integer strings never pass through float64.
func toInt(v any) int64 {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int64:
		return val
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64); err == nil {
			return i
		}
	}
	f, _ := Float(v)
	return int64(f)
}

// classify reports whether v is numeric and, if so, whether it is integral.
func classify(v any) (isInt bool, numeric bool) {
	switch val := v.(type) {
	case int:
		return true, true
	case int64:
		return true, true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return false, false
		}
		return val == math.Trunc(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return false, false
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return true, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return false, false
		}
		return false, true
	default:
		return false, false
	}
}

// Float reads a numeric cell (or numeric string) as float64.
func Float(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String renders a cell as text. Nil renders as "" and false.
func String(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	default:
		return "", false
	}
}
