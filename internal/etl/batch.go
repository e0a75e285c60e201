// Package etl holds the generic tabular batch model plus the row normalizer
// and change-set filter every import path runs before writing to the database.
package etl

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is one row keyed by canonical column name. Values are string,
// bool, float64, time.Time or nil (absent).
type Record map[string]any

// Batch is an ordered set of columns plus the rows read from one source file.
type Batch struct {
	Columns []string
	Rows    []Record
}

// HasColumn reports whether the batch carries the named column.
func (b Batch) HasColumn(name string) bool {
	for _, c := range b.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the batch so callers can mutate rows without
// touching the source.
func (b Batch) Clone() Batch {
	out := Batch{Columns: append([]string(nil), b.Columns...)}
	out.Rows = make([]Record, len(b.Rows))
	for i, row := range b.Rows {
		cp := make(Record, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}

// IsNull reports whether a value counts as absent: nil or a blank /
// NaN-style marker left behind by the source exports.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "", "nan", "nat", "none", "null":
			return true
		}
	}
	return false
}

// KeyString renders a natural-key value for map lookups and SQL parameters.
// Returns "" for absent values.
func KeyString(v any) string {
	if IsNull(v) {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// nullSentinel is substituted for absent values during field comparison so
// that two absent values compare equal.
const nullSentinel = "N/A"

// CompareString renders a value for null-safe field comparison.
func CompareString(v any) string {
	if IsNull(v) {
		return nullSentinel
	}
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case []byte:
		return string(t)
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
