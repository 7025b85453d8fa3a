package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// OptionalFloat is a JSON number that tolerates sloppy input: numbers,
// numeric strings, null, and garbage all decode without error. Garbage and
// null leave the value absent. This is the explicit coercion step at the
// ingestion boundary; nothing deeper than this deals with untyped input.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Float returns a pointer suitable for the optional fields on AuditRecord.
func (f OptionalFloat) Float() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Or returns the value, or def when absent.
func (f OptionalFloat) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// UnmarshalJSON never returns an error for scalar input; anything that does
// not parse as a number is treated as absent.
func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	f.Valid = false
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var num float64
	if err := json.Unmarshal(trimmed, &num); err == nil {
		f.Value = num
		f.Valid = true
		return nil
	}
	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		if num, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			f.Value = num
			f.Valid = true
		}
		return nil
	}
	// Arrays/objects in a numeric field: drop the field, keep the record.
	return nil
}

// MarshalJSON encodes absent values as null.
func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// CoerceCategory lowercases a categorical field and substitutes def for
// empty input.
func CoerceCategory(raw, def string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return def
	}
	return v
}
