// Package records defines the generic record type exchanged between the
// parser and the typed schema layer.
//
// A Record is a decoded JSON object. Values are whatever encoding/json
// produced (string, json.Number when the decoder uses UseNumber, bool, nil,
// nested maps/slices). The typed accessors below resolve a field to a pointer
// value: nil means the field is absent, JSON null, or not coercible to the
// requested type. Per the pipeline's error policy, a malformed field is never
// an error; it degrades to null and downstream filters decide what to do.
package records

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one decoded source object keyed by raw field name.
type Record map[string]any

// String returns the field as *string, or nil when absent/null/not a string.
func (r Record) String(key string) *string {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

// Float64 returns the field as *float64. Accepts json.Number, float64, and
// numeric strings; anything else resolves to nil.
func (r Record) Float64(key string) *float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return &f
		}
	case float64:
		return &n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return &f
		}
	}
	return nil
}

// Int64 returns the field as *int64. Accepts json.Number (including values
// serialized with a fractional part of zero), float64, int, and numeric
// strings; anything else resolves to nil.
func (r Record) Int64(key string) *int64 {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return &i
		}
		// Sources sometimes serialize integral fields as 1.0.
		if f, err := n.Float64(); err == nil && f == float64(int64(f)) {
			i := int64(f)
			return &i
		}
	case float64:
		if n == float64(int64(n)) {
			i := int64(n)
			return &i
		}
	case int:
		i := int64(n)
		return &i
	case int64:
		return &n
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return &i
		}
	}
	return nil
}
