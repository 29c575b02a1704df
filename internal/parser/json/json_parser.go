// Package json implements a record-oriented JSON parser for the two raw
// feeds. It is deliberately simple and conservative:
//
//   - Supports newline-delimited JSON objects (the activity log layout):
//     {"page":"NextSong","ts":1541105830796,...}
//     {"page":"Home","ts":1541106106796,...}
//   - Supports a single top-level object (the catalog layout: one song per
//     file) and top-level arrays of objects.
//   - Skips non-object top-level values rather than failing, so a junk line
//     does not abort a multi-gigabyte run. A stream that never yields an
//     object returns io.EOF like an empty one.
//
// Numbers decode as json.Number (UseNumber) so the typed schema layer decides
// int64 vs float64 per field instead of losing precision on epoch-millis.
package json

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/unicode/norm"

	"songlake/internal/config"
	"songlake/pkg/records"
)

// Options controls record decoding.
type Options struct {
	// NormalizeUnicode canonicalizes every decoded string value to NFC.
	// Both feeds pass through the same decoder, so enabling it cannot break
	// the exact-match name joins between them.
	NormalizeUnicode bool
}

// FromConfigOptions constructs Options from the pipeline's generic options map.
func FromConfigOptions(o config.Options) Options {
	return Options{
		NormalizeUnicode: o.Bool("normalize_unicode", false),
	}
}

// Decoder wraps encoding/json.Decoder to provide a record-oriented API.
type Decoder struct {
	dec     *json.Decoder
	opt     Options
	pending []records.Record // queued records from a top-level array
}

// NewDecoder constructs a Decoder reading from r.
func NewDecoder(r io.Reader, opt Options) *Decoder {
	d := json.NewDecoder(r)
	d.UseNumber()
	return &Decoder{dec: d, opt: opt}
}

// Next returns the next record in the stream. A top-level array of objects is
// expanded into its elements. io.EOF signals a cleanly exhausted stream; any
// other error is a malformed stream, which is fatal for the run: structural
// damage, unlike a null field, cannot be resolved per-record.
func (d *Decoder) Next() (records.Record, error) {
	if len(d.pending) > 0 {
		rec := d.pending[0]
		d.pending = d.pending[1:]
		return rec, nil
	}

	for {
		var raw any
		if err := d.dec.Decode(&raw); err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("json parser: decode: %w", err)
		}

		switch v := raw.(type) {
		case map[string]any:
			return d.finish(records.Record(v)), nil
		case []any:
			for i, elem := range v {
				obj, ok := elem.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("json parser: array element %d is not an object (got %T)", i, elem)
				}
				d.pending = append(d.pending, d.finish(records.Record(obj)))
			}
			if len(d.pending) > 0 {
				rec := d.pending[0]
				d.pending = d.pending[1:]
				return rec, nil
			}
		default:
			// Junk top-level value; skip and keep reading.
			continue
		}
	}
}

// DecodeAll is a helper for non-streaming use (tests, single-object catalog
// files). It reads every record from r.
func DecodeAll(r io.Reader, opt Options) ([]records.Record, error) {
	d := NewDecoder(r, opt)
	var out []records.Record
	for {
		rec, err := d.Next()
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return nil, err
		}
		out = append(out, rec)
	}
}

// finish applies post-decode fixups to a record.
func (d *Decoder) finish(r records.Record) records.Record {
	if d.opt.NormalizeUnicode {
		for k, v := range r {
			if s, ok := v.(string); ok {
				r[k] = norm.NFC.String(s)
			}
		}
	}
	return r
}
