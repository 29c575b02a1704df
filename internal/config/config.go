// Package config defines the canonical, JSON-serializable configuration model
// for the songlake batch job. It is intentionally small, explicit, and
// dependency-free so that pipelines can be loaded from disk and passed through
// the program without additional glue code.
//
// A pipeline file names the two raw inputs (song catalog feed, listening
// activity log), the sink the five output tables are written to, and the
// runtime knobs for the run:
//
//	{
//	  "job": "songlake",
//	  "source": {
//	    "song_data": { "kind": "file", "path": "data/song_data" },
//	    "log_data":  { "kind": "file", "path": "data/log_data" }
//	  },
//	  "parser": { "options": { "normalize_unicode": false } },
//	  "sink": {
//	    "kind": "parquet",
//	    "parquet": { "path": "out" }
//	  },
//	  "runtime": { "reader_workers": 4 }
//	}
package config

import "encoding/json"

// Pipeline is the top-level object decoded from a pipeline file
// (e.g., configs/pipelines/*.json).
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Source locates the two raw inputs.
	Source Source `json:"source"`

	// Parser configures how raw JSON bytes become records.
	Parser Parser `json:"parser"`

	// Sink selects where the five output tables are written.
	Sink Sink `json:"sink"`

	// Runtime controls run concurrency.
	Runtime RuntimeConfig `json:"runtime"`
}

// Source locates the catalog feed and the activity log.
type Source struct {
	SongData Location `json:"song_data"`
	LogData  Location `json:"log_data"`
}

// Location identifies one raw input. Kind selects the datasource
// implementation: "file" (directory tree of *.json, or a single file) or
// "http" (a single NDJSON stream).
type Location struct {
	Kind string `json:"kind"`
	Path string `json:"path"` // filesystem path for kind=file
	URL  string `json:"url"`  // endpoint for kind=http
}

// Parser carries parser options. The JSON record layout is fixed by the raw
// schemas, so there is no parser kind to select; Options holds knobs such as
// normalize_unicode (bool).
type Parser struct {
	Options Options `json:"options"`
}

// Sink selects the table sink. Kind is one of the registered storage
// backends: "parquet", "postgres", "sqlite".
type Sink struct {
	Kind    string        `json:"kind"`
	Parquet ParquetConfig `json:"parquet"`
	DB      DBConfig      `json:"db"`
}

// ParquetConfig configures the "parquet" sink kind.
type ParquetConfig struct {
	// Path is the output root; tables are written as {path}/song,
	// {path}/artists, {path}/users, {path}/time, {path}/songplays.
	Path string `json:"path"`
}

// DBConfig configures the database sink kinds ("postgres", "sqlite").
type DBConfig struct {
	// DSN is the connection string (pgxpool URL, or a SQLite path/file: URI).
	DSN string `json:"dsn"`
}

// RuntimeConfig controls run concurrency. Zero values fall back to built-in
// defaults (reader_workers: one per CPU).
type RuntimeConfig struct {
	ReaderWorkers int `json:"reader_workers"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent or
// of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so this accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object decodes to a non-nil, empty Options map. This removes the
// need to nil-check Options at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
