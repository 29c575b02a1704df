// Package config provides configuration models and helpers for songlake runs.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "sink.kind",
// "source.song_data.path"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and log lines will use the default job name",
		})
	}

	issues = append(issues, validateLocation("source.song_data", p.Source.SongData)...)
	issues = append(issues, validateLocation("source.log_data", p.Source.LogData)...)
	issues = append(issues, validateSink(p.Sink)...)
	issues = append(issues, validateRuntime(p.Runtime)...)

	return issues
}

// validateLocation validates one raw input location.
func validateLocation(path string, l Location) []Issue {
	var issues []Issue

	if strings.TrimSpace(l.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     path + ".kind",
			Message:  "kind must not be empty",
		})
		return issues
	}

	switch l.Kind {
	case "file":
		if strings.TrimSpace(l.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".path",
				Message:  "file source requires a non-empty path",
			})
		}
	case "http":
		if strings.TrimSpace(l.URL) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     path + ".url",
				Message:  "http source requires a non-empty url",
			})
		}
	default:
		// Unknown kinds are warnings for forward compatibility.
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     path + ".kind",
			Message:  fmt.Sprintf("unknown source kind %q; ensure a matching implementation exists", l.Kind),
		})
	}

	return issues
}

// validateSink validates the table sink configuration.
func validateSink(s Sink) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.kind",
			Message:  "sink.kind must not be empty",
		})
		return issues
	}

	switch s.Kind {
	case "parquet":
		if strings.TrimSpace(s.Parquet.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.parquet.path",
				Message:  "parquet sink requires a non-empty output root path",
			})
		}
	case "postgres", "sqlite":
		if strings.TrimSpace(s.DB.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.db.dsn",
				Message:  fmt.Sprintf("%s sink requires a non-empty DSN", s.Kind),
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sink.kind",
			Message:  fmt.Sprintf("unknown sink kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	return issues
}

// validateRuntime validates runtime concurrency/buffering knobs.
func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	check := func(name string, v int) {
		if v < 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "runtime." + name,
				Message:  fmt.Sprintf("%s must not be negative (got %d); use 0 for the default", name, v),
			})
		}
	}
	check("reader_workers", r.ReaderWorkers)

	if r.ReaderWorkers > 64 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "runtime.reader_workers",
			Message:  fmt.Sprintf("reader_workers=%d is unusually high for a file-bound reader", r.ReaderWorkers),
		})
	}

	return issues
}
