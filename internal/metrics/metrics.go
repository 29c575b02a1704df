// Package metrics defines the run-level instrumentation contract. The
// pipeline records through a Recorder and never knows which backend is
// behind it; the default is a no-op so library users pay nothing.
package metrics

import (
	"context"
	"time"
)

// Recorder collects the counters a run produces. Implementations must be
// safe for concurrent use; table builds run in parallel.
type Recorder interface {
	// AddRecords counts raw records decoded from a feed ("song_data" or
	// "log_data").
	AddRecords(feed string, n int)
	// SetTableRows records the final row count written for a table.
	SetTableRows(table string, n int)
	// ObserveStage records the wall time of a named pipeline stage.
	ObserveStage(stage string, d time.Duration)
	// Flush pushes collected values to the backend. Called once at the end
	// of a run.
	Flush(ctx context.Context) error
}

// Nop discards everything.
type Nop struct{}

func (Nop) AddRecords(string, int)             {}
func (Nop) SetTableRows(string, int)           {}
func (Nop) ObserveStage(string, time.Duration) {}
func (Nop) Flush(context.Context) error        { return nil }

// Timed runs fn and records its duration under stage.
func Timed(r Recorder, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.ObserveStage(stage, time.Since(start))
	return err
}
