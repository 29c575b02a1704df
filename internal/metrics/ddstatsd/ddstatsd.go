// Package ddstatsd is a metrics backend that emits run counters to a
// DogStatsD agent.
package ddstatsd

import (
	"context"
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// Recorder implements metrics.Recorder over a statsd client.
type Recorder struct {
	client statsd.ClientInterface
}

// New connects to the agent at addr (host:port).
func New(addr string) (*Recorder, error) {
	client, err := statsd.New(addr, statsd.WithNamespace("songlake."))
	if err != nil {
		return nil, fmt.Errorf("ddstatsd: connect %s: %w", addr, err)
	}
	return &Recorder{client: client}, nil
}

func (r *Recorder) AddRecords(feed string, n int) {
	_ = r.client.Count("records_read", int64(n), []string{"feed:" + feed}, 1)
}

func (r *Recorder) SetTableRows(table string, n int) {
	_ = r.client.Gauge("table_rows", float64(n), []string{"table:" + table}, 1)
}

func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	_ = r.client.Timing("stage_duration", d, []string{"stage:" + stage}, 1)
}

// Flush drains buffered metrics to the agent.
func (r *Recorder) Flush(context.Context) error {
	if err := r.client.Flush(); err != nil {
		return fmt.Errorf("ddstatsd: flush: %w", err)
	}
	return nil
}
