// Package prompush is a metrics backend that pushes run counters to a
// Prometheus Pushgateway. Batch jobs cannot be scraped, so push is the
// natural fit here.
package prompush

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Recorder implements metrics.Recorder on top of a private registry.
type Recorder struct {
	registry *prometheus.Registry
	pusher   *push.Pusher

	records *prometheus.CounterVec
	rows    *prometheus.GaugeVec
	stage   *prometheus.GaugeVec
}

// New builds a Recorder that pushes to the gateway at url under the given
// job name.
func New(url, job string) *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		pusher:   push.New(url, job).Gatherer(reg),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "songlake_records_read_total",
			Help: "Raw records decoded per input feed.",
		}, []string{"feed"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "songlake_table_rows",
			Help: "Rows written per output table in the last run.",
		}, []string{"table"}),
		stage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "songlake_stage_duration_seconds",
			Help: "Wall time per pipeline stage in the last run.",
		}, []string{"stage"}),
	}
	reg.MustRegister(r.records, r.rows, r.stage)
	return r
}

func (r *Recorder) AddRecords(feed string, n int) {
	r.records.WithLabelValues(feed).Add(float64(n))
}

func (r *Recorder) SetTableRows(table string, n int) {
	r.rows.WithLabelValues(table).Set(float64(n))
}

func (r *Recorder) ObserveStage(stage string, d time.Duration) {
	r.stage.WithLabelValues(stage).Set(d.Seconds())
}

// Flush pushes everything collected so far to the gateway.
func (r *Recorder) Flush(ctx context.Context) error {
	if err := r.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}
