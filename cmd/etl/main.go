// Command etl runs the songlake batch job: it reads the song catalog feed
// and the listening-activity log named by a pipeline file and rewrites the
// five star-schema tables in the configured sink.
//
// Usage:
//
//	etl -config configs/pipelines/sample.json
//	etl -config pipeline.json -validate
//	etl -config pipeline.json -metrics-backend prompush -pushgateway-url http://gw:9091
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"songlake/internal/config"
	"songlake/internal/etl"
	"songlake/internal/metrics"
	"songlake/internal/metrics/ddstatsd"
	"songlake/internal/metrics/prompush"
	"songlake/internal/storage"
	_ "songlake/internal/storage/all"
)

func main() {
	var (
		configPath   = flag.String("config", "configs/pipelines/sample.json", "pipeline file to run")
		validateOnly = flag.Bool("validate", false, "validate the pipeline file and exit")
		verbose      = flag.Bool("v", false, "log per-table progress")
		backend      = flag.String("metrics-backend", "", `metrics backend: "prompush", "statsd", or empty for none`)
		pushURL      = flag.String("pushgateway-url", "http://localhost:9091", "gateway for -metrics-backend=prompush")
		statsdAddr   = flag.String("statsd-addr", "127.0.0.1:8125", "agent for -metrics-backend=statsd")
	)
	flag.Parse()

	if err := run(*configPath, *validateOnly, *verbose, *backend, *pushURL, *statsdAddr); err != nil {
		fmt.Fprintf(os.Stderr, "etl: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, validateOnly, verbose bool, backend, pushURL, statsdAddr string) error {
	cfg, err := loadPipeline(configPath)
	if err != nil {
		return err
	}

	issues := config.ValidatePipeline(cfg)
	fatal := false
	for _, issue := range issues {
		fmt.Fprintf(os.Stderr, "etl: %s: %s\n", configPath, issue.Error())
		if issue.Severity == config.SeverityError {
			fatal = true
		}
	}
	if fatal {
		return fmt.Errorf("%s: configuration is invalid", configPath)
	}
	if validateOnly {
		fmt.Printf("%s: ok (%d warnings)\n", configPath, len(issues))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recorder, err := newRecorder(backend, pushURL, statsdAddr, cfg.Job)
	if err != nil {
		return err
	}

	sink, err := storage.New(ctx, storage.Config{
		Kind: cfg.Sink.Kind,
		Path: cfg.Sink.Parquet.Path,
		DSN:  cfg.Sink.DB.DSN,
	})
	if err != nil {
		return err
	}
	defer sink.Close()

	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	runner := etl.NewRunner(cfg, sink, etl.WithMetrics(recorder), etl.WithLogger(logger))
	sum, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("job=%s duration=%s song_data=%d log_data=%d\n",
		cfg.Job, sum.Duration.Round(time.Millisecond), sum.RecordsRead["song_data"], sum.RecordsRead["log_data"])
	for _, table := range []string{"song", "artists", "users", "time", "songplays"} {
		fmt.Printf("  %s: %d rows\n", table, sum.TableRows[table])
	}
	return nil
}

func loadPipeline(path string) (config.Pipeline, error) {
	var cfg config.Pipeline
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func newRecorder(backend, pushURL, statsdAddr, job string) (metrics.Recorder, error) {
	switch backend {
	case "":
		return metrics.Nop{}, nil
	case "prompush":
		if job == "" {
			job = "songlake"
		}
		return prompush.New(pushURL, job), nil
	case "statsd":
		return ddstatsd.New(statsdAddr)
	default:
		return nil, fmt.Errorf("unknown metrics backend %q", backend)
	}
}
