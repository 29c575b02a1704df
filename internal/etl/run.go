// Package etl wires the stages together: read the two raw feeds, build the
// five tables, write them through the configured sink. It owns concurrency
// and sequencing; all table semantics live in internal/transform.
package etl

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"songlake/internal/config"
	"songlake/internal/datasource"
	"songlake/internal/datasource/file"
	"songlake/internal/datasource/httpds"
	"songlake/internal/metrics"
	jsonparser "songlake/internal/parser/json"
	"songlake/internal/schema"
	"songlake/internal/storage"
	"songlake/internal/transform"
	"songlake/pkg/records"
)

// Runner executes one pipeline run against one sink.
type Runner struct {
	cfg     config.Pipeline
	sink    storage.Sink
	metrics metrics.Recorder
	log     *log.Logger

	mu sync.Mutex // guards the per-run row counts; table writes run in parallel
}

// Option customizes a Runner.
type Option func(*Runner)

// WithMetrics attaches a metrics backend; the default is a no-op.
func WithMetrics(m metrics.Recorder) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// NewRunner builds a Runner for cfg writing to sink.
func NewRunner(cfg config.Pipeline, sink storage.Sink, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		sink:    sink,
		metrics: metrics.Nop{},
		log:     log.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Summary reports what a run produced.
type Summary struct {
	RecordsRead map[string]int // per feed
	TableRows   map[string]int // per output table
	Duration    time.Duration
}

// Run executes the full pipeline. The five tables are rewritten from
// scratch; a failed run leaves the sink partially rewritten, and the fix is
// to rerun (the transforms are deterministic).
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	sum := Summary{
		RecordsRead: make(map[string]int, 2),
		TableRows:   make(map[string]int, len(schema.AllTables)),
	}
	parserOpts := jsonparser.FromConfigOptions(r.cfg.Parser.Options)

	// Catalog feed and its two dimensions.
	var songs []transform.Song
	var artists []transform.Artist
	err := metrics.Timed(r.metrics, "catalog", func() error {
		raw, err := r.readFeed(ctx, "song_data", r.cfg.Source.SongData, parserOpts)
		if err != nil {
			return err
		}
		sum.RecordsRead["song_data"] = len(raw)

		catalog := make([]schema.CatalogRecord, len(raw))
		for i, rec := range raw {
			catalog[i] = schema.CatalogFromRecord(rec)
		}
		songs = transform.BuildSongs(catalog)
		artists = transform.BuildArtists(catalog)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return r.writeTable(gctx, schema.Songs, songRows(songs), sum.TableRows) })
		g.Go(func() error { return r.writeTable(gctx, schema.Artists, artistRows(artists), sum.TableRows) })
		return g.Wait()
	})
	if err != nil {
		return sum, err
	}

	// Activity feed and everything derived from it. The fact build joins
	// against the dimensions built above.
	err = metrics.Timed(r.metrics, "activity", func() error {
		raw, err := r.readFeed(ctx, "log_data", r.cfg.Source.LogData, parserOpts)
		if err != nil {
			return err
		}
		sum.RecordsRead["log_data"] = len(raw)

		activity := make([]schema.ActivityRecord, len(raw))
		for i, rec := range raw {
			activity[i] = schema.ActivityFromRecord(rec)
		}
		events := transform.FilterNextSong(activity)
		r.log.Printf("job=%s feed=log_data records=%d next_song=%d", r.cfg.Job, len(raw), len(events))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return r.writeTable(gctx, schema.Users, userRows(transform.BuildUsers(events)), sum.TableRows)
		})
		g.Go(func() error {
			return r.writeTable(gctx, schema.Time, timeRows(transform.BuildTimeRows(events)), sum.TableRows)
		})
		g.Go(func() error {
			plays := transform.BuildSongPlays(events, songs, artists, transform.NewIDGen(0))
			return r.writeTable(gctx, schema.SongPlays, playRows(plays), sum.TableRows)
		})
		return g.Wait()
	})
	if err != nil {
		return sum, err
	}

	sum.Duration = time.Since(start)
	for table, n := range sum.TableRows {
		r.metrics.SetTableRows(table, n)
	}
	if err := r.metrics.Flush(ctx); err != nil {
		// A lost metrics push must not fail an otherwise good run.
		r.log.Printf("job=%s metrics flush failed: %v", r.cfg.Job, err)
	}
	r.log.Printf("job=%s done in %s tables=%v", r.cfg.Job, sum.Duration.Round(time.Millisecond), sum.TableRows)
	return sum, nil
}

// readFeed decodes every record of one input feed. File trees are read with
// a bounded worker pool; results are stitched back together in sorted path
// order so concurrency never changes record sequence.
func (r *Runner) readFeed(ctx context.Context, name string, loc config.Location, opts jsonparser.Options) ([]records.Record, error) {
	srcs, err := openSources(loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	workers := r.cfg.Runtime.ReaderWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	perSource := make([][]records.Record, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range srcs {
		g.Go(func() error {
			rc, err := src.Open(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			defer rc.Close()
			recs, err := jsonparser.DecodeAll(rc, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			perSource[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []records.Record
	for _, recs := range perSource {
		out = append(out, recs...)
	}
	r.metrics.AddRecords(name, len(out))
	return out, nil
}

// openSources resolves a configured location into concrete datasources.
func openSources(loc config.Location) ([]datasource.Source, error) {
	switch loc.Kind {
	case "", "file":
		paths, err := file.ListJSON(loc.Path)
		if err != nil {
			return nil, err
		}
		srcs := make([]datasource.Source, len(paths))
		for i, p := range paths {
			srcs[i] = file.NewLocal(p)
		}
		return srcs, nil
	case "http":
		return []datasource.Source{httpds.NewRemote(loc.URL, httpds.Config{})}, nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", loc.Kind)
	}
}

func (r *Runner) writeTable(ctx context.Context, table schema.Table, rows [][]any, counts map[string]int) error {
	if err := r.sink.WriteTable(ctx, table, rows); err != nil {
		return fmt.Errorf("write %s: %w", table.Name, err)
	}
	r.mu.Lock()
	counts[table.Name] = len(rows)
	r.mu.Unlock()
	r.log.Printf("job=%s table=%s rows=%d", r.cfg.Job, table.Name, len(rows))
	return nil
}

func songRows(in []transform.Song) [][]any {
	out := make([][]any, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func artistRows(in []transform.Artist) [][]any {
	out := make([][]any, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func userRows(in []transform.User) [][]any {
	out := make([][]any, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func timeRows(in []transform.TimeRow) [][]any {
	out := make([][]any, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}

func playRows(in []transform.SongPlay) [][]any {
	out := make([][]any, len(in))
	for i, v := range in {
		out[i] = v.Row()
	}
	return out
}
