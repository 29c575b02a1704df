// Package postgres writes tables into PostgreSQL over pgx. Rows go in
// through the COPY protocol, which is the fast path for bulk loads.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"songlake/internal/schema"
	"songlake/internal/storage"
)

func init() {
	storage.Register("postgres", New)
}

// Sink holds a pgx pool for the run.
type Sink struct {
	pool *pgxpool.Pool
}

// New connects to the database named by cfg.DSN.
func New(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres: sink dsn is required")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Sink{pool: pool}, nil
}

func sqlType(k schema.Kind) string {
	switch k {
	case schema.KindInt64:
		return "bigint"
	case schema.KindFloat64:
		return "double precision"
	case schema.KindTimestamp:
		return "timestamptz"
	default:
		return "text"
	}
}

func createStmt(table schema.Table) string {
	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = c.Name + " " + sqlType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table.Name, strings.Join(cols, ", "))
}

// WriteTable creates the table if missing, truncates it, and bulk-loads rows
// with COPY. Everything runs in one transaction so readers never see a
// half-replaced table.
func (s *Sink) WriteTable(ctx context.Context, table schema.Table, rows [][]any) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin %s: %w", table.Name, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, createStmt(table)); err != nil {
		return fmt.Errorf("postgres: create %s: %w", table.Name, err)
	}
	if _, err := tx.Exec(ctx, "TRUNCATE "+table.Name); err != nil {
		return fmt.Errorf("postgres: truncate %s: %w", table.Name, err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table.Name}, table.ColumnNames(), pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("postgres: copy into %s: %w", table.Name, err)
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("postgres: copy into %s: wrote %d of %d rows", table.Name, n, len(rows))
	}
	return tx.Commit(ctx)
}

// Close releases the pool.
func (s *Sink) Close() error {
	s.pool.Close()
	return nil
}
