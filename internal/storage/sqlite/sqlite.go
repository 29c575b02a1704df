// Package sqlite writes tables into a SQLite database file. It is the
// lightest database sink and the one the end-to-end tests read back from.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"songlake/internal/schema"
	"songlake/internal/storage"
)

func init() {
	storage.Register("sqlite", New)
}

// Sink holds one connection pool for the run.
type Sink struct {
	db *sql.DB
}

// New opens (creating if needed) the database named by cfg.DSN.
func New(ctx context.Context, cfg storage.Config) (storage.Sink, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("sqlite: sink dsn is required")
	}
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.DSN, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", cfg.DSN, err)
	}
	return &Sink{db: db}, nil
}

func sqlType(k schema.Kind) string {
	switch k {
	case schema.KindInt64:
		return "INTEGER"
	case schema.KindFloat64:
		return "REAL"
	default:
		// Strings and timestamps; timestamps are stored as RFC 3339 text.
		return "TEXT"
	}
}

func createStmt(table schema.Table) string {
	cols := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		cols[i] = c.Name + " " + sqlType(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", table.Name, strings.Join(cols, ", "))
}

func insertStmt(table schema.Table) string {
	marks := make([]string, len(table.Columns))
	for i := range marks {
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table.Name, strings.Join(table.ColumnNames(), ", "), strings.Join(marks, ", "))
}

// WriteTable drops and recreates the table, then loads rows in one
// transaction through a prepared insert.
func (s *Sink) WriteTable(ctx context.Context, table schema.Table, rows [][]any) error {
	if _, err := s.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table.Name); err != nil {
		return fmt.Errorf("sqlite: drop %s: %w", table.Name, err)
	}
	if _, err := s.db.ExecContext(ctx, createStmt(table)); err != nil {
		return fmt.Errorf("sqlite: create %s: %w", table.Name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin %s: %w", table.Name, err)
	}
	stmt, err := tx.PrepareContext(ctx, insertStmt(table))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: prepare %s: %w", table.Name, err)
	}

	args := make([]any, len(table.Columns))
	for _, row := range rows {
		for i, v := range row {
			if t, ok := v.(time.Time); ok {
				v = t.UTC().Format(time.RFC3339Nano)
			}
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			tx.Rollback()
			return fmt.Errorf("sqlite: insert into %s: %w", table.Name, err)
		}
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit %s: %w", table.Name, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Sink) Close() error { return s.db.Close() }
