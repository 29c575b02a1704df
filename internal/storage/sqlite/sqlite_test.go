package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"songlake/internal/schema"
	"songlake/internal/storage"
)

func newTestSink(t *testing.T) (storage.Sink, string) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "out.db")
	sink, err := New(context.Background(), storage.Config{Kind: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	t.Cleanup(func() { sink.Close() })
	return sink, dsn
}

func TestWriteTableRoundTrip(t *testing.T) {
	sink, dsn := newTestSink(t)
	ctx := context.Background()

	rows := [][]any{
		{"15", "Lily", "Koch", "F", "paid"},
		{"26", nil, nil, nil, "free"},
	}
	if err := sink.WriteTable(ctx, schema.Users, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT count(*) FROM users").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("count=%d want 2", n)
	}

	var first sql.NullString
	if err := db.QueryRow("SELECT first_name FROM users WHERE user_id = '26'").Scan(&first); err != nil {
		t.Fatalf("select: %v", err)
	}
	if first.Valid {
		t.Fatalf("first_name=%q want NULL", first.String)
	}
}

func TestWriteTableOverwrites(t *testing.T) {
	sink, dsn := newTestSink(t)
	ctx := context.Background()

	if err := sink.WriteTable(ctx, schema.Users, [][]any{
		{"15", "Lily", "Koch", "F", "free"},
		{"26", "Ryan", "Smith", "M", "free"},
	}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := sink.WriteTable(ctx, schema.Users, [][]any{
		{"15", "Lily", "Koch", "F", "paid"},
	}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT count(*) FROM users").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count=%d want 1 (rewrite must replace, not append)", n)
	}
}

func TestTimestampsStoredAsRFC3339(t *testing.T) {
	sink, dsn := newTestSink(t)
	ctx := context.Background()

	ts := time.Date(2018, 11, 1, 21, 37, 10, 796_000_000, time.UTC)
	row := []any{ts, int64(21), int64(1), int64(44), int64(11), int64(2018), "Thu"}
	if err := sink.WriteTable(ctx, schema.Time, [][]any{row}); err != nil {
		t.Fatalf("write: %v", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var got string
	if err := db.QueryRow("SELECT start_time FROM time").Scan(&got); err != nil {
		t.Fatalf("select: %v", err)
	}
	if got != "2018-11-01T21:37:10.796Z" {
		t.Fatalf("start_time=%q", got)
	}
}

func TestNewRejectsEmptyDSN(t *testing.T) {
	if _, err := New(context.Background(), storage.Config{Kind: "sqlite"}); err == nil {
		t.Fatal("want error for empty dsn")
	}
}

func TestRegistryResolvesKind(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "out.db")
	sink, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: dsn})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	sink.Close()

	if _, err := storage.New(context.Background(), storage.Config{Kind: "bogus"}); err == nil {
		t.Fatal("want error for unknown kind")
	}
}
