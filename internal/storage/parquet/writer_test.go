package parquet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	pqfile "github.com/apache/arrow/go/v17/parquet/file"

	"songlake/internal/schema"
	"songlake/internal/storage"
)

func newTestSink(t *testing.T) (storage.Sink, string) {
	t.Helper()
	root := t.TempDir()
	sink, err := New(context.Background(), storage.Config{Kind: "parquet", Path: root})
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	return sink, root
}

func songRow(id, title, artistID string, year int64, dur float64) []any {
	return []any{id, title, artistID, year, dur}
}

func readNumRows(t *testing.T, path string) int64 {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	r, err := pqfile.NewParquetReader(f)
	if err != nil {
		t.Fatalf("parquet reader %s: %v", path, err)
	}
	defer r.Close()
	return r.NumRows()
}

func TestWriteTablePartitionLayout(t *testing.T) {
	sink, root := newTestSink(t)
	ctx := context.Background()

	rows := [][]any{
		songRow("SO1", "Jenny Take a Ride", "AR1", 2004, 207.43791),
		songRow("SO2", "Intro", "AR1", 2004, 75.67628),
		songRow("SO3", "Setanta matins", "AR2", 1999, 178.02404),
	}
	if err := sink.WriteTable(ctx, schema.Songs, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	p1 := filepath.Join(root, "song", "year=2004", "artist_id=AR1", "part-00000.parquet")
	if got := readNumRows(t, p1); got != 2 {
		t.Fatalf("rows in %s = %d want 2", p1, got)
	}
	p2 := filepath.Join(root, "song", "year=1999", "artist_id=AR2", "part-00000.parquet")
	if got := readNumRows(t, p2); got != 1 {
		t.Fatalf("rows in %s = %d want 1", p2, got)
	}
}

func TestWriteTableNullPartitionValue(t *testing.T) {
	sink, root := newTestSink(t)

	rows := [][]any{
		{"SO1", "No Year", "AR1", nil, 100.0},
	}
	if err := sink.WriteTable(context.Background(), schema.Songs, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	p := filepath.Join(root, "song", "year="+nullPartition, "artist_id=AR1", "part-00000.parquet")
	if got := readNumRows(t, p); got != 1 {
		t.Fatalf("rows in %s = %d want 1", p, got)
	}
}

func TestWriteTableOverwritesTree(t *testing.T) {
	sink, root := newTestSink(t)
	ctx := context.Background()

	if err := sink.WriteTable(ctx, schema.Songs, [][]any{
		songRow("SO1", "Old", "AR9", 1990, 1.0),
	}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := sink.WriteTable(ctx, schema.Songs, [][]any{
		songRow("SO2", "New", "AR1", 2004, 2.0),
	}); err != nil {
		t.Fatalf("second write: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "song", "year=1990")); !os.IsNotExist(err) {
		t.Fatalf("stale partition survived the rewrite: %v", err)
	}
}

func TestWriteTableEmptyStillCreatesFile(t *testing.T) {
	sink, root := newTestSink(t)

	if err := sink.WriteTable(context.Background(), schema.Songs, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	p := filepath.Join(root, "song", "part-00000.parquet")
	if got := readNumRows(t, p); got != 0 {
		t.Fatalf("rows in %s = %d want 0", p, got)
	}
}

func TestPartitionValueEscaping(t *testing.T) {
	if got := partitionValue("a/b c"); got == "a/b c" {
		t.Fatalf("path separators must be escaped, got %q", got)
	}
	if got := partitionValue(int64(2004)); got != "2004" {
		t.Fatalf("int64 value = %q", got)
	}
	if got := partitionValue(nil); got != nullPartition {
		t.Fatalf("nil value = %q", got)
	}
}
