// Package parquet writes tables as parquet files in a hive-style directory
// layout: root/<table>/<col>=<value>/.../part-00000.parquet. Partition
// columns become directory names and are dropped from the file contents,
// which is what downstream engines expect when they discover partitions from
// the path.
package parquet

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"

	"songlake/internal/schema"
	"songlake/internal/storage"
)

// nullPartition is the directory name for a null partition value, matching
// the convention of the usual lakehouse engines.
const nullPartition = "__HIVE_DEFAULT_PARTITION__"

func init() {
	storage.Register("parquet", New)
}

// Sink writes each table under its own subdirectory of root.
type Sink struct {
	root string
}

// New builds a parquet sink rooted at cfg.Path.
func New(_ context.Context, cfg storage.Config) (storage.Sink, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("parquet: sink path is required")
	}
	return &Sink{root: cfg.Path}, nil
}

// WriteTable replaces root/<table> with a fresh partitioned tree for rows.
func (s *Sink) WriteTable(ctx context.Context, table schema.Table, rows [][]any) error {
	dir := filepath.Join(s.root, table.Name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("parquet: clear %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("parquet: mkdir %s: %w", dir, err)
	}

	partIdx := make([]int, 0, len(table.PartitionBy))
	for _, name := range table.PartitionBy {
		i := table.ColumnIndex(name)
		if i < 0 {
			return fmt.Errorf("parquet: table %s: partition column %q not in schema", table.Name, name)
		}
		partIdx = append(partIdx, i)
	}

	dataCols := make([]schema.Column, 0, len(table.Columns))
	dataIdx := make([]int, 0, len(table.Columns))
	for i, col := range table.Columns {
		if !contains(table.PartitionBy, col.Name) {
			dataCols = append(dataCols, col)
			dataIdx = append(dataIdx, i)
		}
	}

	// Group rows by partition path, preserving first-seen partition order.
	groups := make(map[string][][]any)
	order := make([]string, 0, 8)
	for _, row := range rows {
		rel := partitionPath(table.PartitionBy, partIdx, row)
		if _, ok := groups[rel]; !ok {
			order = append(order, rel)
		}
		groups[rel] = append(groups[rel], row)
	}
	if len(rows) == 0 {
		// Still emit one empty file so the table exists with its schema.
		order = append(order, "")
		groups[""] = nil
	}

	for _, rel := range order {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		partDir := filepath.Join(dir, rel)
		if err := os.MkdirAll(partDir, 0o755); err != nil {
			return fmt.Errorf("parquet: mkdir %s: %w", partDir, err)
		}
		path := filepath.Join(partDir, "part-00000.parquet")
		if err := writeFile(path, dataCols, dataIdx, groups[rel]); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op; every WriteTable call is self-contained.
func (s *Sink) Close() error { return nil }

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// partitionPath renders col=value directory components for one row.
func partitionPath(names []string, idx []int, row []any) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + "=" + partitionValue(row[idx[i]])
	}
	return filepath.Join(parts...)
}

func partitionValue(v any) string {
	switch t := v.(type) {
	case nil:
		return nullPartition
	case string:
		return url.PathEscape(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return url.PathEscape(fmt.Sprint(t))
	}
}

func arrowField(col schema.Column) (arrow.Field, error) {
	f := arrow.Field{Name: col.Name, Nullable: true}
	switch col.Type {
	case schema.KindString:
		f.Type = arrow.BinaryTypes.String
	case schema.KindInt64:
		f.Type = arrow.PrimitiveTypes.Int64
	case schema.KindFloat64:
		f.Type = arrow.PrimitiveTypes.Float64
	case schema.KindTimestamp:
		f.Type = arrow.FixedWidthTypes.Timestamp_ms
	default:
		return f, fmt.Errorf("parquet: column %s: unsupported type %v", col.Name, col.Type)
	}
	return f, nil
}

// writeFile writes one parquet file holding the data columns of rows.
// dataIdx maps each data column to its position in the full row.
func writeFile(path string, cols []schema.Column, dataIdx []int, rows [][]any) (err error) {
	fields := make([]arrow.Field, len(cols))
	for i, col := range cols {
		f, ferr := arrowField(col)
		if ferr != nil {
			return ferr
		}
		fields[i] = f
	}
	arrSchema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(memory.DefaultAllocator, arrSchema)
	defer builder.Release()

	for _, row := range rows {
		for i, srcIdx := range dataIdx {
			if aerr := appendValue(builder.Field(i), row[srcIdx]); aerr != nil {
				return fmt.Errorf("parquet: %s column %s: %w", path, cols[i].Name, aerr)
			}
		}
	}
	rec := builder.NewRecord()
	defer rec.Release()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("parquet: create %s: %w", path, err)
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	w, err := pqarrow.NewFileWriter(arrSchema, f, props, arrowProps)
	if err != nil {
		f.Close()
		return fmt.Errorf("parquet: open writer %s: %w", path, err)
	}
	if err := w.Write(rec); err != nil {
		w.Close()
		return fmt.Errorf("parquet: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("parquet: close %s: %w", path, err)
	}
	return nil
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch fb := b.(type) {
	case *array.StringBuilder:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("want string, got %T", v)
		}
		fb.Append(s)
	case *array.Int64Builder:
		n, ok := v.(int64)
		if !ok {
			return fmt.Errorf("want int64, got %T", v)
		}
		fb.Append(n)
	case *array.Float64Builder:
		n, ok := v.(float64)
		if !ok {
			return fmt.Errorf("want float64, got %T", v)
		}
		fb.Append(n)
	case *array.TimestampBuilder:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("want time.Time, got %T", v)
		}
		fb.Append(arrow.Timestamp(t.UnixMilli()))
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}
