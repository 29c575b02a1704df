// Package storage defines the sink contract the pipeline writes through and
// a registry that maps sink kind names to constructors. Backends register
// themselves from their init functions; importing storage/all pulls in every
// built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"songlake/internal/schema"
)

// Sink receives fully-built tables. WriteTable replaces the table's previous
// contents entirely; a table written twice in one run keeps only the second
// write. Implementations must tolerate WriteTable being called from several
// goroutines for different tables.
type Sink interface {
	WriteTable(ctx context.Context, table schema.Table, rows [][]any) error
	Close() error
}

// Config carries the backend-specific settings. Kind selects the backend;
// Path is used by file-based sinks, DSN by database sinks.
type Config struct {
	Kind string
	Path string
	DSN  string
}

// Factory constructs a ready-to-use sink.
type Factory func(ctx context.Context, cfg Config) (Sink, error)

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register makes a sink kind available to New. It panics on duplicate
// registration; that is a programming error, not a runtime condition.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[kind]; dup {
		panic(fmt.Sprintf("storage: duplicate sink kind %q", kind))
	}
	registry[kind] = f
}

// New constructs the sink named by cfg.Kind.
func New(ctx context.Context, cfg Config) (Sink, error) {
	mu.RLock()
	f, ok := registry[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown sink kind %q (have %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds returns the registered sink kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
