// Package datasource defines the minimal contract for raw input sources.
package datasource

import (
	"context"
	"io"
)

// Source is anything that can be opened for reading. Implementations live in
// the file and httpds subpackages.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
