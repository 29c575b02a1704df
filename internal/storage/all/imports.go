// Package all registers every built-in sink backend. Import it for side
// effects from any binary that constructs sinks by kind name.
package all

import (
	_ "songlake/internal/storage/parquet"
	_ "songlake/internal/storage/postgres"
	_ "songlake/internal/storage/sqlite"
)
