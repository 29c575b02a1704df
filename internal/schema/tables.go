package schema

// Kind is the logical column type shared by all sinks. Each backend maps it
// onto its own physical type (arrow type, SQL DDL type).
type Kind int

const (
	KindString Kind = iota
	KindInt64
	KindFloat64
	KindTimestamp // millisecond precision, UTC
)

// Column describes one output column.
type Column struct {
	Name string
	Type Kind
}

// Table describes one output table: ordered columns plus the columns the
// persisted layout is partitioned by. PartitionBy names must appear in
// Columns; row values stay aligned with Columns regardless of partitioning.
type Table struct {
	Name        string
	Columns     []Column
	PartitionBy []string
}

// ColumnNames returns the ordered column names.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// The five output tables. Table names double as the directory/table name
// under the sink's output root.
var (
	Songs = Table{
		Name: "song",
		Columns: []Column{
			{Name: "song_id", Type: KindString},
			{Name: "title", Type: KindString},
			{Name: "artist_id", Type: KindString},
			{Name: "year", Type: KindInt64},
			{Name: "duration", Type: KindFloat64},
		},
		PartitionBy: []string{"year", "artist_id"},
	}

	Artists = Table{
		Name: "artists",
		Columns: []Column{
			{Name: "artist_id", Type: KindString},
			{Name: "name", Type: KindString},
			{Name: "location", Type: KindString},
			{Name: "latitude", Type: KindFloat64},
			{Name: "longitude", Type: KindFloat64},
		},
	}

	Users = Table{
		Name: "users",
		Columns: []Column{
			{Name: "user_id", Type: KindString},
			{Name: "first_name", Type: KindString},
			{Name: "last_name", Type: KindString},
			{Name: "gender", Type: KindString},
			{Name: "level", Type: KindString},
		},
	}

	Time = Table{
		Name: "time",
		Columns: []Column{
			{Name: "start_time", Type: KindTimestamp},
			{Name: "hour", Type: KindInt64},
			{Name: "day", Type: KindInt64},
			{Name: "week", Type: KindInt64},
			{Name: "month", Type: KindInt64},
			{Name: "year", Type: KindInt64},
			{Name: "weekday", Type: KindString},
		},
		PartitionBy: []string{"year", "month"},
	}

	SongPlays = Table{
		Name: "songplays",
		Columns: []Column{
			{Name: "songplay_id", Type: KindInt64},
			{Name: "start_time", Type: KindTimestamp},
			{Name: "song_id", Type: KindString},
			{Name: "artist_id", Type: KindString},
			{Name: "user_id", Type: KindString},
			{Name: "session_id", Type: KindInt64},
			{Name: "location", Type: KindString},
			{Name: "level", Type: KindString},
			{Name: "user_agent", Type: KindString},
		},
	}
)

// AllTables lists every table a run must produce, in write order.
var AllTables = []Table{Songs, Artists, Users, Time, SongPlays}
