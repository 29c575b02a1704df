package transform

import (
	"time"

	"songlake/internal/schema"
)

// TimeRow is a row of the time dimension: one event timestamp expanded into
// its calendar attributes. All derivation happens in UTC.
type TimeRow struct {
	StartTime time.Time
	Hour      int64
	Day       int64
	Week      int64
	Month     int64
	Year      int64
	Weekday   string
}

// Row returns the positional values in schema.Time column order.
func (t TimeRow) Row() []any {
	return []any{t.StartTime, t.Hour, t.Day, t.Week, t.Month, t.Year, t.Weekday}
}

// timeRowFrom expands an epoch-millisecond timestamp into a TimeRow.
// Week is the ISO 8601 week number; Weekday is the abbreviated English day
// name ("Mon" .. "Sun").
func timeRowFrom(millis int64) TimeRow {
	t := time.UnixMilli(millis).UTC()
	_, week := t.ISOWeek()
	return TimeRow{
		StartTime: t,
		Hour:      int64(t.Hour()),
		Day:       int64(t.Day()),
		Week:      int64(week),
		Month:     int64(t.Month()),
		Year:      int64(t.Year()),
		Weekday:   t.Weekday().String()[:3],
	}
}

// BuildTimeRows derives the time dimension from the filtered activity
// events. Events with a null ts are dropped. Every column is a pure function
// of the millisecond value, so deduplicating on ts is whole-row dedup.
// Output order is first-occurrence order of each distinct timestamp.
func BuildTimeRows(events []schema.ActivityRecord) []TimeRow {
	seen := make(map[int64]struct{}, len(events))
	out := make([]TimeRow, 0, len(events))
	for _, ev := range events {
		if ev.TS == nil {
			continue
		}
		if _, dup := seen[*ev.TS]; dup {
			continue
		}
		seen[*ev.TS] = struct{}{}
		out = append(out, timeRowFrom(*ev.TS))
	}
	return out
}
