package transform

import (
	"testing"
	"time"

	"songlake/internal/schema"
)

// 2018-11-01T21:37:10.796Z, a Thursday in ISO week 44.
const sampleMillis = int64(1541105830796)

func TestTimeRowDerivation(t *testing.T) {
	got := timeRowFrom(sampleMillis)

	if want := time.Date(2018, 11, 1, 21, 37, 10, 796_000_000, time.UTC); !got.StartTime.Equal(want) {
		t.Fatalf("start_time=%v want %v", got.StartTime, want)
	}
	checks := []struct {
		name string
		got  int64
		want int64
	}{
		{"hour", got.Hour, 21},
		{"day", got.Day, 1},
		{"week", got.Week, 44},
		{"month", got.Month, 11},
		{"year", got.Year, 2018},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s=%d want %d", c.name, c.got, c.want)
		}
	}
	if got.Weekday != "Thu" {
		t.Errorf("weekday=%q want Thu", got.Weekday)
	}
}

func TestTimeRowWeekdayAbbreviations(t *testing.T) {
	// 2018-11-04 is a Sunday; walk the whole week.
	want := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	base := time.Date(2018, 11, 4, 12, 0, 0, 0, time.UTC)
	for i, w := range want {
		row := timeRowFrom(base.AddDate(0, 0, i).UnixMilli())
		if row.Weekday != w {
			t.Errorf("day %d: weekday=%q want %q", i, row.Weekday, w)
		}
	}
}

func TestBuildTimeRowsDedupsAndDropsNull(t *testing.T) {
	in := []schema.ActivityRecord{
		{TS: i64p(sampleMillis)},
		{TS: nil},
		{TS: i64p(sampleMillis)},
		{TS: i64p(sampleMillis + 1)},
	}

	got := BuildTimeRows(in)
	if len(got) != 2 {
		t.Fatalf("len=%d want 2: %+v", len(got), got)
	}
	if got[0].StartTime.UnixMilli() != sampleMillis || got[1].StartTime.UnixMilli() != sampleMillis+1 {
		t.Fatalf("order not first-occurrence: %+v", got)
	}
}

func TestFilterNextSong(t *testing.T) {
	in := []schema.ActivityRecord{
		{Page: strp("NextSong"), Song: strp("a")},
		{Page: strp("Home")},
		{Page: nil},
		{Page: strp("nextsong")},
		{Page: strp("NextSong"), Song: strp("b")},
	}

	got := FilterNextSong(in)
	if len(got) != 2 {
		t.Fatalf("len=%d want 2 (filter is exact and case-sensitive)", len(got))
	}
	if *got[0].Song != "a" || *got[1].Song != "b" {
		t.Fatalf("wrong events kept: %+v", got)
	}
}
