package transform

import "songlake/internal/schema"

// Song is a row of the song dimension.
type Song struct {
	SongID   string
	Title    *string
	ArtistID *string
	Year     *int64
	Duration *float64
}

// Row returns the positional values in schema.Songs column order.
func (s Song) Row() []any {
	return []any{s.SongID, deref(s.Title), deref(s.ArtistID), deref(s.Year), deref(s.Duration)}
}

// BuildSongs projects the song dimension out of the catalog feed. Records
// with a null song_id are dropped; duplicate rows (whole-row identical) keep
// only their first occurrence. Output order is first-occurrence order.
func BuildSongs(catalog []schema.CatalogRecord) []Song {
	seen := make(map[uint64]struct{}, len(catalog))
	out := make([]Song, 0, len(catalog))
	for _, r := range catalog {
		if r.SongID == nil {
			continue
		}
		s := Song{
			SongID:   *r.SongID,
			Title:    r.Title,
			ArtistID: r.ArtistID,
			Year:     r.Year,
			Duration: r.Duration,
		}
		k := rowKey(s.Row())
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
