package transform

import "songlake/internal/schema"

// Artist is a row of the artist dimension. Name, location and coordinates are
// renamed from their artist_-prefixed source fields.
type Artist struct {
	ArtistID  string
	Name      *string
	Location  *string
	Latitude  *float64
	Longitude *float64
}

// Row returns the positional values in schema.Artists column order.
func (a Artist) Row() []any {
	return []any{a.ArtistID, deref(a.Name), deref(a.Location), deref(a.Latitude), deref(a.Longitude)}
}

// BuildArtists projects the artist dimension out of the catalog feed.
// Records with a null artist_id are dropped. Dedup is whole-row, so the same
// artist_id appearing with two different locations yields two rows; that
// mirrors the source data rather than picking a winner.
func BuildArtists(catalog []schema.CatalogRecord) []Artist {
	seen := make(map[uint64]struct{}, len(catalog))
	out := make([]Artist, 0, len(catalog))
	for _, r := range catalog {
		if r.ArtistID == nil {
			continue
		}
		a := Artist{
			ArtistID:  *r.ArtistID,
			Name:      r.ArtistName,
			Location:  r.ArtistLocation,
			Latitude:  r.ArtistLatitude,
			Longitude: r.ArtistLongitude,
		}
		k := rowKey(a.Row())
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a)
	}
	return out
}
