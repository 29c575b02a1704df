// Package schema declares the fixed raw record schemas and the output table
// layout for the songlake job.
//
// The raw schemas mirror the upstream feeds exactly, including fields the
// transforms never consume. Nullable fields are pointers: nil means the field
// was absent, JSON null, or not coercible to the declared type. Decoding never
// fails on a malformed field; nullability is resolved here and downstream
// filters decide whether a null excludes the row.
package schema

import "songlake/pkg/records"

// CatalogRecord is one row of the song catalog feed: a single song and its
// performing artist.
type CatalogRecord struct {
	ArtistID        *string
	ArtistName      *string
	ArtistLocation  *string
	ArtistLatitude  *float64
	ArtistLongitude *float64
	SongID          *string
	Title           *string
	Year            *int64
	NumSongs        *int64
	Duration        *float64
}

// ActivityRecord is one row of the user listening-activity log.
type ActivityRecord struct {
	Artist        *string
	Auth          *string
	FirstName     *string
	Gender        *string
	ItemInSession *int64
	LastName      *string
	Length        *float64
	Level         *string
	Location      *string
	Method        *string
	Page          *string
	Registration  *float64
	SessionID     *int64
	Song          *string
	Status        *int64
	TS            *int64 // epoch milliseconds
	UserAgent     *string
	UserID        *string
}

// CatalogFromRecord projects a decoded JSON object onto the catalog schema.
// Unknown fields in r are ignored.
func CatalogFromRecord(r records.Record) CatalogRecord {
	return CatalogRecord{
		ArtistID:        r.String("artist_id"),
		ArtistName:      r.String("artist_name"),
		ArtistLocation:  r.String("artist_location"),
		ArtistLatitude:  r.Float64("artist_latitude"),
		ArtistLongitude: r.Float64("artist_longitude"),
		SongID:          r.String("song_id"),
		Title:           r.String("title"),
		Year:            r.Int64("year"),
		NumSongs:        r.Int64("num_songs"),
		Duration:        r.Float64("duration"),
	}
}

// ActivityFromRecord projects a decoded JSON object onto the activity schema.
// The activity feed uses camelCase keys (sessionId, userAgent, ...).
func ActivityFromRecord(r records.Record) ActivityRecord {
	return ActivityRecord{
		Artist:        r.String("artist"),
		Auth:          r.String("auth"),
		FirstName:     r.String("firstName"),
		Gender:        r.String("gender"),
		ItemInSession: r.Int64("itemInSession"),
		LastName:      r.String("lastName"),
		Length:        r.Float64("length"),
		Level:         r.String("level"),
		Location:      r.String("location"),
		Method:        r.String("method"),
		Page:          r.String("page"),
		Registration:  r.Float64("registration"),
		SessionID:     r.Int64("sessionId"),
		Song:          r.String("song"),
		Status:        r.Int64("status"),
		TS:            r.Int64("ts"),
		UserAgent:     r.String("userAgent"),
		UserID:        r.String("userId"),
	}
}
