package transform

import (
	"time"

	"songlake/internal/schema"
)

// SongPlay is a row of the fact table: one listen event, linked to the song
// and artist dimensions where a match was found.
type SongPlay struct {
	SongplayID int64
	StartTime  *time.Time
	UserID     *string
	Level      *string
	SongID     *string
	ArtistID   *string
	SessionID  *int64
	Location   *string
	UserAgent  *string
}

// Row returns the positional values in schema.SongPlays column order.
func (p SongPlay) Row() []any {
	return []any{
		p.SongplayID,
		deref(p.StartTime),
		deref(p.SongID),
		deref(p.ArtistID),
		deref(p.UserID),
		deref(p.SessionID),
		deref(p.Location),
		deref(p.Level),
		deref(p.UserAgent),
	}
}

// BuildSongPlays builds the fact table from the filtered activity events and
// the already-built song and artist dimensions.
//
// The lookups are left joins on the event's song title against Song.Title
// and on the event's artist name against Artist.Name, both exact and
// case-sensitive. An event that matches nothing still yields a row with null
// song_id/artist_id. An event that matches several dimension rows fans out
// into the cross product of its matches, and every fanned-out row carries the
// same songplay_id; the id identifies the event, not the row.
//
// Duplicate rows (whole-row identical, id included) are collapsed to one.
func BuildSongPlays(events []schema.ActivityRecord, songs []Song, artists []Artist, gen *IDGen) []SongPlay {
	byTitle := make(map[string][]int, len(songs))
	for i, s := range songs {
		if s.Title != nil {
			byTitle[*s.Title] = append(byTitle[*s.Title], i)
		}
	}
	byName := make(map[string][]int, len(artists))
	for i, a := range artists {
		if a.Name != nil {
			byName[*a.Name] = append(byName[*a.Name], i)
		}
	}

	seen := make(map[uint64]struct{}, len(events))
	out := make([]SongPlay, 0, len(events))

	noMatch := []*string{nil}
	for _, ev := range events {
		id := gen.Next()

		var startTime *time.Time
		if ev.TS != nil {
			t := time.UnixMilli(*ev.TS).UTC()
			startTime = &t
		}

		songIDs := noMatch
		if ev.Song != nil {
			if idxs := byTitle[*ev.Song]; len(idxs) > 0 {
				songIDs = make([]*string, len(idxs))
				for j, i := range idxs {
					songIDs[j] = &songs[i].SongID
				}
			}
		}
		artistIDs := noMatch
		if ev.Artist != nil {
			if idxs := byName[*ev.Artist]; len(idxs) > 0 {
				artistIDs = make([]*string, len(idxs))
				for j, i := range idxs {
					artistIDs[j] = &artists[i].ArtistID
				}
			}
		}

		for _, songID := range songIDs {
			for _, artistID := range artistIDs {
				p := SongPlay{
					SongplayID: id,
					StartTime:  startTime,
					UserID:     ev.UserID,
					Level:      ev.Level,
					SongID:     songID,
					ArtistID:   artistID,
					SessionID:  ev.SessionID,
					Location:   ev.Location,
					UserAgent:  ev.UserAgent,
				}
				k := rowKey(p.Row())
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				out = append(out, p)
			}
		}
	}
	return out
}
