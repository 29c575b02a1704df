package transform

import "songlake/internal/schema"

// pageNextSong is the only activity page that represents a listen; every
// other page (Home, Login, Logout, ...) is discarded before the user, time,
// and fact builders run.
const pageNextSong = "NextSong"

// FilterNextSong returns the subset of events with page = "NextSong".
// Events with a null page are excluded.
func FilterNextSong(in []schema.ActivityRecord) []schema.ActivityRecord {
	out := make([]schema.ActivityRecord, 0, len(in))
	for _, ev := range in {
		if ev.Page != nil && *ev.Page == pageNextSong {
			out = append(out, ev)
		}
	}
	return out
}
