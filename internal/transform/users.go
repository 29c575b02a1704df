package transform

import "songlake/internal/schema"

// User is a row of the user dimension, one per user_id, carrying the
// attributes of that user's most recent event.
type User struct {
	UserID    string
	FirstName *string
	LastName  *string
	Gender    *string
	Level     *string
}

// Row returns the positional values in schema.Users column order.
func (u User) Row() []any {
	return []any{u.UserID, deref(u.FirstName), deref(u.LastName), deref(u.Gender), deref(u.Level)}
}

// supersedes reports whether an event with timestamp cand replaces the
// current winner cur for the same user. A null timestamp sorts before any
// real one. On ties (including both null) the later event in input order
// wins, so the caller can simply overwrite; with input files read in sorted
// path order this keeps reruns deterministic.
func supersedes(cand, cur *int64) bool {
	switch {
	case cand == nil:
		return cur == nil
	case cur == nil:
		return true
	default:
		return *cand >= *cur
	}
}

// BuildUsers resolves one row per user from the filtered activity events,
// keeping the attributes of the event with the greatest timestamp. Events
// with a null user_id are dropped. Output order is first-appearance order of
// each user_id.
func BuildUsers(events []schema.ActivityRecord) []User {
	latest := make(map[string]schema.ActivityRecord, len(events))
	order := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.UserID == nil {
			continue
		}
		id := *ev.UserID
		cur, ok := latest[id]
		if !ok {
			order = append(order, id)
			latest[id] = ev
			continue
		}
		if supersedes(ev.TS, cur.TS) {
			latest[id] = ev
		}
	}

	out := make([]User, 0, len(order))
	for _, id := range order {
		ev := latest[id]
		out = append(out, User{
			UserID:    id,
			FirstName: ev.FirstName,
			LastName:  ev.LastName,
			Gender:    ev.Gender,
			Level:     ev.Level,
		})
	}
	return out
}
