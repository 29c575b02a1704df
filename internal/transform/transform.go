// Package transform holds the deterministic rules that turn the two raw feeds
// into the five output tables: dimension projection and dedup (songs, artists),
// latest-wins resolution (users), calendar derivation (time), and the
// name-joined fact build (songplays).
//
// Every builder is a pure function over an immutable input slice. Output order
// is first-occurrence order of the input, so a rerun over the same input
// reproduces byte-identical tables. None of the builders ever return an error:
// per-record anomalies degrade to nulls or drop the row, per the pipeline's
// error policy.
package transform

// deref unwraps an optional field for a positional row value; nil stays nil.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
