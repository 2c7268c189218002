package model

// AttentionEntry is a track that needs manual attention after a run.
type AttentionEntry struct {
	// Path is the track path written to the attention log.
	Path string

	// Reason explains why the track was flagged. It is not written to the log
	// file, which holds one path per line.
	Reason string
}

// AlbumResult is the immutable outcome of processing one album.
//
// Counts are per track: an album of N tracks always satisfies
// Processed+Skipped+Errored == N.
type AlbumResult struct {
	Album    *Album
	Decision Decision
	Outcome  Outcome

	// Reason is a human-readable explanation of the decision, e.g.
	// "art is 1200x1200, will resize to 150x150".
	Reason string

	Processed int
	Skipped   int
	Errored   int

	Attention []AttentionEntry
}

// Summary aggregates album results across a run.
//
// Summary is a value type. Add returns a new Summary and never mutates the
// receiver, so results can be folded from any number of albums without
// shared counters:
//
//	var s Summary
//	for _, r := range results {
//	    s = s.Add(r)
//	}
type Summary struct {
	Albums    int
	Tracks    int
	Processed int
	Skipped   int
	Errored   int

	// Decisions counts albums per decision. Unclassified albums are left out.
	Decisions map[Decision]int

	Attention []AttentionEntry

	// DryRun is set for summaries produced by the plan phase.
	DryRun bool

	// Interrupted is set when the run stopped before every album was visited.
	Interrupted bool
}

// Add folds one album result into the summary and returns the new summary.
func (s Summary) Add(r AlbumResult) Summary {
	next := s
	next.Albums++
	if r.Album != nil {
		next.Tracks += r.Album.Len()
	}
	next.Processed += r.Processed
	next.Skipped += r.Skipped
	next.Errored += r.Errored

	next.Decisions = make(map[Decision]int, len(s.Decisions)+1)
	for k, v := range s.Decisions {
		next.Decisions[k] = v
	}
	if r.Decision != Unclassified {
		next.Decisions[r.Decision]++
	}

	if len(r.Attention) > 0 {
		next.Attention = append(append([]AttentionEntry(nil), s.Attention...), r.Attention...)
	}
	return next
}

// NeedsAttention reports whether any track was flagged for manual attention.
func (s Summary) NeedsAttention() bool {
	return len(s.Attention) > 0
}
