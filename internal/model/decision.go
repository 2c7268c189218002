package model

// Decision is the normalization action chosen for an album.
//
// It is computed once per album from the first track's art and drives the
// rest of the pipeline:
//
//	SkipNoArt        no art could be extracted; nothing to normalize
//	SkipCompliant    art already fits the bound and is baseline-encoded
//	ConvertOnly      art fits the bound but must be re-encoded as baseline
//	ResizeAndConvert art exceeds the bound, or its size could not be read
type Decision int

const (
	// SkipNoArt means extraction from the first track failed.
	SkipNoArt Decision = iota

	// SkipCompliant means the existing art already satisfies the policy.
	SkipCompliant

	// ConvertOnly re-encodes the art as baseline JPEG without resizing.
	ConvertOnly

	// ResizeAndConvert resizes the art to the policy bound and re-encodes it.
	ResizeAndConvert

	// Unclassified marks an album that failed before a decision was made.
	// Summaries do not count it as a decision.
	Unclassified Decision = -1
)

// RequiresWork reports whether the decision leads to normalization and embedding.
func (d Decision) RequiresWork() bool {
	return d == ConvertOnly || d == ResizeAndConvert
}

// RequiresResize reports whether the canonical asset must be scaled down.
func (d Decision) RequiresResize() bool {
	return d == ResizeAndConvert
}

// String returns a short identifier used in logs and summaries.
func (d Decision) String() string {
	switch d {
	case SkipNoArt:
		return "skip-no-art"
	case SkipCompliant:
		return "skip-compliant"
	case ConvertOnly:
		return "convert-only"
	case ResizeAndConvert:
		return "resize-and-convert"
	case Unclassified:
		return "unclassified"
	default:
		return "unknown"
	}
}

// Outcome is the terminal state of one album in a run.
//
// OutcomeProcessed means every track was attempted; per-track embed failures
// are tallied in AlbumResult.Errored and do not change the outcome.
// OutcomeErrored means the album failed as a whole before any track was
// attempted (workspace, normalization or a recovered panic).
type Outcome int

const (
	OutcomeNoArtSkip Outcome = iota
	OutcomeCompliantSkip
	OutcomeProcessed
	OutcomeErrored
	// OutcomePlanned is only produced by the plan phase for albums that need work.
	OutcomePlanned
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoArtSkip:
		return "no-art"
	case OutcomeCompliantSkip:
		return "compliant"
	case OutcomeProcessed:
		return "processed"
	case OutcomeErrored:
		return "errored"
	case OutcomePlanned:
		return "planned"
	default:
		return "unknown"
	}
}
