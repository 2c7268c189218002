package artwork

import (
	"errors"
	"fmt"
)

// Failure classes, matched with errors.Is.
var (
	// ErrExtraction covers both "no picture" and "extraction tool failed".
	ErrExtraction = errors.New("art extraction failed")

	// ErrNormalization means the canonical asset could not be produced; the
	// whole album is counted as errored.
	ErrNormalization = errors.New("art normalization failed")

	// ErrEmbed means a single track could not be re-embedded.
	ErrEmbed = errors.New("art embedding failed")

	// ErrCleanup is reported for temporary artifacts that could not be
	// removed. It is logged and never changes an outcome.
	ErrCleanup = errors.New("temporary artifact cleanup failed")
)

// Embed steps reported by EmbedError.
const (
	StepBackup  = "backup"
	StepRemove  = "remove"
	StepImport  = "import"
	StepRestore = "restore"
)

// EmbedError reports which step of embedding failed for a track.
type EmbedError struct {
	Track string
	Step  string
	Err   error

	// Restored is set when safe embedding put the original file back.
	Restored bool
}

func (e *EmbedError) Error() string {
	msg := fmt.Sprintf("embed %s: %s failed: %v", e.Track, e.Step, e.Err)
	if e.Restored {
		msg += " (original restored)"
	}
	return msg
}

func (e *EmbedError) Unwrap() []error {
	return []error{ErrEmbed, e.Err}
}
