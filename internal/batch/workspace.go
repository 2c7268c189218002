package batch

import (
	"fmt"
	"os"

	"github.com/handiism/artnorm/internal/artwork"
)

// Workspace is a temporary directory scoped to one album.
//
// The extracted picture, the canonical asset and any safe-embed backups live
// here. Acquire it on entry to an album and defer Release:
//
//	ws, err := NewWorkspace("")
//	if err != nil {
//	    return err
//	}
//	defer ws.Release()
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh directory under base, or under the OS temp
// directory when base is empty.
func NewWorkspace(base string) (*Workspace, error) {
	dir, err := os.MkdirTemp(base, "artnorm-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Release removes the workspace and everything in it. Errors wrap
// artwork.ErrCleanup.
func (w *Workspace) Release() error {
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("%w: %w", artwork.ErrCleanup, err)
	}
	return nil
}
