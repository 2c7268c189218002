package artwork

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	ioutils "github.com/handiism/artnorm/internal/io"
	"github.com/handiism/artnorm/internal/model"
)

// Embedder replaces a track's embedded picture with a canonical asset.
//
// Embedding is two steps: remove every picture block, then import the asset.
// By default nothing is rolled back, so a track whose import fails after a
// successful removal ends up with no art at all. With safe embedding enabled
// the track is copied next to the canonical asset first and restored when
// either step fails.
type Embedder struct {
	pictures PictureTool
	safe     bool
	logger   zerolog.Logger
}

// NewEmbedder creates an Embedder. safe enables backup-and-restore.
func NewEmbedder(pictures PictureTool, safe bool, logger zerolog.Logger) *Embedder {
	return &Embedder{pictures: pictures, safe: safe, logger: logger}
}

// Embed replaces the track's art with asset. Errors are *EmbedError.
func (e *Embedder) Embed(ctx context.Context, track *model.Track, asset model.ImageAsset) error {
	var backup string
	if e.safe {
		backup = filepath.Join(filepath.Dir(asset.Path), "backup-"+track.Name())
		if err := ioutils.CopyFile(ctx, track.Path, backup); err != nil {
			return &EmbedError{Track: track.Path, Step: StepBackup, Err: err}
		}
		defer func() {
			if err := os.Remove(backup); err != nil && !os.IsNotExist(err) {
				e.logger.Debug().Err(fmt.Errorf("%w: %w", ErrCleanup, err)).Str("backup", backup).Msg("backup not removed")
			}
		}()
	}

	if err := e.pictures.Remove(ctx, track.Path); err != nil {
		return e.fail(ctx, track, StepRemove, err, backup)
	}
	if err := e.pictures.Embed(ctx, track.Path, asset.Path); err != nil {
		return e.fail(ctx, track, StepImport, err, backup)
	}
	return nil
}

func (e *Embedder) fail(ctx context.Context, track *model.Track, step string, cause error, backup string) error {
	embedErr := &EmbedError{Track: track.Path, Step: step, Err: cause}
	if backup == "" {
		return embedErr
	}
	if err := ioutils.CopyFile(ctx, backup, track.Path); err != nil {
		e.logger.Error().Err(err).Str("track", track.Path).Msg("could not restore track from backup")
		return embedErr
	}
	embedErr.Restored = true
	return embedErr
}
