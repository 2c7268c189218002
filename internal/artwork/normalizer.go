package artwork

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/handiism/artnorm/internal/model"
)

// canonicalName is the file name of the canonical asset inside a workspace.
const canonicalName = "canonical.jpg"

// Normalizer derives the canonical asset for an album.
//
// Normalize runs once per album; the resulting asset is embedded into every
// track of that album.
type Normalizer struct {
	images ImageTool
	policy Policy
	logger zerolog.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(images ImageTool, policy Policy, logger zerolog.Logger) *Normalizer {
	return &Normalizer{images: images, policy: policy, logger: logger}
}

// Normalize converts source into a baseline JPEG in workdir, resizing it to
// the policy bound when the decision requires it.
//
// Errors wrap ErrNormalization.
func (n *Normalizer) Normalize(ctx context.Context, source model.ImageAsset, decision model.Decision, workdir string) (model.ImageAsset, error) {
	if !decision.RequiresWork() {
		return model.ImageAsset{}, fmt.Errorf("%w: decision %s needs no canonical asset", ErrNormalization, decision)
	}

	bound := 0
	if decision.RequiresResize() {
		bound = n.policy.MaxSize
	}

	dest := filepath.Join(workdir, canonicalName)
	if err := n.images.ResizeToBaseline(ctx, source.Path, dest, bound, n.policy.Quality); err != nil {
		return model.ImageAsset{}, fmt.Errorf("%w: %w", ErrNormalization, err)
	}

	asset := model.ImageAsset{Path: dest, Baseline: true}
	if w, h, err := n.images.Dimensions(ctx, dest); err == nil {
		asset.Width, asset.Height, asset.Known = w, h, true
	} else {
		n.logger.Debug().Err(err).Str("image", dest).Msg("could not read canonical asset dimensions")
	}
	return asset, nil
}
