package artwork

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/handiism/artnorm/internal/model"
)

// Policy is the target the embedded art must satisfy.
type Policy struct {
	// MaxSize is the largest allowed width or height in pixels.
	MaxSize int

	// Quality is the JPEG quality used for every canonical asset.
	Quality int

	// UseFolderCover falls back to cover.jpg/folder.jpg in the album
	// directory when the first track has no embedded art.
	UseFolderCover bool
}

// DefaultPolicy returns the 150px / quality 85 policy.
func DefaultPolicy() Policy {
	return Policy{MaxSize: 150, Quality: 85}
}

// extractedName is the file name of the extracted asset inside a workspace.
const extractedName = "extracted"

// folderCoverNames are matched case-insensitively in the album directory.
var folderCoverNames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
}

// Classification is the result of inspecting one album.
type Classification struct {
	Decision model.Decision

	// Source is the asset the canonical image is derived from. It is only
	// meaningful when Decision.RequiresWork().
	Source model.ImageAsset

	// Reason is a one-line explanation suitable for status output.
	Reason string

	// FromFolderCover is set when Source is a folder image rather than
	// art extracted from the first track.
	FromFolderCover bool

	// Tracks receive the canonical asset when Decision.RequiresWork(). With
	// a folder cover these are only the tracks without embedded art.
	Tracks []*model.Track

	// Attention lists tracks that need manual attention (SkipNoArt only).
	Attention []model.AttentionEntry
}

// Inspector decides, per album, what has to happen to the embedded art.
type Inspector struct {
	pictures PictureTool
	images   ImageTool
	policy   Policy
	logger   zerolog.Logger
}

// NewInspector creates an Inspector.
func NewInspector(pictures PictureTool, images ImageTool, policy Policy, logger zerolog.Logger) *Inspector {
	return &Inspector{pictures: pictures, images: images, policy: policy, logger: logger}
}

// HasArt reports whether the track has embedded art.
//
// A tool failure counts as "has art": the file is left alone rather than
// risking an overwrite of art the tool could not confirm.
func (i *Inspector) HasArt(ctx context.Context, track *model.Track) bool {
	has, err := i.pictures.HasPicture(ctx, track.Path)
	if err != nil {
		i.logger.Warn().Err(err).Str("track", track.Path).Msg("could not check for embedded art, assuming present")
		return true
	}
	return has
}

// Classify inspects the album's first track and returns the decision.
//
// The extracted picture is written into workdir, which the caller owns and
// removes once the album is done.
func (i *Inspector) Classify(ctx context.Context, album *model.Album, workdir string) Classification {
	first := album.First()
	if first == nil {
		return Classification{Decision: model.SkipNoArt, Reason: "album has no tracks"}
	}

	extracted := filepath.Join(workdir, extractedName)
	if err := i.pictures.Extract(ctx, first.Path, extracted); err != nil {
		i.logger.Debug().Err(fmt.Errorf("%w: %w", ErrExtraction, err)).Str("track", first.Path).Msg("no art extracted")
		return i.classifyWithoutArt(ctx, album)
	}

	c := i.classifySource(ctx, model.ImageAsset{Path: extracted}, false)
	c.Tracks = album.Tracks
	return c
}

// classifyWithoutArt handles an album whose first track yielded no art.
//
// A folder cover is only embedded into tracks that lack art, so art a later
// track already carries is never replaced.
func (i *Inspector) classifyWithoutArt(ctx context.Context, album *model.Album) Classification {
	var missing []*model.Track
	for _, track := range album.Tracks {
		if !i.HasArt(ctx, track) {
			missing = append(missing, track)
		}
	}

	if i.policy.UseFolderCover && len(missing) > 0 {
		if cover := findFolderCover(album.Path); cover != "" {
			c := i.classifySource(ctx, model.ImageAsset{Path: cover}, true)
			c.Reason = fmt.Sprintf("no embedded art, using %s for %d track(s): %s", filepath.Base(cover), len(missing), c.Reason)
			c.Tracks = missing
			return c
		}
	}

	c := Classification{Decision: model.SkipNoArt, Reason: "no embedded art found, skipping album"}
	for _, track := range missing {
		c.Attention = append(c.Attention, model.AttentionEntry{Path: track.Path, Reason: "no embedded art"})
	}
	if len(c.Attention) == 0 {
		// Every track claims art, yet extraction failed on the first one.
		c.Attention = append(c.Attention, model.AttentionEntry{
			Path:   album.First().Path,
			Reason: "art present but could not be extracted",
		})
	}
	return c
}

// classifySource applies the size/encoding policy to a source image.
func (i *Inspector) classifySource(ctx context.Context, src model.ImageAsset, fromFolder bool) Classification {
	c := Classification{Source: src, FromFolderCover: fromFolder}
	bound := i.policy.MaxSize

	w, h, err := i.images.Dimensions(ctx, src.Path)
	if err != nil {
		i.logger.Warn().Err(err).Str("image", src.Path).Msg("could not determine art dimensions")
		c.Decision = model.ResizeAndConvert
		c.Reason = "could not determine art dimensions, will process anyway"
		return c
	}
	c.Source.Width, c.Source.Height, c.Source.Known = w, h, true

	if c.Source.MaxDimension() > bound {
		c.Decision = model.ResizeAndConvert
		c.Reason = fmt.Sprintf("art is %dx%d, will resize to %dx%d", w, h, bound, bound)
		return c
	}

	baseline, err := i.images.IsBaseline(ctx, src.Path)
	if err != nil {
		i.logger.Warn().Err(err).Str("image", src.Path).Msg("could not check encoding, assuming progressive")
		baseline = false
	}
	c.Source.Baseline = baseline

	if baseline && !fromFolder {
		c.Decision = model.SkipCompliant
		c.Reason = fmt.Sprintf("art is already %dx%d baseline JPEG, skipping album", w, h)
		return c
	}

	c.Decision = model.ConvertOnly
	if baseline {
		c.Reason = fmt.Sprintf("art is %dx%d baseline JPEG, will embed", w, h)
	} else {
		c.Reason = fmt.Sprintf("art is %dx%d but not baseline JPEG, will convert to baseline", w, h)
	}
	return c
}

// findFolderCover returns the first folder image in dir, or "".
func findFolderCover(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	byName := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		lower := strings.ToLower(entry.Name())
		if _, ok := byName[lower]; !ok {
			byName[lower] = entry.Name()
		}
	}
	for _, name := range folderCoverNames {
		if actual, ok := byName[name]; ok {
			return filepath.Join(dir, actual)
		}
	}
	return ""
}
