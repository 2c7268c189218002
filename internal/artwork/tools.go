package artwork

import "context"

// PictureTool reads and mutates embedded picture blocks of audio files.
//
// Implementations return errors instead of panicking; callers decide how a
// failure is classified.
type PictureTool interface {
	// HasPicture reports whether the track carries at least one picture block.
	HasPicture(ctx context.Context, trackPath string) (bool, error)

	// Extract writes the first embedded picture of the track to dest. Any
	// error means "no picture or extraction failed"; the two are not told apart.
	Extract(ctx context.Context, trackPath, dest string) error

	// Remove deletes every picture block from the track.
	Remove(ctx context.Context, trackPath string) error

	// Embed imports imagePath as the track's picture.
	Embed(ctx context.Context, trackPath, imagePath string) error
}

// ImageTool inspects and converts image files.
type ImageTool interface {
	// Dimensions returns the pixel size of the image.
	Dimensions(ctx context.Context, imagePath string) (width, height int, err error)

	// IsBaseline reports whether the image is a baseline (non-progressive) JPEG.
	IsBaseline(ctx context.Context, imagePath string) (bool, error)

	// ResizeToBaseline writes src to dest as a baseline JPEG with the given
	// quality, scaled down to fit within bound x bound. A bound of zero
	// re-encodes without resizing.
	ResizeToBaseline(ctx context.Context, src, dest string, bound, quality int) error
}

// TagReader reads textual tags of an audio file.
type TagReader interface {
	// ReadTags returns tags keyed by upper-case field name (ARTIST, ALBUM, ...).
	ReadTags(ctx context.Context, trackPath string) (map[string]string, error)
}
