package model

import "fmt"

// ImageAsset describes an image file produced or inspected during a run.
//
// Assets are ephemeral. An extracted asset is pulled out of the album's first
// track; a canonical asset is the normalized image embedded into every track.
// Both live in the album workspace and are removed together with it.
type ImageAsset struct {
	// Path is the location of the image bytes on disk.
	Path string

	// Width and Height are the pixel dimensions, valid only when Known is true.
	Width  int
	Height int

	// Known reports whether the dimensions could be determined.
	Known bool

	// Baseline reports whether the image is a baseline (non-progressive) JPEG.
	Baseline bool
}

// MaxDimension returns the larger of width and height.
func (a ImageAsset) MaxDimension() int {
	return max(a.Width, a.Height)
}

// String formats the asset as "WxH" plus its encoding, or "unknown size".
func (a ImageAsset) String() string {
	if !a.Known {
		return "unknown size"
	}
	encoding := "progressive/non-JPEG"
	if a.Baseline {
		encoding = "baseline JPEG"
	}
	return fmt.Sprintf("%dx%d %s", a.Width, a.Height, encoding)
}
