package ioutils

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // PNG decoder registration
	"io"
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ErrNotJPEG is returned by JPEG-specific inspection of other formats.
var ErrNotJPEG = errors.New("not a JPEG image")

// ImageService is the pure-Go image backend.
//
// ImageService is used to:
//   - Read the pixel size of embedded art (JPEG, PNG, WebP, BMP)
//   - Tell baseline JPEGs from progressive ones
//   - Scale art down to the target bound and re-encode it as baseline JPEG
//
// It needs no external binaries, which makes it the backend of choice when
// ImageMagick is not installed.
//
// Example usage:
//
//	svc := NewImageService()
//
//	w, h, _ := svc.Dimensions(ctx, "/tmp/work/extracted")
//	if max(w, h) > 150 {
//	    _ = svc.ResizeToBaseline(ctx, "/tmp/work/extracted", "/tmp/work/canonical.jpg", 150, 85)
//	}
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Dimensions returns the width and height of the image at path.
//
// Only the image header is decoded.
func (s *ImageService) Dimensions(ctx context.Context, path string) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// IsBaseline reports whether path is a baseline JPEG.
//
// The JPEG marker stream is walked up to the first start-of-frame marker.
// SOF0 (baseline) and SOF1 (extended sequential) count as baseline; SOF2
// (progressive) and the lossless/arithmetic variants do not. Files that are
// not JPEG return false with ErrNotJPEG.
func (s *ImageService) IsBaseline(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	marker, err := firstFrameMarker(bufio.NewReader(f))
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", path, err)
	}
	return marker == 0xC0 || marker == 0xC1, nil
}

// ResizeToBaseline decodes src and writes it to dest as a baseline JPEG.
//
// The aspect ratio is preserved. When bound is positive and either side is
// larger than bound, the image is scaled to fit within bound x bound using
// Catmull-Rom. Smaller images are never enlarged. Transparent pixels are
// flattened onto white, since JPEG has no alpha channel.
//
// image/jpeg always writes baseline (SOF0) streams, so the result is baseline
// regardless of how src was encoded.
//
// Example:
//
//	// A 1500x1000 source becomes 150x100
//	err := svc.ResizeToBaseline(ctx, src, dest, 150, 85)
func (s *ImageService) ResizeToBaseline(ctx context.Context, src, dest string, bound, quality int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bufio.NewReader(in))
	in.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", src, err)
	}

	bounds := img.Bounds()
	width, height := fitWithin(bounds.Dx(), bounds.Dy(), bound)

	// Start from white so that transparent regions do not turn black.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	// Use Catmull-Rom for high-quality scaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	if err := jpeg.Encode(w, dst, &jpeg.Options{Quality: quality}); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", dest, err)
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// fitWithin scales width x height down to fit a bound x bound box.
// A non-positive bound, or a size already inside the box, is returned as is.
func fitWithin(width, height, bound int) (int, int) {
	if bound <= 0 || (width <= bound && height <= bound) {
		return width, height
	}
	if width >= height {
		height = max(1, int(float64(height)*float64(bound)/float64(width)+0.5))
		width = bound
	} else {
		width = max(1, int(float64(width)*float64(bound)/float64(height)+0.5))
		height = bound
	}
	return width, height
}

// firstFrameMarker returns the first SOFn marker byte of a JPEG stream.
func firstFrameMarker(r *bufio.Reader) (byte, error) {
	var soi [2]byte
	if _, err := io.ReadFull(r, soi[:]); err != nil || soi[0] != 0xFF || soi[1] != 0xD8 {
		return 0, ErrNotJPEG
	}

	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b != 0xFF {
			return 0, fmt.Errorf("%w: expected marker, got 0x%02X", ErrNotJPEG, b)
		}
		// Markers may be padded with any number of 0xFF fill bytes.
		marker := byte(0xFF)
		for marker == 0xFF {
			if marker, err = r.ReadByte(); err != nil {
				return 0, err
			}
		}

		switch {
		case marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC:
			return marker, nil
		case marker == 0xD9 || marker == 0xDA:
			return 0, fmt.Errorf("%w: no frame header", ErrNotJPEG)
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			// Standalone markers carry no length.
			continue
		}

		var length [2]byte
		if _, err := io.ReadFull(r, length[:]); err != nil {
			return 0, err
		}
		n := int(length[0])<<8 | int(length[1])
		if n < 2 {
			return 0, fmt.Errorf("%w: bad segment length %d", ErrNotJPEG, n)
		}
		if _, err := r.Discard(n - 2); err != nil {
			return 0, err
		}
	}
}
