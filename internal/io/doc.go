// Package ioutils provides file system and image processing utilities.
//
// This package contains:
//   - File copying and atomic replacement
//   - Directory creation
//   - Two image backends for cover art: ImageService (pure Go) and
//     MagickTool (ImageMagick)
//
// # File Operations
//
//	// Copy a file, keeping its permission bits
//	err := ioutils.CopyFile(ctx, "/music/Album/01.flac", "/tmp/work/backup-01.flac")
//
//	// Replace a file without exposing a partial write
//	err := ioutils.WriteFileAtomic(ctx, "/music/Album/01.flac", data, 0o644)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Image Processing
//
// Both backends answer the same three questions: how big is the image, is it
// a baseline JPEG, and what does it look like scaled down to the bound and
// re-encoded as baseline JPEG.
//
//	svc := ioutils.NewImageService()
//	w, h, _ := svc.Dimensions(ctx, "/tmp/work/extracted")
//	ok, _ := svc.IsBaseline(ctx, "/tmp/work/extracted")
//	err := svc.ResizeToBaseline(ctx, "/tmp/work/extracted", "/tmp/work/canonical.jpg", 150, 85)
//
// MagickTool produces the same results by running identify and convert.
package ioutils
