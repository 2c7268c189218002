// Package artwork holds the per-album art logic: inspection, normalization
// and embedding.
//
// The package consumes three collaborator contracts, PictureTool, ImageTool
// and TagReader, and never talks to a concrete tool directly. Backends live in
// internal/audio (picture blocks, tags) and internal/io (images).
//
// # Inspection
//
// Inspector.Classify reads the first track of an album only and returns a
// Classification whose Decision is one of:
//
//	SkipNoArt         extraction failed ("no art" and "tool error" look the same)
//	SkipCompliant     max(w,h) <= bound and baseline JPEG
//	ConvertOnly       max(w,h) <= bound, not baseline
//	ResizeAndConvert  max(w,h) > bound, or dimensions unknown
//
// # Normalization
//
// Normalizer.Normalize produces one baseline JPEG per album. It must be
// called once per album, never per track.
//
// # Embedding
//
// Embedder.Embed removes every picture block from a track and imports the
// canonical asset. Failures are reported per track as *EmbedError.
package artwork
