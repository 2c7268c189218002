// Package model defines the core data structures used throughout artnorm.
//
// # Album and Track
//
// An Album is a directory of audio tracks processed as one unit of work:
//
//	album := model.NewAlbum("/music/Artist/Album", trackPaths)
//	first := album.First() // the track whose art is inspected
//
// # Decision
//
// Decision is the per-album normalization action (SkipNoArt, SkipCompliant,
// ConvertOnly, ResizeAndConvert). Decision.RequiresWork reports whether the
// album gets a canonical asset embedded into its tracks.
//
// # Results
//
// Each album produces an immutable AlbumResult. Results are folded into a
// Summary, which is itself a value:
//
//	var summary model.Summary
//	summary = summary.Add(result)
package model
