package model

import (
	"path/filepath"
	"strings"
)

// Track represents a single audio file inside an album directory.
//
// A Track is identified by its filesystem path. Whether it currently carries
// embedded art is derived during a run and never persisted between runs.
//
// Example:
//
//	track := NewTrack("/music/Artist/Album/01 Intro.flac")
//	fmt.Println(track.Name())      // "01 Intro.flac"
//	fmt.Println(track.Extension()) // ".flac"
type Track struct {
	// Path is the absolute or root-relative path of the audio file.
	Path string
}

// NewTrack creates a Track for the given path.
func NewTrack(path string) *Track {
	return &Track{Path: filepath.Clean(path)}
}

// Name returns the file name of the track without its directory.
func (t *Track) Name() string {
	return filepath.Base(t.Path)
}

// Extension returns the lower-cased file extension, including the dot.
func (t *Track) Extension() string {
	return strings.ToLower(filepath.Ext(t.Path))
}

// Dir returns the directory holding the track.
func (t *Track) Dir() string {
	return filepath.Dir(t.Path)
}
