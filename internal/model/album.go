package model

import (
	"path/filepath"
	"sort"
)

// Album represents an album directory: the unit of work of a run.
//
// Membership is non-recursive. Only tracks directly inside Path belong to the
// album; tracks in subdirectories form albums of their own. All tracks are
// assumed to share one piece of artwork, so the pipeline only ever reads the
// first track to determine what is currently embedded.
//
// Example:
//
//	album := NewAlbum("/music/Artist/Album", []string{
//	    "/music/Artist/Album/02 Two.flac",
//	    "/music/Artist/Album/01 One.flac",
//	})
//	album.First().Name() // "01 One.flac"
type Album struct {
	// Path is the directory that holds the tracks.
	Path string

	// Tracks are sorted by path so that processing order is deterministic.
	Tracks []*Track
}

// NewAlbum creates an Album from a directory and its track paths.
//
// Track paths are sorted; duplicates are dropped.
func NewAlbum(dir string, trackPaths []string) *Album {
	paths := append([]string(nil), trackPaths...)
	sort.Strings(paths)

	album := &Album{Path: filepath.Clean(dir)}
	var last string
	for i, p := range paths {
		if i > 0 && p == last {
			continue
		}
		last = p
		album.Tracks = append(album.Tracks, NewTrack(p))
	}
	return album
}

// First returns the track used to inspect existing art, or nil for an empty album.
func (a *Album) First() *Track {
	if len(a.Tracks) == 0 {
		return nil
	}
	return a.Tracks[0]
}

// Len returns the number of tracks in the album.
func (a *Album) Len() int {
	return len(a.Tracks)
}

// RelativePath returns the album path relative to root, falling back to the
// full path when no relative form exists.
func (a *Album) RelativePath(root string) string {
	rel, err := filepath.Rel(root, a.Path)
	if err != nil {
		return a.Path
	}
	return rel
}
