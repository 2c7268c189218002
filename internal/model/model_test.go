package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAlbum_SortsAndDeduplicatesTracks(t *testing.T) {
	dir := filepath.Join("music", "Artist", "Album")
	album := NewAlbum(dir, []string{
		filepath.Join(dir, "03 c.flac"),
		filepath.Join(dir, "01 a.flac"),
		filepath.Join(dir, "02 b.flac"),
		filepath.Join(dir, "01 a.flac"),
	})

	require.Equal(t, 3, album.Len())
	assert.Equal(t, "01 a.flac", album.First().Name())
	assert.Equal(t, "02 b.flac", album.Tracks[1].Name())
	assert.Equal(t, "03 c.flac", album.Tracks[2].Name())
}

func TestAlbum_FirstEmpty(t *testing.T) {
	album := NewAlbum("x", nil)
	assert.Nil(t, album.First())
	assert.Zero(t, album.Len())
}

func TestAlbum_RelativePath(t *testing.T) {
	root := filepath.Join("music")
	album := NewAlbum(filepath.Join(root, "A", "B"), nil)
	assert.Equal(t, filepath.Join("A", "B"), album.RelativePath(root))
}

func TestTrack_Extension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.flac", ".flac"},
		{"b.FLAC", ".flac"},
		{"c.Flac", ".flac"},
		{"d.mp3", ".mp3"},
		{"noext", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NewTrack(tt.path).Extension())
		})
	}
}

func TestDecision_RequiresWork(t *testing.T) {
	assert.False(t, SkipNoArt.RequiresWork())
	assert.False(t, SkipCompliant.RequiresWork())
	assert.True(t, ConvertOnly.RequiresWork())
	assert.True(t, ResizeAndConvert.RequiresWork())

	assert.False(t, ConvertOnly.RequiresResize())
	assert.True(t, ResizeAndConvert.RequiresResize())
}

func TestImageAsset_String(t *testing.T) {
	assert.Equal(t, "unknown size", ImageAsset{}.String())
	assert.Equal(t, "150x150 baseline JPEG", ImageAsset{Width: 150, Height: 150, Known: true, Baseline: true}.String())
	assert.Equal(t, 1200, ImageAsset{Width: 800, Height: 1200, Known: true}.MaxDimension())
}

func TestSummary_AddIsPure(t *testing.T) {
	a := NewAlbum("a", []string{"a/1.flac", "a/2.flac", "a/3.flac"})
	b := NewAlbum("b", []string{"b/1.flac"})

	var empty Summary
	first := empty.Add(AlbumResult{Album: a, Decision: ResizeAndConvert, Processed: 2, Errored: 1,
		Attention: []AttentionEntry{{Path: "a/3.flac", Reason: "embed failed"}}})
	second := first.Add(AlbumResult{Album: b, Decision: SkipNoArt, Skipped: 1,
		Attention: []AttentionEntry{{Path: "b/1.flac", Reason: "no art"}}})

	assert.Zero(t, empty.Albums)
	assert.Nil(t, empty.Decisions)

	assert.Equal(t, 1, first.Albums)
	assert.Len(t, first.Attention, 1)
	assert.Equal(t, 1, first.Decisions[ResizeAndConvert])
	assert.Zero(t, first.Decisions[SkipNoArt])

	assert.Equal(t, 2, second.Albums)
	assert.Equal(t, 4, second.Tracks)
	assert.Equal(t, 2, second.Processed)
	assert.Equal(t, 1, second.Skipped)
	assert.Equal(t, 1, second.Errored)
	assert.True(t, second.NeedsAttention())
	assert.Equal(t, []string{"a/3.flac", "b/1.flac"}, []string{second.Attention[0].Path, second.Attention[1].Path})
}

func TestSummary_AddSkipsUnclassifiedDecision(t *testing.T) {
	a := NewAlbum("a", []string{"a/1.flac", "a/2.flac"})

	var s Summary
	s = s.Add(AlbumResult{Album: a, Decision: Unclassified, Outcome: OutcomeErrored, Errored: 2})

	assert.Equal(t, 1, s.Albums)
	assert.Equal(t, 2, s.Errored)
	assert.Empty(t, s.Decisions)
	assert.Equal(t, "unclassified", Unclassified.String())
	assert.False(t, Unclassified.RequiresWork())
}
