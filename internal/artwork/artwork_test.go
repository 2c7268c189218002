package artwork

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/artnorm/internal/artwork/artworktest"
	"github.com/handiism/artnorm/internal/model"
)

func newAlbum(t *testing.T, n int) *model.Album {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i := 0; i < n; i++ {
		p := filepath.Join(dir, string(rune('a'+i))+".flac")
		require.NoError(t, os.WriteFile(p, []byte("audio"), 0o644))
		paths = append(paths, p)
	}
	return model.NewAlbum(dir, paths)
}

func TestInspector_Classify(t *testing.T) {
	tests := []struct {
		name     string
		picture  []byte
		want     model.Decision
		known    bool
		baseline bool
	}{
		{"large progressive", artworktest.Image(1200, 1200, false), model.ResizeAndConvert, true, false},
		{"large baseline", artworktest.Image(600, 300, true), model.ResizeAndConvert, true, false},
		{"small baseline", artworktest.Image(120, 120, true), model.SkipCompliant, true, true},
		{"exact bound baseline", artworktest.Image(150, 100, true), model.SkipCompliant, true, true},
		{"small progressive", artworktest.Image(120, 120, false), model.ConvertOnly, true, false},
		{"bound plus one", artworktest.Image(151, 10, true), model.ResizeAndConvert, true, false},
		{"unreadable", []byte("not an image"), model.ResizeAndConvert, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			album := newAlbum(t, 2)
			pics := artworktest.NewFakePictures()
			pics.Pictures[album.First().Path] = tt.picture

			insp := NewInspector(pics, artworktest.NewFakeImages(), DefaultPolicy(), zerolog.Nop())
			c := insp.Classify(context.Background(), album, t.TempDir())

			assert.Equal(t, tt.want, c.Decision)
			assert.Equal(t, tt.known, c.Source.Known)
			assert.Equal(t, tt.baseline, c.Source.Baseline)
			assert.NotEmpty(t, c.Reason)
			assert.Empty(t, c.Attention)
			assert.Equal(t, 1, pics.Calls["extract"], "only the first track is read")
			if tt.want.RequiresWork() {
				assert.Equal(t, album.Tracks, c.Tracks)
			}
		})
	}
}

func TestInspector_ClassifyNoArt(t *testing.T) {
	album := newAlbum(t, 3)
	pics := artworktest.NewFakePictures()
	// Second track has art, the others do not.
	pics.Pictures[album.Tracks[1].Path] = artworktest.Image(500, 500, false)

	insp := NewInspector(pics, artworktest.NewFakeImages(), DefaultPolicy(), zerolog.Nop())
	c := insp.Classify(context.Background(), album, t.TempDir())

	assert.Equal(t, model.SkipNoArt, c.Decision)
	require.Len(t, c.Attention, 2)
	assert.Equal(t, album.Tracks[0].Path, c.Attention[0].Path)
	assert.Equal(t, album.Tracks[2].Path, c.Attention[1].Path)
}

func TestInspector_ClassifyExtractionErrorWithArt(t *testing.T) {
	album := newAlbum(t, 1)
	pics := artworktest.NewFakePictures()
	pics.Pictures[album.First().Path] = artworktest.Image(500, 500, false)
	pics.ExtractErr[album.First().Path] = true

	insp := NewInspector(pics, artworktest.NewFakeImages(), DefaultPolicy(), zerolog.Nop())
	c := insp.Classify(context.Background(), album, t.TempDir())

	assert.Equal(t, model.SkipNoArt, c.Decision)
	require.Len(t, c.Attention, 1)
	assert.Equal(t, album.First().Path, c.Attention[0].Path)
	assert.Contains(t, c.Attention[0].Reason, "could not be extracted")
}

func TestInspector_ClassifyFolderCover(t *testing.T) {
	album := newAlbum(t, 2)
	require.NoError(t, os.WriteFile(filepath.Join(album.Path, "Cover.JPG"), artworktest.Image(100, 100, true), 0o644))

	policy := DefaultPolicy()
	policy.UseFolderCover = true
	insp := NewInspector(artworktest.NewFakePictures(), artworktest.NewFakeImages(), policy, zerolog.Nop())
	c := insp.Classify(context.Background(), album, t.TempDir())

	assert.True(t, c.FromFolderCover)
	assert.Equal(t, model.ConvertOnly, c.Decision, "compliant folder art is still embedded")
	assert.Equal(t, filepath.Join(album.Path, "Cover.JPG"), c.Source.Path)
	assert.Contains(t, c.Reason, "Cover.JPG")
	assert.Equal(t, album.Tracks, c.Tracks)
}

func TestInspector_ClassifyFolderCoverOnlyTargetsTracksWithoutArt(t *testing.T) {
	album := newAlbum(t, 3)
	require.NoError(t, os.WriteFile(filepath.Join(album.Path, "folder.jpg"), artworktest.Image(100, 100, true), 0o644))
	pics := artworktest.NewFakePictures()
	pics.Pictures[album.Tracks[1].Path] = artworktest.Image(500, 500, false)

	policy := DefaultPolicy()
	policy.UseFolderCover = true
	insp := NewInspector(pics, artworktest.NewFakeImages(), policy, zerolog.Nop())
	c := insp.Classify(context.Background(), album, t.TempDir())

	assert.Equal(t, model.ConvertOnly, c.Decision)
	assert.Equal(t, []*model.Track{album.Tracks[0], album.Tracks[2]}, c.Tracks)
	assert.Empty(t, c.Attention)
}

func TestInspector_ClassifyFolderCoverWhenEveryTrackClaimsArt(t *testing.T) {
	album := newAlbum(t, 2)
	require.NoError(t, os.WriteFile(filepath.Join(album.Path, "cover.jpg"), artworktest.Image(100, 100, true), 0o644))
	pics := artworktest.NewFakePictures()
	for _, tr := range album.Tracks {
		pics.Pictures[tr.Path] = artworktest.Image(500, 500, false)
	}
	pics.ExtractErr[album.First().Path] = true

	policy := DefaultPolicy()
	policy.UseFolderCover = true
	insp := NewInspector(pics, artworktest.NewFakeImages(), policy, zerolog.Nop())
	c := insp.Classify(context.Background(), album, t.TempDir())

	assert.Equal(t, model.SkipNoArt, c.Decision)
	assert.Empty(t, c.Tracks)
	require.Len(t, c.Attention, 1)
	assert.Contains(t, c.Attention[0].Reason, "could not be extracted")
}

func TestInspector_ClassifyFolderCoverDisabled(t *testing.T) {
	album := newAlbum(t, 1)
	require.NoError(t, os.WriteFile(filepath.Join(album.Path, "cover.jpg"), artworktest.Image(100, 100, true), 0o644))

	insp := NewInspector(artworktest.NewFakePictures(), artworktest.NewFakeImages(), DefaultPolicy(), zerolog.Nop())
	c := insp.Classify(context.Background(), album, t.TempDir())
	assert.Equal(t, model.SkipNoArt, c.Decision)
}

func TestInspector_HasArtToolErrorIsConservative(t *testing.T) {
	album := newAlbum(t, 1)
	pics := artworktest.NewFakePictures()
	pics.HasErr[album.First().Path] = true

	insp := NewInspector(pics, artworktest.NewFakeImages(), DefaultPolicy(), zerolog.Nop())
	assert.True(t, insp.HasArt(context.Background(), album.First()))
}

func TestInspector_EmptyAlbum(t *testing.T) {
	insp := NewInspector(artworktest.NewFakePictures(), artworktest.NewFakeImages(), DefaultPolicy(), zerolog.Nop())
	c := insp.Classify(context.Background(), model.NewAlbum(t.TempDir(), nil), t.TempDir())
	assert.Equal(t, model.SkipNoArt, c.Decision)
}

func TestNormalizer_Normalize(t *testing.T) {
	workdir := t.TempDir()
	src := filepath.Join(workdir, "extracted")
	require.NoError(t, os.WriteFile(src, artworktest.Image(1200, 600, false), 0o644))

	images := artworktest.NewFakeImages()
	n := NewNormalizer(images, DefaultPolicy(), zerolog.Nop())

	asset, err := n.Normalize(context.Background(), model.ImageAsset{Path: src}, model.ResizeAndConvert, workdir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workdir, canonicalName), asset.Path)
	assert.Equal(t, 150, asset.Width)
	assert.Equal(t, 75, asset.Height)
	assert.True(t, asset.Baseline)
	assert.Equal(t, 1, images.Calls["resize"])
}

func TestNormalizer_ConvertOnlyKeepsSize(t *testing.T) {
	workdir := t.TempDir()
	src := filepath.Join(workdir, "extracted")
	require.NoError(t, os.WriteFile(src, artworktest.Image(120, 90, false), 0o644))

	n := NewNormalizer(artworktest.NewFakeImages(), DefaultPolicy(), zerolog.Nop())
	asset, err := n.Normalize(context.Background(), model.ImageAsset{Path: src}, model.ConvertOnly, workdir)
	require.NoError(t, err)
	assert.Equal(t, 120, asset.Width)
	assert.Equal(t, 90, asset.Height)
}

func TestNormalizer_Failure(t *testing.T) {
	images := artworktest.NewFakeImages()
	images.FailResize = true
	n := NewNormalizer(images, DefaultPolicy(), zerolog.Nop())

	_, err := n.Normalize(context.Background(), model.ImageAsset{Path: "x"}, model.ResizeAndConvert, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNormalization))
	assert.True(t, errors.Is(err, artworktest.ErrTool))
}

func TestNormalizer_RejectsSkipDecisions(t *testing.T) {
	images := artworktest.NewFakeImages()
	n := NewNormalizer(images, DefaultPolicy(), zerolog.Nop())
	_, err := n.Normalize(context.Background(), model.ImageAsset{}, model.SkipCompliant, t.TempDir())
	assert.ErrorIs(t, err, ErrNormalization)
	assert.Zero(t, images.Calls["resize"])
}

func canonicalAsset(t *testing.T) model.ImageAsset {
	t.Helper()
	path := filepath.Join(t.TempDir(), canonicalName)
	require.NoError(t, os.WriteFile(path, artworktest.Image(150, 150, true), 0o644))
	return model.ImageAsset{Path: path, Width: 150, Height: 150, Known: true, Baseline: true}
}

func TestEmbedder_Embed(t *testing.T) {
	album := newAlbum(t, 1)
	track := album.First()
	pics := artworktest.NewFakePictures()
	pics.Pictures[track.Path] = artworktest.Image(1200, 1200, false)

	asset := canonicalAsset(t)
	e := NewEmbedder(pics, false, zerolog.Nop())
	require.NoError(t, e.Embed(context.Background(), track, asset))

	assert.Equal(t, artworktest.Image(150, 150, true), pics.Pictures[track.Path])
	assert.Equal(t, 1, pics.Calls["remove"])
	assert.Equal(t, 1, pics.Calls["embed"])
}

func TestEmbedder_Failures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*artworktest.FakePictures, string)
		wantStep string
		wantArt  bool
	}{
		{"remove fails", func(p *artworktest.FakePictures, tr string) { p.RemoveErr[tr] = true }, StepRemove, true},
		{"import fails", func(p *artworktest.FakePictures, tr string) { p.EmbedErr[tr] = true }, StepImport, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			album := newAlbum(t, 1)
			track := album.First()
			pics := artworktest.NewFakePictures()
			pics.Pictures[track.Path] = artworktest.Image(800, 800, false)
			tt.setup(pics, track.Path)

			err := NewEmbedder(pics, false, zerolog.Nop()).Embed(context.Background(), track, canonicalAsset(t))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrEmbed)

			var embedErr *EmbedError
			require.True(t, errors.As(err, &embedErr))
			assert.Equal(t, tt.wantStep, embedErr.Step)
			assert.False(t, embedErr.Restored)

			// Without safe embedding a failed import leaves the track without art.
			_, has := pics.Pictures[track.Path]
			assert.Equal(t, tt.wantArt, has)
		})
	}
}

func TestEmbedder_SafeRestoresTrackFile(t *testing.T) {
	album := newAlbum(t, 1)
	track := album.First()
	original := []byte("original audio bytes")
	require.NoError(t, os.WriteFile(track.Path, original, 0o644))

	pics := artworktest.NewFakePictures()
	pics.EmbedErr[track.Path] = true
	// Simulate a tool that damages the file before failing.
	damaging := &damagingPictures{FakePictures: pics}

	asset := canonicalAsset(t)
	err := NewEmbedder(damaging, true, zerolog.Nop()).Embed(context.Background(), track, asset)
	require.Error(t, err)

	var embedErr *EmbedError
	require.True(t, errors.As(err, &embedErr))
	assert.True(t, embedErr.Restored)

	got, err := os.ReadFile(track.Path)
	require.NoError(t, err)
	assert.Equal(t, original, got)

	_, statErr := os.Stat(filepath.Join(filepath.Dir(asset.Path), "backup-"+track.Name()))
	assert.True(t, os.IsNotExist(statErr), "backup is removed after restore")
}

// damagingPictures truncates the track on Remove before delegating.
type damagingPictures struct {
	*artworktest.FakePictures
}

func (d *damagingPictures) Remove(ctx context.Context, track string) error {
	if err := os.WriteFile(track, nil, 0o644); err != nil {
		return err
	}
	return d.FakePictures.Remove(ctx, track)
}
