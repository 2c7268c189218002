package scan

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestScan_GroupsByParentDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "B Artist", "Album", "02.flac"))
	touch(t, filepath.Join(root, "B Artist", "Album", "01.FLAC"))
	touch(t, filepath.Join(root, "B Artist", "Album", "cover.jpg"))
	touch(t, filepath.Join(root, "A Artist", "Album", "Disc 1", "01.flac"))
	touch(t, filepath.Join(root, "A Artist", "Album", "Disc 2", "01.flac"))
	touch(t, filepath.Join(root, "A Artist", "Album", "notes.txt"))
	touch(t, filepath.Join(root, "Empty", "readme.md"))

	albums, err := NewScanner([]string{".flac"}, true, zerolog.Nop()).Scan(context.Background(), root)
	require.NoError(t, err)

	require.Len(t, albums, 3)
	assert.Equal(t, filepath.Join(root, "A Artist", "Album", "Disc 1"), albums[0].Path)
	assert.Equal(t, filepath.Join(root, "A Artist", "Album", "Disc 2"), albums[1].Path)
	assert.Equal(t, filepath.Join(root, "B Artist", "Album"), albums[2].Path)

	require.Equal(t, 2, albums[2].Len())
	assert.Equal(t, "01.FLAC", albums[2].Tracks[0].Name())
	assert.Equal(t, "02.flac", albums[2].Tracks[1].Name())
}

func TestScan_TracksInRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "single.flac"))

	albums, err := NewScanner([]string{"flac"}, true, zerolog.Nop()).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, filepath.Clean(root), albums[0].Path)
}

func TestScan_HiddenDirectories(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, ".trash", "01.flac"))
	touch(t, filepath.Join(root, "Album", "01.flac"))

	albums, err := NewScanner([]string{".flac"}, true, zerolog.Nop()).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, albums, 1)

	albums, err = NewScanner([]string{".flac"}, false, zerolog.Nop()).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, albums, 2)
}

func TestScan_ExtraExtensions(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Album", "01.flac"))
	touch(t, filepath.Join(root, "Album", "02.mp3"))

	albums, err := NewScanner([]string{".flac", ".MP3"}, true, zerolog.Nop()).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, 2, albums[0].Len())
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := NewScanner([]string{".flac"}, true, zerolog.Nop()).Scan(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScan)
}

func TestScan_RootIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "x.flac")
	touch(t, file)
	_, err := NewScanner([]string{".flac"}, true, zerolog.Nop()).Scan(context.Background(), file)
	assert.ErrorIs(t, err, ErrScan)
}

func TestScan_UnreadableSubdirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	root := t.TempDir()
	touch(t, filepath.Join(root, "Good", "01.flac"))
	locked := filepath.Join(root, "Locked")
	touch(t, filepath.Join(locked, "01.flac"))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	albums, err := NewScanner([]string{".flac"}, true, zerolog.Nop()).Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, filepath.Join(root, "Good"), albums[0].Path)
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "Album", "01.flac"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner([]string{".flac"}, true, zerolog.Nop()).Scan(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}
