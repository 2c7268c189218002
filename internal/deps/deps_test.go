package deps

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/artnorm/internal/command"
	"github.com/handiism/artnorm/internal/config"
)

func writeStub(t *testing.T, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, "present", "exit 0")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	require.Len(t, results, len(reqs))

	assert.True(t, results[0].Available)
	assert.Empty(t, results[0].Detail)

	assert.False(t, results[1].Available)
	assert.NotEmpty(t, results[1].Detail)
	assert.Equal(t, "clearly-not-present-binary", results[1].Command)

	assert.False(t, results[2].Available)
	assert.Equal(t, "command not configured", results[2].Detail)
}

func TestRequirementsFor(t *testing.T) {
	s := config.DefaultSettings()
	names := func(reqs []Requirement) []string {
		var out []string
		for _, r := range reqs {
			out = append(out, r.Name)
		}
		return out
	}

	assert.Equal(t, []string{"metaflac", "identify", "convert"}, names(RequirementsFor(s)))

	s.PictureBackend = config.PictureBackendNative
	assert.Equal(t, []string{"identify", "convert"}, names(RequirementsFor(s)))

	s.ImageBackend = config.ImageBackendNative
	assert.Empty(t, RequirementsFor(s))
}

func TestProbe(t *testing.T) {
	versioned := writeStub(t, "metaflac", `echo "metaflac 1.4.3"`)
	broken := writeStub(t, "identify", `echo "Version: ImageMagick 6.9" >&2; exit 1`)

	statuses := Probe(context.Background(), command.Runner{}, []Status{
		{Name: "metaflac", Command: versioned, Available: true},
		{Name: "identify", Command: broken, Available: true},
		{Name: "convert", Command: "absent", Available: false, Detail: "binary \"absent\" not found"},
	})

	require.Len(t, statuses, 3)
	assert.Equal(t, "metaflac 1.4.3", statuses[0].Version)
	assert.True(t, statuses[1].Available)
	assert.Equal(t, "Version: ImageMagick 6.9", statuses[1].Version)
	assert.False(t, statuses[2].Available)
	assert.Empty(t, statuses[2].Version)
}

func TestMissing(t *testing.T) {
	assert.NoError(t, Missing([]Status{{Name: "a", Available: true}, {Name: "b", Optional: true}}))

	err := Missing([]Status{
		{Name: "metaflac", Detail: "binary \"metaflac\" not found", Description: "install flac"},
		{Name: "convert", Available: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDependencyMissing)
	assert.Contains(t, err.Error(), "metaflac")
	assert.Contains(t, err.Error(), "install flac")
	assert.NotContains(t, err.Error(), "convert")
}
