package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, 150, s.MaxSize)
	assert.Equal(t, 85, s.Quality)
	assert.Equal(t, []string{".flac"}, s.Extensions)
	assert.Equal(t, PictureBackendMetaflac, s.PictureBackend)
	assert.Equal(t, ImageBackendMagick, s.ImageBackend)
	assert.Equal(t, 2*time.Minute, s.ToolTimeout())
	assert.False(t, s.SafeEmbed)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_ParsesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artnorm.toml")
	content := `
extensions = ["FLAC", "mp3", ".flac"]
max_size = 300
picture_backend = "Native"
safe_embed = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{".flac", ".mp3"}, s.Extensions)
	assert.Equal(t, 300, s.MaxSize)
	assert.Equal(t, 85, s.Quality, "unset keys keep defaults")
	assert.Equal(t, PictureBackendNative, s.PictureBackend)
	assert.True(t, s.SafeEmbed)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("max_size = ["), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "artnorm.toml")
	s := DefaultSettings()
	s.MaxSize = 500
	s.ImageBackend = ImageBackendNative
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ARTNORM_MAX_SIZE", "200")
	t.Setenv("ARTNORM_SAFE_EMBED", "true")
	t.Setenv("ARTNORM_EXTENSIONS", "flac,MP3")
	t.Setenv("ARTNORM_IMAGE_BACKEND", "native")

	s := DefaultSettings()
	require.NoError(t, s.ApplyEnv(""))
	assert.Equal(t, 200, s.MaxSize)
	assert.True(t, s.SafeEmbed)
	assert.Equal(t, []string{".flac", ".mp3"}, s.Extensions)
	assert.Equal(t, ImageBackendNative, s.ImageBackend)
}

func TestApplyEnv_DotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("ARTNORM_QUALITY=70\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ARTNORM_QUALITY") })

	s := DefaultSettings()
	require.NoError(t, s.ApplyEnv(envFile))
	assert.Equal(t, 70, s.Quality)
}

func TestApplyEnv_MissingDotEnvIsIgnored(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.ApplyEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv("ARTNORM_MAX_SIZE", "big")
	s := DefaultSettings()
	assert.Error(t, s.ApplyEnv(""))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"no extensions", func(s *Settings) { s.Extensions = nil }},
		{"unsupported extension", func(s *Settings) { s.Extensions = []string{".flac", ".ogg"} }},
		{"zero bound", func(s *Settings) { s.MaxSize = 0 }},
		{"quality too high", func(s *Settings) { s.Quality = 101 }},
		{"quality zero", func(s *Settings) { s.Quality = 0 }},
		{"picture backend", func(s *Settings) { s.PictureBackend = "ffmpeg" }},
		{"image backend", func(s *Settings) { s.ImageBackend = "vips" }},
		{"negative timeout", func(s *Settings) { s.ToolTimeoutSeconds = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}
