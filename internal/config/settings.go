package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	ioutils "github.com/handiism/artnorm/internal/io"
)

// Backend names accepted by PictureBackend and ImageBackend.
const (
	PictureBackendMetaflac = "metaflac"
	PictureBackendNative   = "native"
	ImageBackendMagick     = "magick"
	ImageBackendNative     = "native"
)

// SupportedExtensions are the track extensions a picture backend exists for.
var SupportedExtensions = []string{".flac", ".mp3"}

// Settings holds all configuration options.
type Settings struct {
	// Scan settings
	Extensions []string `toml:"extensions"`
	SkipHidden bool     `toml:"skip_hidden"`

	// Art policy
	MaxSize        int  `toml:"max_size"`
	Quality        int  `toml:"quality"`
	UseFolderCover bool `toml:"use_folder_cover"`
	SafeEmbed      bool `toml:"safe_embed"`

	// Collaborator backends
	PictureBackend     string `toml:"picture_backend"` // metaflac, native
	ImageBackend       string `toml:"image_backend"`   // magick, native
	MetaflacPath       string `toml:"metaflac_path"`
	ConvertPath        string `toml:"convert_path"`
	IdentifyPath       string `toml:"identify_path"`
	ToolTimeoutSeconds int    `toml:"tool_timeout_seconds"`

	// Output
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Extensions: []string{".flac"},
		SkipHidden: true,

		MaxSize:        150,
		Quality:        85,
		UseFolderCover: false,
		SafeEmbed:      false,

		PictureBackend:     PictureBackendMetaflac,
		ImageBackend:       ImageBackendMagick,
		MetaflacPath:       "metaflac",
		ConvertPath:        "convert",
		IdentifyPath:       "identify",
		ToolTimeoutSeconds: 120,

		LogFile:  "missing_album_art.log",
		LogLevel: "info",
	}
}

// Load reads settings from a TOML file.
//
// A missing file is not an error; defaults are returned instead.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()
	if strings.TrimSpace(path) == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	settings.normalize()
	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides settings from ARTNORM_* environment variables.
//
// Variables in envFile (usually ".env") are loaded first when the file exists;
// values already present in the process environment win.
func (s *Settings) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if v, ok := lookup("EXTENSIONS"); ok {
		s.Extensions = strings.Split(v, ",")
	}
	if err := envInt("MAX_SIZE", &s.MaxSize); err != nil {
		return err
	}
	if err := envInt("QUALITY", &s.Quality); err != nil {
		return err
	}
	if err := envInt("TOOL_TIMEOUT_SECONDS", &s.ToolTimeoutSeconds); err != nil {
		return err
	}
	if err := envBool("SAFE_EMBED", &s.SafeEmbed); err != nil {
		return err
	}
	if err := envBool("USE_FOLDER_COVER", &s.UseFolderCover); err != nil {
		return err
	}
	if err := envBool("SKIP_HIDDEN", &s.SkipHidden); err != nil {
		return err
	}
	envString("PICTURE_BACKEND", &s.PictureBackend)
	envString("IMAGE_BACKEND", &s.ImageBackend)
	envString("METAFLAC_PATH", &s.MetaflacPath)
	envString("CONVERT_PATH", &s.ConvertPath)
	envString("IDENTIFY_PATH", &s.IdentifyPath)
	envString("LOG_FILE", &s.LogFile)
	envString("LOG_LEVEL", &s.LogLevel)

	s.normalize()
	return nil
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	if len(s.Extensions) == 0 {
		return errors.New("extensions: at least one track extension is required")
	}
	for _, ext := range s.Extensions {
		if !slices.Contains(SupportedExtensions, ext) {
			return fmt.Errorf("extensions: %q is not supported (supported: %s)", ext, strings.Join(SupportedExtensions, ", "))
		}
	}
	if s.MaxSize <= 0 {
		return fmt.Errorf("max_size: must be positive, got %d", s.MaxSize)
	}
	if s.Quality < 1 || s.Quality > 100 {
		return fmt.Errorf("quality: must be between 1 and 100, got %d", s.Quality)
	}
	switch s.PictureBackend {
	case PictureBackendMetaflac, PictureBackendNative:
	default:
		return fmt.Errorf("picture_backend: unknown backend %q", s.PictureBackend)
	}
	switch s.ImageBackend {
	case ImageBackendMagick, ImageBackendNative:
	default:
		return fmt.Errorf("image_backend: unknown backend %q", s.ImageBackend)
	}
	if s.ToolTimeoutSeconds < 0 {
		return fmt.Errorf("tool_timeout_seconds: must not be negative, got %d", s.ToolTimeoutSeconds)
	}
	return nil
}

// ToolTimeout returns the per-invocation timeout for external tools; zero disables it.
func (s *Settings) ToolTimeout() time.Duration {
	return time.Duration(s.ToolTimeoutSeconds) * time.Second
}

// normalize lower-cases extensions and adds missing leading dots.
func (s *Settings) normalize() {
	exts := make([]string, 0, len(s.Extensions))
	seen := make(map[string]bool, len(s.Extensions))
	for _, e := range s.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		exts = append(exts, e)
	}
	s.Extensions = exts
	s.PictureBackend = strings.ToLower(strings.TrimSpace(s.PictureBackend))
	s.ImageBackend = strings.ToLower(strings.TrimSpace(s.ImageBackend))
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
}

const envPrefix = "ARTNORM_"

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func envString(name string, dst *string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func envInt(name string, dst *int) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = n
	return nil
}

func envBool(name string, dst *bool) error {
	v, ok := lookup(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	*dst = b
	return nil
}
