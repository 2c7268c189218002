package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/handiism/artnorm/internal/command"
	"github.com/handiism/artnorm/internal/config"
	"github.com/handiism/artnorm/internal/deps"
	"github.com/handiism/artnorm/internal/model"
	"github.com/handiism/artnorm/internal/runlock"
	"github.com/handiism/artnorm/internal/scan"
)

// Session holds what one run over a library needs: validated settings,
// the backends, and the library lock.
type Session struct {
	Root     string
	Settings *config.Settings
	Tools    Tools
	Deps     []deps.Status

	lock   *runlock.Lock
	logger zerolog.Logger
}

// Open validates settings, checks the external tools the configured
// backends need and locks root against concurrent runs.
//
// Errors from Open are fatal for the run: invalid settings, a missing
// dependency (deps.ErrDependencyMissing), an unusable root, or a held lock
// (runlock.ErrLocked).
func Open(ctx context.Context, settings *config.Settings, root string, logger zerolog.Logger) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	statuses := deps.CheckBinaries(deps.RequirementsFor(settings))
	statuses = deps.Probe(ctx, command.Runner{Timeout: settings.ToolTimeout()}, statuses)
	for _, s := range statuses {
		logger.Debug().Str("dependency", s.Name).Bool("available", s.Available).Str("version", s.Version).Msg("dependency check")
	}
	if err := deps.Missing(statuses); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scan.ErrScan, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scan.ErrScan, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", scan.ErrScan, abs)
	}

	lock, err := runlock.Acquire(abs)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("lock", lock.Path()).Msg("library locked")

	return &Session{
		Root:     abs,
		Settings: settings,
		Tools:    ToolsFor(settings),
		Deps:     statuses,
		lock:     lock,
		logger:   logger,
	}, nil
}

// Scan discovers the albums under the session root.
func (s *Session) Scan(ctx context.Context) ([]*model.Album, error) {
	return scan.NewScanner(s.Settings.Extensions, s.Settings.SkipHidden, s.logger).Scan(ctx, s.Root)
}

// NewManager returns a Manager over the session's tools, labelling albums
// relative to the root.
func (s *Session) NewManager(onProgress func(ProgressEvent), opts ...Option) *Manager {
	opts = append([]Option{WithLogger(s.logger), WithRoot(s.Root)}, opts...)
	return NewManager(s.Settings, s.Tools, onProgress, opts...)
}

// Close releases the library lock.
func (s *Session) Close() error {
	return s.lock.Release()
}
