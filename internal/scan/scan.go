// Package scan enumerates album directories under a library root.
//
// An album is any directory that directly contains at least one track. The
// walk is recursive, but membership is not: a disc subdirectory forms an
// album of its own.
//
//	scanner := scan.NewScanner([]string{".flac"}, true, logger)
//	albums, err := scanner.Scan(ctx, "/music")
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/handiism/artnorm/internal/model"
)

// ErrScan is returned when the library root cannot be read. It is fatal for
// the run.
var ErrScan = errors.New("library scan failed")

// Scanner walks a library root and groups tracks into albums.
type Scanner struct {
	extensions map[string]struct{}
	skipHidden bool
	logger     zerolog.Logger
}

// NewScanner creates a Scanner matching the given extensions
// case-insensitively. skipHidden skips directories whose name starts with a
// dot.
func NewScanner(extensions []string, skipHidden bool, logger zerolog.Logger) *Scanner {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &Scanner{extensions: exts, skipHidden: skipHidden, logger: logger}
}

// Scan returns the albums under root, sorted by directory path, with tracks
// sorted by path. Nothing on disk is modified.
//
// An unreadable root yields an error wrapping ErrScan. Unreadable
// subdirectories are logged and skipped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]*model.Album, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScan, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrScan, root)
	}
	root = filepath.Clean(root)

	byDir := make(map[string][]string)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && s.skipHidden && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if _, ok := s.extensions[strings.ToLower(filepath.Ext(path))]; ok {
			dir := filepath.Dir(path)
			byDir[dir] = append(byDir[dir], path)
		}
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return nil, walkErr
		}
		return nil, fmt.Errorf("%w: %w", ErrScan, walkErr)
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	albums := make([]*model.Album, 0, len(dirs))
	for _, dir := range dirs {
		albums = append(albums, model.NewAlbum(dir, byDir[dir]))
	}

	s.logger.Debug().Str("root", root).Int("albums", len(albums)).Msg("scan complete")
	return albums, nil
}
