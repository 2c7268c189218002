package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/handiism/artnorm/internal/artwork"
	"github.com/handiism/artnorm/internal/model"
)

// ErrUnsupportedFormat is returned for tracks whose extension has no backend.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Backend is a picture backend that can also read tags.
type Backend interface {
	artwork.PictureTool
	artwork.TagReader
}

// Router dispatches picture and tag calls to a backend chosen by the
// track's lower-cased extension.
//
// Tag reads fall back to a format-agnostic reader when the routed backend
// fails or returns nothing.
//
// Example:
//
//	router := NewRouter(NewTagReader())
//	router.Register(".flac", NewFlacTool())
//	router.Register(".mp3", NewID3Tool())
//	ok, err := router.HasPicture(ctx, "/music/Album/01.flac")
type Router struct {
	backends map[string]Backend
	fallback artwork.TagReader
}

// NewRouter creates an empty Router. fallback may be nil.
func NewRouter(fallback artwork.TagReader) *Router {
	return &Router{backends: make(map[string]Backend), fallback: fallback}
}

// Register routes ext (with or without the leading dot) to b.
func (r *Router) Register(ext string, b Backend) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.backends[ext] = b
}

func (r *Router) backend(path string) (Backend, error) {
	ext := model.NewTrack(path).Extension()
	b, ok := r.backends[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return b, nil
}

func (r *Router) HasPicture(ctx context.Context, path string) (bool, error) {
	b, err := r.backend(path)
	if err != nil {
		return false, err
	}
	return b.HasPicture(ctx, path)
}

func (r *Router) Extract(ctx context.Context, path, dest string) error {
	b, err := r.backend(path)
	if err != nil {
		return err
	}
	return b.Extract(ctx, path, dest)
}

func (r *Router) Remove(ctx context.Context, path string) error {
	b, err := r.backend(path)
	if err != nil {
		return err
	}
	return b.Remove(ctx, path)
}

func (r *Router) Embed(ctx context.Context, path, image string) error {
	b, err := r.backend(path)
	if err != nil {
		return err
	}
	return b.Embed(ctx, path, image)
}

func (r *Router) ReadTags(ctx context.Context, path string) (map[string]string, error) {
	var tags map[string]string
	b, err := r.backend(path)
	if err == nil {
		tags, err = b.ReadTags(ctx, path)
	}
	if len(tags) > 0 || r.fallback == nil {
		return tags, err
	}
	if fallback, ferr := r.fallback.ReadTags(ctx, path); ferr == nil {
		return fallback, nil
	}
	return tags, err
}
