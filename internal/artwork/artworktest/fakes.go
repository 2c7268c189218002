// Package artworktest provides in-memory collaborators for tests of the art
// pipeline.
//
// Images are plain-text descriptors ("IMG 1200x1200 progressive") so that
// FakeImages can answer size and encoding questions without decoding real
// image data, and FakePictures can move them in and out of "tracks".
package artworktest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrTool is returned by fakes configured to fail.
var ErrTool = errors.New("fake tool failure")

// Image returns the descriptor bytes of a w x h image.
func Image(w, h int, baseline bool) []byte {
	enc := "progressive"
	if baseline {
		enc = "baseline"
	}
	return []byte(fmt.Sprintf("IMG %dx%d %s", w, h, enc))
}

// ParseImage decodes a descriptor produced by Image.
func ParseImage(data []byte) (w, h int, baseline bool, err error) {
	var enc string
	if _, err := fmt.Sscanf(string(data), "IMG %dx%d %s", &w, &h, &enc); err != nil {
		return 0, 0, false, fmt.Errorf("not an image descriptor: %w", err)
	}
	return w, h, enc == "baseline", nil
}

// FakePictures is a PictureTool whose tracks live in memory, keyed by path.
type FakePictures struct {
	// Pictures maps a track path to its embedded picture; absent means no art.
	Pictures map[string][]byte

	HasErr     map[string]bool
	ExtractErr map[string]bool
	RemoveErr  map[string]bool
	EmbedErr   map[string]bool

	Calls map[string]int
}

// NewFakePictures returns an empty FakePictures.
func NewFakePictures() *FakePictures {
	return &FakePictures{
		Pictures:   make(map[string][]byte),
		HasErr:     make(map[string]bool),
		ExtractErr: make(map[string]bool),
		RemoveErr:  make(map[string]bool),
		EmbedErr:   make(map[string]bool),
		Calls:      make(map[string]int),
	}
}

func (f *FakePictures) HasPicture(_ context.Context, track string) (bool, error) {
	f.Calls["has"]++
	if f.HasErr[track] {
		return false, ErrTool
	}
	_, ok := f.Pictures[track]
	return ok, nil
}

func (f *FakePictures) Extract(_ context.Context, track, dest string) error {
	f.Calls["extract"]++
	if f.ExtractErr[track] {
		return ErrTool
	}
	pic, ok := f.Pictures[track]
	if !ok {
		return errors.New("no picture")
	}
	return os.WriteFile(dest, pic, 0o644)
}

func (f *FakePictures) Remove(_ context.Context, track string) error {
	f.Calls["remove"]++
	if f.RemoveErr[track] {
		return ErrTool
	}
	delete(f.Pictures, track)
	return nil
}

func (f *FakePictures) Embed(_ context.Context, track, image string) error {
	f.Calls["embed"]++
	if f.EmbedErr[track] {
		return ErrTool
	}
	data, err := os.ReadFile(image)
	if err != nil {
		return err
	}
	f.Pictures[track] = data
	return nil
}

// Mutations returns the number of remove and embed calls.
func (f *FakePictures) Mutations() int {
	return f.Calls["remove"] + f.Calls["embed"]
}

// FakeImages is an ImageTool over descriptor files.
type FakeImages struct {
	FailResize bool
	Calls      map[string]int
}

// NewFakeImages returns a FakeImages.
func NewFakeImages() *FakeImages {
	return &FakeImages{Calls: make(map[string]int)}
}

func (f *FakeImages) Dimensions(_ context.Context, path string) (int, int, error) {
	f.Calls["dimensions"]++
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}
	w, h, _, err := ParseImage(data)
	return w, h, err
}

func (f *FakeImages) IsBaseline(_ context.Context, path string) (bool, error) {
	f.Calls["baseline"]++
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	_, _, baseline, err := ParseImage(data)
	return baseline, err
}

func (f *FakeImages) ResizeToBaseline(_ context.Context, src, dest string, bound, _ int) error {
	f.Calls["resize"]++
	if f.FailResize {
		return ErrTool
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	w, h, _, err := ParseImage(data)
	if err != nil {
		// Unknown images normalize to a square at the bound.
		w, h = max(bound, 1), max(bound, 1)
	}
	if bound > 0 && (w > bound || h > bound) {
		if w >= h {
			h = h * bound / w
			w = bound
		} else {
			w = w * bound / h
			h = bound
		}
	}
	return os.WriteFile(dest, Image(w, h, true), 0o644)
}

// FakeTags is a TagReader over a static map.
type FakeTags struct {
	Tags map[string]map[string]string
}

func (f *FakeTags) ReadTags(_ context.Context, track string) (map[string]string, error) {
	tags, ok := f.Tags[track]
	if !ok {
		return nil, fmt.Errorf("no tags for %s", strings.TrimSpace(track))
	}
	return tags, nil
}
