package audio

import (
	"bytes"
	"context"
	"strings"

	"github.com/handiism/artnorm/internal/command"
)

// Metaflac is the FLAC picture backend built on the metaflac(1) tool from
// the reference FLAC distribution.
//
// Every method is a single metaflac invocation:
//
//	HasPicture  metaflac --list --block-type=PICTURE FILE
//	Extract     metaflac --export-picture-to=DEST FILE
//	Remove      metaflac --remove --block-type=PICTURE FILE
//	Embed       metaflac --import-picture-from=IMAGE FILE
//	ReadTags    metaflac --export-tags-to=- FILE
//
// Example:
//
//	mf := NewMetaflac(command.Runner{Timeout: 2 * time.Minute}, "metaflac")
//	if err := mf.Extract(ctx, "/music/Album/01.flac", "/tmp/work/extracted"); err != nil {
//	    // no picture, or metaflac failed
//	}
type Metaflac struct {
	runner command.Runner
	bin    string
}

// NewMetaflac creates a Metaflac that runs bin.
func NewMetaflac(runner command.Runner, bin string) *Metaflac {
	if bin == "" {
		bin = "metaflac"
	}
	return &Metaflac{runner: runner, bin: bin}
}

// HasPicture reports whether metaflac lists any PICTURE block.
func (m *Metaflac) HasPicture(ctx context.Context, path string) (bool, error) {
	res, err := m.runner.Run(ctx, m.bin, "--list", "--block-type=PICTURE", path)
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(res.Stdout)) > 0, nil
}

// Extract exports the first picture to dest.
func (m *Metaflac) Extract(ctx context.Context, path, dest string) error {
	_, err := m.runner.Run(ctx, m.bin, "--export-picture-to="+dest, path)
	return err
}

// Remove deletes every PICTURE block.
func (m *Metaflac) Remove(ctx context.Context, path string) error {
	_, err := m.runner.Run(ctx, m.bin, "--remove", "--block-type=PICTURE", path)
	return err
}

// Embed imports image as the front cover.
func (m *Metaflac) Embed(ctx context.Context, path, image string) error {
	_, err := m.runner.Run(ctx, m.bin, "--import-picture-from="+pictureSpec(image), path)
	return err
}

// ReadTags returns the Vorbis comments of the file.
func (m *Metaflac) ReadTags(ctx context.Context, path string) (map[string]string, error) {
	res, err := m.runner.Run(ctx, m.bin, "--export-tags-to=-", path)
	if err != nil {
		return nil, err
	}
	return parseComments(strings.Split(string(res.Stdout), "\n")), nil
}

// pictureSpec returns the --import-picture-from argument for image.
//
// metaflac reads a '|' in the argument as a field separator of its
// TYPE|MIME|DESCRIPTION|DIMENSIONS|FILE form, so such paths are passed in
// that form with every field but the type left for metaflac to fill in.
func pictureSpec(image string) string {
	if !strings.Contains(image, "|") {
		return image
	}
	return "3||||" + image
}
