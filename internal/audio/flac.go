package audio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	ioutils "github.com/handiism/artnorm/internal/io"
)

// ErrNoPicture is returned by Extract when the file has no picture block.
var ErrNoPicture = errors.New("no embedded picture")

// FlacTool is the pure-Go FLAC picture backend.
//
// FlacTool reads and rewrites FLAC metadata blocks in process using
// go-flac, so no metaflac binary is needed. Rewrites go through a temporary
// file in the track's directory and an atomic rename; a failed write leaves
// the original file untouched.
//
// Example:
//
//	tool := NewFlacTool()
//	if err := tool.Remove(ctx, track); err != nil {
//	    return err
//	}
//	err := tool.Embed(ctx, track, "/tmp/work/canonical.jpg")
type FlacTool struct{}

// NewFlacTool creates a FlacTool.
func NewFlacTool() *FlacTool {
	return &FlacTool{}
}

// HasPicture reports whether the file carries a PICTURE block.
func (t *FlacTool) HasPicture(ctx context.Context, path string) (bool, error) {
	f, err := parseFLAC(ctx, path)
	if err != nil {
		return false, err
	}
	for _, block := range f.Meta {
		if block.Type == flac.Picture {
			return true, nil
		}
	}
	return false, nil
}

// Extract writes the image data of the first PICTURE block to dest.
func (t *FlacTool) Extract(ctx context.Context, path, dest string) error {
	f, err := parseFLAC(ctx, path)
	if err != nil {
		return err
	}
	for _, block := range f.Meta {
		if block.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*block)
		if err != nil {
			return fmt.Errorf("parse picture of %s: %w", path, err)
		}
		return os.WriteFile(dest, pic.ImageData, 0o644)
	}
	return fmt.Errorf("%s: %w", path, ErrNoPicture)
}

// Remove deletes every PICTURE block. A file without pictures is not
// rewritten.
func (t *FlacTool) Remove(ctx context.Context, path string) error {
	f, err := parseFLAC(ctx, path)
	if err != nil {
		return err
	}
	kept := f.Meta[:0]
	for _, block := range f.Meta {
		if block.Type != flac.Picture {
			kept = append(kept, block)
		}
	}
	if len(kept) == len(f.Meta) {
		return nil
	}
	f.Meta = kept
	return saveFLAC(ctx, path, f)
}

// Embed appends image as a front-cover PICTURE block.
func (t *FlacTool) Embed(ctx context.Context, path, image string) error {
	data, err := os.ReadFile(image)
	if err != nil {
		return err
	}
	f, err := parseFLAC(ctx, path)
	if err != nil {
		return err
	}

	pic, err := flacpicture.NewFromImageData(flacpicture.PictureTypeFrontCover, "Cover", data, http.DetectContentType(data))
	if err != nil {
		return fmt.Errorf("build picture block: %w", err)
	}
	block := pic.Marshal()
	f.Meta = append(f.Meta, &block)
	return saveFLAC(ctx, path, f)
}

// ReadTags returns the Vorbis comments of the file.
func (t *FlacTool) ReadTags(ctx context.Context, path string) (map[string]string, error) {
	f, err := parseFLAC(ctx, path)
	if err != nil {
		return nil, err
	}
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, fmt.Errorf("parse comments of %s: %w", path, err)
		}
		return parseComments(cmt.Comments), nil
	}
	return map[string]string{}, nil
}

func parseFLAC(ctx context.Context, path string) (*flac.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

func saveFLAC(ctx context.Context, path string, f *flac.File) error {
	if err := ioutils.WriteFileAtomic(ctx, path, f.Marshal(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
