package audio

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
)

// ID3Tool is the picture backend for MP3 files.
//
// ID3Tool uses the id3v2 library to read and replace attached picture
// (APIC) frames. It is only reached for tracks whose extension is routed to
// it, which by default means never: MP3 support is opted into by adding
// ".mp3" to the configured extensions.
//
// Example:
//
//	tool := NewID3Tool()
//	_ = tool.Remove(ctx, "/music/Album/01.mp3")
//	err := tool.Embed(ctx, "/music/Album/01.mp3", "/tmp/work/canonical.jpg")
type ID3Tool struct{}

// NewID3Tool creates an ID3Tool.
func NewID3Tool() *ID3Tool {
	return &ID3Tool{}
}

// HasPicture reports whether the tag has an APIC frame.
func (t *ID3Tool) HasPicture(ctx context.Context, path string) (bool, error) {
	tag, err := openTag(ctx, path)
	if err != nil {
		return false, err
	}
	defer tag.Close()

	return len(tag.GetFrames(tag.CommonID("Attached picture"))) > 0, nil
}

// Extract writes the first APIC frame's picture to dest.
func (t *ID3Tool) Extract(ctx context.Context, path, dest string) error {
	tag, err := openTag(ctx, path)
	if err != nil {
		return err
	}
	defer tag.Close()

	for _, frame := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := frame.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		return os.WriteFile(dest, pic.Picture, 0o644)
	}
	return fmt.Errorf("%s: %w", path, ErrNoPicture)
}

// Remove deletes every APIC frame.
func (t *ID3Tool) Remove(ctx context.Context, path string) error {
	tag, err := openTag(ctx, path)
	if err != nil {
		return err
	}
	defer tag.Close()

	// Remove any existing cover pictures
	tag.DeleteFrames(tag.CommonID("Attached picture"))
	return tag.Save()
}

// Embed adds image as the front cover.
func (t *ID3Tool) Embed(ctx context.Context, path, image string) error {
	artwork, err := os.ReadFile(image)
	if err != nil {
		return err
	}
	tag, err := openTag(ctx, path)
	if err != nil {
		return err
	}
	defer tag.Close()

	// Add new artwork as front cover (APIC frame)
	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    http.DetectContentType(artwork),
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
	return tag.Save()
}

// ReadTags returns the common text frames under Vorbis-style names.
func (t *ID3Tool) ReadTags(ctx context.Context, path string) (map[string]string, error) {
	tag, err := openTag(ctx, path)
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	tags := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			tags[key] = value
		}
	}
	set("ARTIST", tag.Artist())
	set("ALBUM", tag.Album())
	set("TITLE", tag.Title())
	set("GENRE", tag.Genre())
	set("DATE", tag.Year())
	set("ALBUMARTIST", tag.GetTextFrame("TPE2").Text)
	number, _, _ := strings.Cut(tag.GetTextFrame("TRCK").Text, "/")
	if n, err := strconv.Atoi(strings.TrimSpace(number)); err == nil {
		set("TRACKNUMBER", strconv.Itoa(n))
	}
	return tags, nil
}

func openTag(ctx context.Context, path string) (*id3v2.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("open tag of %s: %w", path, err)
	}
	return tag, nil
}
