package audio

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dhowden/tag"
)

// TagReader reads tags of any format dhowden/tag understands (FLAC, MP3,
// MP4, OGG). It backs Router when the routed backend has nothing to say.
type TagReader struct{}

// NewTagReader creates a TagReader.
func NewTagReader() *TagReader {
	return &TagReader{}
}

// ReadTags returns the common fields under Vorbis-style names.
func (r *TagReader) ReadTags(ctx context.Context, path string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read tags of %s: %w", path, err)
	}

	tags := make(map[string]string)
	set := func(key, value string) {
		if value != "" {
			tags[key] = value
		}
	}
	set("ARTIST", m.Artist())
	set("ALBUMARTIST", m.AlbumArtist())
	set("ALBUM", m.Album())
	set("TITLE", m.Title())
	set("GENRE", m.Genre())
	if year := m.Year(); year > 0 {
		set("DATE", strconv.Itoa(year))
	}
	if track, _ := m.Track(); track > 0 {
		set("TRACKNUMBER", strconv.Itoa(track))
	}
	return tags, nil
}
