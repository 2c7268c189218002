package batch

import (
	"github.com/handiism/artnorm/internal/artwork"
	"github.com/handiism/artnorm/internal/audio"
	"github.com/handiism/artnorm/internal/command"
	"github.com/handiism/artnorm/internal/config"
	ioutils "github.com/handiism/artnorm/internal/io"
)

// Tools are the collaborators a Manager drives.
type Tools struct {
	Pictures artwork.PictureTool
	Images   artwork.ImageTool
	Tags     artwork.TagReader
}

// ToolsFor builds the backends selected by settings.
//
// FLAC goes to metaflac or the native go-flac backend per picture_backend.
// MP3, when listed in extensions, always goes to the id3v2 backend. Tags
// fall back to dhowden/tag for any format.
func ToolsFor(settings *config.Settings) Tools {
	runner := command.Runner{Timeout: settings.ToolTimeout()}

	router := audio.NewRouter(audio.NewTagReader())
	for _, ext := range settings.Extensions {
		switch ext {
		case ".flac":
			if settings.PictureBackend == config.PictureBackendNative {
				router.Register(ext, audio.NewFlacTool())
			} else {
				router.Register(ext, audio.NewMetaflac(runner, settings.MetaflacPath))
			}
		case ".mp3":
			router.Register(ext, audio.NewID3Tool())
		}
	}

	var images artwork.ImageTool
	if settings.ImageBackend == config.ImageBackendNative {
		images = ioutils.NewImageService()
	} else {
		images = ioutils.NewMagickTool(runner, settings.ConvertPath, settings.IdentifyPath)
	}

	return Tools{Pictures: router, Images: images, Tags: router}
}
