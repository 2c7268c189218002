// Package audio provides the picture and tag backends for audio files.
//
// # Picture Backends
//
// Every backend implements artwork.PictureTool and artwork.TagReader:
//
//	Metaflac  runs metaflac(1); the default for FLAC
//	FlacTool  rewrites FLAC metadata blocks in process with go-flac
//	ID3Tool   edits APIC frames of MP3 files with id3v2
//
// # Routing
//
// Router picks a backend by extension, so one run can cover a library that
// mixes formats:
//
//	router := audio.NewRouter(audio.NewTagReader())
//	router.Register(".flac", audio.NewMetaflac(runner, "metaflac"))
//	router.Register(".mp3", audio.NewID3Tool())
//
// # Tags
//
// Tags are only read, never written. They are returned keyed by upper-case
// Vorbis field name (ARTIST, ALBUM, DATE, ...) whatever the container
// format. TagReader, built on dhowden/tag, reads any format and serves as
// Router's fallback.
package audio
