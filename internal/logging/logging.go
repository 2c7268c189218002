// Package logging builds the zerolog logger shared by every component.
//
// Diagnostics go to stderr through a console writer; operator-facing status
// lines are rendered by the front ends and do not pass through here.
//
//	logger, runID := logging.New(logging.Options{Level: "debug"})
//	logger.Info().Str("root", root).Msg("scan started")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options configures New.
type Options struct {
	// Level is a zerolog level name; unknown or empty means info.
	Level string

	// Verbose forces debug level.
	Verbose bool

	// Writer defaults to os.Stderr.
	Writer io.Writer

	// JSON disables the console writer.
	JSON bool
}

// New returns a logger tagged with a fresh run ID, and that ID.
func New(opts Options) (zerolog.Logger, string) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	if !opts.JSON {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isTerminal(w),
			TimeFormat: time.TimeOnly,
		}
	}

	runID := uuid.NewString()
	logger := zerolog.New(w).
		Level(ParseLevel(opts.Level, opts.Verbose)).
		With().
		Timestamp().
		Str("run", runID[:8]).
		Logger()
	return logger, runID
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(name string, verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
