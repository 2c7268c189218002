package ioutils

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/artnorm/internal/command"
)

// MagickTool is the ImageMagick image backend.
//
// It shells out to identify(1) and convert(1). Binary names come from the
// configuration so that "magick identify" style installs can point at a
// wrapper script.
//
// Example usage:
//
//	tool := NewMagickTool(command.Runner{Timeout: 2 * time.Minute}, "convert", "identify")
//	w, h, err := tool.Dimensions(ctx, "/tmp/work/extracted")
type MagickTool struct {
	runner   command.Runner
	convert  string
	identify string
}

// NewMagickTool creates a MagickTool using the given binaries.
func NewMagickTool(runner command.Runner, convert, identify string) *MagickTool {
	return &MagickTool{runner: runner, convert: convert, identify: identify}
}

// Dimensions runs identify -format "%w %h".
func (m *MagickTool) Dimensions(ctx context.Context, path string) (int, int, error) {
	res, err := m.runner.Run(ctx, m.identify, "-format", "%w %h", path)
	if err != nil {
		return 0, 0, err
	}
	return parseDimensions(res.Stdout)
}

// IsBaseline runs identify -verbose and requires both "Format: JPEG" and
// "Interlace: None". PNG and other formats are never baseline.
func (m *MagickTool) IsBaseline(ctx context.Context, path string) (bool, error) {
	res, err := m.runner.Run(ctx, m.identify, "-verbose", path)
	if err != nil {
		return false, err
	}
	return verboseIsBaseline(res.Stdout), nil
}

// ResizeToBaseline runs convert with -quality and -interlace none.
//
// A positive bound adds -resize NxN> which only ever shrinks the image. A
// bound of zero re-encodes at the original size.
func (m *MagickTool) ResizeToBaseline(ctx context.Context, src, dest string, bound, quality int) error {
	args := []string{src}
	if bound > 0 {
		args = append(args, "-resize", fmt.Sprintf("%dx%d>", bound, bound))
	}
	args = append(args, "-quality", strconv.Itoa(quality), "-interlace", "none", dest)

	_, err := m.runner.Run(ctx, m.convert, args...)
	return err
}

// parseDimensions parses "W H" as printed by identify -format "%w %h".
//
// Multi-frame images print one pair per frame; the first one wins.
func parseDimensions(out []byte) (int, int, error) {
	fields := strings.Fields(string(out))
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("unexpected identify output %q", strings.TrimSpace(string(out)))
	}
	w, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("parse width: %w", err)
	}
	h, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("parse height: %w", err)
	}
	return w, h, nil
}

// verboseIsBaseline scans identify -verbose output.
func verboseIsBaseline(out []byte) bool {
	var jpegFormat, notInterlaced bool
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Format:"):
			jpegFormat = strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(line, "Format:")), "JPEG")
		case line == "Interlace: None":
			notInterlaced = true
		}
	}
	return jpegFormat && notInterlaced
}
