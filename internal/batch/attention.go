package batch

import (
	"bufio"
	"fmt"
	"os"

	"github.com/handiism/artnorm/internal/model"
)

// DefaultAttentionLog is the attention log file name, relative to the
// working directory.
const DefaultAttentionLog = "missing_album_art.log"

// attentionHeader precedes the track paths in every attention log.
var attentionHeader = []string{
	"# Tracks without usable embedded art, or whose art could not be replaced",
	"# Generated by artnorm",
}

// WriteAttentionLog writes entries to path: the two header lines, a blank
// line, then one track path per line. An existing file is replaced.
func WriteAttentionLog(path string, entries []model.AttentionEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create attention log: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, line := range attentionHeader {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	for _, e := range entries {
		fmt.Fprintln(w, e.Path)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write attention log: %w", err)
	}
	return f.Close()
}
