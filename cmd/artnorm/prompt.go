package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// askYesNo asks question until the operator answers y or n. End of input
// counts as no.
func askYesNo(in *bufio.Reader, out io.Writer, question string) (bool, error) {
	for {
		fmt.Fprint(out, question+" ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, fmt.Errorf("read answer: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return false, nil
		}
		fmt.Fprintln(out, "Please answer y or n.")
	}
}

// wantDryRun resolves the dry-run question from flags, asking only when
// neither --dry-run, --no-dry-run nor --yes decides it.
func wantDryRun(opts *options, in *bufio.Reader, out io.Writer) (bool, error) {
	switch {
	case opts.dryRun:
		return true, nil
	case opts.noDryRun, opts.yes:
		return false, nil
	}
	return askYesNo(in, out, "Do you want to do a dry run first? (y/n)")
}
