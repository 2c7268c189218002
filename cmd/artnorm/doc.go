// Package main hosts the artnorm command line entrypoint.
//
// The root command scans a library, optionally shows a dry-run plan, asks
// for confirmation and then normalizes album art in place. Subcommands
// scaffold and validate configuration and report the external tools the
// configured backends need.
//
// All pipeline logic lives in internal/batch and below; this package only
// resolves settings, wires the prompts and renders progress.
package main
