package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/handiism/artnorm/internal/batch"
	"github.com/handiism/artnorm/internal/logging"
	"github.com/handiism/artnorm/internal/model"
)

// run is the root command: open, scan, optionally plan, confirm, commit.
//
// Only startup failures are returned. Once albums are being processed every
// failure ends up in the summary and the attention log instead. The
// attention log is written by whichever phase ends the run.
func run(cmd *cobra.Command, opts *options, root string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())

	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return err
	}
	logger, runID := logging.New(logging.Options{
		Level:   settings.LogLevel,
		Verbose: opts.verbose,
		Writer:  cmd.ErrOrStderr(),
	})
	logger.Debug().Str("run_id", runID).Str("root", root).Msg("starting")

	p := newPrinter(out, opts.verbose)
	p.banner()

	session, err := batch.Open(ctx, settings, root, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn().Err(err).Msg("could not release library lock")
		}
	}()

	albums, err := session.Scan(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.warn("Interrupted while scanning, nothing was changed.")
			return nil
		}
		return err
	}
	p.info(fmt.Sprintf("Found %d album(s) under %s", len(albums), session.Root))
	if len(albums) == 0 {
		return nil
	}

	manager := session.NewManager(p.print)

	dryRun, err := wantDryRun(opts, in, out)
	if err != nil {
		return err
	}
	if dryRun {
		p.section("Dry run")
		plan, err := manager.Plan(ctx, albums)
		fmt.Fprintln(out)
		fmt.Fprintln(out, batch.RenderSummary(plan.Summary))
		if err != nil {
			p.warn("Interrupted, nothing was changed.")
			return nil
		}
		if !plan.NeedsWork() {
			p.success("Nothing to do, every album is compliant or has no art.")
			writeAttention(p, logger, settings.LogFile, plan.Summary)
			return nil
		}

		proceed := opts.yes
		if !proceed {
			if proceed, err = askYesNo(in, out, "Do you want to proceed with actual processing? (y/n)"); err != nil {
				return err
			}
		}
		if !proceed {
			p.info("No files were changed.")
			writeAttention(p, logger, settings.LogFile, plan.Summary)
			return nil
		}
		albums = plan.Albums()
	}

	p.section("Processing")
	summary := manager.Commit(ctx, albums)
	fmt.Fprintln(out)
	fmt.Fprintln(out, batch.RenderSummary(summary))

	writeAttention(p, logger, settings.LogFile, summary)
	return nil
}

// writeAttention writes the tracks of summary that need manual attention to
// path. Nothing is written when no track was flagged or path is empty.
func writeAttention(p *printer, logger zerolog.Logger, path string, summary model.Summary) {
	if !summary.NeedsAttention() || path == "" {
		return
	}
	if err := batch.WriteAttentionLog(path, summary.Attention); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("attention log not written")
		p.fail(fmt.Sprintf("Could not write %s: %v", path, err))
		return
	}
	logPath, err := filepath.Abs(path)
	if err != nil {
		logPath = path
	}
	p.warn(fmt.Sprintf("%d track(s) need attention, see %s", len(summary.Attention), logPath))
}
