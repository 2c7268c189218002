package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/handiism/artnorm/internal/config"
	"github.com/handiism/artnorm/internal/logging"
	"github.com/handiism/artnorm/internal/tui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath, envFile, debugLog string

	cmd := &cobra.Command{
		Use:           "artnorm-tui [library-root]",
		Short:         "Interactive album art normalization",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := settings.ApplyEnv(envFile); err != nil {
				return err
			}

			root, err := os.Getwd()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				root = args[0]
			}

			// The alternate screen owns the terminal, so logs go to a file or nowhere.
			logger := zerolog.Nop()
			if debugLog != "" {
				f, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open debug log: %w", err)
				}
				defer f.Close()
				logger, _ = logging.New(logging.Options{Level: "debug", Writer: f})
			}

			return tui.Run(tui.Options{Settings: settings, Root: root, Logger: logger})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path (TOML)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "File with ARTNORM_* variables to load if present")
	cmd.Flags().StringVar(&debugLog, "debug-log", "", "Write diagnostic logs to this file")
	return cmd
}
