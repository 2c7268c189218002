package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/handiism/artnorm/internal/command"
	"github.com/handiism/artnorm/internal/config"
	"github.com/handiism/artnorm/internal/deps"
)

const defaultConfigPath = "artnorm.toml"

func newConfigCommand(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(opts))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				target = defaultConfigPath
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.DefaultSettings().Save(target); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file (default "+defaultConfigPath+")")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing file")
	return cmd
}

func newConfigValidateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file and environment overrides",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}
			if err := settings.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			out := cmd.OutOrStdout()
			if opts.configPath != "" {
				fmt.Fprintf(out, "Config path: %s\n", opts.configPath)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

// newDepsCommand reports the external tools the configured backends need.
// It fails when a required one is missing, like a run would.
func newDepsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check the external tools the configured backends need",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, opts)
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.RequirementsFor(settings))
			statuses = deps.Probe(cmd.Context(), command.Runner{Timeout: settings.ToolTimeout()}, statuses)

			out := cmd.OutOrStdout()
			if len(statuses) == 0 {
				fmt.Fprintf(out, "Backends %s/%s need no external tools\n", settings.PictureBackend, settings.ImageBackend)
				return nil
			}
			fmt.Fprintln(out, renderDeps(statuses))
			return deps.Missing(statuses)
		},
	}
}

func renderDeps(statuses []deps.Status) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Tool", "Command", "Status", "Version"})
	for _, s := range statuses {
		status := "ok"
		if !s.Available {
			status = "missing: " + s.Detail
		}
		tw.AppendRow(table.Row{s.Name, s.Command, status, s.Version})
	}
	return tw.Render()
}
