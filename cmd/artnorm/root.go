package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/artnorm/internal/config"
)

// options are the root command flags.
type options struct {
	configPath string
	envFile    string

	dryRun   bool
	noDryRun bool
	yes      bool
	verbose  bool

	logFile        string
	maxSize        int
	quality        int
	safeEmbed      bool
	folderCover    bool
	pictureBackend string
	imageBackend   string
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	defaults := config.DefaultSettings()

	rootCmd := &cobra.Command{
		Use:   "artnorm [library-root]",
		Short: "Normalize embedded album art across a music library",
		Long: "artnorm scans a library of album directories and makes every track's\n" +
			"embedded cover a baseline JPEG no larger than the configured bound.\n" +
			"Each album is converted once and the result embedded into all its tracks.\n\n" +
			"The library root defaults to the current directory.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.dryRun && opts.noDryRun {
				return fmt.Errorf("--dry-run and --no-dry-run are mutually exclusive")
			}
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return run(cmd, opts, root)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path (TOML)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "File with ARTNORM_* variables to load if present")

	f := rootCmd.Flags()
	f.BoolVar(&opts.dryRun, "dry-run", false, "Show the plan first without asking")
	f.BoolVar(&opts.noDryRun, "no-dry-run", false, "Skip the plan and do not ask about it")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Process without asking for confirmation")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Show per-track progress and debug logs")
	f.StringVar(&opts.logFile, "log-file", defaults.LogFile, "Where to list tracks that need attention (empty disables)")
	f.IntVar(&opts.maxSize, "max-size", defaults.MaxSize, "Maximum art width and height in pixels")
	f.IntVar(&opts.quality, "quality", defaults.Quality, "JPEG quality for converted art (1-100)")
	f.BoolVar(&opts.safeEmbed, "safe-embed", defaults.SafeEmbed, "Back up each track while its art is replaced")
	f.BoolVar(&opts.folderCover, "folder-cover", defaults.UseFolderCover, "Use cover.jpg/folder.jpg when tracks have no embedded art")
	f.StringVar(&opts.pictureBackend, "picture-backend", defaults.PictureBackend, "Picture backend for FLAC: metaflac or native")
	f.StringVar(&opts.imageBackend, "image-backend", defaults.ImageBackend, "Image backend: magick or native")

	rootCmd.AddCommand(newConfigCommand(opts))
	rootCmd.AddCommand(newDepsCommand(opts))

	return rootCmd
}

// loadSettings resolves settings from the config file, the environment and
// explicitly set flags, in increasing precedence.
func loadSettings(cmd *cobra.Command, opts *options) (*config.Settings, error) {
	settings, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := settings.ApplyEnv(opts.envFile); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-file") {
		settings.LogFile = opts.logFile
	}
	if flags.Changed("max-size") {
		settings.MaxSize = opts.maxSize
	}
	if flags.Changed("quality") {
		settings.Quality = opts.quality
	}
	if flags.Changed("safe-embed") {
		settings.SafeEmbed = opts.safeEmbed
	}
	if flags.Changed("folder-cover") {
		settings.UseFolderCover = opts.folderCover
	}
	if flags.Changed("picture-backend") {
		settings.PictureBackend = opts.pictureBackend
	}
	if flags.Changed("image-backend") {
		settings.ImageBackend = opts.imageBackend
	}
	return settings, nil
}
