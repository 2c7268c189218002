// Package config provides configuration management for artnorm.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - ARTNORM_* environment overrides (optionally read from a .env file)
//   - Validation of backend names and policy values
//
// # Default Settings
//
// Use DefaultSettings() to get the observed policy:
//
//	settings := config.DefaultSettings()
//	// .flac tracks, 150px bound, JPEG quality 85
//	// metaflac + ImageMagick backends
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/artnorm.toml")
//	if err != nil {
//	    // the file exists but could not be parsed
//	}
//	if err := settings.ApplyEnv(".env"); err != nil {
//	    // an ARTNORM_* variable has an invalid value
//	}
//	if err := settings.Validate(); err != nil {
//	    // fatal at startup
//	}
//
// # Configuration Options
//
// Settings includes options for:
//   - Track extensions and hidden-directory handling
//   - The art policy (bound, JPEG quality)
//   - Backend selection and tool paths
//   - Opt-in safe embedding and folder-cover fallback
//   - Attention log location and log level
package config
