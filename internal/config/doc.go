// Package config defines the configuration structure for imgsqueeze.
//
// Configuration is organized into logical sections (Run, JPEG, PNG, Output)
// and defaults are declared with `default:` struct tags applied by
// github.com/creasty/defaults.
//
// # Configuration Structure
//
//	Configuration
//	├── Run        - Scheduling and output naming
//	├── JPEG       - JPEG encoder settings
//	├── PNG        - PNG encoder settings
//	├── Output     - Terminal, report and history settings
//	├── LogFormat  - Logging format
//	└── LogLevel   - Logging verbosity
//
// # Run Configuration
//
//	┌──────────────┬────────────────────┬──────────────────────────────────────────┐
//	│ Field        │ Default            │ Description                              │
//	├──────────────┼────────────────────┼──────────────────────────────────────────┤
//	│ Jobs         │ 0                  │ Max workers, 0 means GOMAXPROCS          │
//	│ OutputFormat │ "compressed_%s.%e" │ Output file name format                  │
//	│ Overwrite    │ false              │ Shorthand for OutputFormat "%s.%e"       │
//	│ WriteRetries │ 3                  │ Retries for transient write failures     │
//	└──────────────┴────────────────────┴──────────────────────────────────────────┘
//
// Output format specifiers:
//   - %s: file stem (name before the last dot)
//   - %e: file extension without the leading dot
//   - %%: a literal '%'
//
// # JPEG and PNG Configuration
//
//	┌─────────────┬─────────┬──────────────────────────────────────────────┐
//	│ Field       │ Default │ Description                                  │
//	├─────────────┼─────────┼──────────────────────────────────────────────┤
//	│ JPEG.Quality│ 75      │ 1..100, 60-80 recommended                    │
//	│ PNG.Strip   │ "safe"  │ none | safe | all ancillary chunks stripped  │
//	└─────────────┴─────────┴──────────────────────────────────────────────┘
//
// # Output Configuration
//
//	┌────────────┬─────────┬────────────────────────────────────────────────┐
//	│ Field      │ Default │ Description                                    │
//	├────────────┼─────────┼────────────────────────────────────────────────┤
//	│ Color      │ "auto"  │ auto | always | never                          │
//	│ ReportFile │ ""      │ Write a .json or .xlsx per-item report         │
//	│ HistoryDB  │ ""      │ DuckDB file recording every run                │
//	└────────────┴─────────┴────────────────────────────────────────────────┘
//
// # Sources
//
// Values are merged by the CLI in this order, last one wins:
//
//  1. struct tag defaults (NewConfigurationWithDefaults)
//  2. config file (--config, yaml/json/toml)
//  3. IMGSQUEEZE_* environment variables
//  4. command line flags
//
// # Debug Logging
//
// DebugMap returns a flat map suitable for structured logging:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
