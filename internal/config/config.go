package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"go.uber.org/zap/zapcore"
)

// OverwriteFormat is the output format forced by --overwrite.
const OverwriteFormat = "%s.%e"

type StripMode string

const (
	StripNone StripMode = "none"
	StripSafe StripMode = "safe"
	StripAll  StripMode = "all"
)

func ParseStripMode(s string) (StripMode, error) {
	switch StripMode(strings.ToLower(s)) {
	case StripNone:
		return StripNone, nil
	case StripSafe:
		return StripSafe, nil
	case StripAll:
		return StripAll, nil
	default:
		return "", fmt.Errorf("invalid png strip mode %q: must be none, safe or all", s)
	}
}

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type Configuration struct {
	Run       Run
	JPEG      JPEG
	PNG       PNG
	Output    Output
	LogFormat string `default:"console"`
	LogLevel  string `default:"warn"`
}

type Run struct {
	Jobs         int    `default:"0"`
	OutputFormat string `default:"compressed_%s.%e"`
	Overwrite    bool   `default:"false"`
	WriteRetries int    `default:"3"`
}

type JPEG struct {
	Quality int `default:"75"`
}

type PNG struct {
	Strip StripMode `default:"safe"`
}

type Output struct {
	Color      ColorMode `default:"auto"`
	ReportFile string
	HistoryDB  string
}

func NewConfigurationWithDefaults() *Configuration {
	c := &Configuration{}
	// defaults.Set only fails on malformed tags, which are static here.
	if err := defaults.Set(c); err != nil {
		panic(err)
	}
	return c
}

// EffectiveOutputFormat is the output name format after --overwrite is applied.
func (c *Configuration) EffectiveOutputFormat() string {
	if c.Run.Overwrite {
		return OverwriteFormat
	}
	return c.Run.OutputFormat
}

func (c *Configuration) Validate() error {
	if c.Run.Jobs < 0 {
		return fmt.Errorf("jobs must be >= 0, got %d", c.Run.Jobs)
	}
	if c.Run.WriteRetries < 0 {
		return fmt.Errorf("write retries must be >= 0, got %d", c.Run.WriteRetries)
	}
	if strings.TrimSpace(c.EffectiveOutputFormat()) == "" {
		return fmt.Errorf("output format cannot be empty")
	}
	if c.JPEG.Quality < 1 || c.JPEG.Quality > 100 {
		return fmt.Errorf("jpg quality must be in 1..100, got %d", c.JPEG.Quality)
	}
	switch c.PNG.Strip {
	case StripNone, StripSafe, StripAll:
	default:
		return fmt.Errorf("invalid png strip mode %q: must be none, safe or all", c.PNG.Strip)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q: must be auto, always or never", c.Output.Color)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be console or json", c.LogFormat)
	}
	return nil
}

// DebugMap returns the configuration as a flat map for structured logging.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"jobs":          c.Run.Jobs,
		"output_format": c.EffectiveOutputFormat(),
		"overwrite":     c.Run.Overwrite,
		"write_retries": c.Run.WriteRetries,
		"jpg_quality":   c.JPEG.Quality,
		"png_strip":     string(c.PNG.Strip),
		"color":         string(c.Output.Color),
		"report_file":   c.Output.ReportFile,
		"history_db":    c.Output.HistoryDB,
		"log_format":    c.LogFormat,
		"log_level":     c.LogLevel,
	}
}
