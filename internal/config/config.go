package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/atomicstack/keypad-popup/internal/app"
	"github.com/atomicstack/keypad-popup/internal/gesture"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envLayout  = "KEYPAD_POPUP_LAYOUT"
	envHold    = "KEYPAD_POPUP_HOLD"
	envSlop    = "KEYPAD_POPUP_SLOP"
	envWidth   = "KEYPAD_POPUP_WIDTH"
	envHeight  = "KEYPAD_POPUP_HEIGHT"
	envTrace   = "KEYPAD_POPUP_TRACE"
	envLogFile = "KEYPAD_POPUP_LOG_FILE"
	envWatch   = "KEYPAD_POPUP_WATCH"
)

// Flags holds the values bound by Register until Resolve reads them.
type Flags struct {
	layout  *string
	hold    *time.Duration
	slop    *float32
	width   *int
	height  *int
	trace   *bool
	logFile *string
	watch   *bool
}

// Register binds the application flags on fs. Defaults come from the
// KEYPAD_POPUP_* variables in environ.
func Register(fs *pflag.FlagSet, environ []string) *Flags {
	env := parseEnv(environ)
	return &Flags{
		layout:  fs.StringP("layout", "l", envOrDefault(env, envLayout, ""), "path to a TOML or YAML layout file (empty uses the built-in calculator)"),
		hold:    fs.Duration("hold", envOrDuration(env, envHold, gesture.DefaultHoldThreshold), "press duration that opens a popup"),
		slop:    fs.Float32("slop", envOrFloat(env, envSlop, gesture.DefaultMoveTolerance), "movement in cells that aborts a pending hold"),
		width:   fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)"),
		height:  fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)"),
		trace:   fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
		logFile: fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file"),
		watch:   fs.Bool("watch", envOrBool(env, envWatch, false), "reload the layout file when it changes"),
	}
}

// Resolve converts the parsed flag values into a Config.
func (f *Flags) Resolve(args []string) Config {
	return Config{
		App: app.Config{
			LayoutPath:    *f.layout,
			HoldThreshold: *f.hold,
			MoveTolerance: *f.slop,
			Width:         *f.width,
			Height:        *f.height,
			Watch:         *f.watch,
		},
		Logging: Logging{
			FilePath: *f.logFile,
			Trace:    *f.trace,
		},
		Flags: map[string]string{
			"layout":  *f.layout,
			"hold":    f.hold.String(),
			"slop":    strconv.FormatFloat(float64(*f.slop), 'g', -1, 32),
			"width":   strconv.Itoa(*f.width),
			"height":  strconv.Itoa(*f.height),
			"trace":   strconv.FormatBool(*f.trace),
			"logFile": *f.logFile,
			"watch":   strconv.FormatBool(*f.watch),
		},
		Args: append([]string(nil), args...),
	}
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("keypad-popup", pflag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))
	flags := Register(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg := flags.Resolve(fs.Args())
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func Validate(cfg Config) error {
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.HoldThreshold <= 0 {
		return fmt.Errorf("hold must be > 0 (got %s)", cfg.App.HoldThreshold)
	}
	if cfg.App.MoveTolerance < 0 {
		return fmt.Errorf("slop must be >= 0 (got %g)", cfg.App.MoveTolerance)
	}
	return nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(env map[string]string, key string, fallback float32) float32 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil {
		return fallback
	}
	return float32(parsed)
}
