package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atomicstack/keypad-popup/internal/app"
	"github.com/atomicstack/keypad-popup/internal/config"
	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/atomicstack/keypad-popup/internal/logging"
	"github.com/atomicstack/keypad-popup/internal/logging/events"
)

// configError marks failures that exit with status 2.
type configError struct {
	err error
}

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

func main() {
	if err := newRootCmd(os.Environ()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var cfgErr configError
	if errors.As(err, &cfgErr) || errors.Is(err, keys.ErrConfiguration) {
		return 2
	}
	return 1
}

func newRootCmd(environ []string) *cobra.Command {
	var flags *config.Flags
	root := &cobra.Command{
		Use:   "keypad-popup",
		Short: "Terminal keypad with press-and-hold popup keys",
		Long: `A calculator style keypad for the terminal. Click a key to type it;
hold it for half a second to reveal its alternatives, drag onto one and
release to pick it.

Examples:
  keypad-popup                          # built-in calculator layout
  keypad-popup --layout pad.yaml        # custom layout
  keypad-popup -l pad.toml --watch      # reload pad.toml on save
  keypad-popup layout --check 28        # print rows and popup fits`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(flags, args)
			if err != nil {
				return err
			}
			traceStartup(cfg)
			err = app.Run(cfg.App)
			events.App.Exit(err)
			if err != nil {
				logging.Error(err)
			}
			return err
		},
	}
	flags = config.Register(root.PersistentFlags(), environ)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return configError{err: err}
	})
	root.AddCommand(newLayoutCmd(func(args []string) (config.Config, error) {
		return resolveConfig(flags, args)
	}))
	return root
}

// resolveConfig validates the parsed flags and configures logging.
func resolveConfig(flags *config.Flags, args []string) (config.Config, error) {
	cfg := flags.Resolve(args)
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, configError{err: err}
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	return cfg, nil
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and
// dimensions. The detected size is what the keypad will be centred in.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
