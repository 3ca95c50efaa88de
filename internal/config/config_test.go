package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.HoldThreshold != 500*time.Millisecond {
		t.Fatalf("expected default hold of 500ms, got %s", cfg.App.HoldThreshold)
	}
	if cfg.App.MoveTolerance != 3 {
		t.Fatalf("expected default slop of 3, got %g", cfg.App.MoveTolerance)
	}
	if cfg.App.LayoutPath != "" {
		t.Fatalf("expected empty layout path, got %q", cfg.App.LayoutPath)
	}
	if cfg.Logging.Trace {
		t.Fatalf("expected tracing disabled by default")
	}
	if cfg.App.Watch {
		t.Fatalf("expected layout watching disabled by default")
	}
}

func TestLoadArgsFlags(t *testing.T) {
	args := []string{"-l", "pad.yaml", "--hold", "750ms", "--slop", "1.5", "--width", "40", "--trace", "--log-file", "/tmp/kp.log", "extra"}
	cfg, err := LoadArgs(args, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.LayoutPath != "pad.yaml" {
		t.Fatalf("expected layout pad.yaml, got %q", cfg.App.LayoutPath)
	}
	if cfg.App.HoldThreshold != 750*time.Millisecond {
		t.Fatalf("expected hold 750ms, got %s", cfg.App.HoldThreshold)
	}
	if cfg.App.MoveTolerance != 1.5 {
		t.Fatalf("expected slop 1.5, got %g", cfg.App.MoveTolerance)
	}
	if cfg.App.Width != 40 {
		t.Fatalf("expected width 40, got %d", cfg.App.Width)
	}
	if !cfg.Logging.Trace || cfg.Logging.FilePath != "/tmp/kp.log" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if len(cfg.Args) != 1 || cfg.Args[0] != "extra" {
		t.Fatalf("expected positional args [extra], got %v", cfg.Args)
	}
	if cfg.Flags["hold"] != "750ms" || cfg.Flags["slop"] != "1.5" {
		t.Fatalf("unexpected flag echo: %v", cfg.Flags)
	}
}

func TestLoadArgsEnvironment(t *testing.T) {
	env := []string{
		"KEYPAD_POPUP_LAYOUT=/etc/pad.toml",
		"KEYPAD_POPUP_HOLD=1s",
		"KEYPAD_POPUP_SLOP=2",
		"KEYPAD_POPUP_HEIGHT=20",
		"KEYPAD_POPUP_TRACE=true",
		"KEYPAD_POPUP_WATCH=1",
		"IGNORED",
	}
	cfg, err := LoadArgs(nil, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.LayoutPath != "/etc/pad.toml" {
		t.Fatalf("expected layout from env, got %q", cfg.App.LayoutPath)
	}
	if cfg.App.HoldThreshold != time.Second {
		t.Fatalf("expected hold 1s, got %s", cfg.App.HoldThreshold)
	}
	if cfg.App.MoveTolerance != 2 {
		t.Fatalf("expected slop 2, got %g", cfg.App.MoveTolerance)
	}
	if cfg.App.Height != 20 {
		t.Fatalf("expected height 20, got %d", cfg.App.Height)
	}
	if !cfg.Logging.Trace {
		t.Fatalf("expected trace from env")
	}
	if !cfg.App.Watch || cfg.Flags["watch"] != "true" {
		t.Fatalf("expected watch from env, got %v / %q", cfg.App.Watch, cfg.Flags["watch"])
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := LoadArgs([]string{"--hold=200ms"}, []string{"KEYPAD_POPUP_HOLD=1s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.HoldThreshold != 200*time.Millisecond {
		t.Fatalf("expected flag to win, got %s", cfg.App.HoldThreshold)
	}
}

func TestMalformedEnvironmentFallsBack(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"KEYPAD_POPUP_HOLD=soon", "KEYPAD_POPUP_WIDTH=wide"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.HoldThreshold != 500*time.Millisecond || cfg.App.Width != 0 {
		t.Fatalf("expected defaults, got hold=%s width=%d", cfg.App.HoldThreshold, cfg.App.Width)
	}
}

func TestLoadArgsRejectsInvalid(t *testing.T) {
	cases := [][]string{
		{"--width", "-1"},
		{"--height", "-2"},
		{"--hold", "0s"},
		{"--slop", "-1"},
		{"--unknown"},
	}
	for _, args := range cases {
		if _, err := LoadArgs(args, nil); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestRegisterOnExternalFlagSet(t *testing.T) {
	fs := pflag.NewFlagSet("cmd", pflag.ContinueOnError)
	flags := Register(fs, []string{"KEYPAD_POPUP_LOG_FILE=kp.log"})
	if err := fs.Parse([]string{"--width", "30"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg := flags.Resolve(fs.Args())
	if cfg.App.Width != 30 {
		t.Fatalf("expected width 30, got %d", cfg.App.Width)
	}
	if cfg.Logging.FilePath != "kp.log" {
		t.Fatalf("expected log file from env, got %q", cfg.Logging.FilePath)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
