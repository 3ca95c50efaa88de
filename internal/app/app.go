package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/keypad-popup/internal/layoutfile"
	"github.com/atomicstack/keypad-popup/internal/logging/events"
	"github.com/atomicstack/keypad-popup/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	LayoutPath    string
	HoldThreshold time.Duration
	MoveTolerance float32
	Width         int
	Height        int

	// Watch reloads LayoutPath whenever the file changes.
	Watch bool
}

// NewModel loads the layout named by cfg and builds the UI model.
func NewModel(cfg Config) (*ui.Model, error) {
	file, err := layoutfile.Load(cfg.LayoutPath)
	if err != nil {
		events.Layout.Rejected(cfg.LayoutPath, err)
		return nil, err
	}
	catalog, err := file.Catalog()
	if err != nil {
		events.Layout.Rejected(file.Source, err)
		return nil, err
	}
	events.Layout.Loaded(file.Source, len(file.Pads), len(file.Popups))
	model, err := ui.NewModel(ui.Options{
		Catalog:       catalog,
		Width:         cfg.Width,
		Height:        cfg.Height,
		HoldThreshold: cfg.HoldThreshold,
		MoveTolerance: cfg.MoveTolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("build keypad: %w", err)
	}
	return model, nil
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	model, err := NewModel(cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	if cfg.Watch && cfg.LayoutPath != "" {
		watcher := layoutfile.NewWatcher(cfg.LayoutPath, 0)
		watcher.OnChange(func(r layoutfile.Reload) {
			program.Send(layoutMsg(cfg.LayoutPath, r))
		})
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Close()
	}
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func layoutMsg(path string, r layoutfile.Reload) ui.LayoutMsg {
	if r.Err != nil {
		events.Layout.Rejected(path, r.Err)
		return ui.LayoutMsg{Source: path, Err: r.Err}
	}
	events.Layout.Loaded(r.File.Source, len(r.File.Pads), len(r.File.Popups))
	return ui.LayoutMsg{Source: r.File.Source, Catalog: r.Catalog}
}
