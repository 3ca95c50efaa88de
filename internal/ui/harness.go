package ui

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

// harnessEpoch is the harness clock's starting time.
var harnessEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type pendingTimer struct {
	at time.Time
	fn func(time.Time) tea.Msg
}

// Harness drives the UI model programmatically for integration tests. It
// replaces the wall clock and tea.Tick with a manual clock, and disables
// cursor blinking so no command blocks.
type Harness struct {
	model   *Model
	clock   time.Time
	pending []pendingTimer
	quit    bool
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model, clock: harnessEpoch}
	if model != nil {
		model.staticCursor = true
		model.entryCursor.SetMode(cursor.CursorStatic)
		model.now = h.Now
		model.after = h.schedule
	}
	return h
}

// Now returns the harness clock.
func (h *Harness) Now() time.Time {
	return h.clock
}

func (h *Harness) schedule(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	h.pending = append(h.pending, pendingTimer{at: h.clock.Add(d), fn: fn})
	return nil
}

// Advance moves the clock forward by d and fires the timers that came due,
// in deadline order.
func (h *Harness) Advance(d time.Duration) {
	h.clock = h.clock.Add(d)
	sort.SliceStable(h.pending, func(i, j int) bool { return h.pending[i].at.Before(h.pending[j].at) })
	var due []pendingTimer
	kept := h.pending[:0]
	for _, t := range h.pending {
		if !t.at.After(h.clock) {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	h.pending = kept
	for _, t := range due {
		h.Send(t.fn(t.at))
	}
}

// Pending reports how many timers are waiting.
func (h *Harness) Pending() int {
	return len(h.pending)
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil || msg == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
	case tea.QuitMsg:
		h.quit = true
	default:
		h.Send(msg)
	}
}

// Mouse sends a mouse event at cell (x, y).
func (h *Harness) Mouse(action tea.MouseAction, button tea.MouseButton, x, y int) {
	h.Send(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
}

// Press presses the left button at cell (x, y).
func (h *Harness) Press(x, y int) {
	h.Mouse(tea.MouseActionPress, tea.MouseButtonLeft, x, y)
}

// Move drags to cell (x, y).
func (h *Harness) Move(x, y int) {
	h.Mouse(tea.MouseActionMotion, tea.MouseButtonLeft, x, y)
}

// Release lifts the button at cell (x, y).
func (h *Harness) Release(x, y int) {
	h.Mouse(tea.MouseActionRelease, tea.MouseButtonNone, x, y)
}

// Key sends a key press by name, such as "enter" or "/", or literal runes.
func (h *Harness) Key(name string) {
	h.Send(keyMsg(name))
}

// Type sends each rune of text as its own key press.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
	}
}

// Quit reports whether the model asked the program to quit.
func (h *Harness) Quit() bool {
	return h.quit
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
