package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/keypad-popup/internal/gesture"
	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/atomicstack/keypad-popup/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

func label(code, text string) keys.Key {
	return keys.Key{Code: keys.Code(code), Visual: keys.TextLabel{Text: text}}
}

// testCatalog is one three column pad of 5x3 keys:
//
//	row 0 (y 4..7):  1 2 3
//	row 1 (y 7..10): 4
//
// Key 2 owns the popup [a b c].
func testCatalog(t *testing.T, extra ...keys.Key) *keys.Catalog {
	t.Helper()
	pad := keys.PadSpec{
		Name:        "digits",
		Visual:      &keys.VisualSpec{Width: 5, Height: 3},
		RowCapacity: 3,
		Keys:        append([]keys.Key{label("1", "1"), label("2", "2"), label("3", "3"), label("4", "4")}, extra...),
	}
	popup := keys.PopupPadSpec{
		Owner: "2",
		Keys:  []keys.Key{label("a", "a"), label("b", "b"), label("c", "c")},
	}
	c, err := keys.Build(pad, popup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func newTestHarness(t *testing.T, opts Options) *Harness {
	t.Helper()
	if opts.Catalog == nil {
		opts.Catalog = testCatalog(t)
	}
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewHarness(m)
}

func TestNewModelRequiresCatalog(t *testing.T) {
	if _, err := NewModel(Options{}); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}

func TestTapTypesKey(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Press(2, 5)
	if h.Model().Machine().State() != gesture.StatePressing {
		t.Fatalf("expected pressing state, got %s", h.Model().Machine().State())
	}
	h.Release(2, 5)
	if got := h.Model().Entry(); got != "1" {
		t.Fatalf("expected entry 1, got %q", got)
	}
	// The hold timer still fires but belongs to a finished gesture.
	h.Advance(time.Second)
	if got := h.Model().Entry(); got != "1" {
		t.Fatalf("expected stale hold to be ignored, got %q", got)
	}
	if h.Model().Machine().State() != gesture.StateIdle {
		t.Fatalf("expected idle state, got %s", h.Model().Machine().State())
	}
}

func TestHoldDragSelectsOption(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Press(7, 5)
	h.Advance(500 * time.Millisecond)

	session := h.Model().Machine().Session()
	if !session.PopupOpen() {
		t.Fatalf("expected popup to open after the hold")
	}
	if got := session.PopupHostFrame(); got.Min.X != 0 || got.Min.Y != 1 || got.Dx() != 15 || got.Dy() != 3 {
		t.Fatalf("unexpected popup frame %s", got)
	}
	if session.Selected != 1 {
		t.Fatalf("expected option above the key pre-selected, got %d", session.Selected)
	}
	if !strings.Contains(h.View(), " a    b    c") {
		t.Fatalf("expected popup options in view, got:\n%s", h.View())
	}

	h.Move(12, 2)
	if got := h.Model().Machine().Session().Selected; got != 2 {
		t.Fatalf("expected option 2 selected, got %d", got)
	}
	if got := h.Model().Feedback(); got != 2 {
		t.Fatalf("expected two feedback events, got %d", got)
	}
	h.Release(12, 2)
	if got := h.Model().Entry(); got != "c" {
		t.Fatalf("expected entry c, got %q", got)
	}
	if h.Model().Machine().Session().PopupOpen() {
		t.Fatalf("expected popup closed after release")
	}
}

func TestReleaseAwayFromPopupTypesNothing(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Press(7, 5)
	h.Advance(600 * time.Millisecond)
	h.Move(7, 15)
	h.Release(7, 15)
	if got := h.Model().Entry(); got != "" {
		t.Fatalf("expected empty entry, got %q", got)
	}
}

func TestHoldWithoutPopupTaps(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Press(12, 5)
	h.Advance(time.Second)
	if h.Model().Machine().Session().PopupOpen() {
		t.Fatalf("expected no popup for key 3")
	}
	h.Release(12, 5)
	if got := h.Model().Entry(); got != "3" {
		t.Fatalf("expected entry 3, got %q", got)
	}
}

func TestPressOutsideKeysIgnored(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Press(12, 8)
	if h.Model().Machine().State() != gesture.StateIdle {
		t.Fatalf("expected idle after pressing an empty cell")
	}
	if h.Pending() != 0 {
		t.Fatalf("expected no hold timer, got %d", h.Pending())
	}
	h.Mouse(tea.MouseActionPress, tea.MouseButtonRight, 2, 5)
	if h.Model().Machine().State() != gesture.StateIdle {
		t.Fatalf("expected right button to be ignored")
	}
}

func TestEscapeCancelsGesture(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Press(7, 5)
	h.Advance(500 * time.Millisecond)
	h.Key("esc")
	if h.Model().Machine().State() != gesture.StateIdle {
		t.Fatalf("expected idle after esc")
	}
	h.Release(7, 5)
	if got := h.Model().Entry(); got != "" {
		t.Fatalf("expected nothing typed, got %q", got)
	}
}

func TestBlurCancelsGesture(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Press(2, 5)
	h.Send(tea.BlurMsg{})
	h.Release(2, 5)
	if got := h.Model().Entry(); got != "" {
		t.Fatalf("expected cancelled tap, got %q", got)
	}
}

func TestResizeCentresGridAndCancels(t *testing.T) {
	h := newTestHarness(t, Options{})
	h.Press(2, 5)
	h.Send(tea.WindowSizeMsg{Width: 40, Height: 20})
	if h.Model().Machine().State() != gesture.StateIdle {
		t.Fatalf("expected resize to cancel the gesture")
	}
	key, ok := h.Model().Grid().Find("1")
	if !ok {
		t.Fatalf("expected key 1 in grid")
	}
	if key.Frame.Min.X != 12 {
		t.Fatalf("expected grid centred at x=12, got %g", key.Frame.Min.X)
	}
	if got := h.Model().Machine().Container().Dx(); got != 40 {
		t.Fatalf("expected container width 40, got %g", got)
	}
}

func TestKeyboardFocusAndEnter(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Key("right")
	h.Key("enter")
	h.Key("down")
	h.Key("enter")
	if got := h.Model().Entry(); got != "24" {
		t.Fatalf("expected entry 24, got %q", got)
	}
	h.Key("backspace")
	if got := h.Model().Entry(); got != "2" {
		t.Fatalf("expected entry 2, got %q", got)
	}
	h.Type("3")
	if got := h.Model().Entry(); got != "23" {
		t.Fatalf("expected typed key to insert, got %q", got)
	}
	h.Key("ctrl+u")
	if got := h.Model().Entry(); got != "" {
		t.Fatalf("expected cleared entry, got %q", got)
	}
}

func TestSearchTapsBestMatch(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Key("/")
	if h.Model().search == nil {
		t.Fatalf("expected search prompt open")
	}
	h.Type("b")
	if !strings.Contains(h.View(), "b") {
		t.Fatalf("expected match list in view")
	}
	h.Key("enter")
	if h.Model().search != nil {
		t.Fatalf("expected search prompt closed")
	}
	if got := h.Model().Entry(); got != "b" {
		t.Fatalf("expected popup option b typed, got %q", got)
	}
}

func TestSearchEscapeCancels(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Key("/")
	h.Type("1")
	h.Key("esc")
	if h.Model().search != nil {
		t.Fatalf("expected search prompt closed")
	}
	if got := h.Model().Entry(); got != "" {
		t.Fatalf("expected nothing typed, got %q", got)
	}
}

func TestActionKeys(t *testing.T) {
	catalog := testCatalog(t,
		label(string(ActionDelete), "del"),
		label(string(ActionCommit), "="),
		label(string(ActionRecall), "ans"),
		label(string(ActionClear), "C"),
		label(string(ActionClearAll), "AC"),
	)
	h := newTestHarness(t, Options{Catalog: catalog, Width: 15, Height: 20})
	m := h.Model()

	m.applyKey("1")
	m.applyKey("2")
	m.applyKey(ActionDelete)
	if m.Entry() != "1" {
		t.Fatalf("expected delete to drop a rune, got %q", m.Entry())
	}
	m.applyKey(ActionCommit)
	if m.Entry() != "" || len(m.History()) != 1 || m.History()[0] != "1" {
		t.Fatalf("expected commit into history, got %q / %v", m.Entry(), m.History())
	}
	m.applyKey(ActionRecall)
	m.applyKey(ActionRecall)
	if m.Entry() != "11" {
		t.Fatalf("expected recall to insert the last line twice, got %q", m.Entry())
	}
	m.applyKey(ActionClear)
	if m.Entry() != "" || len(m.History()) != 1 {
		t.Fatalf("expected clear to keep history, got %q / %v", m.Entry(), m.History())
	}
	m.applyKey(ActionClearAll)
	if len(m.History()) != 0 {
		t.Fatalf("expected clear all to drop history, got %v", m.History())
	}
	m.applyKey("missing")
	if m.errMsg == "" {
		t.Fatalf("expected error for unknown key")
	}
}

func TestViewShowsEntryAndHint(t *testing.T) {
	h := newTestHarness(t, Options{Width: 40, Height: 20})
	h.Type("4")
	view := h.View()
	if !strings.Contains(view, "» 4") {
		t.Fatalf("expected entry line in view, got:\n%s", view)
	}
	if !strings.Contains(view, footerHint) {
		t.Fatalf("expected footer hint in view, got:\n%s", view)
	}
}

func TestQuitKeys(t *testing.T) {
	h := newTestHarness(t, Options{Width: 15, Height: 20})
	h.Key("q")
	if !h.Quit() {
		t.Fatalf("expected q to quit")
	}
}

func TestLayoutReloadReplacesKeypad(t *testing.T) {
	h := newTestHarness(t, Options{Width: 40, Height: 20})
	h.Press(19, 5)
	h.Advance(500 * time.Millisecond)
	if h.Model().Machine().State() != gesture.StatePopupOpen {
		t.Fatalf("expected popup open, got %s", h.Model().Machine().State())
	}
	h.Send(LayoutMsg{Source: "pad.toml", Catalog: testCatalog(t, label("5", "5"))})
	if h.Model().Machine().State() != gesture.StateIdle {
		t.Fatalf("expected reload to cancel the gesture")
	}
	if _, ok := h.Model().Grid().Find("5"); !ok {
		t.Fatalf("expected reloaded key 5 in grid")
	}
	if view := h.View(); !strings.Contains(view, "reloaded pad.toml") {
		t.Fatalf("expected reload notice in view, got:\n%s", view)
	}
}

func TestLayoutReloadErrorKeepsKeypad(t *testing.T) {
	h := newTestHarness(t, Options{Width: 40, Height: 20})
	h.Send(LayoutMsg{Source: "pad.toml", Err: errors.New("boom")})
	if _, ok := h.Model().Grid().Find("4"); !ok {
		t.Fatalf("expected current keypad to survive a failed reload")
	}
	if view := h.View(); !strings.Contains(view, "layout: boom") {
		t.Fatalf("expected reload error in view, got:\n%s", view)
	}
}

func TestPointerTapsApplyBeforeCommandsRun(t *testing.T) {
	m, err := NewModel(Options{Catalog: testCatalog(t), Width: 15, Height: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return start }

	// The commands Update returns are never run here.
	m.Update(tea.MouseMsg{X: 2, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 2, Y: 5, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if got := m.Entry(); got != "13" {
		t.Fatalf("expected mouse tap before keyboard tap, got %q", got)
	}
}

func TestEventsAppliedInPublishOrder(t *testing.T) {
	h := newTestHarness(t, Options{Width: 40, Height: 20})
	opened := command.EventsMsg{Seq: 1, Events: []gesture.Event{gesture.PopupOpened{Owner: "2", OptionCount: 3}}}
	closed := command.EventsMsg{Seq: 2, Events: []gesture.Event{gesture.PopupClosed{}, gesture.SelectionChanged{Index: 0}}}

	h.Send(closed)
	if got := h.Model().Feedback(); got != 0 {
		t.Fatalf("expected later message to wait for seq 1, got %d feedback events", got)
	}
	h.Send(opened)
	if got := h.Model().Feedback(); got != 1 {
		t.Fatalf("expected both messages applied, got %d feedback events", got)
	}
	if view := h.View(); strings.Contains(view, "3 options") {
		t.Fatalf("expected popup closed notice to win, got:\n%s", view)
	}
	h.Send(opened)
	if got := h.Model().Feedback(); got != 1 {
		t.Fatalf("expected replayed message to be ignored, got %d", got)
	}
}
