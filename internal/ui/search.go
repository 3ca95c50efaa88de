package ui

import (
	"strings"

	"github.com/atomicstack/keypad-popup/internal/logging/events"
	uistate "github.com/atomicstack/keypad-popup/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const searchVisibleMatches = 5

// searchForm is the "/" prompt that finds a key by its face or code.
type searchForm struct {
	input   textinput.Model
	matches *uistate.Search
}

func newSearchForm(candidates []uistate.Candidate, static bool) *searchForm {
	ti := textinput.New()
	if static {
		ti.Cursor.SetMode(cursor.CursorStatic)
	}
	ti.Placeholder = "key name"
	ti.CharLimit = 64
	ti.Prompt = "/ "
	if styles.FilterPrompt != nil {
		ti.PromptStyle = styles.FilterPrompt.Copy()
	}
	if styles.Filter != nil {
		ti.TextStyle = styles.Filter.Copy()
	}
	if styles.FilterPlaceholder != nil {
		ti.PlaceholderStyle = styles.FilterPlaceholder.Copy()
	}
	ti.Focus()
	return &searchForm{input: ti, matches: uistate.NewSearch(candidates)}
}

func (f *searchForm) Query() string { return strings.TrimSpace(f.input.Value()) }

// Update returns the command to run and whether the form was submitted or
// cancelled.
func (f *searchForm) Update(msg tea.Msg) (tea.Cmd, bool, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return nil, false, true
		case tea.KeyEnter:
			return nil, true, false
		case tea.KeyUp, tea.KeyShiftTab:
			f.matches.MoveCursor(-1)
			return nil, false, false
		case tea.KeyDown, tea.KeyTab:
			f.matches.MoveCursor(1)
			return nil, false, false
		}
	}
	before := f.input.Value()
	updated, cmd := f.input.Update(msg)
	f.input = updated
	if f.input.Value() != before {
		f.matches.SetQuery(f.input.Value())
	}
	return cmd, false, false
}

func (m *Model) candidates() []uistate.Candidate {
	all := m.catalog.Keys()
	out := make([]uistate.Candidate, len(all))
	for i, k := range all {
		out[i] = uistate.Candidate{Code: k.Code, Label: keyText(k)}
	}
	return out
}

func (m *Model) openSearch() tea.Cmd {
	m.search = newSearchForm(m.candidates(), m.staticCursor)
	events.Search.Open()
	if m.staticCursor {
		return nil
	}
	return textinput.Blink
}

// handleSearch routes key presses to the open search prompt.
func (m *Model) handleSearch(msg tea.Msg) (bool, tea.Cmd) {
	if m.search == nil {
		return false, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		cmd, _, _ := m.search.Update(msg)
		return false, cmd
	}
	if key.String() == "ctrl+c" {
		return true, tea.Quit
	}
	cmd, submitted, cancelled := m.search.Update(msg)
	switch {
	case cancelled:
		events.Search.Cancel(m.search.Query())
		m.search = nil
		return true, nil
	case submitted:
		query := m.search.Query()
		sel, ok := m.search.matches.Selected()
		m.search = nil
		if !ok {
			events.Search.Submit(query, "")
			m.errMsg = "no key matches " + query
			return true, nil
		}
		events.Search.Submit(query, string(sel.Code))
		m.focus.FocusCode(sel.Code)
		return true, m.applyKey(sel.Code)
	}
	return true, cmd
}
