package ui

import (
	"unicode"

	"github.com/atomicstack/keypad-popup/internal/gesture"
	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/atomicstack/keypad-popup/internal/logging/events"
	"github.com/atomicstack/keypad-popup/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
)

// Codes with an editing meaning instead of inserting text.
const (
	ActionClear    keys.Code = "action.clear"
	ActionClearAll keys.Code = "action.clear_all"
	ActionDelete   keys.Code = "action.delete"
	ActionCommit   keys.Code = "action.commit"
	ActionRecall   keys.Code = "action.recall"
)

// keyText is what a key shows and types: its label, else its glyph.
func keyText(k keys.Key) string {
	if l, ok := k.Label(); ok && l.Text != "" {
		return l.Text
	}
	if ref, ok := k.GlyphRef(); ok && ref != "" {
		return theme.Glyph(ref)
	}
	return string(k.Code)
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		if m.machine.State() != gesture.StateIdle {
			return m.dispatch(m.machine.Cancel())
		}
		m.errMsg = ""
		m.infoMsg = ""
		return nil
	case "/":
		return m.openSearch()
	case "up":
		m.noteFocus(m.focus.MoveUp())
		return nil
	case "down":
		m.noteFocus(m.focus.MoveDown())
		return nil
	case "left":
		m.noteFocus(m.focus.MoveLeft())
		return nil
	case "right":
		m.noteFocus(m.focus.MoveRight())
		return nil
	case "home":
		m.noteFocus(m.focus.MoveHome())
		return nil
	case "end":
		m.noteFocus(m.focus.MoveEnd())
		return nil
	case "enter", " ":
		if cur, ok := m.focus.Current(); ok {
			return m.applyKey(cur.Code)
		}
		return nil
	case "backspace", "ctrl+h":
		m.deleteRune()
		return nil
	case "ctrl+w":
		before := m.entry.CursorPos()
		if m.entry.DeleteWordBackward() {
			m.noteEntryCursorChange(before)
			events.Entry.Delete(m.entry.Text)
		}
		return nil
	case "ctrl+u":
		m.clearEntry()
		return nil
	case "ctrl+a":
		before := m.entry.CursorPos()
		m.entry.MoveStart()
		m.noteEntryCursorChange(before)
		return nil
	case "ctrl+e":
		before := m.entry.CursorPos()
		m.entry.MoveEnd()
		m.noteEntryCursorChange(before)
		return nil
	case "ctrl+b":
		before := m.entry.CursorPos()
		m.entry.MoveRuneBackward()
		m.noteEntryCursorChange(before)
		return nil
	case "ctrl+f":
		before := m.entry.CursorPos()
		m.entry.MoveRuneForward()
		m.noteEntryCursorChange(before)
		return nil
	}
	if keyMsg.Type == tea.KeyRunes && !keyMsg.Alt {
		return m.typeRunes(keyMsg.Runes)
	}
	return nil
}

// typeRunes taps the key whose face matches the typed text.
func (m *Model) typeRunes(runes []rune) tea.Cmd {
	for _, r := range runes {
		if unicode.IsControl(r) {
			return nil
		}
	}
	text := string(runes)
	for _, k := range m.catalog.Keys() {
		if keyText(k) == text {
			m.focus.FocusCode(k.Code)
			return m.applyKey(k.Code)
		}
	}
	return nil
}

func (m *Model) noteFocus(changed bool) {
	if !changed {
		return
	}
	if cur, ok := m.focus.Current(); ok {
		events.UI.Focus(string(cur.Code), m.focus.Row, m.focus.Col)
	}
}

func (m *Model) noteEntryCursorChange(before int) {
	if before != m.entry.CursorPos() {
		m.entryCursorDirty = true
	}
}

// applyKey performs what a resolved tap or selection means for the entry.
func (m *Model) applyKey(code keys.Code) tea.Cmd {
	m.errMsg = ""
	switch code {
	case ActionClear:
		m.clearEntry()
	case ActionClearAll:
		m.clearEntry()
		m.entry.History = nil
	case ActionDelete:
		m.deleteRune()
	case ActionCommit:
		before := m.entry.CursorPos()
		if line, ok := m.entry.Commit(); ok {
			m.infoMsg = "committed " + line
			m.noteEntryCursorChange(before)
		}
	case ActionRecall:
		if last, ok := m.entry.Last(); ok {
			m.insert(code, last)
		}
	default:
		k, ok := m.catalog.Key(code)
		if !ok {
			m.errMsg = "unknown key " + string(code)
			return nil
		}
		m.insert(code, keyText(k))
	}
	return nil
}

func (m *Model) insert(code keys.Code, text string) {
	before := m.entry.CursorPos()
	if m.entry.Insert(text) {
		m.noteEntryCursorChange(before)
		events.Entry.Insert(string(code), text)
	}
}

func (m *Model) deleteRune() {
	before := m.entry.CursorPos()
	if removed, ok := m.entry.DeleteBackward(); ok {
		m.noteEntryCursorChange(before)
		events.Entry.Delete(removed)
	}
}

func (m *Model) clearEntry() {
	before := m.entry.CursorPos()
	if m.entry.Clear() {
		m.noteEntryCursorChange(before)
		events.Entry.Clear()
	}
}

func (m *Model) updateEntryCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.entryCursor, cmd = m.entryCursor.Update(msg)
	return cmd
}
