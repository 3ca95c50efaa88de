package ui

import (
	"fmt"
	"time"

	"github.com/atomicstack/keypad-popup/internal/geom"
	"github.com/atomicstack/keypad-popup/internal/gesture"
	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/atomicstack/keypad-popup/internal/logging/events"
	"github.com/atomicstack/keypad-popup/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// cellPoint maps a terminal cell to the point at its centre.
func cellPoint(x, y int) geom.Point {
	return geom.Pt(float32(x)+0.5, float32(y)+0.5)
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	p := cellPoint(mouse.X, mouse.Y)
	at := m.now()
	switch mouse.Action {
	case tea.MouseActionPress:
		if mouse.Button != tea.MouseButtonLeft {
			return nil
		}
		return m.pointerDown(p)
	case tea.MouseActionMotion:
		if m.machine.State() == gesture.StateIdle {
			return nil
		}
		return m.dispatch(m.machine.PointerMove(p, at))
	case tea.MouseActionRelease:
		if m.machine.State() == gesture.StateIdle {
			return nil
		}
		return m.dispatch(m.machine.PointerUp(p, at))
	}
	return nil
}

func (m *Model) pointerDown(p geom.Point) tea.Cmd {
	key, ok := m.grid.KeyAt(p)
	if !ok {
		return nil
	}
	hold, ok := m.machine.PointerDown(key, p, m.now())
	if !ok {
		return nil
	}
	if m.focus.FocusCode(key.Key.Code) {
		if cur, ok := m.focus.Current(); ok {
			events.UI.Focus(string(cur.Code), m.focus.Row, m.focus.Col)
		}
	}
	m.errMsg = ""
	id := hold.ID
	return m.after(hold.After, func(t time.Time) tea.Msg {
		return holdMsg{id: id, at: t}
	})
}

func (m *Model) handleHoldMsg(msg tea.Msg) tea.Cmd {
	hold, ok := msg.(holdMsg)
	if !ok {
		return nil
	}
	return m.dispatch(m.machine.HoldElapsed(hold.id, hold.at))
}

func (m *Model) handleBlurMsg(tea.Msg) tea.Cmd {
	return m.dispatch(m.machine.Cancel())
}

// dispatch applies the taps and selections of one input immediately, so
// they reach the entry in input order, and publishes the remaining events
// for the feedback line.
func (m *Model) dispatch(evts []gesture.Event) tea.Cmd {
	var cmds []tea.Cmd
	var feedback []gesture.Event
	for _, e := range evts {
		switch ev := e.(type) {
		case gesture.TapEvent:
			cmds = append(cmds, m.applyKey(ev.Code))
		case gesture.SelectionEvent:
			cmds = append(cmds, m.applyKey(ev.Code))
		default:
			feedback = append(feedback, e)
		}
	}
	cmds = append(cmds, m.bus.Publish(feedback))
	return tea.Batch(cmds...)
}

// handleEventsMsg applies published events in bus order. Messages that
// overtake an earlier one wait until the gap closes.
func (m *Model) handleEventsMsg(msg tea.Msg) tea.Cmd {
	published, ok := msg.(command.EventsMsg)
	if !ok || published.Seq <= m.appliedSeq {
		return nil
	}
	if m.heldEvents == nil {
		m.heldEvents = make(map[uint64]command.EventsMsg)
	}
	m.heldEvents[published.Seq] = published
	if len(m.heldEvents) > maxHeldEvents {
		// A message went missing; resume from the oldest one held.
		oldest := published.Seq
		for seq := range m.heldEvents {
			if seq < oldest {
				oldest = seq
			}
		}
		m.appliedSeq = oldest - 1
	}
	var cmds []tea.Cmd
	for {
		next, ok := m.heldEvents[m.appliedSeq+1]
		if !ok {
			break
		}
		delete(m.heldEvents, next.Seq)
		m.appliedSeq = next.Seq
		for _, e := range next.Events {
			if cmd := m.applyEvent(e); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyEvent(e gesture.Event) tea.Cmd {
	switch ev := e.(type) {
	case gesture.PopupOpened:
		m.infoMsg = fmt.Sprintf("%s: %d options", m.keyLabel(ev.Owner), ev.OptionCount)
	case gesture.PopupClosed:
		m.infoMsg = ""
	case gesture.SelectionChanged:
		m.feedback++
		m.flash = true
		events.UI.Feedback(ev.Index)
		if s := m.machine.Session(); s.Popup != nil && ev.Index < len(s.Popup.Keys) {
			m.infoMsg = fmt.Sprintf("%s (%d/%d)", m.keyLabel(s.Popup.Keys[ev.Index].Code), ev.Index+1, len(s.Popup.Keys))
		}
	}
	return nil
}

func (m *Model) keyLabel(code keys.Code) string {
	if k, ok := m.catalog.Key(code); ok {
		return keyText(k)
	}
	return string(code)
}
