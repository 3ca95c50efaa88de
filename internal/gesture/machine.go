// Package gesture turns pointer input on a keypad into taps and popup
// selections.
//
// A press starts a hold timer. Releasing before the threshold taps the key.
// Once the threshold passes on a key that owns a popup pad, the popup opens
// above the key with the option over the key highlighted; dragging moves
// the highlight and releasing commits it, or cancels when the pointer is
// outside every option.
//
// The Machine never blocks and starts no goroutines. PointerDown hands the
// host a Hold describing when to call HoldElapsed; pointer timestamps past
// the deadline also run the hold transition, so a late timer cannot turn a
// long press into a tap.
package gesture

import (
	"time"

	"github.com/atomicstack/keypad-popup/internal/geom"
	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/atomicstack/keypad-popup/internal/layout"
	"github.com/atomicstack/keypad-popup/internal/logging/events"
)

const (
	// DefaultHoldThreshold is how long a key must be held to open its popup.
	DefaultHoldThreshold = 500 * time.Millisecond
	// DefaultMoveTolerance is how far the pointer may wander before a press
	// stops counting as a hold.
	DefaultMoveTolerance = 3
)

// State is the gesture state.
type State uint8

const (
	// StateIdle waits for a press.
	StateIdle State = iota
	// StatePressing is a press that has not opened a popup.
	StatePressing
	// StatePopupOpen is a popup shown, pointer not yet moved.
	StatePopupOpen
	// StateDragging is a popup shown while the pointer moves.
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "StateIdle"
	case StatePressing:
		return "StatePressing"
	case StatePopupOpen:
		return "StatePopupOpen"
	case StateDragging:
		return "StateDragging"
	default:
		panic("invalid State")
	}
}

// ID identifies one gesture.
type ID uint64

// Hold asks the host to call HoldElapsed(ID, ...) at Deadline.
type Hold struct {
	ID       ID
	Deadline time.Time
	After    time.Duration
}

// Options tunes the Machine. Zero values select the defaults; a negative
// MoveTolerance disables the movement check.
type Options struct {
	HoldThreshold time.Duration
	MoveTolerance float32
	// CaptionHeight is the height of a popup caption strip.
	CaptionHeight float32
}

func (o Options) withDefaults() Options {
	if o.HoldThreshold <= 0 {
		o.HoldThreshold = DefaultHoldThreshold
	}
	if o.MoveTolerance == 0 {
		o.MoveTolerance = DefaultMoveTolerance
	}
	return o
}

// Machine sequences press, hold, drag and release into at most one
// resolved event per gesture. It must be driven from a single goroutine.
type Machine struct {
	catalog   *keys.Catalog
	opts      Options
	container geom.Rect

	state   State
	session Session
	id      ID
	start   time.Time
	down    geom.Point
	// held is set once the hold transition ran or was ruled out.
	held bool
}

// New returns an idle Machine reading popups from catalog.
func New(catalog *keys.Catalog, opts Options) *Machine {
	m := &Machine{catalog: catalog, opts: opts.withDefaults()}
	m.session.Reset()
	return m
}

// State reports the current state.
func (m *Machine) State() State {
	return m.state
}

// Session returns a copy of the current session.
func (m *Machine) Session() Session {
	return m.session
}

// Options returns the effective options.
func (m *Machine) Options() Options {
	return m.opts
}

// Container returns the frame popups are placed in.
func (m *Machine) Container() geom.Rect {
	return m.container
}

// Resize updates the container for gestures started from now on. An
// active gesture keeps the container it started with.
func (m *Machine) Resize(r geom.Rect) {
	m.container = r
}

// PointerDown starts a gesture on key at p. It reports false and does
// nothing while another gesture is active.
func (m *Machine) PointerDown(key layout.Placed, p geom.Point, at time.Time) (Hold, bool) {
	if m.state != StateIdle {
		events.Gesture.Ignored(string(key.Key.Code), m.state.String())
		return Hold{}, false
	}
	m.id++
	m.session.Reset()
	pressed := key
	m.session.Pressed = &pressed
	m.session.Container = m.container
	m.session.Origin = key.Frame.Min
	m.session.Pointer = p
	m.state = StatePressing
	m.start = at
	m.down = p
	m.held = false
	events.Gesture.Press(uint64(m.id), string(key.Key.Code), p.X, p.Y)
	return Hold{ID: m.id, Deadline: at.Add(m.opts.HoldThreshold), After: m.opts.HoldThreshold}, true
}

// HoldElapsed runs the hold transition for gesture id. Calls for finished
// gestures are ignored.
func (m *Machine) HoldElapsed(id ID, at time.Time) []Event {
	if id != m.id || m.state != StatePressing {
		events.Gesture.Stale("hold")
		return nil
	}
	if m.held {
		return nil
	}
	return m.openPopup()
}

// PointerMove tracks the pointer.
func (m *Machine) PointerMove(p geom.Point, at time.Time) []Event {
	if m.state == StateIdle {
		events.Gesture.Stale("move")
		return nil
	}
	evts := m.advance(at)
	switch m.state {
	case StatePressing:
		m.session.Pointer = p
		if !m.held && m.movedTooFar(p) {
			m.held = true
			events.Gesture.HoldAborted(uint64(m.id), events.GestureReasonMoved)
		}
	case StatePopupOpen, StateDragging:
		m.state = StateDragging
		if e, ok := m.track(p); ok {
			evts = append(evts, e)
		}
	}
	return evts
}

// PointerUp ends the gesture, emitting a tap, a selection or nothing.
func (m *Machine) PointerUp(p geom.Point, at time.Time) []Event {
	if m.state == StateIdle {
		events.Gesture.Stale("up")
		return nil
	}
	evts := m.advance(at)
	switch m.state {
	case StatePressing:
		code := m.session.Pressed.Key.Code
		events.Gesture.Tap(uint64(m.id), string(code))
		evts = append(evts, TapEvent{Code: code})
	case StatePopupOpen, StateDragging:
		m.session.Pointer = p
		m.session.Selected = m.resolve(p)
		evts = append(evts, PopupClosed{})
		if idx := m.session.Selected; idx >= 0 {
			code := m.session.Popup.Keys[idx].Code
			events.Gesture.Select(uint64(m.id), string(code), idx)
			evts = append(evts, SelectionEvent{Code: code, Index: idx})
		} else {
			events.Gesture.Cancel(uint64(m.id), events.GestureReasonMissed)
		}
	}
	m.reset()
	return evts
}

// Cancel abandons the active gesture without emitting a tap or selection.
func (m *Machine) Cancel() []Event {
	if m.state == StateIdle {
		return nil
	}
	var evts []Event
	if m.session.PopupOpen() {
		evts = append(evts, PopupClosed{})
	}
	events.Gesture.Cancel(uint64(m.id), events.GestureReasonHost)
	m.reset()
	return evts
}

func (m *Machine) reset() {
	m.state = StateIdle
	m.session.Reset()
	m.held = false
}

// advance runs the hold transition when at has reached the deadline.
func (m *Machine) advance(at time.Time) []Event {
	if m.state != StatePressing || m.held {
		return nil
	}
	if at.Sub(m.start) < m.opts.HoldThreshold {
		return nil
	}
	return m.openPopup()
}

func (m *Machine) openPopup() []Event {
	m.held = true
	pressed := m.session.Pressed
	popup, ok := m.catalog.Popup(pressed.Key.Code)
	if !ok {
		events.Gesture.HoldAborted(uint64(m.id), events.GestureReasonNoPopup)
		return nil
	}
	var caption float32
	if popup.Caption != "" {
		caption = m.opts.CaptionHeight
	}
	frame, ok := layout.SolvePopup(layout.PopupInput{
		Container: m.session.Container,
		Origin:    pressed.Frame.Min,
		Unit:      pressed.Unit,
		Options:   len(popup.Keys),
		Caption:   caption,
		Gap:       pressed.Gap,
	})
	if !ok {
		events.Gesture.Infeasible(uint64(m.id), string(popup.Owner), m.session.Container.String())
		return nil
	}
	m.session.Popup = &popup
	m.session.PopupFrame = frame
	m.state = StatePopupOpen
	events.Gesture.PopupOpen(uint64(m.id), string(popup.Owner), len(popup.Keys), frame.String())

	evts := []Event{PopupOpened{
		Owner:       popup.Owner,
		Frame:       m.session.PopupHostFrame(),
		OptionCount: len(popup.Keys),
	}}
	// Start over the centre of the key's top edge, which lands on the
	// option directly above it.
	start := geom.Pt(pressed.Frame.Min.X+pressed.Frame.Dx()/2, pressed.Frame.Min.Y)
	if e, ok := m.track(start); ok {
		evts = append(evts, e)
	}
	return evts
}

// track moves the pointer and reports a SelectionChanged when the
// highlighted option changes.
func (m *Machine) track(p geom.Point) (Event, bool) {
	m.session.Pointer = p
	prev := m.session.Selected
	next := m.resolve(p)
	m.session.Selected = next
	if !layout.SelectionChanged(prev, next) {
		return nil, false
	}
	events.Gesture.Selection(uint64(m.id), next)
	return SelectionChanged{Index: next}, true
}

func (m *Machine) resolve(p geom.Point) int {
	if m.session.Popup == nil {
		return -1
	}
	local := p.Sub(m.session.Container.Min)
	return layout.ResolveSelection(m.session.PopupFrame, len(m.session.Popup.Keys), m.session.Pressed.Unit, local)
}

func (m *Machine) movedTooFar(p geom.Point) bool {
	tol := m.opts.MoveTolerance
	if tol < 0 {
		return false
	}
	d := p.Sub(m.down)
	return d.X*d.X+d.Y*d.Y > tol*tol
}
