package gesture

import (
	"github.com/atomicstack/keypad-popup/internal/geom"
	"github.com/atomicstack/keypad-popup/internal/keys"
)

// Event is produced by the Machine for the host. It is one of TapEvent,
// SelectionEvent, PopupOpened, PopupClosed or SelectionChanged.
type Event interface {
	event()
}

// TapEvent reports a key released before the hold threshold.
type TapEvent struct {
	Code keys.Code
}

// SelectionEvent reports a popup option committed by releasing over it.
type SelectionEvent struct {
	Code  keys.Code
	Index int
}

// PopupOpened reports a popup becoming visible. Frame is in host
// coordinates.
type PopupOpened struct {
	Owner       keys.Code
	Frame       geom.Rect
	OptionCount int
}

// PopupClosed reports the popup going away, committed or not.
type PopupClosed struct{}

// SelectionChanged reports the pointer landing on a different option. It
// exists for feedback only.
type SelectionChanged struct {
	Index int
}

func (TapEvent) event()         {}
func (SelectionEvent) event()   {}
func (PopupOpened) event()      {}
func (PopupClosed) event()      {}
func (SelectionChanged) event() {}
