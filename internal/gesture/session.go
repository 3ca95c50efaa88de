package gesture

import (
	"github.com/atomicstack/keypad-popup/internal/geom"
	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/atomicstack/keypad-popup/internal/layout"
)

// Session is the working state of one gesture. The Machine owns it from
// press to release; hosts only ever see copies.
type Session struct {
	// Container is the frame popups must stay inside, in host coordinates.
	Container geom.Rect
	// Popup is the open popup pad, nil while no popup is shown.
	Popup *keys.PopupPadSpec
	// Origin is the pressed key's top left corner.
	Origin geom.Point
	// PopupFrame is relative to Container.
	PopupFrame geom.Rect
	// Pointer is the latest pointer position in host coordinates.
	Pointer geom.Point
	// Pressed is the key the gesture started on.
	Pressed *layout.Placed
	// Selected is the highlighted option or -1.
	Selected int
}

// Reset returns the session to its empty state.
func (s *Session) Reset() {
	*s = Session{Selected: -1}
}

// Active reports whether a gesture is in progress.
func (s Session) Active() bool {
	return s.Pressed != nil
}

// PopupOpen reports whether a popup is shown.
func (s Session) PopupOpen() bool {
	return s.Popup != nil
}

// PopupHostFrame returns the popup frame in host coordinates.
func (s Session) PopupHostFrame() geom.Rect {
	return s.PopupFrame.Add(s.Container.Min)
}

// Option returns the option cell i in host coordinates.
func (s Session) Option(i int) geom.Rect {
	if s.Pressed == nil {
		return geom.Rect{}
	}
	return layout.PopupCell(s.PopupHostFrame(), s.Pressed.Unit, i)
}
