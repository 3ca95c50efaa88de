package layout

import (
	"math"

	"github.com/atomicstack/keypad-popup/internal/geom"
)

// PopupInput describes a popup placement problem.
type PopupInput struct {
	// Container bounds the popup horizontally.
	Container geom.Rect
	// Origin is the top left corner of the owning key.
	Origin geom.Point
	// Unit is the size of one option cell.
	Unit geom.Point
	// Options is the number of cells in the popup row.
	Options int
	// Caption is the height of the caption strip, zero without a caption.
	Caption float32
	// Gap separates the option row from the owning key.
	Gap float32
}

// SolvePopup places a one-row popup above the owning key. Candidate
// placements align each popup cell in turn with the key; among those fully
// inside the container the one whose midpoint is closest to the key's
// midpoint wins, ties going to the first candidate. The returned rectangle
// is relative to the container. ok is false when no candidate fits or
// when the popup would leave the container vertically.
func SolvePopup(in PopupInput) (r geom.Rect, ok bool) {
	if in.Options <= 0 || in.Unit.X <= 0 {
		return geom.Rect{}, false
	}
	width := in.Unit.X * float32(in.Options)
	rel := in.Origin.X - in.Container.Min.X
	limit := in.Container.Dx()
	keyMid := rel + in.Unit.X/2

	best := -1
	var bestX, bestErr float32
	for k := 0; k < in.Options; k++ {
		x := rel - float32(k)*in.Unit.X
		if x < 0 || x+width > limit {
			continue
		}
		e := float32(math.Abs(float64(x + width/2 - keyMid)))
		if best < 0 || e < bestErr {
			best, bestX, bestErr = k, x, e
		}
	}
	if best < 0 {
		return geom.Rect{}, false
	}
	height := in.Unit.Y + in.Caption
	y := in.Origin.Y - in.Container.Min.Y - in.Unit.Y - in.Gap - in.Caption
	if y < 0 || y+height > in.Container.Dy() {
		return geom.Rect{}, false
	}
	return geom.XYWH(bestX, y, width, height), true
}

// PopupCell returns the frame of option i within a popup frame.
func PopupCell(popup geom.Rect, unit geom.Point, i int) geom.Rect {
	x := popup.Min.X + float32(i)*unit.X
	return geom.XYWH(x, popup.Max.Y-unit.Y, unit.X, unit.Y)
}
