package layout

import (
	"math"

	"github.com/atomicstack/keypad-popup/internal/geom"
)

// bandUnits is how many unit heights the hit region extends below the popup,
// so a finger sliding back toward the key keeps its selection.
const bandUnits = 2

// HitRegion returns the popup frame extended downwards by the hit band.
func HitRegion(popup geom.Rect, unit geom.Point) geom.Rect {
	r := popup
	r.Max.Y += bandUnits * unit.Y
	return r
}

// ResolveSelection returns the popup option under pointer, or -1 when the
// pointer is outside the hit region. All arguments share one coordinate
// space.
func ResolveSelection(popup geom.Rect, options int, unit geom.Point, pointer geom.Point) int {
	if options <= 0 || unit.X <= 0 {
		return -1
	}
	if !HitRegion(popup, unit).Contains(pointer) {
		return -1
	}
	idx := int(math.Floor(float64((pointer.X - popup.Min.X) / unit.X)))
	if idx < 0 || idx >= options {
		return -1
	}
	return idx
}

// SelectionChanged reports whether moving from prev to next is a selection
// change worth feedback: landing on a valid option different from prev.
func SelectionChanged(prev, next int) bool {
	return next >= 0 && next != prev
}
