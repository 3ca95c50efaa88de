// Package geom provides the rectangle type used by the keypad layout and
// gesture code. Points are gio's f32.Point; the coordinate space has its
// origin in the top left corner with the axes extending right and down.
package geom

import (
	"fmt"

	"gioui.org/f32"
)

// Point is a two dimensional point.
type Point = f32.Point

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Rect contains the points (X, Y) where Min.X <= X < Max.X,
// Min.Y <= Y < Max.Y.
type Rect struct {
	Min, Max Point
}

// XYWH builds a rectangle from its top left corner and size.
func XYWH(x, y, w, h float32) Rect {
	return Rect{Min: Pt(x, y), Max: Pt(x+w, y+h)}
}

// Dx returns r's width.
func (r Rect) Dx() float32 {
	return r.Max.X - r.Min.X
}

// Dy returns r's height.
func (r Rect) Dy() float32 {
	return r.Max.Y - r.Min.Y
}

// Size returns r's width and height.
func (r Rect) Size() Point {
	return Pt(r.Dx(), r.Dy())
}

// Empty reports whether r represents the empty area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return r.Min.X <= p.X && p.X < r.Max.X &&
		r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// In reports whether r lies entirely within s. The empty rectangle is in
// every rectangle.
func (r Rect) In(s Rect) bool {
	if r.Empty() {
		return true
	}
	return s.Min.X <= r.Min.X && r.Max.X <= s.Max.X &&
		s.Min.Y <= r.Min.Y && r.Max.Y <= s.Max.Y
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if r.Empty() {
		return s
	}
	if s.Empty() {
		return r
	}
	if r.Min.X > s.Min.X {
		r.Min.X = s.Min.X
	}
	if r.Min.Y > s.Min.Y {
		r.Min.Y = s.Min.Y
	}
	if r.Max.X < s.Max.X {
		r.Max.X = s.Max.X
	}
	if r.Max.Y < s.Max.Y {
		r.Max.Y = s.Max.Y
	}
	return r
}

// Add offsets r with the vector p.
func (r Rect) Add(p Point) Rect {
	return Rect{Min: r.Min.Add(p), Max: r.Max.Add(p)}
}

// Sub offsets r with the vector -p.
func (r Rect) Sub(p Point) Rect {
	return Rect{Min: r.Min.Sub(p), Max: r.Max.Sub(p)}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
