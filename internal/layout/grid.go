package layout

import (
	"fmt"

	"github.com/atomicstack/keypad-popup/internal/geom"
	"github.com/atomicstack/keypad-popup/internal/keys"
)

// Placed is a key positioned on screen.
type Placed struct {
	Key   keys.Key
	Pad   string
	Row   int
	Col   int
	Frame geom.Rect
	// Unit is the size of one unit cell of the owning pad.
	Unit geom.Point
	// Gap separates a popup from this key; it is the pad's corner radius.
	Gap float32
}

// Caption is a pad caption strip.
type Caption struct {
	Pad   string
	Text  string
	Frame geom.Rect
}

// Grid is the arrangement of one or more pads.
type Grid struct {
	Keys     []Placed
	Captions []Caption
	bounds   geom.Rect
}

// Arrange lays out pads top to bottom starting at origin. A pad with a
// caption gets a strip of captionHeight above its rows.
func Arrange(origin geom.Point, captionHeight float32, pads ...keys.PadSpec) (Grid, error) {
	var g Grid
	y := origin.Y
	for _, pad := range pads {
		if pad.Visual == nil {
			return Grid{}, &keys.ConfigError{Pad: pad.Name, Reason: "missing visual spec"}
		}
		rows, err := Partition(pad.Keys, pad.RowCapacity)
		if err != nil {
			return Grid{}, fmt.Errorf("arrange pad %q: %w", pad.Name, err)
		}
		unit := geom.Pt(pad.Visual.Width, pad.Visual.Height)
		if pad.Caption != "" && captionHeight > 0 {
			frame := geom.XYWH(origin.X, y, unit.X*float32(pad.RowCapacity), captionHeight)
			g.Captions = append(g.Captions, Caption{Pad: pad.Name, Text: pad.Caption, Frame: frame})
			g.bounds = g.bounds.Union(frame)
			y += captionHeight
		}
		for r, row := range rows {
			x := origin.X
			col := 0
			for _, k := range row {
				w := unit.X * float32(k.Span())
				p := Placed{
					Key:   k,
					Pad:   pad.Name,
					Row:   r,
					Col:   col,
					Frame: geom.XYWH(x, y, w, unit.Y),
					Unit:  unit,
					Gap:   pad.Visual.Radius,
				}
				g.Keys = append(g.Keys, p)
				g.bounds = g.bounds.Union(p.Frame)
				x += w
				col += k.Span()
			}
			y += unit.Y
		}
	}
	return g, nil
}

// Bounds returns the smallest rectangle containing every key and caption.
func (g Grid) Bounds() geom.Rect {
	return g.bounds
}

// KeyAt returns the key whose frame contains p.
func (g Grid) KeyAt(p geom.Point) (Placed, bool) {
	for _, k := range g.Keys {
		if k.Frame.Contains(p) {
			return k, true
		}
	}
	return Placed{}, false
}

// Find returns the first placement of code.
func (g Grid) Find(code keys.Code) (Placed, bool) {
	for _, k := range g.Keys {
		if k.Key.Code == code {
			return k, true
		}
	}
	return Placed{}, false
}

// Rows groups the placed keys by pad and row, in layout order.
func (g Grid) Rows() [][]Placed {
	var out [][]Placed
	for i, k := range g.Keys {
		if i == 0 || k.Pad != g.Keys[i-1].Pad || k.Row != g.Keys[i-1].Row {
			out = append(out, nil)
		}
		out[len(out)-1] = append(out[len(out)-1], k)
	}
	return out
}
