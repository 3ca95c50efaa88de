package keys

// Code identifies a logical key. Codes are stable, ordered and never reused
// for two different keys.
type Code string

// Units is the number of unit cells a key occupies in a row.
type Units int

const (
	MinUnits Units = 1
	MaxUnits Units = 3
)

// Visual describes how a key face is drawn. It is one of TextLabel, Glyph
// or LabelGlyph.
type Visual interface {
	visual()
}

// TextLabel draws a text label. A zero FontSize inherits the pad's size.
type TextLabel struct {
	Text     string
	FontSize float32
}

// Glyph draws an image referenced by name.
type Glyph struct {
	Ref string
}

// LabelGlyph draws both a glyph and a text label.
type LabelGlyph struct {
	Label TextLabel
	Glyph Glyph
}

func (TextLabel) visual()  {}
func (Glyph) visual()      {}
func (LabelGlyph) visual() {}

// Key is one pressable key.
type Key struct {
	Code   Code
	Width  Units
	Visual Visual
}

// Label returns the key's text label, if it has one.
func (k Key) Label() (TextLabel, bool) {
	switch v := k.Visual.(type) {
	case TextLabel:
		return v, true
	case LabelGlyph:
		return v.Label, true
	default:
		return TextLabel{}, false
	}
}

// GlyphRef returns the key's glyph reference, if it has one.
func (k Key) GlyphRef() (string, bool) {
	switch v := k.Visual.(type) {
	case Glyph:
		return v.Ref, true
	case LabelGlyph:
		return v.Glyph.Ref, true
	default:
		return "", false
	}
}

// Name returns the label text, falling back to the glyph reference and then
// the code.
func (k Key) Name() string {
	if l, ok := k.Label(); ok && l.Text != "" {
		return l.Text
	}
	if ref, ok := k.GlyphRef(); ok && ref != "" {
		return ref
	}
	return string(k.Code)
}

// units reports the key width, treating zero as a single cell.
func (k Key) units() Units {
	if k.Width == 0 {
		return MinUnits
	}
	return k.Width
}

// Span returns the number of cells the key occupies.
func (k Key) Span() int {
	return int(k.units())
}

// VisualSpec holds per-pad sizing defaults shared by every key of a pad.
type VisualSpec struct {
	Width    float32
	Height   float32
	FontSize float32
	Radius   float32
}

// Definition is a pad or popup pad handed to Build.
type Definition interface {
	definition()
}

// PadSpec defines a primary grid of keys.
type PadSpec struct {
	Name        string
	Visual      *VisualSpec
	RowCapacity int
	Keys        []Key
	FontSize    float32
	Caption     string
}

// PopupPadSpec defines the one-row pad revealed by holding Owner.
type PopupPadSpec struct {
	Owner    Code
	Keys     []Key
	Caption  string
	FontSize float32
}

func (PadSpec) definition()      {}
func (PopupPadSpec) definition() {}
