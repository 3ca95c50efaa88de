// Package layoutfile reads keypad layouts from TOML or YAML files and turns
// them into a keys.Catalog.
package layoutfile

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/atomicstack/keypad-popup/internal/keys"
)

//go:embed default.toml
var defaultLayout []byte

// DefaultSource names the embedded layout in logs and errors.
const DefaultSource = "builtin:default.toml"

// Format selects a decoder.
type Format int

const (
	// FormatAuto tries TOML, then YAML.
	FormatAuto Format = iota
	FormatTOML
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ParseFormat maps a name or file extension to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "", "auto":
		return FormatAuto, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("unknown layout format %q", name)
	}
}

// Visual is a key sizing block.
type Visual struct {
	Width    float32 `toml:"width" yaml:"width"`
	Height   float32 `toml:"height" yaml:"height"`
	FontSize float32 `toml:"font_size,omitempty" yaml:"font_size,omitempty"`
	Radius   float32 `toml:"radius,omitempty" yaml:"radius,omitempty"`
}

// Key is one key entry.
type Key struct {
	Code     string  `toml:"code" yaml:"code"`
	Label    string  `toml:"label,omitempty" yaml:"label,omitempty"`
	Glyph    string  `toml:"glyph,omitempty" yaml:"glyph,omitempty"`
	FontSize float32 `toml:"font_size,omitempty" yaml:"font_size,omitempty"`
	Width    int     `toml:"width,omitempty" yaml:"width,omitempty"`
}

// Pad is a primary pad entry.
type Pad struct {
	Name     string  `toml:"name" yaml:"name"`
	Caption  string  `toml:"caption,omitempty" yaml:"caption,omitempty"`
	Columns  int     `toml:"columns" yaml:"columns"`
	FontSize float32 `toml:"font_size,omitempty" yaml:"font_size,omitempty"`
	Visual   *Visual `toml:"visual,omitempty" yaml:"visual,omitempty"`
	Keys     []Key   `toml:"key" yaml:"key"`
}

// Popup is a popup pad entry.
type Popup struct {
	Owner    string  `toml:"owner" yaml:"owner"`
	Caption  string  `toml:"caption,omitempty" yaml:"caption,omitempty"`
	FontSize float32 `toml:"font_size,omitempty" yaml:"font_size,omitempty"`
	Keys     []Key   `toml:"key" yaml:"key"`
}

// File is a whole layout document.
type File struct {
	// Visual is shared by every pad without its own visual block.
	Visual *Visual `toml:"visual,omitempty" yaml:"visual,omitempty"`
	Pads   []Pad   `toml:"pad" yaml:"pad"`
	Popups []Popup `toml:"popup,omitempty" yaml:"popup,omitempty"`
	Source string  `toml:"-" yaml:"-"`
}

// Default returns the embedded calculator layout.
func Default() (*File, error) {
	f, err := Parse(defaultLayout, FormatTOML)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", DefaultSource, err)
	}
	f.Source = DefaultSource
	return f, nil
}

// Load reads a layout file, choosing the decoder from its extension. An
// empty path returns the default layout.
func Load(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	format, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		format = FormatAuto
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode layout %s: %w", path, err)
	}
	f.Source = path
	return f, nil
}

// Parse decodes a layout document. Unknown fields are rejected so typos
// surface at startup.
func Parse(data []byte, format Format) (*File, error) {
	switch format {
	case FormatTOML:
		return parseTOML(data)
	case FormatYAML:
		return parseYAML(data)
	default:
		if f, err := parseTOML(data); err == nil {
			return f, nil
		}
		if f, err := parseYAML(data); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("unable to parse layout (tried TOML, YAML)")
	}
}

func parseTOML(data []byte) (*File, error) {
	var f File
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("decode TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		names := make([]string, len(undecoded))
		for i, k := range undecoded {
			names[i] = k.String()
		}
		sort.Strings(names)
		return nil, fmt.Errorf("decode TOML: unknown fields %s", strings.Join(names, ", "))
	}
	return &f, nil
}

func parseYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	return &f, nil
}

// Encode writes f in the given format. FormatAuto writes TOML.
func (f *File) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	default:
		if err := toml.NewEncoder(w).Encode(f); err != nil {
			return fmt.Errorf("encode TOML: %w", err)
		}
		return nil
	}
}

// Definitions converts the file into catalog definitions: pads in file
// order, then popups in file order. Pads without a visual block share the
// file-level one.
func (f *File) Definitions() ([]keys.Definition, error) {
	var shared *keys.VisualSpec
	if f.Visual != nil {
		shared = visualSpec(*f.Visual)
	}
	defs := make([]keys.Definition, 0, len(f.Pads)+len(f.Popups))
	for _, p := range f.Pads {
		visual := shared
		if p.Visual != nil {
			visual = visualSpec(*p.Visual)
		}
		if visual == nil {
			return nil, &keys.ConfigError{Pad: p.Name, Reason: "missing visual block"}
		}
		pad := keys.PadSpec{
			Name:        p.Name,
			Visual:      visual,
			RowCapacity: p.Columns,
			FontSize:    p.FontSize,
			Caption:     p.Caption,
			Keys:        convertKeys(p.Keys),
		}
		if pad.FontSize == 0 {
			pad.FontSize = visual.FontSize
		}
		defs = append(defs, pad)
	}
	for _, p := range f.Popups {
		defs = append(defs, keys.PopupPadSpec{
			Owner:    keys.Code(p.Owner),
			Caption:  p.Caption,
			FontSize: p.FontSize,
			Keys:     convertKeys(p.Keys),
		})
	}
	return defs, nil
}

// Catalog validates the file and builds the catalog.
func (f *File) Catalog() (*keys.Catalog, error) {
	defs, err := f.Definitions()
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", f.Source, err)
	}
	c, err := keys.Build(defs...)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", f.Source, err)
	}
	return c, nil
}

func visualSpec(v Visual) *keys.VisualSpec {
	return &keys.VisualSpec{Width: v.Width, Height: v.Height, FontSize: v.FontSize, Radius: v.Radius}
}

func convertKeys(in []Key) []keys.Key {
	out := make([]keys.Key, len(in))
	for i, k := range in {
		out[i] = keys.Key{
			Code:   keys.Code(k.Code),
			Width:  keys.Units(k.Width),
			Visual: convertVisual(k),
		}
	}
	return out
}

func convertVisual(k Key) keys.Visual {
	label := keys.TextLabel{Text: k.Label, FontSize: k.FontSize}
	switch {
	case k.Label != "" && k.Glyph != "":
		return keys.LabelGlyph{Label: label, Glyph: keys.Glyph{Ref: k.Glyph}}
	case k.Glyph != "":
		return keys.Glyph{Ref: k.Glyph}
	case k.Label != "":
		return label
	default:
		return keys.TextLabel{Text: k.Code, FontSize: k.FontSize}
	}
}
