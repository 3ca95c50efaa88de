package keys

import (
	"fmt"
	"sort"
)

// Catalog is the immutable set of pads and the popup registry. It is built
// once by Build and only read afterwards, so concurrent readers are safe.
type Catalog struct {
	pads   []PadSpec
	popups map[Code]PopupPadSpec
	keys   map[Code]Key
	order  []Code
}

// Build validates the definitions and constructs the catalog. Popups are
// keyed by owner; a later popup for the same owner replaces an earlier one.
func Build(defs ...Definition) (*Catalog, error) {
	c := &Catalog{
		popups: make(map[Code]PopupPadSpec),
		keys:   make(map[Code]Key),
	}
	var popups []PopupPadSpec
	for i, def := range defs {
		switch d := def.(type) {
		case PadSpec:
			if err := validatePad(d); err != nil {
				return nil, err
			}
			c.pads = append(c.pads, clonePad(d))
		case *PadSpec:
			if d == nil {
				return nil, &ConfigError{Reason: fmt.Sprintf("definition %d is nil", i)}
			}
			if err := validatePad(*d); err != nil {
				return nil, err
			}
			c.pads = append(c.pads, clonePad(*d))
		case PopupPadSpec:
			if err := validatePopup(d); err != nil {
				return nil, err
			}
			popups = append(popups, clonePopup(d))
		case *PopupPadSpec:
			if d == nil {
				return nil, &ConfigError{Reason: fmt.Sprintf("definition %d is nil", i)}
			}
			if err := validatePopup(*d); err != nil {
				return nil, err
			}
			popups = append(popups, clonePopup(*d))
		default:
			return nil, &ConfigError{Reason: fmt.Sprintf("definition %d has unsupported type %T", i, def)}
		}
	}
	for _, p := range popups {
		c.popups[p.Owner] = p
	}
	for _, pad := range c.pads {
		for _, k := range pad.Keys {
			c.index(k)
		}
	}
	owners := make([]Code, 0, len(c.popups))
	for owner := range c.popups {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	for _, owner := range owners {
		for _, k := range c.popups[owner].Keys {
			c.index(k)
		}
	}
	return c, nil
}

func (c *Catalog) index(k Key) {
	if _, ok := c.keys[k.Code]; ok {
		return
	}
	c.keys[k.Code] = k
	c.order = append(c.order, k.Code)
}

// Pads returns the primary pads in registration order.
func (c *Catalog) Pads() []PadSpec {
	if c == nil {
		return nil
	}
	return c.pads
}

// Pad finds a primary pad by name.
func (c *Catalog) Pad(name string) (PadSpec, bool) {
	if c == nil {
		return PadSpec{}, false
	}
	for _, p := range c.pads {
		if p.Name == name {
			return p, true
		}
	}
	return PadSpec{}, false
}

// Popup returns the popup pad owned by code.
func (c *Catalog) Popup(code Code) (PopupPadSpec, bool) {
	if c == nil {
		return PopupPadSpec{}, false
	}
	p, ok := c.popups[code]
	return p, ok
}

// Owners returns the codes that own a popup, in ascending order.
func (c *Catalog) Owners() []Code {
	if c == nil {
		return nil
	}
	owners := make([]Code, 0, len(c.popups))
	for owner := range c.popups {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	return owners
}

// Key looks up a key definition by code. Keys in primary pads win over
// popup options sharing the same code.
func (c *Catalog) Key(code Code) (Key, bool) {
	if c == nil {
		return Key{}, false
	}
	k, ok := c.keys[code]
	return k, ok
}

// Keys returns every distinct key, pads first, then popup options ordered by
// owner code.
func (c *Catalog) Keys() []Key {
	if c == nil {
		return nil
	}
	out := make([]Key, 0, len(c.order))
	for _, code := range c.order {
		out = append(out, c.keys[code])
	}
	return out
}

func validatePad(p PadSpec) error {
	if p.Visual == nil {
		return &ConfigError{Pad: p.Name, Reason: "missing visual spec"}
	}
	if err := validateVisual(p.Name, p.Visual); err != nil {
		return err
	}
	if p.RowCapacity <= 0 {
		return &ConfigError{Pad: p.Name, Reason: fmt.Sprintf("row capacity must be > 0 (got %d)", p.RowCapacity)}
	}
	for _, k := range p.Keys {
		if err := validateKey(p.Name, k); err != nil {
			return err
		}
		if k.Span() > p.RowCapacity {
			return &ConfigError{
				Pad:    p.Name,
				Code:   k.Code,
				Reason: fmt.Sprintf("width %d exceeds row capacity %d", k.Span(), p.RowCapacity),
			}
		}
	}
	return nil
}

// validateVisual rejects key sizes that would arrange into empty frames
// no pointer can hit.
func validateVisual(pad string, v *VisualSpec) error {
	switch {
	case v.Width <= 0:
		return &ConfigError{Pad: pad, Reason: fmt.Sprintf("key width must be > 0 (got %g)", v.Width)}
	case v.Height <= 0:
		return &ConfigError{Pad: pad, Reason: fmt.Sprintf("key height must be > 0 (got %g)", v.Height)}
	case v.FontSize < 0:
		return &ConfigError{Pad: pad, Reason: fmt.Sprintf("font size must be >= 0 (got %g)", v.FontSize)}
	case v.Radius < 0:
		return &ConfigError{Pad: pad, Reason: fmt.Sprintf("radius must be >= 0 (got %g)", v.Radius)}
	}
	return nil
}

func validatePopup(p PopupPadSpec) error {
	if p.Owner == "" {
		return &ConfigError{Reason: "popup pad without owner"}
	}
	if len(p.Keys) == 0 {
		return &ConfigError{Code: p.Owner, Reason: "popup pad has no keys"}
	}
	for _, k := range p.Keys {
		if err := validateKey("popup:"+string(p.Owner), k); err != nil {
			return err
		}
	}
	return nil
}

func validateKey(pad string, k Key) error {
	if k.Code == "" {
		return &ConfigError{Pad: pad, Reason: "key without code"}
	}
	if k.Width != 0 && (k.Width < MinUnits || k.Width > MaxUnits) {
		return &ConfigError{Pad: pad, Code: k.Code, Reason: fmt.Sprintf("width %d outside %d..%d", k.Width, MinUnits, MaxUnits)}
	}
	return nil
}

func clonePad(p PadSpec) PadSpec {
	p.Keys = append([]Key(nil), p.Keys...)
	return p
}

func clonePopup(p PopupPadSpec) PopupPadSpec {
	p.Keys = append([]Key(nil), p.Keys...)
	return p
}
