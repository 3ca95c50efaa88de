package state

import "github.com/atomicstack/keypad-popup/internal/keys"

// Slot is one key in a focus row.
type Slot struct {
	Code keys.Code
	// Col is the first unit column the key covers.
	Col  int
	Span int
}

func (s Slot) covers(col int) bool {
	return col >= s.Col && col < s.Col+s.Span
}

// Focus is the keyboard cursor over the keypad grid.
type Focus struct {
	Rows [][]Slot
	Row  int
	Col  int
}

// SetRows replaces the grid, keeping the focused code when it still exists.
func (f *Focus) SetRows(rows [][]Slot) {
	prev, hadPrev := f.Current()
	f.Rows = rows
	f.Row, f.Col = 0, 0
	if hadPrev {
		f.FocusCode(prev.Code)
	}
}

// Current returns the focused slot.
func (f *Focus) Current() (Slot, bool) {
	if f.Row < 0 || f.Row >= len(f.Rows) {
		return Slot{}, false
	}
	row := f.Rows[f.Row]
	if f.Col < 0 || f.Col >= len(row) {
		return Slot{}, false
	}
	return row[f.Col], true
}

// FocusCode moves the cursor onto code.
func (f *Focus) FocusCode(code keys.Code) bool {
	for r, row := range f.Rows {
		for c, s := range row {
			if s.Code == code {
				changed := r != f.Row || c != f.Col
				f.Row, f.Col = r, c
				return changed
			}
		}
	}
	return false
}

// MoveLeft moves one key left within the row.
func (f *Focus) MoveLeft() bool {
	if _, ok := f.Current(); !ok || f.Col == 0 {
		return false
	}
	f.Col--
	return true
}

// MoveRight moves one key right within the row.
func (f *Focus) MoveRight() bool {
	if _, ok := f.Current(); !ok || f.Col >= len(f.Rows[f.Row])-1 {
		return false
	}
	f.Col++
	return true
}

// MoveUp moves to the key above that covers the same unit column.
func (f *Focus) MoveUp() bool {
	return f.moveRow(-1)
}

// MoveDown moves to the key below that covers the same unit column.
func (f *Focus) MoveDown() bool {
	return f.moveRow(1)
}

func (f *Focus) moveRow(delta int) bool {
	cur, ok := f.Current()
	if !ok {
		return false
	}
	target := f.Row + delta
	if target < 0 || target >= len(f.Rows) || len(f.Rows[target]) == 0 {
		return false
	}
	row := f.Rows[target]
	col := len(row) - 1
	for i, s := range row {
		if s.covers(cur.Col) {
			col = i
			break
		}
	}
	f.Row, f.Col = target, col
	return true
}

// MoveHome moves to the first key of the grid.
func (f *Focus) MoveHome() bool {
	if len(f.Rows) == 0 {
		return false
	}
	old := f.Row != 0 || f.Col != 0
	f.Row, f.Col = 0, 0
	return old
}

// MoveEnd moves to the last key of the grid.
func (f *Focus) MoveEnd() bool {
	n := len(f.Rows)
	if n == 0 || len(f.Rows[n-1]) == 0 {
		return false
	}
	row, col := n-1, len(f.Rows[n-1])-1
	changed := f.Row != row || f.Col != col
	f.Row, f.Col = row, col
	return changed
}
