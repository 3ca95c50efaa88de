package state

import "unicode"

// Entry is the text line the keypad types into.
type Entry struct {
	Text    string
	Cursor  int
	History []string
}

// CursorPos returns the rune offset of the cursor clamped to the text.
func (e *Entry) CursorPos() int {
	runes := []rune(e.Text)
	if e.Cursor < 0 {
		return 0
	}
	if e.Cursor > len(runes) {
		return len(runes)
	}
	return e.Cursor
}

func (e *Entry) set(text string, cursor int) {
	e.Text = text
	n := len([]rune(text))
	if cursor < 0 {
		cursor = 0
	}
	if cursor > n {
		cursor = n
	}
	e.Cursor = cursor
}

// Insert inserts text at the cursor.
func (e *Entry) Insert(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(e.Text)
	pos := e.CursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	e.set(string(updated), pos+len(insert))
	return true
}

// DeleteBackward deletes the rune before the cursor and returns it.
func (e *Entry) DeleteBackward() (string, bool) {
	runes := []rune(e.Text)
	pos := e.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return "", false
	}
	removed := string(runes[pos-1])
	updated := append(runes[:pos-1], runes[pos:]...)
	e.set(string(updated), pos-1)
	return removed, true
}

// DeleteWordBackward deletes the word preceding the cursor.
func (e *Entry) DeleteWordBackward() bool {
	runes := []rune(e.Text)
	pos := e.CursorPos()
	if pos == 0 || len(runes) == 0 {
		return false
	}
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	updated := append(runes[:i], runes[pos:]...)
	e.set(string(updated), i)
	return true
}

// Clear empties the line.
func (e *Entry) Clear() bool {
	if e.Text == "" {
		return false
	}
	e.set("", 0)
	return true
}

// Commit appends the line to History and clears it.
func (e *Entry) Commit() (string, bool) {
	if e.Text == "" {
		return "", false
	}
	line := e.Text
	e.History = append(e.History, line)
	e.set("", 0)
	return line, true
}

// Last returns the most recent committed line.
func (e *Entry) Last() (string, bool) {
	if len(e.History) == 0 {
		return "", false
	}
	return e.History[len(e.History)-1], true
}

// MoveStart moves the cursor to the start.
func (e *Entry) MoveStart() bool {
	if e.CursorPos() == 0 {
		return false
	}
	e.Cursor = 0
	return true
}

// MoveEnd moves the cursor to the end.
func (e *Entry) MoveEnd() bool {
	end := len([]rune(e.Text))
	if e.CursorPos() == end {
		return false
	}
	e.Cursor = end
	return true
}

// MoveRuneBackward moves the cursor one rune backward.
func (e *Entry) MoveRuneBackward() bool {
	if e.CursorPos() == 0 {
		return false
	}
	e.Cursor = e.CursorPos() - 1
	return true
}

// MoveRuneForward moves the cursor one rune forward.
func (e *Entry) MoveRuneForward() bool {
	pos := e.CursorPos()
	if pos >= len([]rune(e.Text)) {
		return false
	}
	e.Cursor = pos + 1
	return true
}
