package ui

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/atomicstack/keypad-popup/internal/geom"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const footerHint = "hold a key for more · / search · q quit"

// cell is one terminal column. A nil style means text is already styled.
type cell struct {
	text  string
	style *lipgloss.Style
}

// canvas is a fixed grid of cells that later writes overwrite.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{text: " "}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) put(x, y int, text string, style *lipgloss.Style) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{text: text, style: style}
}

// bounds converts r to cell indices clipped to the canvas.
func (c *canvas) bounds(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = clamp(int(math.Floor(float64(r.Min.X))), 0, c.w)
	y0 = clamp(int(math.Floor(float64(r.Min.Y))), 0, c.h)
	x1 = clamp(int(math.Ceil(float64(r.Max.X))), 0, c.w)
	y1 = clamp(int(math.Ceil(float64(r.Max.Y))), 0, c.h)
	return
}

func (c *canvas) fill(r geom.Rect, style *lipgloss.Style) {
	x0, y0, x1, y1 := c.bounds(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.cells[y][x] = cell{text: " ", style: style}
		}
	}
}

func (c *canvas) text(x, y int, s string, style *lipgloss.Style) {
	for _, r := range s {
		c.put(x, y, string(r), style)
		x++
	}
}

// label centres s on the middle row of r, truncating it to fit.
func (c *canvas) label(r geom.Rect, s string, style *lipgloss.Style) {
	width := int(r.Dx())
	if width <= 0 {
		return
	}
	if utf8.RuneCountInString(s) > width {
		s = truncate.StringWithTail(s, uint(width), "…")
	}
	n := utf8.RuneCountInString(s)
	x := int(r.Min.X) + (width-n)/2
	y := int(r.Min.Y) + (int(r.Dy())-1)/2
	c.text(x, y, s, style)
}

func (c *canvas) String() string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		var b strings.Builder
		for x := 0; x < len(row); {
			style := row[x].style
			if style == nil {
				b.WriteString(row[x].text)
				x++
				continue
			}
			var run strings.Builder
			for x < len(row) && row[x].style == style {
				run.WriteString(row[x].text)
				x++
			}
			b.WriteString(style.Render(run.String()))
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// keyFace shrinks a key frame by one column so neighbouring keys stay
// apart.
func keyFace(r geom.Rect) geom.Rect {
	if r.Dx() > 1 {
		r.Max.X--
	}
	return r
}

// View renders the header, the keypad, any open popup and the footer.
func (m *Model) View() string {
	container := m.container()
	height := int(math.Ceil(float64(m.grid.Bounds().Max.Y)))
	if height < headerRows {
		height = headerRows
	}
	c := newCanvas(int(container.Dx()), height)
	m.drawHeader(c)
	m.drawKeys(c)
	m.drawPopup(c)
	lines := append([]string{c.String()}, m.footerLines(c.w)...)
	return strings.Join(lines, "\n")
}

func (m *Model) drawHeader(c *canvas) {
	history := m.entry.History
	if len(history) > historyRows {
		history = history[len(history)-historyRows:]
	}
	row := historyRows - len(history)
	for _, line := range history {
		if c.w > 0 && utf8.RuneCountInString(line) > c.w {
			line = truncate.StringWithTail(line, uint(c.w), "…")
		}
		c.text(0, row, line, styles.History)
		row++
	}
	m.drawEntry(c, historyRows)
}

func (m *Model) drawEntry(c *canvas, row int) {
	prompt := "» "
	c.text(0, row, prompt, styles.EntryPrompt)
	x := utf8.RuneCountInString(prompt)
	runes := []rune(m.entry.Text)
	pos := m.entry.CursorPos()
	// Scroll so the cursor stays on screen.
	start := 0
	if avail := c.w - x - 1; avail > 0 && pos > avail {
		start = pos - avail
	}
	for i := start; i < len(runes); i++ {
		if i == pos {
			break
		}
		c.put(x, row, string(runes[i]), styles.Entry)
		x++
	}
	char := " "
	if pos < len(runes) {
		char = string(runes[pos])
	}
	m.entryCursor.SetChar(char)
	c.put(x, row, m.entryCursor.View(), nil)
	x++
	for i := pos + 1; i < len(runes); i++ {
		c.put(x, row, string(runes[i]), styles.Entry)
		x++
	}
}

func (m *Model) drawKeys(c *canvas) {
	for _, caption := range m.grid.Captions {
		c.text(int(caption.Frame.Min.X), int(caption.Frame.Min.Y), caption.Text, styles.Caption)
	}
	session := m.machine.Session()
	focused, hasFocus := m.focus.Current()
	for _, p := range m.grid.Keys {
		style := styles.Key
		switch {
		case session.Pressed != nil && session.Pressed.Key.Code == p.Key.Code && session.Pressed.Frame == p.Frame:
			style = styles.KeyPressed
		case hasFocus && focused.Code == p.Key.Code:
			style = styles.KeyFocused
		}
		face := keyFace(p.Frame)
		c.fill(face, style)
		c.label(face, keyText(p.Key), style)
	}
}

func (m *Model) drawPopup(c *canvas) {
	session := m.machine.Session()
	if !session.PopupOpen() {
		return
	}
	frame := session.PopupHostFrame()
	style := styles.Popup
	if m.flash {
		style = styles.PopupFlash
	}
	c.fill(frame, style)
	if caption := session.Popup.Caption; caption != "" {
		strip := frame
		strip.Max.Y = strip.Min.Y + captionHeight
		c.fill(strip, styles.PopupCaption)
		c.label(strip, caption, styles.PopupCaption)
	}
	for i, k := range session.Popup.Keys {
		optStyle := styles.Option
		if i == session.Selected {
			optStyle = styles.SelectedOption
		}
		face := keyFace(session.Option(i))
		c.fill(face, optStyle)
		c.label(face, keyText(k), optStyle)
	}
}

func (m *Model) footerLines(width int) []string {
	fit := func(s string) string {
		if width > 0 && utf8.RuneCountInString(s) > width {
			return truncate.StringWithTail(s, uint(width), "…")
		}
		return s
	}
	var lines []string
	switch {
	case m.errMsg != "":
		lines = append(lines, styles.Error.Render(fit(m.errMsg)))
	case m.infoMsg != "":
		lines = append(lines, styles.Info.Render(fit(m.infoMsg)))
	default:
		lines = append(lines, styles.Footer.Render(fit(footerHint)))
	}
	if m.search == nil {
		return lines
	}
	lines = append(lines, m.search.input.View())
	items := m.search.matches.Items
	cursor := m.search.matches.Cursor
	start := 0
	if cursor >= searchVisibleMatches {
		start = cursor - searchVisibleMatches + 1
	}
	for i := start; i < len(items) && i < start+searchVisibleMatches; i++ {
		text := fit("  " + items[i].Label + "  " + string(items[i].Code))
		style := styles.Match
		if i == cursor {
			style = styles.SelectedMatch
		}
		lines = append(lines, style.Render(text))
	}
	return lines
}
