package ui

import (
	"errors"
	"reflect"
	"time"

	"github.com/atomicstack/keypad-popup/internal/geom"
	"github.com/atomicstack/keypad-popup/internal/gesture"
	"github.com/atomicstack/keypad-popup/internal/keys"
	"github.com/atomicstack/keypad-popup/internal/layout"
	"github.com/atomicstack/keypad-popup/internal/logging/events"
	"github.com/atomicstack/keypad-popup/internal/theme"
	"github.com/atomicstack/keypad-popup/internal/ui/command"
	uistate "github.com/atomicstack/keypad-popup/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	historyRows = 2
	// headerRows holds the history, the entry line and a spacer. Popups of
	// the top keypad row draw over it.
	headerRows    = historyRows + 2
	captionHeight = 1
	// maxHeldEvents bounds the published messages kept while an earlier
	// one is outstanding.
	maxHeldEvents = 16
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

type holdMsg struct {
	id gesture.ID
	at time.Time
}

// LayoutMsg swaps in a reloaded catalog. A non-nil Err keeps the current
// keypad and reports the failure instead.
type LayoutMsg struct {
	Source  string
	Catalog *keys.Catalog
	Err     error
}

// Options configures a Model.
type Options struct {
	Catalog       *keys.Catalog
	Width         int
	Height        int
	HoldThreshold time.Duration
	MoveTolerance float32
}

// Model implements the Bubble Tea model for the keypad.
type Model struct {
	catalog *keys.Catalog
	machine *gesture.Machine
	bus     *command.Bus
	grid    layout.Grid

	appliedSeq uint64
	heldEvents map[uint64]command.EventsMsg

	entry    uistate.Entry
	focus    uistate.Focus
	search   *searchForm
	errMsg   string
	infoMsg  string
	flash    bool
	feedback int

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool

	entryCursor      cursor.Model
	entryCursorDirty bool
	staticCursor     bool

	handlers map[reflect.Type]msgHandler

	now   func() time.Time
	after func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
}

// NewModel lays out the catalog's pads and returns a ready model.
func NewModel(opts Options) (*Model, error) {
	if opts.Catalog == nil {
		return nil, errors.New("ui: nil catalog")
	}
	m := &Model{
		catalog: opts.Catalog,
		machine: gesture.New(opts.Catalog, gesture.Options{
			HoldThreshold: opts.HoldThreshold,
			MoveTolerance: opts.MoveTolerance,
			CaptionHeight: captionHeight,
		}),
		bus:   command.New(),
		now:   time.Now,
		after: tea.Tick,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if err := m.arrange(); err != nil {
		return nil, err
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Entry != nil {
		c.TextStyle = styles.Entry.Copy()
	}
	c.SetChar(" ")
	m.entryCursor = c
	m.registerHandlers()
	return m, nil
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return m.entryCursor.Focus()
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateEntryCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if _, ok := msg.(command.EventsMsg); !ok {
		m.flash = false
	}
	handled, cmd := m.handleSearch(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled {
		return m, m.finishUpdate(cmds)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(tea.BlurMsg{}):       m.handleBlurMsg,
		reflect.TypeOf(holdMsg{}):           m.handleHoldMsg,
		reflect.TypeOf(LayoutMsg{}):         m.handleLayoutMsg,
		reflect.TypeOf(command.EventsMsg{}): m.handleEventsMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.entryCursorDirty {
		m.entryCursorDirty = false
		m.entryCursor.Blink = false
		if cmd := m.entryCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	events.UI.Resize(m.width, m.height)
	// A popup solved against the old frame may no longer fit.
	cmd := m.dispatch(m.machine.Cancel())
	if err := m.arrange(); err != nil {
		m.errMsg = err.Error()
	}
	return cmd
}

func (m *Model) handleLayoutMsg(msg tea.Msg) tea.Cmd {
	reload, ok := msg.(LayoutMsg)
	if !ok {
		return nil
	}
	if reload.Err != nil {
		m.errMsg = "layout: " + reload.Err.Error()
		return nil
	}
	if reload.Catalog == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, e := range m.machine.Cancel() {
		if cmd := m.applyEvent(e); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	catalog, machine := m.catalog, m.machine
	m.catalog = reload.Catalog
	m.machine = gesture.New(reload.Catalog, machine.Options())
	if err := m.arrange(); err != nil {
		m.catalog, m.machine = catalog, machine
		m.errMsg = "layout: " + err.Error()
		return tea.Batch(cmds...)
	}
	m.search = nil
	m.errMsg = ""
	m.infoMsg = "reloaded " + reload.Source
	return tea.Batch(cmds...)
}

// arrange lays the pads out below the header, centred in the viewport.
func (m *Model) arrange() error {
	pads := m.catalog.Pads()
	origin := geom.Pt(0, headerRows)
	grid, err := layout.Arrange(origin, captionHeight, pads...)
	if err != nil {
		return err
	}
	if spare := float32(m.width) - grid.Bounds().Dx(); spare >= 2 {
		origin.X = float32(int(spare / 2))
		if grid, err = layout.Arrange(origin, captionHeight, pads...); err != nil {
			return err
		}
	}
	m.grid = grid
	m.focus.SetRows(focusRows(grid))
	m.machine.Resize(m.container())
	b := grid.Bounds()
	events.Layout.Arranged(b.Dx(), b.Dy(), len(grid.Keys))
	return nil
}

// container is the frame popups must fit in: the whole viewport, or the
// keypad itself before the terminal size is known.
func (m *Model) container() geom.Rect {
	b := m.grid.Bounds()
	w := float32(m.width)
	if w <= 0 {
		w = b.Max.X
	}
	h := float32(m.height)
	if h <= 0 {
		h = b.Max.Y
	}
	return geom.XYWH(0, 0, w, h)
}

func focusRows(g layout.Grid) [][]uistate.Slot {
	rows := g.Rows()
	out := make([][]uistate.Slot, len(rows))
	for i, row := range rows {
		out[i] = make([]uistate.Slot, len(row))
		for j, p := range row {
			out[i][j] = uistate.Slot{Code: p.Key.Code, Col: p.Col, Span: p.Key.Span()}
		}
	}
	return out
}

// Machine exposes the gesture machine for inspection.
func (m *Model) Machine() *gesture.Machine {
	return m.machine
}

// Grid returns the current key arrangement.
func (m *Model) Grid() layout.Grid {
	return m.grid
}

// Entry returns the text typed so far.
func (m *Model) Entry() string {
	return m.entry.Text
}

// History returns the committed lines, oldest first.
func (m *Model) History() []string {
	return append([]string(nil), m.entry.History...)
}

// Feedback counts SelectionChanged events seen so far.
func (m *Model) Feedback() int {
	return m.feedback
}
