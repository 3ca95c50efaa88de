package command

import (
	"fmt"

	"github.com/atomicstack/keypad-popup/internal/gesture"
	"github.com/atomicstack/keypad-popup/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

// EventsMsg carries the events one engine input produced, in emission order.
// Commands run concurrently, so messages from different inputs may arrive
// out of order; Seq increases by one per published message to let the
// receiver restore it.
type EventsMsg struct {
	Seq    uint64
	Events []gesture.Event
}

// Bus hands engine events to the Bubble Tea loop.
type Bus struct {
	seq uint64
}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{}
}

// Publish wraps evts into a single command, keeping the events of one input
// together and in order. It returns nil when there is nothing to deliver.
func (b *Bus) Publish(evts []gesture.Event) tea.Cmd {
	if len(evts) == 0 {
		return nil
	}
	b.seq++
	msg := EventsMsg{Seq: b.seq, Events: append([]gesture.Event(nil), evts...)}
	if logging.TraceEnabled() {
		kinds := make([]string, len(evts))
		for i, e := range evts {
			kinds[i] = fmt.Sprintf("%T", e)
		}
		logging.Trace("bus.publish", map[string]interface{}{"seq": msg.Seq, "events": kinds})
	}
	return func() tea.Msg {
		return msg
	}
}
