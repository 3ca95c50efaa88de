package command

import (
	"reflect"
	"testing"

	"github.com/atomicstack/keypad-popup/internal/gesture"
)

func TestPublishKeepsOrder(t *testing.T) {
	b := New()
	evts := []gesture.Event{gesture.PopupClosed{}, gesture.SelectionEvent{Code: "fn.asin", Index: 0}}
	cmd := b.Publish(evts)
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg, ok := cmd().(EventsMsg)
	if !ok {
		t.Fatalf("expected EventsMsg, got %T", cmd())
	}
	if !reflect.DeepEqual(msg.Events, evts) {
		t.Fatalf("expected %v, got %v", evts, msg.Events)
	}
	if msg.Seq != 1 {
		t.Fatalf("expected seq 1, got %d", msg.Seq)
	}
	evts[0] = gesture.TapEvent{Code: "x"}
	if _, ok := msg.Events[0].(gesture.PopupClosed); !ok {
		t.Fatalf("expected published events to be copied")
	}
}

func TestPublishEmpty(t *testing.T) {
	if cmd := New().Publish(nil); cmd != nil {
		t.Fatalf("expected nil command for no events")
	}
}

func TestPublishNumbersMessages(t *testing.T) {
	b := New()
	first := b.Publish([]gesture.Event{gesture.PopupClosed{}})
	if b.Publish(nil) != nil {
		t.Fatalf("expected nil command for no events")
	}
	second := b.Publish([]gesture.Event{gesture.SelectionChanged{Index: 1}})
	if got := first().(EventsMsg).Seq; got != 1 {
		t.Fatalf("expected seq 1, got %d", got)
	}
	if got := second().(EventsMsg).Seq; got != 2 {
		t.Fatalf("expected empty publish to leave no gap, got seq %d", got)
	}
}
