package events

import "github.com/atomicstack/keypad-popup/internal/logging"

type GestureTracer struct{}

type gestureReason string

const (
	GestureReasonMoved      gestureReason = "moved"
	GestureReasonNoPopup    gestureReason = "no-popup"
	GestureReasonInfeasible gestureReason = "infeasible"
	GestureReasonMissed     gestureReason = "missed"
	GestureReasonHost       gestureReason = "host"
)

var Gesture = GestureTracer{}

func (GestureTracer) Press(id uint64, code string, x, y float32) {
	logging.Trace("gesture.press", map[string]interface{}{"id": id, "code": code, "x": x, "y": y})
}

func (GestureTracer) Ignored(code string, state string) {
	logging.Trace("gesture.press.ignored", map[string]interface{}{"code": code, "state": state})
}

func (GestureTracer) HoldAborted(id uint64, reason gestureReason) {
	logging.Trace("gesture.hold.abort", map[string]interface{}{"id": id, "reason": string(reason)})
}

func (GestureTracer) Tap(id uint64, code string) {
	logging.Trace("gesture.tap", map[string]interface{}{"id": id, "code": code})
}

func (GestureTracer) PopupOpen(id uint64, owner string, options int, frame string) {
	logging.Trace("gesture.popup.open", map[string]interface{}{"id": id, "owner": owner, "options": options, "frame": frame})
}

func (GestureTracer) Infeasible(id uint64, owner string, container string) {
	logging.Trace("gesture.popup.infeasible", map[string]interface{}{"id": id, "owner": owner, "container": container})
}

func (GestureTracer) Selection(id uint64, index int) {
	logging.Trace("gesture.selection", map[string]interface{}{"id": id, "index": index})
}

func (GestureTracer) Select(id uint64, code string, index int) {
	logging.Trace("gesture.select", map[string]interface{}{"id": id, "code": code, "index": index})
}

func (GestureTracer) Cancel(id uint64, reason gestureReason) {
	logging.Trace("gesture.cancel", map[string]interface{}{"id": id, "reason": string(reason)})
}

func (GestureTracer) Stale(kind string) {
	logging.Trace("gesture.stale", map[string]interface{}{"input": kind})
}
