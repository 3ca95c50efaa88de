package events

import "github.com/atomicstack/keypad-popup/internal/logging"

type UITracer struct{}

type SearchTracer struct{}

type EntryTracer struct{}

var (
	UI     = UITracer{}
	Search = SearchTracer{}
	Entry  = EntryTracer{}
)

func (UITracer) Resize(width, height int) {
	logging.Trace("ui.resize", map[string]interface{}{"width": width, "height": height})
}

func (UITracer) Focus(code string, row, col int) {
	logging.Trace("ui.focus", map[string]interface{}{"code": code, "row": row, "col": col})
}

func (UITracer) Feedback(index int) {
	logging.Trace("ui.feedback", map[string]interface{}{"index": index})
}

func (SearchTracer) Open() {
	logging.Trace("search.open", nil)
}

func (SearchTracer) Cancel(query string) {
	logging.Trace("search.cancel", map[string]interface{}{"query": query})
}

func (SearchTracer) Submit(query, code string) {
	logging.Trace("search.submit", map[string]interface{}{"query": query, "code": code})
}

func (EntryTracer) Insert(code, text string) {
	logging.Trace("entry.insert", map[string]interface{}{"code": code, "text": text})
}

func (EntryTracer) Delete(text string) {
	logging.Trace("entry.delete", map[string]interface{}{"text": text})
}

func (EntryTracer) Clear() {
	logging.Trace("entry.clear", nil)
}
