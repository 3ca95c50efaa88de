package events

import "github.com/atomicstack/keypad-popup/internal/logging"

type LayoutTracer struct{}

var Layout = LayoutTracer{}

func (LayoutTracer) Loaded(source string, pads, popups int) {
	logging.Trace("layout.loaded", map[string]interface{}{"source": source, "pads": pads, "popups": popups})
}

func (LayoutTracer) Rejected(source string, err error) {
	if err == nil {
		return
	}
	logging.Trace("layout.rejected", map[string]interface{}{"source": source, "error": err.Error()})
}

func (LayoutTracer) Arranged(width, height float32, keys int) {
	logging.Trace("layout.arranged", map[string]interface{}{"width": width, "height": height, "keys": keys})
}
