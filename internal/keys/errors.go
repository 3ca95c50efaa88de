package keys

import (
	"errors"
	"fmt"
)

// ErrConfiguration is wrapped by every layout configuration error.
var ErrConfiguration = errors.New("keypad configuration error")

// ConfigError reports a pad or popup definition that can never be laid out.
type ConfigError struct {
	Pad    string
	Code   Code
	Reason string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Pad != "" && e.Code != "":
		return fmt.Sprintf("pad %q key %q: %s", e.Pad, e.Code, e.Reason)
	case e.Pad != "":
		return fmt.Sprintf("pad %q: %s", e.Pad, e.Reason)
	case e.Code != "":
		return fmt.Sprintf("key %q: %s", e.Code, e.Reason)
	default:
		return e.Reason
	}
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}
