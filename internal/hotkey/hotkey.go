package hotkey

import "errors"

// ErrUnsupported is returned by New on platforms without a global hotkey backend.
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

// Manager defines the interface for global hotkey management
type Manager interface {
	Register(accel string, callback func(pressed bool)) error
	Unregister(accel string) error
	Close() error
}
