//go:build !linux && !darwin && !windows

package hotkey

// New reports that no global hotkey backend exists here. The tray menu still
// drives recording.
func New() (Manager, error) {
	return nil, ErrUnsupported
}
