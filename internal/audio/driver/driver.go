// Package driver binds audio.Driver to the native host audio libraries. It is
// the only audio package that needs cgo.
package driver

import (
	"fmt"
	"strings"

	"github.com/petems/wizard-sound/internal/audio"
)

const (
	BackendPortAudio = "portaudio"
	BackendMiniaudio = "miniaudio"
)

// New initializes the named backend. An empty name selects PortAudio.
func New(name string) (audio.Driver, error) {
	switch strings.ToLower(name) {
	case "", BackendPortAudio:
		return NewPortAudio()
	case BackendMiniaudio, "malgo":
		return NewMiniaudio()
	default:
		return nil, fmt.Errorf("unknown audio backend %q", name)
	}
}
