// Package playback hands saved recordings to something that can play them.
package playback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrPlayback wraps every failure to start playback.
var ErrPlayback = errors.New("playback failed")

// Player starts playing a WAV file and returns without waiting for it to finish.
type Player interface {
	Play(path string) error
	Close() error
}

// Backend names accepted by New.
const (
	BackendSpeaker = "speaker"
	BackendSystem  = "system"
)

// New returns the named player.
func New(backend string, log zerolog.Logger) (Player, error) {
	switch strings.ToLower(backend) {
	case "", BackendSpeaker:
		return NewSpeaker(log), nil
	case BackendSystem:
		return NewSystem(log), nil
	default:
		return nil, fmt.Errorf("unknown playback backend: %s", backend)
	}
}
