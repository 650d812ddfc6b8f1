// Package audiotest provides in-memory audio backends for tests.
package audiotest

import (
	"errors"
	"sync"

	"github.com/petems/wizard-sound/internal/audio"
)

// Backend is a scripted audio.Backend and audio.StreamOpener.
type Backend struct {
	Infos      []audio.DeviceInfo
	DevicesErr error
	Default    int
	DefaultErr error

	// OpenErr and StartErr make the next streams fail.
	OpenErr  error
	StartErr error
	StopErr  error
	CloseErr error

	mu      sync.Mutex
	streams []*Stream
}

// NewBackend returns a backend exposing the given devices, the first being default.
func NewBackend(devices ...audio.DeviceInfo) *Backend {
	def := -1
	if len(devices) > 0 {
		def = devices[0].Index
	}
	return &Backend{Infos: devices, Default: def}
}

// Mic is a convenience mono input device.
func Mic(index int, name string, rate float64) audio.DeviceInfo {
	return audio.DeviceInfo{Index: index, Name: name, MaxInputChannels: 1, DefaultSampleRate: rate}
}

func (b *Backend) Name() string { return "fake" }

func (b *Backend) Devices() ([]audio.DeviceInfo, error) {
	return b.Infos, b.DevicesErr
}

func (b *Backend) DefaultInputIndex() (int, error) {
	return b.Default, b.DefaultErr
}

func (b *Backend) OpenInput(dev audio.InputDevice, sampleRate int, onData func(in []int16)) (audio.Stream, error) {
	if b.OpenErr != nil {
		return nil, b.OpenErr
	}
	s := &Stream{
		Device:     dev,
		SampleRate: sampleRate,
		onData:     onData,
		startErr:   b.StartErr,
		stopErr:    b.StopErr,
		closeErr:   b.CloseErr,
	}
	b.mu.Lock()
	b.streams = append(b.streams, s)
	b.mu.Unlock()
	return s, nil
}

func (b *Backend) Close() error { return nil }

// Last returns the most recently opened stream, or nil.
func (b *Backend) Last() *Stream {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.streams) == 0 {
		return nil
	}
	return b.streams[len(b.streams)-1]
}

// Opened reports how many streams were opened.
func (b *Backend) Opened() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.streams)
}

// ErrNotRunning is returned by Deliver when the stream is not started.
var ErrNotRunning = errors.New("stream not running")

// Stream is a fake input stream driven by Deliver.
type Stream struct {
	Device     audio.InputDevice
	SampleRate int

	onData   func(in []int16)
	startErr error
	stopErr  error
	closeErr error

	mu      sync.Mutex
	running bool
	closed  bool
}

func (s *Stream) Start() error {
	if s.startErr != nil {
		return s.startErr
	}
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()
	return nil
}

func (s *Stream) Stop() error {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return s.stopErr
}

func (s *Stream) Close() error {
	s.mu.Lock()
	s.running = false
	s.closed = true
	s.mu.Unlock()
	return s.closeErr
}

// Deliver invokes the stream callback as the audio thread would. The buffer is
// overwritten afterwards to catch callers that keep a reference to it.
func (s *Stream) Deliver(buf []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ErrNotRunning
	}
	s.onData(buf)
	for i := range buf {
		buf[i] = 0
	}
	return nil
}

// Closed reports whether Close was called.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Ramp builds n samples starting at start and increasing by one.
func Ramp(start, n int) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(start + i)
	}
	return out
}
