package driver

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/petems/wizard-sound/internal/audio"
)

const portAudioFramesPerBuffer = 1024

type portAudioDriver struct {
	mu     sync.Mutex
	closed bool
}

// NewPortAudio initializes PortAudio. Close must be called to terminate it.
func NewPortAudio() (audio.Driver, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioDriver{}, nil
}

func (p *portAudioDriver) Name() string { return BackendPortAudio }

func (p *portAudioDriver) Devices() ([]audio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]audio.DeviceInfo, 0, len(devices))
	for i, d := range devices {
		result = append(result, audio.DeviceInfo{
			Index:             i,
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
		})
	}
	return result, nil
}

func (p *portAudioDriver) DefaultInputIndex() (int, error) {
	def, err := portaudio.DefaultInputDevice()
	if err != nil {
		return -1, fmt.Errorf("failed to get default input device: %w", err)
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return -1, fmt.Errorf("failed to list devices: %w", err)
	}
	if i := defaultInputIndex(devices, def); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("default input device %q not in device list", def.Name)
}

// defaultInputIndex locates def in devices. Identity wins; a name match only
// counts for devices that can record, since hosts often expose an input and an
// output under the same name.
func defaultInputIndex(devices []*portaudio.DeviceInfo, def *portaudio.DeviceInfo) int {
	if def == nil {
		return -1
	}
	for i, d := range devices {
		if d == def {
			return i
		}
	}
	for i, d := range devices {
		if d != nil && d.MaxInputChannels > 0 && d.Name == def.Name {
			return i
		}
	}
	return -1
}

func (p *portAudioDriver) OpenInput(dev audio.InputDevice, sampleRate int, onData func(in []int16)) (audio.Stream, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	if dev.ID < 0 || dev.ID >= len(devices) {
		return nil, fmt.Errorf("device not found: %s", dev.Label())
	}
	device := devices[dev.ID]
	if device.MaxInputChannels <= 0 {
		return nil, fmt.Errorf("device %q has no input channels", device.Name)
	}

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: portAudioFramesPerBuffer,
	}, func(in []int16) {
		onData(in)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	return stream, nil
}

func (p *portAudioDriver) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate PortAudio: %w", err)
	}
	return nil
}
