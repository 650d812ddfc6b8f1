package driver

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/petems/wizard-sound/internal/audio"
)

// miniaudio converts to the requested rate itself, so every device is
// advertised at the default rate.
type miniaudioDriver struct {
	ctx *malgo.AllocatedContext

	mu      sync.Mutex
	devices []malgo.DeviceInfo
}

// NewMiniaudio initializes a miniaudio context through malgo.
func NewMiniaudio() (audio.Driver, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize miniaudio: %w", err)
	}
	return &miniaudioDriver{ctx: ctx}, nil
}

func (m *miniaudioDriver) Name() string { return BackendMiniaudio }

func (m *miniaudioDriver) capture() ([]malgo.DeviceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.devices != nil {
		return m.devices, nil
	}
	infos, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to list capture devices: %w", err)
	}
	m.devices = infos
	return infos, nil
}

func (m *miniaudioDriver) Devices() ([]audio.DeviceInfo, error) {
	infos, err := m.capture()
	if err != nil {
		return nil, err
	}
	result := make([]audio.DeviceInfo, 0, len(infos))
	for i, info := range infos {
		result = append(result, audio.DeviceInfo{
			Index:             i,
			Name:              info.Name(),
			MaxInputChannels:  1,
			DefaultSampleRate: audio.DefaultSampleRate,
		})
	}
	return result, nil
}

func (m *miniaudioDriver) DefaultInputIndex() (int, error) {
	infos, err := m.capture()
	if err != nil {
		return -1, err
	}
	for i, info := range infos {
		if info.IsDefault != 0 {
			return i, nil
		}
	}
	return -1, fmt.Errorf("no default capture device reported")
}

func (m *miniaudioDriver) OpenInput(dev audio.InputDevice, sampleRate int, onData func(in []int16)) (audio.Stream, error) {
	infos, err := m.capture()
	if err != nil {
		return nil, err
	}
	if dev.ID < 0 || dev.ID >= len(infos) {
		return nil, fmt.Errorf("device not found: %s", dev.Label())
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.DeviceID = infos[dev.ID].ID.Pointer()
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = 1
	cfg.SampleRate = uint32(sampleRate)
	cfg.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, in []byte, _ uint32) {
			onData(decodeS16LE(in))
		},
	}

	device, err := malgo.InitDevice(m.ctx.Context, cfg, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture device: %w", err)
	}
	return &miniaudioStream{device: device}, nil
}

func (m *miniaudioDriver) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return nil
	}
	err := m.ctx.Uninit()
	m.ctx.Free()
	m.ctx = nil
	if err != nil {
		return fmt.Errorf("failed to release miniaudio context: %w", err)
	}
	return nil
}

type miniaudioStream struct {
	device *malgo.Device
}

func (s *miniaudioStream) Start() error {
	return s.device.Start()
}

func (s *miniaudioStream) Stop() error {
	return s.device.Stop()
}

func (s *miniaudioStream) Close() error {
	s.device.Uninit()
	return nil
}

// decodeS16LE converts little-endian 16-bit PCM bytes into samples.
// A trailing odd byte is ignored.
func decodeS16LE(in []byte) []int16 {
	out := make([]int16, len(in)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(in[i*2:]))
	}
	return out
}
