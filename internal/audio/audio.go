// Package audio describes input devices and streams independently of any
// native backend; the cgo drivers live in audio/driver.
package audio

import (
	"errors"
	"fmt"
)

// DefaultSampleRate is used when a device does not report a usable rate.
const DefaultSampleRate = 44100

var (
	// ErrDeviceUnavailable covers enumeration failures and devices that cannot be opened.
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
	// ErrNoInputDevices is returned when enumeration worked but found nothing to record from.
	ErrNoInputDevices = fmt.Errorf("%w: no input devices found", ErrDeviceUnavailable)
)

// DeviceInfo is what a backend reports for one host device.
type DeviceInfo struct {
	Index             int
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
}

// InputDevice is an immutable snapshot of an input device taken at enumeration time.
type InputDevice struct {
	ID                int
	Name              string
	DefaultSampleRate int
	Default           bool
}

// Label renders the device the way the device selector shows it.
func (d InputDevice) Label() string {
	return fmt.Sprintf("%d: %s", d.ID, d.Name)
}

// Backend queries the platform audio subsystem.
type Backend interface {
	Devices() ([]DeviceInfo, error)
	DefaultInputIndex() (int, error)
}

// Stream is an open input stream. Stop halts callbacks; Close releases it.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// StreamOpener opens a mono 16-bit input stream that invokes onData for every
// buffer the audio subsystem delivers. onData runs on the audio thread and must
// not retain in after returning.
type StreamOpener interface {
	OpenInput(dev InputDevice, sampleRate int, onData func(in []int16)) (Stream, error)
}

// Driver is a complete audio backend.
type Driver interface {
	Backend
	StreamOpener
	Name() string
	Close() error
}

// ListInputDevices queries the backend once and keeps devices that report at
// least one input channel. On failure it returns an empty slice together with an
// error wrapping ErrDeviceUnavailable so callers can disable recording.
func ListInputDevices(b Backend) ([]InputDevice, error) {
	result := []InputDevice{}
	if b == nil {
		return result, fmt.Errorf("%w: no audio backend", ErrDeviceUnavailable)
	}

	infos, err := b.Devices()
	if err != nil {
		return result, fmt.Errorf("%w: failed to enumerate devices: %v", ErrDeviceUnavailable, err)
	}

	defaultIndex, err := b.DefaultInputIndex()
	if err != nil {
		defaultIndex = -1
	}

	for _, d := range infos {
		if d.MaxInputChannels <= 0 {
			continue
		}
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("Device %d", d.Index)
		}
		result = append(result, InputDevice{
			ID:                d.Index,
			Name:              name,
			DefaultSampleRate: int(d.DefaultSampleRate),
			Default:           d.Index == defaultIndex,
		})
	}

	if len(result) == 0 {
		return result, ErrNoInputDevices
	}
	return result, nil
}

// DefaultInput resolves the platform default input against an enumerated list.
// It falls back to the first device when the platform query fails or matches
// nothing, and reports false only for an empty list.
func DefaultInput(b Backend, devices []InputDevice) (InputDevice, bool) {
	if len(devices) == 0 {
		return InputDevice{}, false
	}
	if b != nil {
		if idx, err := b.DefaultInputIndex(); err == nil {
			if d, ok := FindDevice(devices, idx); ok {
				return d, true
			}
		}
	}
	return devices[0], true
}

// FindDevice looks up a device by ID.
func FindDevice(devices []InputDevice, id int) (InputDevice, bool) {
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return InputDevice{}, false
}

// SampleRateFor picks the rate a stream on dev should use.
func SampleRateFor(dev InputDevice, requested int) int {
	switch {
	case requested > 0:
		return requested
	case dev.DefaultSampleRate > 0:
		return dev.DefaultSampleRate
	default:
		return DefaultSampleRate
	}
}
