package audio

import (
	"errors"
	"testing"
)

type fakeBackend struct {
	devices    []DeviceInfo
	devicesErr error
	def        int
	defErr     error
}

func (f *fakeBackend) Devices() ([]DeviceInfo, error) {
	return f.devices, f.devicesErr
}

func (f *fakeBackend) DefaultInputIndex() (int, error) {
	return f.def, f.defErr
}

func hostDevices() []DeviceInfo {
	return []DeviceInfo{
		{Index: 0, Name: "Speakers", MaxInputChannels: 0, DefaultSampleRate: 48000},
		{Index: 1, Name: "USB Mic", MaxInputChannels: 1, DefaultSampleRate: 44100},
		{Index: 2, Name: "Line In", MaxInputChannels: 2, DefaultSampleRate: 48000},
	}
}

func TestListInputDevicesFiltersOutputOnly(t *testing.T) {
	b := &fakeBackend{devices: hostDevices(), def: 2}

	got, err := ListInputDevices(b)
	if err != nil {
		t.Fatalf("ListInputDevices failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 input devices, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Name != "USB Mic" || got[0].DefaultSampleRate != 44100 {
		t.Errorf("unexpected first device: %+v", got[0])
	}
	if got[0].Default {
		t.Error("USB Mic should not be marked default")
	}
	if !got[1].Default {
		t.Error("Line In should be marked default")
	}
}

func TestListInputDevicesEnumerationFailure(t *testing.T) {
	b := &fakeBackend{devicesErr: errors.New("no host api")}

	got, err := ListInputDevices(b)
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestListInputDevicesNoInputs(t *testing.T) {
	b := &fakeBackend{devices: hostDevices()[:1]}

	got, err := ListInputDevices(b)
	if !errors.Is(err, ErrNoInputDevices) || !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrNoInputDevices, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no devices, got %d", len(got))
	}
}

func TestListInputDevicesNilBackend(t *testing.T) {
	got, err := ListInputDevices(nil)
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no devices, got %d", len(got))
	}
}

func TestListInputDevicesUnnamed(t *testing.T) {
	b := &fakeBackend{devices: []DeviceInfo{{Index: 4, MaxInputChannels: 1}}}

	got, err := ListInputDevices(b)
	if err != nil {
		t.Fatalf("ListInputDevices failed: %v", err)
	}
	if got[0].Name != "Device 4" {
		t.Errorf("expected placeholder name, got %q", got[0].Name)
	}
}

func TestDefaultInput(t *testing.T) {
	devices := []InputDevice{
		{ID: 1, Name: "USB Mic"},
		{ID: 2, Name: "Line In"},
	}

	tests := []struct {
		name    string
		backend Backend
		devices []InputDevice
		wantID  int
		wantOK  bool
	}{
		{"matches platform default", &fakeBackend{def: 2}, devices, 2, true},
		{"platform query fails", &fakeBackend{defErr: errors.New("boom")}, devices, 1, true},
		{"default not in list", &fakeBackend{def: 7}, devices, 1, true},
		{"nil backend", nil, devices, 1, true},
		{"empty list", &fakeBackend{def: 2}, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultInput(tt.backend, tt.devices)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && got.ID != tt.wantID {
				t.Errorf("expected device %d, got %d", tt.wantID, got.ID)
			}
		})
	}
}

func TestSampleRateFor(t *testing.T) {
	tests := []struct {
		name      string
		dev       InputDevice
		requested int
		want      int
	}{
		{"explicit rate wins", InputDevice{DefaultSampleRate: 48000}, 22050, 22050},
		{"device default", InputDevice{DefaultSampleRate: 48000}, 0, 48000},
		{"fallback", InputDevice{}, 0, DefaultSampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleRateFor(tt.dev, tt.requested); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	d := InputDevice{ID: 3, Name: "Blue Yeti"}
	if got := d.Label(); got != "3: Blue Yeti" {
		t.Errorf("unexpected label %q", got)
	}
}
