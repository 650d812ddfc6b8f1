package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/petems/wizard-sound/internal/audio"
	"github.com/petems/wizard-sound/internal/audio/audiotest"
	"github.com/petems/wizard-sound/internal/config"
	"github.com/petems/wizard-sound/internal/wavfile"
	"github.com/rs/zerolog"
)

// Mock implementations for testing
type mockPlayer struct {
	mu     sync.Mutex
	played []string
	err    error
	closed bool
}

func (m *mockPlayer) Play(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.played = append(m.played, path)
	return nil
}

func (m *mockPlayer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type mockSaver struct {
	err   error
	calls int
}

func (m *mockSaver) Save(samples []int16, sampleRate int, requested string, overwrite bool) (string, error) {
	m.calls++
	return "", m.err
}

type mockStatus struct {
	mu        sync.Mutex
	recording int
	saved     []string
	idle      []string
	errors    []string
	failed    []string
}

func (m *mockStatus) SetIdle(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = append(m.idle, status)
}

func (m *mockStatus) SetRecording() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recording++
}

func (m *mockStatus) SetSaved(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, path)
}

func (m *mockStatus) SetError(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, status)
}

func (m *mockStatus) SetSaveFailed(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, status)
}

type fixture struct {
	app     *App
	backend *audiotest.Backend
	player  *mockPlayer
	status  *mockStatus
	cfg     *config.Config
	dir     string
}

func newFixture(t *testing.T, mode string) *fixture {
	t.Helper()

	root := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(root, "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	cfg.Mode = mode
	cfg.Output.Dir = filepath.Join(root, "site")

	backend := audiotest.NewBackend(
		audiotest.Mic(0, "Built-in Microphone", 44100),
		audiotest.Mic(2, "USB Mic", 48000),
	)
	devices, err := audio.ListInputDevices(backend)
	if err != nil {
		t.Fatalf("ListInputDevices failed: %v", err)
	}
	def, _ := audio.DefaultInput(backend, devices)

	f := &fixture{
		backend: backend,
		player:  &mockPlayer{},
		status:  &mockStatus{},
		cfg:     cfg,
		dir:     cfg.OutputDir(),
	}
	f.app = New(Config{
		Devices:       devices,
		DefaultDevice: def,
		Opener:        backend,
		Saver:         wavfile.NewWriter(f.dir, zerolog.Nop()),
		Player:        f.player,
		Config:        cfg,
		Logger:        zerolog.Nop(),
		StatusUpdater: f.status,
	})
	return f
}

func (f *fixture) deliver(t *testing.T, bufs ...[]int16) {
	t.Helper()
	stream := f.backend.Last()
	if stream == nil {
		t.Fatal("no stream was opened")
	}
	for _, b := range bufs {
		if err := stream.Deliver(b); err != nil {
			t.Fatalf("Deliver failed: %v", err)
		}
	}
}

func TestRecordStopAndSave(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if err := f.app.Record(); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if !f.app.IsRecording() {
		t.Fatal("expected to be recording")
	}
	f.deliver(t, audiotest.Ramp(0, 4410), audiotest.Ramp(4410, 4410), audiotest.Ramp(8820, 4410))

	out, err := f.app.StopAndSave()
	if err != nil {
		t.Fatalf("StopAndSave failed: %v", err)
	}
	if f.app.IsRecording() {
		t.Error("expected recording to have stopped")
	}

	want := filepath.Join(f.dir, "wizard.wav")
	if out.Path != want {
		t.Errorf("expected %s, got %s", want, out.Path)
	}
	if f.app.LastSaved() != want {
		t.Errorf("expected LastSaved %s, got %s", want, f.app.LastSaved())
	}

	rec, err := wavfile.Read(out.Path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if rec.SampleRate != 44100 || rec.Channels != 1 || rec.BitDepth != 16 {
		t.Errorf("unexpected format: %+v", rec.Info)
	}
	if len(rec.Samples) != 13230 {
		t.Fatalf("expected 13230 samples, got %d", len(rec.Samples))
	}
	for i, s := range rec.Samples {
		if s != int16(i) {
			t.Fatalf("sample %d = %d, want %d", i, s, i)
		}
	}

	if len(f.status.saved) != 1 || f.status.saved[0] != want {
		t.Errorf("expected SetSaved(%s), got %v", want, f.status.saved)
	}
	if f.status.recording != 1 {
		t.Errorf("expected one SetRecording call, got %d", f.status.recording)
	}
}

func TestStopWithoutAudioWritesNothing(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if err := f.app.Record(); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	_, err := f.app.StopAndSave()
	if !errors.Is(err, ErrCaptureEmpty) {
		t.Fatalf("expected ErrCaptureEmpty, got %v", err)
	}

	if entries, _ := os.ReadDir(f.dir); len(entries) != 0 {
		t.Errorf("expected no files written, found %d", len(entries))
	}
	if f.app.LastSaved() != "" {
		t.Errorf("expected no last saved path, got %s", f.app.LastSaved())
	}
	if err := f.app.Listen(); !errors.Is(err, ErrNothingSaved) {
		t.Errorf("expected ErrNothingSaved from Listen, got %v", err)
	}
}

func TestStopWhenIdle(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if _, err := f.app.StopAndSave(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("expected ErrNotRecording, got %v", err)
	}
}

func TestRecordIsNoOpWhileRecording(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	if err := f.app.Record(); err != nil {
		t.Fatalf("second Record failed: %v", err)
	}
	if f.backend.Opened() != 1 {
		t.Errorf("expected a single stream, got %d", f.backend.Opened())
	}
}

func TestRecordWithoutDevices(t *testing.T) {
	root := t.TempDir()
	cfg, err := config.LoadFrom(filepath.Join(root, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	backend := audiotest.NewBackend()
	devices, enumErr := audio.ListInputDevices(backend)

	status := &mockStatus{}
	a := New(Config{
		Devices:        devices,
		EnumerationErr: enumErr,
		Opener:         backend,
		Saver:          &mockSaver{},
		Player:         &mockPlayer{},
		Config:         cfg,
		Logger:         zerolog.Nop(),
		StatusUpdater:  status,
	})

	if err := a.Record(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if a.IsRecording() {
		t.Error("should not be recording")
	}
	if len(status.errors) != 1 {
		t.Errorf("expected an error status, got %v", status.errors)
	}
	if _, err := a.Devices(); !errors.Is(err, audio.ErrNoInputDevices) {
		t.Errorf("expected enumeration error to be kept, got %v", err)
	}
}

func TestRecordOpenFailure(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)
	f.backend.OpenErr = errors.New("device busy")

	if err := f.app.Record(); !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if f.app.IsRecording() {
		t.Error("should not be recording after a failed open")
	}

	f.backend.OpenErr = nil
	if err := f.app.Record(); err != nil {
		t.Fatalf("Record should succeed once the device is free: %v", err)
	}
}

func TestSaveFailureKeepsCaptureForRetry(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)
	writer := f.app.saver
	failing := &mockSaver{err: errors.New("disk full")}
	f.app.saver = failing

	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	f.deliver(t, audiotest.Ramp(0, 100))

	out, err := f.app.StopAndSave()
	if !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
	if len(out.Result.Samples) != 100 {
		t.Errorf("expected the captured samples in the outcome, got %d", len(out.Result.Samples))
	}
	if f.app.LastSaved() != "" {
		t.Error("nothing should be marked as saved")
	}
	if len(f.status.failed) != 1 || !strings.Contains(f.status.failed[0], "disk full") {
		t.Errorf("expected one save-failed update naming the cause, got %v", f.status.failed)
	}

	f.app.saver = writer
	out, err = f.app.RetrySave()
	if err != nil {
		t.Fatalf("RetrySave failed: %v", err)
	}
	info, err := wavfile.Stat(out.Path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.SampleCount != 100 {
		t.Errorf("expected 100 samples on retry, got %d", info.SampleCount)
	}
	if f.app.LastSaved() != out.Path {
		t.Errorf("expected last saved %s after retry, got %s", out.Path, f.app.LastSaved())
	}
	if len(f.status.saved) != 1 || f.status.saved[0] != out.Path {
		t.Errorf("expected the retry to report the saved path, got %v", f.status.saved)
	}
}

func TestRetrySaveWhileRecording(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)
	f.app.saver = &mockSaver{err: errors.New("read-only file system")}

	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	f.deliver(t, audiotest.Ramp(0, 10))
	if _, err := f.app.StopAndSave(); !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}

	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	if _, err := f.app.RetrySave(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while recording, got %v", err)
	}
}

func TestRetrySaveWithoutCapture(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if _, err := f.app.RetrySave(); !errors.Is(err, ErrNothingSaved) {
		t.Errorf("expected ErrNothingSaved, got %v", err)
	}
}

func TestOverwriteOffProducesSuffixedNames(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)
	if err := f.app.SetOverwrite(false); err != nil {
		t.Fatal(err)
	}
	if _, err := f.app.SetOutputName("My Wizard!! Spell"); err != nil {
		t.Fatal(err)
	}

	var paths []string
	for i := 0; i < 3; i++ {
		if err := f.app.Record(); err != nil {
			t.Fatal(err)
		}
		f.deliver(t, audiotest.Ramp(0, 10))
		out, err := f.app.StopAndSave()
		if err != nil {
			t.Fatalf("StopAndSave %d failed: %v", i, err)
		}
		paths = append(paths, filepath.Base(out.Path))
	}

	want := []string{"My_Wizard_Spell.wav", "My_Wizard_Spell_2.wav", "My_Wizard_Spell_3.wav"}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("recording %d saved as %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestListen(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	f.deliver(t, audiotest.Ramp(0, 10))

	if err := f.app.Listen(); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while recording, got %v", err)
	}

	out, err := f.app.StopAndSave()
	if err != nil {
		t.Fatal(err)
	}
	if err := f.app.Listen(); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	if len(f.player.played) != 1 || f.player.played[0] != out.Path {
		t.Errorf("expected %s to be played, got %v", out.Path, f.player.played)
	}

	f.player.err = errors.New("no output device")
	if err := f.app.Listen(); !errors.Is(err, ErrPlaybackFailure) {
		t.Errorf("expected ErrPlaybackFailure, got %v", err)
	}
}

func TestNewRecordingClearsLastSaved(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	f.deliver(t, audiotest.Ramp(0, 10))
	if _, err := f.app.StopAndSave(); err != nil {
		t.Fatal(err)
	}

	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	if f.app.LastSaved() != "" {
		t.Error("starting a new recording should clear the last saved path")
	}
}

func TestToggleModeKeyPress(t *testing.T) {
	f := newFixture(t, config.ModeToggle)

	// Initially not recording
	if f.app.IsRecording() {
		t.Error("App should not be recording initially")
	}

	// First key press - should start recording
	f.app.OnHotkey(true)
	if !f.app.IsRecording() {
		t.Error("App should be recording after first key press")
	}
	f.deliver(t, audiotest.Ramp(0, 441))

	// Key release - should NOT stop recording in Toggle mode
	f.app.OnHotkey(false)
	if !f.app.IsRecording() {
		t.Error("App should still be recording after key release in Toggle mode")
	}

	// Second key press - should stop and save
	f.app.OnHotkey(true)
	if f.app.IsRecording() {
		t.Error("App should have stopped recording after second key press")
	}
	if f.app.LastSaved() == "" {
		t.Error("expected the recording to be saved")
	}
}

func TestPushToTalkModeKeyPress(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	f.app.OnHotkey(true)
	if !f.app.IsRecording() {
		t.Error("App should be recording after key press")
	}
	f.deliver(t, audiotest.Ramp(0, 441))

	// Key release - should stop recording in PushToTalk mode
	f.app.OnHotkey(false)
	if f.app.IsRecording() {
		t.Error("App should have stopped recording after key release")
	}
	if f.app.LastSaved() == "" {
		t.Error("expected the recording to be saved")
	}
}

func TestToggleModeIgnoresKeyRelease(t *testing.T) {
	f := newFixture(t, config.ModeToggle)

	// Key release when not recording - should do nothing
	f.app.OnHotkey(false)
	if f.app.IsRecording() {
		t.Error("App should not start recording on key release")
	}

	f.app.OnHotkey(true)
	f.app.OnHotkey(false)
	f.app.OnHotkey(false)
	f.app.OnHotkey(false)
	if !f.app.IsRecording() {
		t.Error("App should still be recording after multiple key releases in Toggle mode")
	}
}

func TestSelectDevice(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	dev, ok := f.app.SelectedDevice()
	if !ok || dev.ID != 0 {
		t.Fatalf("expected default device 0, got %+v (ok=%v)", dev, ok)
	}

	if err := f.app.SelectDevice(2); err != nil {
		t.Fatalf("SelectDevice failed: %v", err)
	}
	if dev, _ := f.app.SelectedDevice(); dev.ID != 2 {
		t.Errorf("expected device 2, got %d", dev.ID)
	}

	loaded, err := config.LoadFrom(f.cfg.Path())
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Audio.DeviceID != 2 {
		t.Errorf("expected device choice to persist, got %d", loaded.Audio.DeviceID)
	}

	if err := f.app.SelectDevice(7); !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("expected ErrDeviceUnavailable for unknown device, got %v", err)
	}

	// The stream is opened at the selected device's native rate.
	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	if s := f.backend.Last(); s.Device.ID != 2 || s.SampleRate != 48000 {
		t.Errorf("expected stream on device 2 at 48000 Hz, got %d at %d", s.Device.ID, s.SampleRate)
	}
	if err := f.app.SelectDevice(0); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while recording, got %v", err)
	}
}

func TestStaleDeviceFallsBackToDefault(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)
	f.cfg.Audio.DeviceID = 9

	dev, ok := f.app.SelectedDevice()
	if !ok || dev.ID != 0 {
		t.Errorf("expected fallback to device 0, got %+v", dev)
	}
}

func TestSetMode(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if err := f.app.SetMode(config.ModeToggle); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if f.app.Mode() != config.ModeToggle {
		t.Errorf("expected Toggle, got %s", f.app.Mode())
	}
	if err := f.app.SetMode("Hold"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}

func TestSetOutputName(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	name, err := f.app.SetOutputName("  ")
	if err != nil {
		t.Fatal(err)
	}
	if name != "wizard.wav" {
		t.Errorf("expected blank name to map to wizard.wav, got %s", name)
	}
}

func TestShutdownSavesInFlightRecording(t *testing.T) {
	f := newFixture(t, config.ModePushToTalk)

	if err := f.app.Record(); err != nil {
		t.Fatal(err)
	}
	f.deliver(t, audiotest.Ramp(0, 10))

	if err := f.app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if f.app.LastSaved() == "" {
		t.Error("expected the in-flight recording to be saved")
	}
	if !f.player.closed {
		t.Error("expected the player to be closed")
	}
	if !f.backend.Last().Closed() {
		t.Error("expected the stream to be closed")
	}
}
