package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/petems/wizard-sound/internal/audio"
	"github.com/petems/wizard-sound/internal/capture"
	"github.com/petems/wizard-sound/internal/config"
	"github.com/petems/wizard-sound/internal/playback"
	"github.com/petems/wizard-sound/internal/wavfile"
	"github.com/rs/zerolog"
)

var (
	// ErrDeviceUnavailable: no device to record from, or it failed to open.
	ErrDeviceUnavailable = audio.ErrDeviceUnavailable
	// ErrCaptureEmpty: recording stopped before any audio arrived; nothing was written.
	ErrCaptureEmpty = capture.ErrEmptyCapture
	// ErrWriteFailure: the WAV could not be written. The audio is kept for RetrySave.
	ErrWriteFailure = errors.New("failed to save recording")
	// ErrPlaybackFailure: the saved file could not be handed to the player.
	ErrPlaybackFailure = playback.ErrPlayback

	ErrNotRecording = errors.New("not recording")
	ErrBusy         = errors.New("cannot do that while recording")
	ErrNothingSaved = errors.New("nothing has been saved yet")
)

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetIdle(status string)
	SetRecording()
	SetSaved(path string)
	SetError(status string)
	// SetSaveFailed reports a failed write; RetrySave can save the audio again.
	SetSaveFailed(status string)
}

// Saver persists a finished recording and returns the path written.
type Saver interface {
	Save(samples []int16, sampleRate int, requested string, overwrite bool) (string, error)
}

type Config struct {
	// Devices is the input device snapshot taken at startup.
	Devices []audio.InputDevice
	// DefaultDevice is used when the configured device is not in Devices.
	DefaultDevice audio.InputDevice
	// EnumerationErr is the error, if any, from listing Devices.
	EnumerationErr error

	Opener        audio.StreamOpener
	Saver         Saver
	Player        playback.Player
	Config        *config.Config
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil
	Clock         func() time.Time
}

// Outcome describes a finished Stop & Save.
type Outcome struct {
	Path   string
	Result capture.Result
}

type App struct {
	devices    []audio.InputDevice
	defaultDev audio.InputDevice
	enumErr    error
	opener     audio.StreamOpener
	saver      Saver
	player     playback.Player
	cfg        *config.Config
	log        zerolog.Logger
	status     StatusUpdater
	now        func() time.Time

	mu          sync.Mutex
	session     *capture.Session
	lastCapture *capture.Result
	lastSaved   string
}

func New(cfg Config) *App {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &App{
		devices:    cfg.Devices,
		defaultDev: cfg.DefaultDevice,
		enumErr:    cfg.EnumerationErr,
		opener:     cfg.Opener,
		saver:      cfg.Saver,
		player:     cfg.Player,
		cfg:        cfg.Config,
		log:        cfg.Logger,
		status:     cfg.StatusUpdater,
		now:        now,
	}
}

// SetStatusUpdater attaches the UI after construction.
func (a *App) SetStatusUpdater(s StatusUpdater) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = s
}

// Record starts a new recording on the selected device. It is a no-op while
// already recording.
func (a *App) Record() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startRecordingLocked()
}

func (a *App) startRecordingLocked() error {
	if a.recordingLocked() {
		return nil
	}

	dev, ok := a.selectedLocked()
	if !ok {
		err := fmt.Errorf("%w: no audio input device is available", ErrDeviceUnavailable)
		a.log.Error().Err(err).Msg("Cannot record")
		a.setError("No audio input device is available.")
		return err
	}

	session := capture.New(a.opener, capture.WithLogger(a.log), capture.WithClock(a.now))
	if err := session.Start(dev, a.cfg.Audio.SampleRate); err != nil {
		a.log.Error().Err(err).Str("device", dev.Label()).Msg("Failed to start recording")
		a.setError(fmt.Sprintf("Could not start recording: %v", err))
		return err
	}

	a.session = session
	a.lastCapture = nil
	a.lastSaved = ""

	if a.status != nil {
		a.status.SetRecording()
	}
	return nil
}

// StopAndSave stops the current recording and writes it out.
func (a *App) StopAndSave() (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopAndSaveLocked()
}

func (a *App) stopAndSaveLocked() (Outcome, error) {
	if !a.recordingLocked() {
		return Outcome{}, ErrNotRecording
	}

	res, err := a.session.Stop()
	if errors.Is(err, capture.ErrEmptyCapture) {
		a.log.Info().Dur("elapsed", res.Elapsed).Msg("No audio captured")
		a.setIdle("Stopped. No audio captured.")
		return Outcome{Result: res}, err
	}
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to stop recording")
		a.setError(fmt.Sprintf("Stop failed: %v", err))
		return Outcome{Result: res}, err
	}

	a.lastCapture = &res
	return a.saveLocked(res)
}

func (a *App) saveLocked(res capture.Result) (Outcome, error) {
	path, err := a.saver.Save(res.Samples, res.SampleRate, a.cfg.Output.Name, a.cfg.Output.Overwrite)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrWriteFailure, err)
		a.log.Error().Err(err).Str("name", a.cfg.Output.Name).Msg("Save failed")
		if a.status != nil {
			a.status.SetSaveFailed(fmt.Sprintf("Stopped. Save failed: %v", err))
		}
		return Outcome{Result: res}, err
	}

	a.lastSaved = path
	a.log.Info().
		Str("path", path).
		Dur("elapsed", res.Elapsed).
		Int("samples", len(res.Samples)).
		Msg("Recording saved")

	if a.status != nil {
		a.status.SetSaved(path)
		a.status.SetIdle(fmt.Sprintf("Saved WAV (%.1fs).", res.Elapsed.Seconds()))
	}
	return Outcome{Path: path, Result: res}, nil
}

// RetrySave writes the most recent capture again, using the current name and
// overwrite settings.
func (a *App) RetrySave() (Outcome, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.recordingLocked() {
		return Outcome{}, ErrBusy
	}
	if a.lastCapture == nil {
		return Outcome{}, ErrNothingSaved
	}
	return a.saveLocked(*a.lastCapture)
}

// Listen plays the last saved file through the configured player.
func (a *App) Listen() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.recordingLocked() {
		return ErrBusy
	}
	if a.lastSaved == "" {
		return ErrNothingSaved
	}

	if err := a.player.Play(a.lastSaved); err != nil {
		if !errors.Is(err, ErrPlaybackFailure) {
			err = fmt.Errorf("%w: %w", ErrPlaybackFailure, err)
		}
		a.log.Error().Err(err).Str("path", a.lastSaved).Msg("Playback failed")
		a.setError(fmt.Sprintf("Playback failed: %v", err))
		return err
	}

	a.setIdle("Playing…")
	return nil
}

// OnHotkey drives recording from the global hotkey.
func (a *App) OnHotkey(pressed bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	switch a.cfg.Mode {
	case config.ModeToggle:
		if !pressed {
			return
		}
		if a.recordingLocked() {
			_, err = a.stopAndSaveLocked()
		} else {
			err = a.startRecordingLocked()
		}
	default:
		if pressed {
			err = a.startRecordingLocked()
		} else if a.recordingLocked() {
			_, err = a.stopAndSaveLocked()
		}
	}

	if err != nil && !errors.Is(err, ErrCaptureEmpty) {
		a.log.Warn().Err(err).Bool("pressed", pressed).Msg("Hotkey action failed")
	}
}

func (a *App) recordingLocked() bool {
	return a.session != nil && a.session.State() == capture.Recording
}

func (a *App) selectedLocked() (audio.InputDevice, bool) {
	if len(a.devices) == 0 {
		return audio.InputDevice{}, false
	}
	if d, ok := audio.FindDevice(a.devices, a.cfg.Audio.DeviceID); ok {
		return d, true
	}
	if d, ok := audio.FindDevice(a.devices, a.defaultDev.ID); ok {
		return d, true
	}
	return a.devices[0], true
}

func (a *App) setIdle(msg string) {
	if a.status != nil {
		a.status.SetIdle(msg)
	}
}

func (a *App) setError(msg string) {
	if a.status != nil {
		a.status.SetError(msg)
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	if a.recordingLocked() {
		if _, err := a.stopAndSaveLocked(); err != nil && !errors.Is(err, ErrCaptureEmpty) {
			errs = append(errs, err)
		}
	}
	if a.player != nil {
		if err := a.player.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tray actions

func (a *App) SetMode(mode string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if mode != config.ModePushToTalk && mode != config.ModeToggle {
		return fmt.Errorf("invalid mode: %s", mode)
	}
	a.cfg.Mode = mode
	return a.cfg.Save()
}

func (a *App) Mode() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Mode
}

func (a *App) SelectDevice(id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.recordingLocked() {
		return fmt.Errorf("cannot change device: %w", ErrBusy)
	}
	d, ok := audio.FindDevice(a.devices, id)
	if !ok {
		return fmt.Errorf("%w: unknown device %d", ErrDeviceUnavailable, id)
	}

	a.cfg.Audio.DeviceID = id
	a.log.Info().Str("device", d.Label()).Msg("Changed audio device")
	return a.cfg.Save()
}

// SetOutputName stores the requested name and returns the file name it maps to.
func (a *App) SetOutputName(name string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg.Output.Name = name
	return wavfile.FileName(name), a.cfg.Save()
}

func (a *App) OutputName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Output.Name
}

func (a *App) SetOverwrite(overwrite bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cfg.Output.Overwrite = overwrite
	return a.cfg.Save()
}

func (a *App) Overwrite() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.Output.Overwrite
}

func (a *App) OutputDir() string {
	return a.cfg.OutputDir()
}

func (a *App) IsRecording() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recordingLocked()
}

// Elapsed is the wall-clock length of the current or last recording.
func (a *App) Elapsed() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return 0
	}
	return a.session.Elapsed()
}

func (a *App) LastSaved() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSaved
}

// Devices returns the startup device snapshot and any enumeration error.
func (a *App) Devices() ([]audio.InputDevice, error) {
	return a.devices, a.enumErr
}

func (a *App) SelectedDevice() (audio.InputDevice, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selectedLocked()
}
