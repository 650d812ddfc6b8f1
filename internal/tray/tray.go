package tray

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/getlantern/systray"
	"github.com/ncruces/zenity"
	"github.com/petems/wizard-sound/internal/app"
	"github.com/petems/wizard-sound/internal/audio"
	"github.com/petems/wizard-sound/internal/config"
	"github.com/petems/wizard-sound/internal/logging"
	"github.com/petems/wizard-sound/internal/share"
	"github.com/petems/wizard-sound/internal/wavfile"
	"github.com/rs/zerolog"
)

const title = "Wizard Sound Maker"

type UI struct {
	app     *app.App
	share   share.Sharer
	version string
	commit  string
	log     zerolog.Logger

	// Menu items
	mStatus    *systray.MenuItem
	mLastSaved *systray.MenuItem
	mRecord    *systray.MenuItem
	mStop      *systray.MenuItem
	mListen    *systray.MenuItem
	mRetry     *systray.MenuItem
	mDevices   *systray.MenuItem
	mName      *systray.MenuItem
	mOverwrite *systray.MenuItem
	mMode      *systray.MenuItem
	mOpenDir   *systray.MenuItem

	mu        sync.Mutex
	ready     bool
	hasDevice bool
	recording bool
	// saveFailed is set while the last capture could not be written.
	saveFailed bool
	lastSaved  string
	quit       chan struct{}
}

// Status update methods for the app to call. They are invoked while the app
// holds its lock, so they must not call back into it.
func (u *UI) SetIdle(status string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.recording = false
	u.render("idle", status)
}

func (u *UI) SetRecording() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.recording = true
	u.saveFailed = false
	u.lastSaved = ""
	u.render("recording", recordingStatus(0))
}

func (u *UI) SetSaved(path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.lastSaved = path
	u.saveFailed = false
	u.render("saved", fmt.Sprintf("Saved %s", filepath.Base(path)))
}

func (u *UI) SetError(status string) {
	u.mu.Lock()
	u.recording = false
	u.render("error", status)
	u.mu.Unlock()

	go u.showError(status)
}

func (u *UI) SetSaveFailed(status string) {
	u.mu.Lock()
	u.recording = false
	u.saveFailed = true
	u.render("error", status)
	ready := u.ready
	u.mu.Unlock()

	if ready {
		go u.showError(status + "\nUse Retry save once the problem is fixed.")
	}
}

func New(application *app.App, sharer share.Sharer, version, commit string) *UI {
	return &UI{
		app:     application,
		share:   sharer,
		version: version,
		commit:  commit,
		log:     logging.New(),
		quit:    make(chan struct{}),
	}
}

// SetLogger replaces the default logger.
func (u *UI) SetLogger(log zerolog.Logger) {
	u.log = log
}

// Run blocks until the tray exits, either from the Quit item or ctx.
func (u *UI) Run(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			systray.Quit()
		case <-u.quit:
		}
	}()
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	systray.SetTitle(statusTitle("idle"))
	systray.SetTooltip(title)

	// Build menu
	u.mStatus = systray.AddMenuItem("Ready.", "Current status")
	u.mStatus.Disable()
	u.mLastSaved = systray.AddMenuItem(lastSavedTitle(""), "Click to copy the path")
	u.mLastSaved.Disable()
	systray.AddSeparator()

	u.mRecord = systray.AddMenuItem("Record", "Start recording")
	u.mStop = systray.AddMenuItem("Stop & Save", "Stop recording and save the WAV")
	u.mListen = systray.AddMenuItem("Listen", "Play the last saved recording")
	u.mRetry = systray.AddMenuItem("Retry save", "Write the last recording again")
	systray.AddSeparator()

	u.mDevices = systray.AddMenuItem("Microphone", "Select audio device")
	u.buildDeviceMenu()

	u.mName = systray.AddMenuItem(nameTitle(wavfile.FileName(u.app.OutputName())), "Choose the file name")
	u.mOverwrite = systray.AddMenuItemCheckbox("Overwrite if file exists", "Replace the file instead of adding _2, _3, …", u.app.Overwrite())
	u.mMode = systray.AddMenuItem(modeTitle(u.app.Mode()), "Toggle between hotkey modes")
	u.mOpenDir = systray.AddMenuItem("Open output folder", u.app.OutputDir())

	systray.AddSeparator()
	mLogs := systray.AddMenuItem("Open Logs", "View application logs")
	mAbout := systray.AddMenuItem("About", "About "+title)
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	u.mu.Lock()
	u.ready = true
	u.render("idle", "Ready.")
	u.mu.Unlock()

	// Event loop
	go u.handleEvents(mLogs, mAbout, mQuit)
	go u.tickElapsed()
}

func (u *UI) handleEvents(mLogs, mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mRecord.ClickedCh:
			u.app.Record()
		case <-u.mStop.ClickedCh:
			u.app.StopAndSave()
		case <-u.mListen.ClickedCh:
			u.app.Listen()
		case <-u.mRetry.ClickedCh:
			u.retrySave()
		case <-u.mLastSaved.ClickedCh:
			u.copyLastSaved()
		case <-u.mName.ClickedCh:
			u.promptName()
		case <-u.mOverwrite.ClickedCh:
			u.toggleOverwrite()
		case <-u.mMode.ClickedCh:
			u.toggleMode()
		case <-u.mOpenDir.ClickedCh:
			u.reveal(u.app.OutputDir())
		case <-mLogs.ClickedCh:
			u.reveal(logging.LogPath())
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

// tickElapsed keeps the status line counting while recording.
func (u *UI) tickElapsed() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-u.quit:
			return
		case <-ticker.C:
			if !u.isRecording() {
				continue
			}
			elapsed := u.app.Elapsed()
			u.mu.Lock()
			if u.recording {
				u.mStatus.SetTitle(recordingStatus(elapsed))
			}
			u.mu.Unlock()
		}
	}
}

func (u *UI) isRecording() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.recording
}

func (u *UI) buildDeviceMenu() {
	devices, err := u.app.Devices()
	if err != nil {
		u.log.Error().Err(err).Msg("Failed to list audio devices")
	}
	if len(devices) == 0 {
		u.mDevices.Disable()
		msg := "No audio input devices found. Connect a microphone and restart."
		if err != nil && !errors.Is(err, audio.ErrNoInputDevices) {
			msg = fmt.Sprintf("Could not list audio devices: %v", err)
		}
		go u.showWarning(msg)
		return
	}

	u.hasDevice = true
	selected, _ := u.app.SelectedDevice()
	deviceItems := make(map[int]*systray.MenuItem)

	for _, dev := range devices {
		item := u.mDevices.AddSubMenuItemCheckbox(deviceTitle(dev), "", dev.ID == selected.ID)
		deviceItems[dev.ID] = item

		go func(dev audio.InputDevice, menuItem *systray.MenuItem) {
			for range menuItem.ClickedCh {
				if err := u.app.SelectDevice(dev.ID); err != nil {
					u.log.Warn().Err(err).Str("device", dev.Label()).Msg("Cannot change device")
					if errors.Is(err, app.ErrBusy) {
						// Keep the check mark on the active device.
						menuItem.Uncheck()
						continue
					}
				}
				// Uncheck all other items
				for id, itm := range deviceItems {
					if id != dev.ID {
						itm.Uncheck()
					}
				}
				menuItem.Check()
			}
		}(dev, item)
	}
}

func (u *UI) promptName() {
	current := u.app.OutputName()
	name, err := zenity.Entry("File name for the next recording:",
		zenity.Title(title),
		zenity.EntryText(current))
	if errors.Is(err, zenity.ErrCanceled) {
		return
	}
	if err != nil {
		u.log.Error().Err(err).Msg("Name dialog failed")
		return
	}

	fileName, err := u.app.SetOutputName(name)
	if err != nil {
		u.log.Error().Err(err).Msg("Failed to save config")
	}
	u.mName.SetTitle(nameTitle(fileName))
	u.log.Info().Str("name", fileName).Msg("Changed output name")
}

func (u *UI) retrySave() {
	out, err := u.app.RetrySave()
	if err != nil {
		u.log.Warn().Err(err).Msg("Retry save failed")
		return
	}
	u.log.Info().Str("path", out.Path).Msg("Retry save succeeded")
}

func (u *UI) toggleOverwrite() {
	overwrite := !u.app.Overwrite()
	if err := u.app.SetOverwrite(overwrite); err != nil {
		u.log.Error().Err(err).Msg("Failed to save config")
	}
	if overwrite {
		u.mOverwrite.Check()
	} else {
		u.mOverwrite.Uncheck()
	}
	u.log.Info().Bool("overwrite", overwrite).Msg("Changed overwrite")
}

func (u *UI) toggleMode() {
	oldMode := u.app.Mode()
	newMode := config.ModeToggle
	if oldMode == config.ModeToggle {
		newMode = config.ModePushToTalk
	}
	if err := u.app.SetMode(newMode); err != nil {
		u.log.Error().Err(err).Msg("Failed to save config")
	}
	u.mMode.SetTitle(modeTitle(newMode))
	u.log.Info().Str("from", oldMode).Str("to", newMode).Msg("Changed mode")
}

func (u *UI) copyLastSaved() {
	path := u.app.LastSaved()
	if err := u.share.CopyPath(path); err != nil {
		u.log.Warn().Err(err).Msg("Failed to copy path")
		return
	}
	u.mu.Lock()
	u.render("saved", "Path copied to clipboard.")
	u.mu.Unlock()
}

func (u *UI) reveal(path string) {
	if err := u.share.Reveal(path); err != nil {
		u.log.Warn().Err(err).Msg("Failed to open file manager")
		u.showError(err.Error())
	}
}

func (u *UI) showAbout() {
	msg := fmt.Sprintf("%s %s (%s)\nRecords spell sounds to %s", title, u.version, u.commit, u.app.OutputDir())
	if err := zenity.Info(msg, zenity.Title(title), zenity.InfoIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		u.log.Warn().Err(err).Msg("About dialog failed")
	}
}

func (u *UI) showWarning(msg string) {
	if err := zenity.Warning(msg, zenity.Title(title), zenity.WarningIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		u.log.Warn().Err(err).Msg("Warning dialog failed")
	}
}

func (u *UI) showError(msg string) {
	if err := zenity.Error(msg, zenity.Title(title), zenity.ErrorIcon); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		u.log.Warn().Err(err).Msg("Error dialog failed")
	}
}

func (u *UI) onExit() {
	close(u.quit)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := u.app.Shutdown(ctx); err != nil {
		u.log.Error().Err(err).Msg("Shutdown failed")
	}
}

// render updates the title and menu state. Callers hold u.mu.
func (u *UI) render(state, status string) {
	if !u.ready {
		return
	}
	systray.SetTitle(statusTitle(state))
	u.mStatus.SetTitle(status)

	u.mLastSaved.SetTitle(lastSavedTitle(u.lastSaved))
	setEnabled(u.mLastSaved, u.lastSaved != "")

	setEnabled(u.mRecord, u.hasDevice && !u.recording)
	setEnabled(u.mStop, u.recording)
	setEnabled(u.mListen, !u.recording && u.lastSaved != "")
	setEnabled(u.mRetry, canRetry(u.recording, u.saveFailed))
	setEnabled(u.mDevices, u.hasDevice && !u.recording)
}

// canRetry reports whether Retry save is offered.
func canRetry(recording, saveFailed bool) bool {
	return saveFailed && !recording
}

func setEnabled(item *systray.MenuItem, enabled bool) {
	if enabled {
		item.Enable()
	} else {
		item.Disable()
	}
}

// statusTitle returns the tray title with microphone emoji and status indicator
func statusTitle(state string) string {
	return fmt.Sprintf("🎤 %s", emojiForStatus(state))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "recording":
		return "🔴" // Red - recording
	case "saved":
		return "🔵" // Blue - file written
	case "idle":
		return "🟢" // Green - ready/idle
	case "error":
		return "⚪️" // White - error
	default:
		return "🟢" // Green - default to ready
	}
}

func recordingStatus(elapsed time.Duration) string {
	return fmt.Sprintf("Recording… %.1fs", elapsed.Seconds())
}

func lastSavedTitle(path string) string {
	if path == "" {
		return "Last saved: (none)"
	}
	return "Last saved: " + path
}

func modeTitle(mode string) string {
	if mode == config.ModeToggle {
		return "Mode: Toggle"
	}
	return "Mode: Push-to-Talk"
}

func nameTitle(name string) string {
	return "Output name: " + name
}

func deviceTitle(dev audio.InputDevice) string {
	if dev.Default {
		return dev.Label() + " (default)"
	}
	return dev.Label()
}
