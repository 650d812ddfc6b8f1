package tray

import (
	"testing"
	"time"

	"github.com/petems/wizard-sound/internal/app"
	"github.com/petems/wizard-sound/internal/audio"
	"github.com/petems/wizard-sound/internal/config"
)

// UI must satisfy the controller's status hook.
var _ app.StatusUpdater = (*UI)(nil)

func TestEmojiForStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"recording", "🔴"},
		{"saved", "🔵"},
		{"idle", "🟢"},
		{"error", "⚪️"},
		{"unknown", "🟢"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := emojiForStatus(tt.status); got != tt.expected {
				t.Errorf("emojiForStatus(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestModeTitle(t *testing.T) {
	if got := modeTitle(config.ModeToggle); got != "Mode: Toggle" {
		t.Errorf("unexpected title %q", got)
	}
	if got := modeTitle(config.ModePushToTalk); got != "Mode: Push-to-Talk" {
		t.Errorf("unexpected title %q", got)
	}
}

func TestLastSavedTitle(t *testing.T) {
	if got := lastSavedTitle(""); got != "Last saved: (none)" {
		t.Errorf("unexpected title %q", got)
	}
	if got := lastSavedTitle("/srv/site/wizard.wav"); got != "Last saved: /srv/site/wizard.wav" {
		t.Errorf("unexpected title %q", got)
	}
}

func TestRecordingStatus(t *testing.T) {
	if got := recordingStatus(2340 * time.Millisecond); got != "Recording… 2.3s" {
		t.Errorf("unexpected status %q", got)
	}
}

func TestDeviceTitle(t *testing.T) {
	dev := audio.InputDevice{ID: 3, Name: "USB Mic"}
	if got := deviceTitle(dev); got != "3: USB Mic" {
		t.Errorf("unexpected title %q", got)
	}
	dev.Default = true
	if got := deviceTitle(dev); got != "3: USB Mic (default)" {
		t.Errorf("unexpected title %q", got)
	}
}

// Status updates arrive before the menu exists; they must not touch it.
func TestStatusBeforeReady(t *testing.T) {
	u := New(nil, nil, "dev", "none")

	u.SetRecording()
	if !u.isRecording() {
		t.Error("expected recording state to be tracked")
	}
	u.SetSaved("/tmp/wizard.wav")
	u.SetIdle("Saved WAV (0.3s).")
	if u.isRecording() {
		t.Error("expected idle after SetIdle")
	}
	if u.lastSaved != "/tmp/wizard.wav" {
		t.Errorf("expected last saved to be kept, got %q", u.lastSaved)
	}
}

func TestCanRetry(t *testing.T) {
	tests := []struct {
		name       string
		recording  bool
		saveFailed bool
		want       bool
	}{
		{"idle", false, false, false},
		{"save failed", false, true, true},
		{"recording again", true, true, false},
		{"recording", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canRetry(tt.recording, tt.saveFailed); got != tt.want {
				t.Errorf("canRetry(%v, %v) = %v, want %v", tt.recording, tt.saveFailed, got, tt.want)
			}
		})
	}
}

// A failed save offers Retry until a new recording starts or a save succeeds.
func TestSaveFailedTracksRetry(t *testing.T) {
	u := New(nil, nil, "dev", "none")

	u.SetRecording()
	u.SetSaveFailed("Stopped. Save failed: disk full")
	if u.isRecording() {
		t.Error("expected recording to end on a failed save")
	}
	if !u.saveFailed {
		t.Fatal("expected save failure to be tracked")
	}

	u.SetSaved("/tmp/wizard.wav")
	if u.saveFailed {
		t.Error("expected a successful save to clear the failure")
	}

	u.SetSaveFailed("Stopped. Save failed: disk full")
	u.SetRecording()
	if u.saveFailed {
		t.Error("expected a new recording to clear the failure")
	}
}
