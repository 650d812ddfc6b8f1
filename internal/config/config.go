package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/petems/wizard-sound/internal/wavfile"
)

const appName = "wizard-sound"

// Recording modes for the global hotkey.
const (
	ModePushToTalk = "PushToTalk"
	ModeToggle     = "Toggle"
)

type Config struct {
	Hotkey       string         `json:"hotkey"`
	HotkeyDarwin string         `json:"hotkey_darwin"`
	Mode         string         `json:"mode"` // "PushToTalk" or "Toggle"
	Audio        AudioConfig    `json:"audio"`
	Output       OutputConfig   `json:"output"`
	Playback     PlaybackConfig `json:"playback"`
	LogLevel     string         `json:"log_level"`

	path string
}

type AudioConfig struct {
	Backend    string `json:"backend"`     // "portaudio" or "miniaudio"
	DeviceID   int    `json:"device_id"`   // -1 selects the platform default
	SampleRate int    `json:"sample_rate"` // 0 uses the device's default rate
}

type OutputConfig struct {
	Dir       string `json:"dir"` // empty means the installation root
	Name      string `json:"name"`
	Overwrite bool   `json:"overwrite"`
}

type PlaybackConfig struct {
	Backend string `json:"backend"` // "speaker" or "system"
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Hotkey:       "Alt+Space",
		HotkeyDarwin: "Ctrl+Space",
		Mode:         ModePushToTalk,
		Audio: AudioConfig{
			Backend:  "portaudio",
			DeviceID: -1,
		},
		Output: OutputConfig{
			Name:      wavfile.DefaultFileName,
			Overwrite: true,
		},
		Playback: PlaybackConfig{
			Backend: "speaker",
		},
		LogLevel: "info",
	}
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	return LoadFrom(configPath())
}

// LoadFrom reads the config at path, layering it over the defaults.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to where it was loaded from.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = configPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path is the file Save writes to.
func (c *Config) Path() string {
	if c.path == "" {
		return configPath()
	}
	return c.path
}

// Validate rejects values the rest of the app cannot act on.
func (c *Config) Validate() error {
	if c.Mode != ModePushToTalk && c.Mode != ModeToggle {
		return fmt.Errorf("invalid mode: %q (must be %q or %q)", c.Mode, ModePushToTalk, ModeToggle)
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("invalid sample_rate: %d", c.Audio.SampleRate)
	}
	return nil
}

// PlatformHotkey returns the appropriate hotkey for the current platform
func (c *Config) PlatformHotkey() string {
	if runtime.GOOS == "darwin" && c.HotkeyDarwin != "" {
		return c.HotkeyDarwin
	}
	return c.Hotkey
}

// OutputDir is where recordings are written.
func (c *Config) OutputDir() string {
	if c.Output.Dir != "" {
		return expandHome(c.Output.Dir)
	}
	return AppRoot()
}

// AppRoot is the installation root: the parent of the directory holding the
// executable, so a binary in <site>/audio_tool/ saves next to the site files.
func AppRoot() string {
	exe, err := os.Executable()
	if err != nil {
		if wd, werr := os.Getwd(); werr == nil {
			return wd
		}
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe))
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, appName, "config.json")
}
