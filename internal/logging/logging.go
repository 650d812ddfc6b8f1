package logging

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const appName = "wizard-sound"

// New creates a new zerolog logger with console and file output
func New() zerolog.Logger {
	return NewWithLevel("info")
}

// NewWithLevel is New with a minimum level such as "debug" or "warn".
// Unknown levels fall back to info.
func NewWithLevel(level string) zerolog.Logger {
	return newLogger(os.Stderr, fileWriter(LogPath()), ParseLevel(level))
}

// ParseLevel maps a config string to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func newLogger(console io.Writer, file io.Writer, level zerolog.Level) zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}
	if file != nil {
		writers = append(writers, file)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Caller().Logger()
}

// fileWriter returns a rotating writer, or nil when the log directory is not writable.
func fileWriter(path string) io.Writer {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

// LogPath returns platform-specific log file path
func LogPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Logs"
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.local/state"
		}
	}

	return filepath.Join(base, appName, appName+".log")
}
