// Package share hands a saved recording to the rest of the desktop.
package share

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
)

// Sharer copies paths to the clipboard and shows them in the file manager.
type Sharer interface {
	CopyPath(path string) error
	Reveal(path string) error
}

type desktopSharer struct {
	log zerolog.Logger

	// Overridable in tests.
	writeClipboard func(string) error
	start          func(cmd *exec.Cmd) error
}

func New(log zerolog.Logger) Sharer {
	return &desktopSharer{
		log:            log,
		writeClipboard: clipboard.WriteAll,
		start:          func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// CopyPath puts the absolute path on the clipboard.
func (s *desktopSharer) CopyPath(path string) error {
	if path == "" {
		return fmt.Errorf("nothing to copy")
	}
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not available on this system")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := s.writeClipboard(abs); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	s.log.Debug().Str("path", abs).Msg("Copied path to clipboard")
	return nil
}

// Reveal opens the file manager at path. A directory is opened as is; a file
// is selected where the platform supports it, otherwise its folder is opened.
func (s *desktopSharer) Reveal(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot reveal %s: %w", path, err)
	}

	name, args := revealCommand(path, info.IsDir())
	cmd := exec.Command(name, args...)
	if err := s.start(cmd); err != nil {
		return fmt.Errorf("failed to open file manager: %w", err)
	}
	if cmd.Process != nil {
		go cmd.Wait()
	}
	s.log.Debug().Str("path", path).Str("cmd", name).Msg("Opened file manager")
	return nil
}
