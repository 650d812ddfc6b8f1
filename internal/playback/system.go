package playback

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

type systemPlayer struct {
	log     zerolog.Logger
	command func(path string) (*exec.Cmd, error)
}

// NewSystem hands files to the platform's own sound player.
func NewSystem(log zerolog.Logger) Player {
	return &systemPlayer{log: log, command: platformCommand}
}

func (p *systemPlayer) Play(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}

	cmd, err := p.command(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPlayback, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: failed to start %s: %v", ErrPlayback, cmd.Path, err)
	}

	p.log.Info().Str("path", path).Str("player", cmd.Path).Msg("Playback started")

	go func() {
		if err := cmd.Wait(); err != nil {
			p.log.Warn().Err(err).Str("path", path).Msg("System player exited with error")
		}
	}()
	return nil
}

func (p *systemPlayer) Close() error {
	return nil
}

// platformCommand builds the command that plays path on this OS.
func platformCommand(path string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("afplay", path), nil
	case "windows":
		script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", strings.ReplaceAll(path, "'", "''"))
		return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script), nil
	default:
		for _, player := range []string{"paplay", "aplay", "pw-play"} {
			if bin, err := exec.LookPath(player); err == nil {
				return exec.Command(bin, path), nil
			}
		}
		return nil, fmt.Errorf("no sound player found (tried paplay, aplay, pw-play)")
	}
}
