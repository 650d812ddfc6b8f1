package main

import (
	"fmt"
	"io"

	"github.com/petems/wizard-sound/internal/playback"
	"github.com/petems/wizard-sound/internal/wavfile"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.wav>",
	Short: "Show the format and length of a WAV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := wavfile.Stat(args[0])
		if err != nil {
			return err
		}
		printInfo(cmd.OutOrStdout(), info)
		return nil
	},
}

var playCmd = &cobra.Command{
	Use:   "play <file.wav>",
	Short: "Play a WAV file and wait for it to finish",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		info, err := wavfile.Stat(args[0])
		if err != nil {
			return err
		}

		player, err := playback.New(cfg.Playback.Backend, newLogger(cfg.LogLevel))
		if err != nil {
			return err
		}
		defer player.Close()

		if err := player.Play(info.Path); err != nil {
			return err
		}
		return waitFor(cmd.Context(), info.Duration())
	},
}

func printInfo(w io.Writer, info wavfile.Info) {
	fmt.Fprintf(w, "%s\n", info.Path)
	fmt.Fprintf(w, "  %d Hz, %d channel(s), %d-bit PCM\n", info.SampleRate, info.Channels, info.BitDepth)
	fmt.Fprintf(w, "  %d samples, %.2fs, %d data bytes\n", info.SampleCount, info.Duration().Seconds(), info.DataBytes)
}
