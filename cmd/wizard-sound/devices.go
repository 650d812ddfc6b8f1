package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/petems/wizard-sound/internal/audio"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio input devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if e.enumErr != nil && !errors.Is(e.enumErr, audio.ErrNoInputDevices) {
			return e.enumErr
		}
		printDevices(cmd.OutOrStdout(), e.devices, e.cfg.Audio.DeviceID)
		return nil
	},
}

// printDevices marks the platform default with * and the configured device with >.
func printDevices(w io.Writer, devices []audio.InputDevice, selected int) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No audio input devices found.")
		return
	}
	for _, d := range devices {
		mark := " "
		if d.Default {
			mark = "*"
		}
		if d.ID == selected {
			mark = ">"
		}
		fmt.Fprintf(w, "%s %s (%d Hz)\n", mark, d.Label(), d.DefaultSampleRate)
	}
}
