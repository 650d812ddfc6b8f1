package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petems/wizard-sound/internal/app"
	"github.com/petems/wizard-sound/internal/wavfile"
	"github.com/spf13/cobra"
)

var (
	recordDuration  time.Duration
	recordName      string
	recordOverwrite bool
	recordDevice    int
	recordDir       string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record from the microphone without the tray",
	Long: `Record until --duration elapses or Ctrl+C is pressed, then save the WAV.
Flags apply to this run only and are not written back to the config file.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().DurationVarP(&recordDuration, "duration", "d", 0, "stop after this long (default: until interrupted)")
	recordCmd.Flags().StringVarP(&recordName, "name", "n", "", "output file name (default from config)")
	recordCmd.Flags().BoolVar(&recordOverwrite, "overwrite", true, "replace an existing file instead of adding _2, _3, …")
	recordCmd.Flags().IntVar(&recordDevice, "device", -1, "input device id, as listed by the devices command")
	recordCmd.Flags().StringVar(&recordDir, "dir", "", "output directory (default from config)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	flags := cmd.Flags()
	if flags.Changed("name") {
		e.cfg.Output.Name = recordName
	}
	if flags.Changed("overwrite") {
		e.cfg.Output.Overwrite = recordOverwrite
	}
	if flags.Changed("device") {
		e.cfg.Audio.DeviceID = recordDevice
	}
	if flags.Changed("dir") {
		e.cfg.Output.Dir = recordDir
	}

	application := app.New(app.Config{
		Devices:        e.devices,
		DefaultDevice:  e.def,
		EnumerationErr: e.enumErr,
		Opener:         e.driver,
		Saver:          wavfile.NewWriter(e.cfg.OutputDir(), e.log),
		Config:         e.cfg,
		Logger:         e.log,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if recordDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, recordDuration)
		defer cancel()
	}

	if err := application.Record(); err != nil {
		return err
	}
	dev, _ := application.SelectedDevice()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recording from %s… press Ctrl+C to stop.\n", dev.Label())

	<-ctx.Done()

	outcome, err := application.StopAndSave()
	if errors.Is(err, app.ErrCaptureEmpty) {
		fmt.Fprintln(out, "Stopped. No audio captured.")
		return err
	}
	if err != nil {
		return err
	}
	printOutcome(out, outcome)
	return nil
}

func printOutcome(w io.Writer, o app.Outcome) {
	r := o.Result
	fmt.Fprintf(w, "Saved %s\n", o.Path)
	fmt.Fprintf(w, "  %.1fs recorded, %.2fs of audio, %d samples @ %d Hz\n",
		r.Elapsed.Seconds(), r.Duration().Seconds(), len(r.Samples), r.SampleRate)
	if r.Dropped > 0 {
		fmt.Fprintf(w, "  warning: %d buffers dropped\n", r.Dropped)
	}
	if r.TeardownErr != nil {
		fmt.Fprintf(w, "  warning: device did not close cleanly: %v\n", r.TeardownErr)
	}
}
