package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/petems/wizard-sound/internal/app"
	"github.com/petems/wizard-sound/internal/hotkey"
	"github.com/petems/wizard-sound/internal/permissions"
	"github.com/petems/wizard-sound/internal/playback"
	"github.com/petems/wizard-sound/internal/share"
	"github.com/petems/wizard-sound/internal/tray"
	"github.com/petems/wizard-sound/internal/wavfile"
	"github.com/spf13/cobra"
)

func runTray(cmd *cobra.Command, args []string) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	log := e.log

	// macOS asks once; recording works after the user approves.
	if err := permissions.EnsureMicrophone(); err != nil {
		log.Warn().Err(err).Msg("Microphone access not granted yet")
	}

	player, err := playback.New(e.cfg.Playback.Backend, log)
	if err != nil {
		return err
	}

	application := app.New(app.Config{
		Devices:        e.devices,
		DefaultDevice:  e.def,
		EnumerationErr: e.enumErr,
		Opener:         e.driver,
		Saver:          wavfile.NewWriter(e.cfg.OutputDir(), log),
		Player:         player,
		Config:         e.cfg,
		Logger:         log,
	})

	trayUI := tray.New(application, share.New(log), Version, Commit)
	trayUI.SetLogger(log)
	application.SetStatusUpdater(trayUI)

	// Register global hotkey. The menu still works without one.
	hkManager, err := hotkey.New()
	if err != nil {
		log.Warn().Err(err).Msg("Global hotkey unavailable")
	} else {
		defer hkManager.Close()
		if err := hkManager.Register(e.cfg.PlatformHotkey(), application.OnHotkey); err != nil {
			log.Warn().Err(err).Str("hotkey", e.cfg.PlatformHotkey()).Msg("Failed to register hotkey")
		}
	}

	log.Info().
		Str("version", Version).
		Str("output", e.cfg.OutputDir()).
		Msg("Wizard Sound Maker starting...")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start tray UI - MUST run on main thread
	return trayUI.Run(ctx)
}
