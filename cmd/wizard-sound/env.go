package main

import (
	"context"
	"fmt"
	"time"

	"github.com/petems/wizard-sound/internal/audio"
	"github.com/petems/wizard-sound/internal/audio/driver"
	"github.com/petems/wizard-sound/internal/config"
	"github.com/petems/wizard-sound/internal/logging"
	"github.com/rs/zerolog"
)

// env is what every subcommand needs: config, logger and an open audio driver.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	driver audio.Driver

	devices []audio.InputDevice
	def     audio.InputDevice
	enumErr error
}

func loadConfig() (*config.Config, error) {
	// Load config from XDG/Library/AppData
	if cfgFile != "" {
		return config.LoadFrom(cfgFile)
	}
	return config.Load()
}

func newLogger(level string) zerolog.Logger {
	if logLevel != "" {
		level = logLevel
	}
	return logging.NewWithLevel(level)
}

// waitFor blocks for d plus a short tail so the player can drain its buffer.
func waitFor(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d + 250*time.Millisecond)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newEnv() (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backend != "" {
		cfg.Audio.Backend = backend
	}
	log := newLogger(cfg.LogLevel)

	drv, err := driver.New(cfg.Audio.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}

	e := &env{cfg: cfg, log: log, driver: drv}
	e.devices, e.enumErr = audio.ListInputDevices(drv)
	if e.enumErr != nil {
		log.Warn().Err(e.enumErr).Str("backend", drv.Name()).Msg("Device enumeration failed")
	}
	e.def, _ = audio.DefaultInput(drv, e.devices)

	log.Debug().
		Str("backend", drv.Name()).
		Int("devices", len(e.devices)).
		Str("config", cfg.Path()).
		Msg("Audio initialized")
	return e, nil
}

func (e *env) Close() {
	if err := e.driver.Close(); err != nil {
		e.log.Warn().Err(err).Msg("Failed to close audio backend")
	}
}
