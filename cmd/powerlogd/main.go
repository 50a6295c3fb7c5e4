// Copyright © 2024 Mutker Telag <witty.text5011@fastmail.com>
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/powerlogd/internal/buildinfo"
	"codeberg.org/mutker/powerlogd/internal/config"
	"codeberg.org/mutker/powerlogd/internal/console"
	"codeberg.org/mutker/powerlogd/internal/device"
	"codeberg.org/mutker/powerlogd/internal/device/ina219"
	"codeberg.org/mutker/powerlogd/internal/device/rtc"
	"codeberg.org/mutker/powerlogd/internal/errors"
	"codeberg.org/mutker/powerlogd/internal/i2c"
	"codeberg.org/mutker/powerlogd/internal/logger"
	"codeberg.org/mutker/powerlogd/internal/metrics"
	"codeberg.org/mutker/powerlogd/internal/peripheral"
	"codeberg.org/mutker/powerlogd/internal/pid"
	"codeberg.org/mutker/powerlogd/internal/state"
	"codeberg.org/mutker/powerlogd/internal/storage"
	"codeberg.org/mutker/powerlogd/internal/tasks"
	"github.com/spf13/pflag"
)

var (
	cfg       *config.Config
	bus       i2c.Bus
	collector metrics.Collector
)

func init() {
	var err error
	cfg, err = config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel.String())
	logger.Init(level, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Acquire(cfg.PIDFile); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.FatalWithCode(appErr).Str("path", cfg.PIDFile).Msg("failed to acquire PID file")
		}
		logger.Fatal().Err(err).Msg("failed to acquire PID file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	cleanup()
}

func run(ctx context.Context) error {
	var err error

	collector, err = metrics.NewService(metrics.Config{Enabled: cfg.MetricsEnabled, Path: cfg.MetricsPath})
	if err != nil {
		return err
	}

	bus, err = i2c.Open(cfg.I2CBus)
	if err != nil {
		// The clock and sensor then fail their own initialization and are disabled.
		logger.Error().Err(err).Str("path", cfg.I2CBus).Msg("failed to open I2C bus")
		bus = i2c.Unavailable{Err: err}
	}

	sensorCfg := ina219.DefaultConfig()
	sensorCfg.Address = cfg.INA219Address

	var (
		clock  device.Clock       = rtc.New(bus, cfg.RTCAddress)
		sensor device.PowerSensor = ina219.NewSensor(bus, sensorCfg)
	)

	card, err := storage.New(storage.Config{Root: cfg.StorageRoot})
	if err != nil {
		return err
	}

	opts := peripheral.Options{Attempts: cfg.InitAttempts, Delay: cfg.InitRetryDelay}
	if t, ok := buildinfo.Time(); ok {
		opts.BuildTime = t
	} else {
		logger.Warn().Msg("Build time unknown, a clock that lost power will not be reseeded")
	}

	initializer, err := peripheral.New(opts, logger.Default())
	if err != nil {
		return err
	}
	avail := initializer.Run(ctx, clock, sensor, card)

	runner, err := tasks.NewRunner(
		tasks.Config{
			ClockInterval:   cfg.ClockInterval,
			SampleInterval:  cfg.SampleInterval,
			LogInterval:     cfg.LogInterval,
			WriteRetryDelay: cfg.WriteRetryDelay,
			LogFile:         cfg.LogFile,
		},
		state.New(),
		tasks.Peripherals{
			Clock:   clock,
			Sensor:  sensor,
			Storage: card,
			Console: console.New(os.Stdout),
		},
		avail,
		collector,
		logger.Default(),
	)
	if err != nil {
		return err
	}

	logger.Info().
		Str("storage", cfg.StorageRoot).
		Str("file", cfg.LogFile).
		Dur("log_interval", cfg.LogInterval).
		Msg("Logging started")

	return runner.Run(ctx)
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup() {
	if collector != nil {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to flush metrics")
		}
	}
	if bus != nil {
		if err := bus.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close I2C bus")
		}
	}
	if err := pid.Release(cfg.PIDFile); err != nil {
		logger.Error().Err(err).Msg("failed to remove PID file")
	}
	logger.Info().Msg("Exiting...")
}
