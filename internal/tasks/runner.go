// Package tasks runs the three periodic tasks of the logger: the clock
// reader, the power sampler and the recorder. They share nothing but the
// state.Store and run at independent rates.
package tasks

import (
	"context"
	"time"

	"codeberg.org/mutker/powerlogd/internal/console"
	"codeberg.org/mutker/powerlogd/internal/device"
	"codeberg.org/mutker/powerlogd/internal/errors"
	"codeberg.org/mutker/powerlogd/internal/logger"
	"codeberg.org/mutker/powerlogd/internal/metrics"
	"codeberg.org/mutker/powerlogd/internal/peripheral"
	"codeberg.org/mutker/powerlogd/internal/state"
	"codeberg.org/mutker/powerlogd/internal/storage"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultClockInterval   = time.Second
	DefaultSampleInterval  = time.Second
	DefaultLogInterval     = 2 * time.Second
	DefaultWriteRetryDelay = 5 * time.Second
	DefaultLogFile         = "log.txt"
)

type Config struct {
	ClockInterval   time.Duration
	SampleInterval  time.Duration
	LogInterval     time.Duration
	WriteRetryDelay time.Duration
	LogFile         string
}

func DefaultConfig() Config {
	return Config{
		ClockInterval:   DefaultClockInterval,
		SampleInterval:  DefaultSampleInterval,
		LogInterval:     DefaultLogInterval,
		WriteRetryDelay: DefaultWriteRetryDelay,
		LogFile:         DefaultLogFile,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	for _, d := range []time.Duration{c.ClockInterval, c.SampleInterval, c.LogInterval, c.WriteRetryDelay} {
		if d <= 0 {
			return errFactory.WithData(ErrInvalidInterval, d.String())
		}
	}
	if c.LogFile == "" {
		return errFactory.New(ErrInvalidPath)
	}
	return nil
}

// Peripherals are the collaborators the tasks talk to. Nil entries must be
// marked unavailable.
type Peripherals struct {
	Clock   device.Clock
	Sensor  device.PowerSensor
	Storage storage.Service
	Console console.Console
}

type Runner struct {
	cfg      Config
	clock    *ClockReader
	sampler  *PowerSampler
	recorder *Recorder
}

// NewRunner wires the tasks to store. avail is copied into each task and not
// consulted again. A nil collector disables metrics.
func NewRunner(cfg Config, store *state.Store, p Peripherals, avail peripheral.Availability, m metrics.Collector, log logger.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.NewNoop()
	}

	for name, ok := range map[string]bool{"clock": avail.Clock, "sensor": avail.Sensor, "storage": avail.Storage} {
		m.SetAvailability(name, ok)
		if !ok {
			log.Warn().Str("peripheral", name).Msgf("%s unavailable, its task will skip every cycle", name)
		}
	}

	return &Runner{
		cfg: cfg,
		clock: &ClockReader{
			Clock:     p.Clock,
			Available: avail.Clock && p.Clock != nil,
			Store:     store,
			Metrics:   m,
			Log:       log,
		},
		sampler: &PowerSampler{
			Sensor:    p.Sensor,
			Available: avail.Sensor && p.Sensor != nil,
			Store:     store,
			Metrics:   m,
			Log:       log,
		},
		recorder: &Recorder{
			Store:            store,
			Console:          p.Console,
			Storage:          p.Storage,
			StorageAvailable: avail.Storage && p.Storage != nil,
			File:             cfg.LogFile,
			RetryDelay:       cfg.WriteRetryDelay,
			Metrics:          m,
			Log:              log,
		},
	}, nil
}

// Run starts the three tasks and blocks until ctx is cancelled. Cancellation
// is a clean stop and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return every(ctx, r.cfg.ClockInterval, r.clock.Tick)
	})
	g.Go(func() error {
		return every(ctx, r.cfg.SampleInterval, r.sampler.Tick)
	})
	g.Go(func() error {
		return every(ctx, r.cfg.LogInterval, func(ctx context.Context) {
			// Cycle only fails once ctx is done; every returns right after.
			_ = r.recorder.Cycle(ctx)
		})
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
