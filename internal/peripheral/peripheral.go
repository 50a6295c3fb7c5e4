// Package peripheral brings up the clock, the power sensor and the storage
// before the periodic tasks start, and records which of them are usable.
package peripheral

import (
	"context"
	"time"

	"codeberg.org/mutker/powerlogd/internal/device"
	"codeberg.org/mutker/powerlogd/internal/errors"
	"codeberg.org/mutker/powerlogd/internal/logger"
	"codeberg.org/mutker/powerlogd/internal/storage"
	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
)

// Availability is written once by Run and only read afterwards, so the tasks
// may check it without locking.
type Availability struct {
	Clock   bool
	Sensor  bool
	Storage bool
}

type Options struct {
	// Attempts is the number of tries per peripheral, including the first.
	Attempts int
	// Delay separates consecutive tries.
	Delay time.Duration
	// BuildTime reseeds a clock that lost its time reference. Zero disables
	// the reseed.
	BuildTime time.Time
}

func DefaultOptions() Options {
	return Options{
		Attempts: DefaultAttempts,
		Delay:    DefaultDelay,
	}
}

func (o Options) Validate() error {
	errFactory := errors.New()

	if o.Attempts < 1 {
		return errFactory.WithData(ErrInvalidAttempts, o.Attempts)
	}
	if o.Delay < 0 {
		return errFactory.WithData(ErrInvalidDelay, o.Delay.String())
	}
	return nil
}

type Initializer struct {
	opts Options
	log  logger.Logger
}

func New(opts Options, log logger.Logger) (*Initializer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Initializer{opts: opts, log: log}, nil
}

// Run initializes the peripherals in order: clock, sensor, storage. A failed
// peripheral is reported as unavailable and never aborts the others.
func (i *Initializer) Run(ctx context.Context, clock device.Clock, sensor device.PowerSensor, store storage.Service) Availability {
	avail := Availability{
		Clock:   i.InitClock(ctx, clock),
		Sensor:  i.InitSensor(ctx, sensor),
		Storage: i.InitStorage(ctx, store),
	}

	i.log.Info().
		Bool("clock", avail.Clock).
		Bool("sensor", avail.Sensor).
		Bool("storage", avail.Storage).
		Msg("Peripheral initialization complete")

	return avail
}

// InitClock opens the clock and reseeds it from the build time if it lost its
// time reference. A failed reseed leaves the clock available.
func (i *Initializer) InitClock(ctx context.Context, clock device.Clock) bool {
	if clock == nil || !i.retry(ctx, "clock", clock.Open) {
		return false
	}

	lost, err := clock.LostTimeReference()
	if err != nil {
		i.log.Warn().Err(err).Str("peripheral", "clock").Msg("Could not check clock time reference")
		return true
	}
	if !lost {
		return true
	}

	if i.opts.BuildTime.IsZero() {
		i.log.Warn().Str("peripheral", "clock").Msg("Clock lost power and no build time is known, leaving it unset")
		return true
	}

	if err := clock.SetTime(i.opts.BuildTime); err != nil {
		i.log.Warn().Err(err).Str("peripheral", "clock").Msg("Failed to reseed clock")
		return true
	}

	i.log.Info().
		Str("peripheral", "clock").
		Time("time", i.opts.BuildTime).
		Msg("Clock lost power, time set to build time")

	return true
}

func (i *Initializer) InitSensor(ctx context.Context, sensor device.PowerSensor) bool {
	if sensor == nil {
		return false
	}
	return i.retry(ctx, "sensor", sensor.Open)
}

func (i *Initializer) InitStorage(ctx context.Context, store storage.Service) bool {
	if store == nil {
		return false
	}
	return i.retry(ctx, "storage", store.Mount)
}

// retry calls open up to opts.Attempts times, opts.Delay apart. There is no
// wait after the last attempt.
func (i *Initializer) retry(ctx context.Context, name string, open func() error) bool {
	attempt := 0
	op := func() error {
		attempt++
		return open()
	}

	notify := func(err error, next time.Duration) {
		i.log.Warn().
			Err(err).
			Str("peripheral", name).
			Int("attempt", attempt).
			Int("attempts", i.opts.Attempts).
			Dur("retry_in", next).
			Msgf("Failed to initialize %s. Retrying...", name)
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(i.opts.Delay), uint64(i.opts.Attempts-1)),
		ctx,
	)

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		i.log.ErrorWithCode(errors.New().Wrap(ErrUnavailable, err).WithMessage(name)).
			Str("peripheral", name).
			Int("attempt", attempt).
			Msgf("Failed to initialize %s, %s disabled", name, name)
		return false
	}

	i.log.Info().
		Str("peripheral", name).
		Int("attempt", attempt).
		Msgf("%s initialized", name)

	return true
}
