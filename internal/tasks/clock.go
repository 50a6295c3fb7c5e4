package tasks

import (
	"context"

	"codeberg.org/mutker/powerlogd/internal/device"
	"codeberg.org/mutker/powerlogd/internal/logger"
	"codeberg.org/mutker/powerlogd/internal/metrics"
	"codeberg.org/mutker/powerlogd/internal/state"
)

// ClockReader copies the clock's time into the shared record.
type ClockReader struct {
	Clock     device.Clock
	Available bool
	Store     *state.Store
	Metrics   metrics.Collector
	Log       logger.Logger
}

// Tick reads the clock once. When the clock is unavailable or the read fails
// the previous timestamp is kept.
func (c *ClockReader) Tick(context.Context) {
	if !c.Available {
		c.Log.Debug().Str("peripheral", "clock").Msg("Clock unavailable, skipping read")
		return
	}

	// Read outside the lock; only the assignment is guarded.
	now, err := c.Clock.Now()
	if err != nil {
		c.Metrics.RecordReadError("clock")
		c.Log.Warn().Err(err).Str("peripheral", "clock").Msg("Failed to read clock")
		return
	}

	c.Store.SetTimestamp(now)
}
