package tasks

import (
	"context"

	"codeberg.org/mutker/powerlogd/internal/device"
	"codeberg.org/mutker/powerlogd/internal/logger"
	"codeberg.org/mutker/powerlogd/internal/metrics"
	"codeberg.org/mutker/powerlogd/internal/state"
)

// PowerSampler copies one sensor reading into the shared record.
type PowerSampler struct {
	Sensor    device.PowerSensor
	Available bool
	Store     *state.Store
	Metrics   metrics.Collector
	Log       logger.Logger
}

// Tick reads all four measurements. A reading is stored only if every value
// was read, so the record never mixes two readings.
func (p *PowerSampler) Tick(context.Context) {
	if !p.Available {
		p.Log.Debug().Str("peripheral", "sensor").Msg("Sensor unavailable, skipping read")
		return
	}

	m, err := device.ReadMeasurements(p.Sensor)
	if err != nil {
		p.Metrics.RecordReadError("sensor")
		p.Log.Warn().Err(err).Str("peripheral", "sensor").Msg("Failed to read sensor")
		return
	}

	p.Store.SetMeasurements(m)
}
