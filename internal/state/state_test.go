package state_test

import (
	"context"
	"math"
	"math/rand"
	"regexp"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/powerlogd/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaults(t *testing.T) {
	s := state.New()
	r := s.Snapshot()

	assert.Equal(t, state.DefaultTimestamp, r.Timestamp)
	assert.Equal(t, state.Measurements{}, r.Measurements)
	assert.Equal(t, "2000-01-01 00:00:00, 0.00, 0.00, 0.00, 0.00", state.FormatCSV(r))
}

func TestSetTimestampTruncatesToSeconds(t *testing.T) {
	s := state.New()
	s.SetTimestamp(time.Date(2025, 2, 10, 8, 0, 0, 999_000_000, time.UTC))

	assert.Equal(t, time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC), s.Snapshot().Timestamp)
}

func TestProducersWriteDisjointFields(t *testing.T) {
	s := state.New()
	ts := time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)
	m := state.Measurements{ShuntVoltageMV: 1, BusVoltageV: 2, CurrentMA: 3, PowerMW: 4}

	s.SetMeasurements(m)
	s.SetTimestamp(ts)

	r := s.Snapshot()
	assert.Equal(t, ts, r.Timestamp)
	assert.Equal(t, m, r.Measurements)
}

// Each writer stores generation k in every field it owns, so a coherent read
// has four equal measurement fields and a timestamp equal to some completed
// clock write.
func TestSnapshotNeverTorn(t *testing.T) {
	s := state.New()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for k := 1; ctx.Err() == nil; k++ {
			v := float64(k)
			s.SetMeasurements(state.Measurements{ShuntVoltageMV: v, BusVoltageV: v, CurrentMA: v, PowerMW: v})
		}
	}()

	go func() {
		defer wg.Done()
		for k := int64(1); ctx.Err() == nil; k++ {
			s.SetTimestamp(time.Unix(k, 0).UTC())
		}
	}()

	reads := 0
	lastGen := 0.0
	for ctx.Err() == nil {
		r := s.Snapshot()
		m := r.Measurements
		require.Equal(t, m.ShuntVoltageMV, m.BusVoltageV)
		require.Equal(t, m.ShuntVoltageMV, m.CurrentMA)
		require.Equal(t, m.ShuntVoltageMV, m.PowerMW)
		require.GreaterOrEqual(t, m.ShuntVoltageMV, lastGen, "generations must not go backwards")
		lastGen = m.ShuntVoltageMV
		require.True(t, r.Timestamp.Equal(state.DefaultTimestamp) || r.Timestamp.Unix() >= 1)
		reads++
	}

	wg.Wait()
	assert.Positive(t, reads)
}

func TestFormatCSVEndToEnd(t *testing.T) {
	r := state.Record{
		Timestamp: time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC),
		Measurements: state.Measurements{
			ShuntVoltageMV: 12.34,
			BusVoltageV:    5.00,
			CurrentMA:      100.00,
			PowerMW:        500.00,
		},
	}

	assert.Equal(t, "2025-02-10 08:00:00, 12.34, 5.00, 100.00, 500.00", state.FormatCSV(r))
}

func TestFormatCSVEdgeValues(t *testing.T) {
	tests := []struct {
		name string
		in   state.Measurements
		want string
	}{
		{"negative", state.Measurements{-0.5, -12.346, -100, -0.004}, "-0.50, -12.35, -100.00, -0.00"},
		{"large", state.Measurements{1e9, 32.76, 3276.7, 65534}, "1000000000.00, 32.76, 3276.70, 65534.00"},
		{"non-finite", state.Measurements{math.NaN(), math.Inf(1), math.Inf(-1), 1}, "0.00, 0.00, 0.00, 1.00"},
	}

	ts := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := state.FormatCSV(state.Record{Timestamp: ts, Measurements: tt.in})
			assert.Equal(t, "2024-12-31 23:59:59, "+tt.want, got)
		})
	}
}

func TestFormatCSVShape(t *testing.T) {
	line := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(, -?\d+\.\d{2}){4}$`)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		scale := math.Pow(10, float64(rng.Intn(12)-4))
		m := state.Measurements{
			ShuntVoltageMV: rng.NormFloat64() * scale,
			BusVoltageV:    rng.NormFloat64() * scale,
			CurrentMA:      rng.NormFloat64() * scale,
			PowerMW:        rng.NormFloat64() * scale,
		}
		got := state.FormatCSV(state.Record{Timestamp: time.Unix(rng.Int63n(4e9), 0).UTC(), Measurements: m})
		require.Regexp(t, line, got)
	}
}
