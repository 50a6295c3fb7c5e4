// Package state holds the single record shared between the sampling tasks and
// the recorder. All access goes through one mutex; callers never see the
// record itself, only copies.
package state

import (
	"sync"
	"time"
)

// DefaultTimestamp is reported until the clock has been read once.
var DefaultTimestamp = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Measurements is one reading of the power monitor.
type Measurements struct {
	ShuntVoltageMV float64
	BusVoltageV    float64
	CurrentMA      float64
	PowerMW        float64
}

// Record is the aggregated view persisted on every logging cycle.
type Record struct {
	Timestamp time.Time
	Measurements
}

// Store owns the shared Record. The zero value is not usable; use New.
type Store struct {
	mu     sync.Mutex
	record Record
}

func New() *Store {
	return &Store{
		record: Record{Timestamp: DefaultTimestamp},
	}
}

// SetTimestamp replaces the timestamp, truncated to whole seconds.
func (s *Store) SetTimestamp(t time.Time) {
	t = t.Truncate(time.Second)

	s.mu.Lock()
	s.record.Timestamp = t
	s.mu.Unlock()
}

// SetMeasurements replaces all four measurement fields at once.
func (s *Store) SetMeasurements(m Measurements) {
	s.mu.Lock()
	s.record.Measurements = m
	s.mu.Unlock()
}

// Snapshot returns a copy of the record. The lock is held only for the copy.
func (s *Store) Snapshot() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}
