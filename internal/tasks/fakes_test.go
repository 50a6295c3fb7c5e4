package tasks

import (
	"fmt"
	"sync"
	"time"

	"codeberg.org/mutker/powerlogd/internal/state"
	"codeberg.org/mutker/powerlogd/internal/storage"
)

var errBus = fmt.Errorf("i2c: no ack")

type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	err   error
	reads int
}

func (c *fakeClock) Open() error                      { return nil }
func (c *fakeClock) LostTimeReference() (bool, error) { return false, nil }
func (c *fakeClock) SetTime(time.Time) error          { return nil }

func (c *fakeClock) Now() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return c.now, c.err
}

type fakeSensor struct {
	mu    sync.Mutex
	m     state.Measurements
	err   error
	reads int
}

func (s *fakeSensor) Open() error { return nil }

func (s *fakeSensor) ShuntVoltageMillivolts() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	return s.m.ShuntVoltageMV, nil
}

func (s *fakeSensor) BusVoltageVolts() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.BusVoltageV, nil
}

func (s *fakeSensor) CurrentMilliamps() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.CurrentMA, s.err
}

func (s *fakeSensor) PowerMilliwatts() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m.PowerMW, nil
}

// lines collects console output.
type lines struct {
	mu  sync.Mutex
	out []string
}

func (l *lines) WriteLine(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = append(l.out, text)
}

func (l *lines) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.out...)
}

// flakyStorage fails the first failures opens, then delegates to next. If
// block is set, each successful open waits for it to be closed.
type flakyStorage struct {
	mu       sync.Mutex
	next     storage.Service
	failures int
	opens    []time.Time
	block    chan struct{}
}

func (s *flakyStorage) Mount() error { return nil }

func (s *flakyStorage) OpenAppend(name string) (storage.File, error) {
	s.mu.Lock()
	s.opens = append(s.opens, time.Now())
	n := len(s.opens)
	block := s.block
	s.mu.Unlock()

	if n <= s.failures {
		return nil, fmt.Errorf("card not present")
	}
	if block != nil {
		<-block
	}
	return s.next.OpenAppend(name)
}

func (s *flakyStorage) openTimes() []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Time(nil), s.opens...)
}

// fakeMetrics counts calls.
type fakeMetrics struct {
	mu         sync.Mutex
	records    int
	writes     int
	failures   int
	readErrors map[string]int
	available  map[string]bool
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{readErrors: map[string]int{}, available: map[string]bool{}}
}

func (m *fakeMetrics) ObserveRecord(state.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records++
}

func (m *fakeMetrics) RecordWrite(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.failures++
	} else {
		m.writes++
	}
}

func (m *fakeMetrics) RecordReadError(p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrors[p]++
}

func (m *fakeMetrics) SetAvailability(p string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available[p] = ok
}

func (m *fakeMetrics) Close() error { return nil }
