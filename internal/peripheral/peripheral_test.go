package peripheral

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/powerlogd/internal/logger"
	"codeberg.org/mutker/powerlogd/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoAck = fmt.Errorf("no ack")

// flaky fails its first failures calls and records when each call happened.
type flaky struct {
	mu       sync.Mutex
	failures int
	calls    []time.Time
}

func (f *flaky) call() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, time.Now())
	if len(f.calls) <= f.failures {
		return errNoAck
	}
	return nil
}

func (f *flaky) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClock struct {
	flaky
	lost bool
	now  time.Time
}

func (c *fakeClock) Open() error                      { return c.call() }
func (c *fakeClock) LostTimeReference() (bool, error) { return c.lost, nil }
func (c *fakeClock) Now() (time.Time, error)          { return c.now, nil }

func (c *fakeClock) SetTime(t time.Time) error {
	c.now = t.Truncate(time.Second)
	c.lost = false
	return nil
}

type fakeSensor struct{ flaky }

func (s *fakeSensor) Open() error                              { return s.call() }
func (s *fakeSensor) ShuntVoltageMillivolts() (float64, error) { return 0, nil }
func (s *fakeSensor) BusVoltageVolts() (float64, error)        { return 0, nil }
func (s *fakeSensor) CurrentMilliamps() (float64, error)       { return 0, nil }
func (s *fakeSensor) PowerMilliwatts() (float64, error)        { return 0, nil }

type fakeStorage struct{ flaky }

func (s *fakeStorage) Mount() error { return s.call() }

func (s *fakeStorage) OpenAppend(string) (storage.File, error) { return nil, errNoAck }

const testDelay = 20 * time.Millisecond

func newTestInitializer(t *testing.T, buildTime time.Time) (*Initializer, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	pi, err := New(Options{Attempts: 3, Delay: testDelay, BuildTime: buildTime}, logger.New(&buf))
	require.NoError(t, err)
	return pi, &buf
}

func countLines(buf *bytes.Buffer, substr string) int {
	n := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

func TestGivesUpAfterThreeAttempts(t *testing.T) {
	pi, buf := newTestInitializer(t, time.Time{})
	sensor := &fakeSensor{flaky{failures: 100}}

	ok := pi.InitSensor(context.Background(), sensor)

	assert.False(t, ok)
	require.Equal(t, 3, sensor.count(), "no fourth attempt")
	for i := 1; i < len(sensor.calls); i++ {
		assert.GreaterOrEqual(t, sensor.calls[i].Sub(sensor.calls[i-1]), testDelay)
	}
	assert.Equal(t, 2, countLines(buf, "Retrying..."))
	assert.Equal(t, 1, countLines(buf, "sensor disabled"))
}

func TestSucceedsOnSecondAttempt(t *testing.T) {
	pi, buf := newTestInitializer(t, time.Time{})
	store := &fakeStorage{flaky{failures: 1}}

	ok := pi.InitStorage(context.Background(), store)

	assert.True(t, ok)
	assert.Equal(t, 2, store.count(), "third attempt never happens")
	assert.Equal(t, 1, countLines(buf, "Retrying..."))
	assert.Zero(t, countLines(buf, "disabled"))
}

func TestNoWaitAfterLastAttempt(t *testing.T) {
	var buf bytes.Buffer
	pi, err := New(Options{Attempts: 1, Delay: time.Hour}, logger.New(&buf))
	require.NoError(t, err)

	start := time.Now()
	ok := pi.InitSensor(context.Background(), &fakeSensor{flaky{failures: 1}})

	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClockReseedFromBuildTime(t *testing.T) {
	build := time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC)
	pi, buf := newTestInitializer(t, build)
	clock := &fakeClock{lost: true}

	ok := pi.InitClock(context.Background(), clock)

	require.True(t, ok)
	now, err := clock.Now()
	require.NoError(t, err)
	assert.WithinDuration(t, build, now, time.Second)
	assert.Equal(t, 1, countLines(buf, "time set to build time"))
}

func TestClockNotReseededWhenTimeKept(t *testing.T) {
	kept := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pi, _ := newTestInitializer(t, time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC))
	clock := &fakeClock{now: kept}

	require.True(t, pi.InitClock(context.Background(), clock))
	now, _ := clock.Now()
	assert.Equal(t, kept, now)
}

func TestRunIsolatesFailures(t *testing.T) {
	pi, _ := newTestInitializer(t, time.Time{})

	avail := pi.Run(context.Background(),
		&fakeClock{},
		&fakeSensor{flaky{failures: 100}},
		&fakeStorage{},
	)

	assert.Equal(t, Availability{Clock: true, Sensor: false, Storage: true}, avail)
}

func TestRunWithMissingPeripherals(t *testing.T) {
	pi, _ := newTestInitializer(t, time.Time{})

	avail := pi.Run(context.Background(), nil, nil, nil)

	assert.Equal(t, Availability{}, avail)
}

func TestCancelStopsRetrying(t *testing.T) {
	var buf bytes.Buffer
	pi, err := New(Options{Attempts: 3, Delay: time.Hour}, logger.New(&buf))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	sensor := &fakeSensor{flaky{failures: 100}}
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	assert.False(t, pi.InitSensor(ctx, sensor))
	assert.Equal(t, 1, sensor.count())
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.Error(t, Options{Attempts: 0, Delay: time.Second}.Validate())
	assert.Error(t, Options{Attempts: 3, Delay: -time.Second}.Validate())
}
