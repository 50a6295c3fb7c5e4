package buildinfo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeFromLinkerTimestamp(t *testing.T) {
	old := Timestamp
	t.Cleanup(func() { Timestamp = old })

	Timestamp = "2025-02-10T08:00:00Z"
	got, ok := Time()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 2, 10, 8, 0, 0, 0, time.UTC), got)
}

func TestTimeFallsBack(t *testing.T) {
	old := Timestamp
	t.Cleanup(func() { Timestamp = old })

	Timestamp = "not a time"
	got, ok := Time()
	assert.True(t, ok, "test binary has a modification time")
	assert.False(t, got.IsZero())
}
