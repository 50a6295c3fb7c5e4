package device

import "codeberg.org/mutker/powerlogd/internal/errors"

const (
	// Clock Errors
	ErrClockOpen  = errors.ErrorCode("clock_open_failed")
	ErrClockRead  = errors.ErrorCode("clock_read_failed")
	ErrClockWrite = errors.ErrorCode("clock_write_failed")

	// Sensor Errors
	ErrSensorOpen = errors.ErrorCode("sensor_open_failed")
	ErrSensorRead = errors.ErrorCode("sensor_read_failed")
)
