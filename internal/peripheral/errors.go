package peripheral

import "codeberg.org/mutker/powerlogd/internal/errors"

const (
	ErrInvalidAttempts = errors.ErrInvalidAttempts
	ErrInvalidDelay    = errors.ErrInvalidInterval
	ErrUnavailable     = errors.ErrPeripheralUnavailable
)
