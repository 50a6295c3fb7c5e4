package tasks

import "codeberg.org/mutker/powerlogd/internal/errors"

const (
	ErrInvalidInterval = errors.ErrInvalidInterval
	ErrInvalidPath     = errors.ErrInvalidPath
)
