package config

import "codeberg.org/mutker/powerlogd/internal/errors"

const (
	ErrInvalidConfig   = errors.ErrInvalidConfig
	ErrParseFlags      = errors.ErrParseFlags
	ErrBindFlags       = errors.ErrBindFlags
	ErrReadConfig      = errors.ErrReadConfig
	ErrInvalidInterval = errors.ErrInvalidInterval
	ErrInvalidAttempts = errors.ErrInvalidAttempts
	ErrInvalidPath     = errors.ErrInvalidPath
	ErrInvalidLogLevel = errors.ErrInvalidLogLevel
)
