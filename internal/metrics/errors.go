package metrics

import "codeberg.org/mutker/powerlogd/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrInvalidPath   = errors.ErrorCode("metrics_invalid_path")

	// Service Errors
	ErrRegister = errors.ErrInitMetrics
	ErrFlush    = errors.ErrWriteMetrics
)
