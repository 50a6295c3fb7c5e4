package storage

import "codeberg.org/mutker/powerlogd/internal/errors"

const (
	ErrNotMounted  = errors.ErrorCode("storage_not_mounted")
	ErrOpen        = errors.ErrorCode("storage_open_failed")
	ErrWrite       = errors.ErrorCode("storage_write_failed")
	ErrClose       = errors.ErrorCode("storage_close_failed")
	ErrInvalidRoot = errors.ErrorCode("storage_invalid_root")
)
