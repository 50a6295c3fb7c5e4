// Package i2c provides tinygo drivers.I2C buses for a Linux host.
package i2c

import (
	"codeberg.org/mutker/powerlogd/internal/errors"
	"tinygo.org/x/drivers"
)

const (
	ErrOpenBus = errors.ErrorCode("i2c_open_failed")
	ErrTx      = errors.ErrorCode("i2c_transfer_failed")
)

// Bus is a drivers.I2C that owns an OS resource.
type Bus interface {
	drivers.I2C
	Close() error
}

// Unavailable is a Bus that fails every transfer with Err. It stands in for a
// bus that could not be opened so the peripherals behind it go through their
// normal retry-and-give-up path.
type Unavailable struct {
	Err error
}

func (u Unavailable) Tx(uint16, []byte, []byte) error {
	return errors.New().Wrap(ErrTx, u.Err)
}

func (Unavailable) Close() error { return nil }
