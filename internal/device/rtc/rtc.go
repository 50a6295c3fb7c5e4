// Package rtc adapts the tinygo DS3231 driver to device.Clock.
package rtc

import (
	"time"

	"codeberg.org/mutker/powerlogd/internal/device"
	"codeberg.org/mutker/powerlogd/internal/errors"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/ds3231"
)

var _ device.Clock = (*DS3231)(nil)

const (
	regStatus = 0x0F
	flagOSF   = 1 << 7
)

type DS3231 struct {
	bus drivers.I2C
	dev ds3231.Device
}

// New returns a DS3231 clock at address on bus. A zero address selects the
// chip default (0x68).
func New(bus drivers.I2C, address uint16) *DS3231 {
	c := &DS3231{bus: bus, dev: ds3231.New(bus)}
	if address != 0 {
		c.dev.Address = address
	}
	return c
}

// Open configures the driver and reads the time once to prove the chip answers.
func (c *DS3231) Open() error {
	errFactory := errors.New()

	if !c.dev.Configure() {
		return errFactory.New(device.ErrClockOpen)
	}
	if _, err := c.dev.ReadTime(); err != nil {
		return errFactory.Wrap(device.ErrClockOpen, err)
	}
	return nil
}

// LostTimeReference reports the oscillator-stop flag. The driver reports an
// unreadable status register as invalid time, which is treated the same way.
func (c *DS3231) LostTimeReference() (bool, error) {
	return !c.dev.IsTimeValid(), nil
}

// SetTime writes t and clears the oscillator-stop flag.
func (c *DS3231) SetTime(t time.Time) error {
	errFactory := errors.New()

	if err := c.dev.SetTime(t); err != nil {
		return errFactory.Wrap(device.ErrClockWrite, err)
	}
	if err := c.clearOscillatorStop(); err != nil {
		return errFactory.Wrap(device.ErrClockWrite, err)
	}
	return nil
}

func (c *DS3231) clearOscillatorStop() error {
	var status [1]byte
	if err := c.bus.Tx(c.dev.Address, []byte{regStatus}, status[:]); err != nil {
		return err
	}
	if status[0]&flagOSF == 0 {
		return nil
	}
	return c.bus.Tx(c.dev.Address, []byte{regStatus, status[0] &^ flagOSF}, nil)
}

func (c *DS3231) Now() (time.Time, error) {
	t, err := c.dev.ReadTime()
	if err != nil {
		return time.Time{}, errors.New().Wrap(device.ErrClockRead, err)
	}
	return t, nil
}
