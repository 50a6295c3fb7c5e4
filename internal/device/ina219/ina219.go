// Package ina219 drives the TI INA219 high-side current/power monitor over
// tinygo's drivers.I2C.
//
// Registers are 16-bit big-endian. A read sets the register pointer and reads
// two bytes in one transaction, so I2C.Tx MUST perform the write followed by a
// repeated-start read when both w and r are given.
//
// The default configuration matches the common 32 V / 2 A breakout setup:
// 0.1 Ω shunt, calibration 4096, 100 µA per current LSB and 2 mW per power LSB.
//
// A Device is not safe for concurrent use.
package ina219

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers"
)

// Address is the default I2C address (A0 and A1 tied to GND).
const Address = 0x40

// Register map.
const (
	RegConfig       = 0x00
	RegShuntVoltage = 0x01
	RegBusVoltage   = 0x02
	RegPower        = 0x03
	RegCurrent      = 0x04
	RegCalibration  = 0x05
)

// Configuration register fields.
const (
	ConfigReset = 0x8000

	BusVoltageRange32V = 0x2000
	GainDiv8           = 0x1800
	BusADC12Bit        = 0x0180
	ShuntADC12Bit1S    = 0x0018
	ModeShuntBusCont   = 0x0007
)

// Math overflow flag in the bus voltage register.
const busOverflow = 0x0001

// ErrNotResponding is returned by Configure when the config register does not
// read back what was written.
var ErrNotResponding = errors.New("ina219: device not responding")

// Config describes the calibration. A zero field takes the 32 V / 2 A default.
type Config struct {
	Address uint16

	// Register value written to RegConfig.
	Mode uint16

	// Calibration is written to RegCalibration.
	Calibration uint16

	// CurrentDivider converts raw current counts to mA (counts / divider).
	CurrentDivider float64

	// PowerMultiplier converts raw power counts to mW (counts * multiplier).
	PowerMultiplier float64
}

// DefaultConfig is the 32 V / 2 A range used by the logger.
func DefaultConfig() Config {
	return Config{
		Address:         Address,
		Mode:            BusVoltageRange32V | GainDiv8 | BusADC12Bit | ShuntADC12Bit1S | ModeShuntBusCont,
		Calibration:     4096,
		CurrentDivider:  10,
		PowerMultiplier: 2,
	}
}

// Device wraps an I2C connection to an INA219.
type Device struct {
	bus     drivers.I2C
	Address uint16

	cfg Config
	w   [3]byte
	r   [2]byte
}

// New creates a Device on bus. It does not touch the hardware.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus:     bus,
		Address: Address,
		cfg:     DefaultConfig(),
	}
}

// Configure applies cfg (zero fields take defaults), writes the calibration
// and config registers and verifies the config register reads back.
func (d *Device) Configure(cfg Config) error {
	def := DefaultConfig()
	if cfg.Address == 0 {
		cfg.Address = d.Address
	}
	if cfg.Mode == 0 {
		cfg.Mode = def.Mode
	}
	if cfg.Calibration == 0 {
		cfg.Calibration = def.Calibration
	}
	if cfg.CurrentDivider == 0 {
		cfg.CurrentDivider = def.CurrentDivider
	}
	if cfg.PowerMultiplier == 0 {
		cfg.PowerMultiplier = def.PowerMultiplier
	}
	d.cfg = cfg
	d.Address = cfg.Address

	if err := d.writeReg(RegCalibration, cfg.Calibration); err != nil {
		return fmt.Errorf("ina219: write calibration: %w", err)
	}
	if err := d.writeReg(RegConfig, cfg.Mode); err != nil {
		return fmt.Errorf("ina219: write config: %w", err)
	}

	got, err := d.readReg(RegConfig)
	if err != nil {
		return fmt.Errorf("ina219: read config: %w", err)
	}
	if got&^ConfigReset != cfg.Mode&^ConfigReset {
		return ErrNotResponding
	}

	return nil
}

// ShuntVoltage returns the shunt voltage in mV (10 µV per LSB).
func (d *Device) ShuntVoltage() (float64, error) {
	raw, err := d.readReg(RegShuntVoltage)
	if err != nil {
		return 0, err
	}
	return float64(int16(raw)) * 0.01, nil
}

// BusVoltage returns the bus voltage in V (4 mV per LSB, bits 15..3).
func (d *Device) BusVoltage() (float64, error) {
	raw, err := d.readReg(RegBusVoltage)
	if err != nil {
		return 0, err
	}
	return float64((raw>>3)*4) * 0.001, nil
}

// Overflow reports whether the last conversion overflowed the power or
// current calculation.
func (d *Device) Overflow() (bool, error) {
	raw, err := d.readReg(RegBusVoltage)
	if err != nil {
		return false, err
	}
	return raw&busOverflow != 0, nil
}

// Current returns the current in mA. The calibration register is rewritten
// first since a brown-out resets it to zero and the current register then
// reads 0.
func (d *Device) Current() (float64, error) {
	if err := d.writeReg(RegCalibration, d.cfg.Calibration); err != nil {
		return 0, err
	}
	raw, err := d.readReg(RegCurrent)
	if err != nil {
		return 0, err
	}
	return float64(int16(raw)) / d.cfg.CurrentDivider, nil
}

// Power returns the power in mW.
func (d *Device) Power() (float64, error) {
	if err := d.writeReg(RegCalibration, d.cfg.Calibration); err != nil {
		return 0, err
	}
	raw, err := d.readReg(RegPower)
	if err != nil {
		return 0, err
	}
	return float64(raw) * d.cfg.PowerMultiplier, nil
}

func (d *Device) readReg(reg byte) (uint16, error) {
	d.w[0] = reg
	if err := d.bus.Tx(d.Address, d.w[:1], d.r[:2]); err != nil {
		return 0, err
	}
	return uint16(d.r[0])<<8 | uint16(d.r[1]), nil
}

func (d *Device) writeReg(reg byte, val uint16) error {
	d.w[0] = reg
	d.w[1] = byte(val >> 8)
	d.w[2] = byte(val)
	return d.bus.Tx(d.Address, d.w[:3], nil)
}
