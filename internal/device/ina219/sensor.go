package ina219

import (
	"codeberg.org/mutker/powerlogd/internal/device"
	"codeberg.org/mutker/powerlogd/internal/errors"
	"tinygo.org/x/drivers"
)

var _ device.PowerSensor = (*Sensor)(nil)

// Sensor adapts a Device to device.PowerSensor.
type Sensor struct {
	dev *Device
	cfg Config
}

func NewSensor(bus drivers.I2C, cfg Config) *Sensor {
	return &Sensor{dev: New(bus), cfg: cfg}
}

func (s *Sensor) Open() error {
	if err := s.dev.Configure(s.cfg); err != nil {
		return errors.New().Wrap(device.ErrSensorOpen, err)
	}
	return nil
}

func (s *Sensor) ShuntVoltageMillivolts() (float64, error) {
	return s.dev.ShuntVoltage()
}

func (s *Sensor) BusVoltageVolts() (float64, error) {
	return s.dev.BusVoltage()
}

func (s *Sensor) CurrentMilliamps() (float64, error) {
	return s.dev.Current()
}

func (s *Sensor) PowerMilliwatts() (float64, error) {
	return s.dev.Power()
}
