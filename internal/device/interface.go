// Package device declares the peripherals the logger samples. Concrete
// drivers live in the subpackages.
package device

import (
	"time"

	"codeberg.org/mutker/powerlogd/internal/errors"
	"codeberg.org/mutker/powerlogd/internal/state"
)

// Clock is a battery-backed real-time clock.
type Clock interface {
	// Open probes the chip. It may be called again after a failure.
	Open() error

	// LostTimeReference reports whether the clock stopped since it was last set,
	// meaning Now cannot be trusted until SetTime is called.
	LostTimeReference() (bool, error)

	SetTime(t time.Time) error
	Now() (time.Time, error)
}

// PowerSensor is a shunt-based voltage/current/power monitor.
type PowerSensor interface {
	// Open probes and configures the chip. It may be called again after a failure.
	Open() error

	ShuntVoltageMillivolts() (float64, error)
	BusVoltageVolts() (float64, error)
	CurrentMilliamps() (float64, error)
	PowerMilliwatts() (float64, error)
}

// ReadMeasurements collects all four values from s. It stops at the first error
// so a partial reading is never returned.
func ReadMeasurements(s PowerSensor) (state.Measurements, error) {
	errFactory := errors.New()

	var (
		m   state.Measurements
		err error
	)

	if m.ShuntVoltageMV, err = s.ShuntVoltageMillivolts(); err != nil {
		return state.Measurements{}, errFactory.Wrap(ErrSensorRead, err).WithMessage("shunt voltage")
	}
	if m.BusVoltageV, err = s.BusVoltageVolts(); err != nil {
		return state.Measurements{}, errFactory.Wrap(ErrSensorRead, err).WithMessage("bus voltage")
	}
	if m.CurrentMA, err = s.CurrentMilliamps(); err != nil {
		return state.Measurements{}, errFactory.Wrap(ErrSensorRead, err).WithMessage("current")
	}
	if m.PowerMW, err = s.PowerMilliwatts(); err != nil {
		return state.Measurements{}, errFactory.Wrap(ErrSensorRead, err).WithMessage("power")
	}

	return m, nil
}
