package metrics

import (
	"sync"

	"codeberg.org/mutker/powerlogd/internal/errors"
	"codeberg.org/mutker/powerlogd/internal/logger"
	"codeberg.org/mutker/powerlogd/internal/state"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "powerlogd"

type service struct {
	cfg Config
	reg *prometheus.Registry

	// Serializes textfile writes.
	mu sync.Mutex

	shuntVoltage  prometheus.Gauge
	busVoltage    prometheus.Gauge
	current       prometheus.Gauge
	power         prometheus.Gauge
	recordTime    prometheus.Gauge
	writes        prometheus.Counter
	writeFailures prometheus.Counter
	readErrors    *prometheus.CounterVec
	available     *prometheus.GaugeVec
}

// No-op implementation
type noopCollector struct{}

func NewService(cfg Config) (Collector, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	// If metrics is disabled, return a no-op collector
	if !cfg.Enabled {
		logger.Debug().Msg("Metrics collection disabled, using no-op collector")
		return NewNoop(), nil
	}

	s := newService(cfg)
	if err := s.register(); err != nil {
		return nil, errFactory.Wrap(ErrRegister, err)
	}

	logger.Debug().
		Str("path", cfg.Path).
		Bool("enabled", cfg.Enabled).
		Msg("Metrics service initialized successfully")

	return s, nil
}

// NewNoop returns a Collector that discards everything.
func NewNoop() Collector {
	return &noopCollector{}
}

func newService(cfg Config) *service {
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	return &service{
		cfg:          cfg,
		reg:          prometheus.NewRegistry(),
		shuntVoltage: gauge("shunt_voltage_millivolts", "Last logged shunt voltage."),
		busVoltage:   gauge("bus_voltage_volts", "Last logged bus voltage."),
		current:      gauge("current_milliamps", "Last logged current."),
		power:        gauge("power_milliwatts", "Last logged power."),
		recordTime:   gauge("record_timestamp_seconds", "Clock time of the last logged record."),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_written_total",
			Help:      "Records appended to storage.",
		}),
		writeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Failed storage write attempts.",
		}),
		readErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_errors_total",
			Help:      "Failed periodic peripheral reads.",
		}, []string{"peripheral"}),
		available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "peripheral_available",
			Help:      "1 if the peripheral initialized.",
		}, []string{"peripheral"}),
	}
}

func (s *service) register() error {
	for _, c := range []prometheus.Collector{
		s.shuntVoltage, s.busVoltage, s.current, s.power, s.recordTime,
		s.writes, s.writeFailures, s.readErrors, s.available,
	} {
		if err := s.reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) ObserveRecord(r state.Record) {
	s.shuntVoltage.Set(r.ShuntVoltageMV)
	s.busVoltage.Set(r.BusVoltageV)
	s.current.Set(r.CurrentMA)
	s.power.Set(r.PowerMW)
	s.recordTime.Set(float64(r.Timestamp.Unix()))
}

func (s *service) RecordWrite(err error) {
	if err != nil {
		s.writeFailures.Inc()
	} else {
		s.writes.Inc()
	}

	if ferr := s.flush(); ferr != nil {
		logger.Debug().Err(ferr).Str("path", s.cfg.Path).Msg("Failed to write metrics textfile")
	}
}

func (s *service) RecordReadError(peripheral string) {
	s.readErrors.WithLabelValues(peripheral).Inc()
}

func (s *service) SetAvailability(peripheral string, available bool) {
	v := 0.0
	if available {
		v = 1
	}
	s.available.WithLabelValues(peripheral).Set(v)
}

func (s *service) Close() error {
	return s.flush()
}

// flush writes the registry atomically to the configured textfile.
func (s *service) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := prometheus.WriteToTextfile(s.cfg.Path, s.reg); err != nil {
		return errors.New().Wrap(ErrFlush, err)
	}
	return nil
}

// No-op implementation
func (*noopCollector) ObserveRecord(state.Record)   {}
func (*noopCollector) RecordWrite(error)            {}
func (*noopCollector) RecordReadError(string)       {}
func (*noopCollector) SetAvailability(string, bool) {}
func (*noopCollector) Close() error                 { return nil }
