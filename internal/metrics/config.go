package metrics

import "codeberg.org/mutker/powerlogd/internal/errors"

const defaultPath = "/var/lib/node_exporter/textfile_collector/powerlogd.prom"

type Config struct {
	// Path is the node-exporter textfile the metrics are written to.
	Path    string
	Enabled bool
}

func DefaultConfig() Config {
	return Config{
		Path:    defaultPath,
		Enabled: false, // Disabled by default
	}
}

func (c Config) Validate() error {
	// Only validate Path if metrics is enabled
	if c.Enabled && c.Path == "" {
		return errors.New().New(ErrInvalidPath)
	}
	return nil
}
