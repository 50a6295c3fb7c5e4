package config

import (
	"time"

	"codeberg.org/mutker/powerlogd/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultClockInterval   = time.Second
	DefaultSampleInterval  = time.Second
	DefaultLogInterval     = 2 * time.Second
	DefaultWriteRetryDelay = 5 * time.Second
	DefaultInitAttempts    = 3
	DefaultInitRetryDelay  = time.Second

	DefaultI2CBus        = "/dev/i2c-1"
	DefaultRTCAddress    = 0x68
	DefaultINA219Address = 0x40
	DefaultStorageRoot   = "/mnt/sd"
	DefaultLogFile       = "log.txt"
	DefaultLogLevel      = LogLevelInfo
	DefaultMetricsPath   = "/var/lib/node_exporter/textfile_collector/powerlogd.prom"
	DefaultPIDFile       = "/run/powerlogd.pid"

	configName       = "powerlogd"
	configType       = "toml"
	defaultConfigDir = "/etc"
)

type Config struct {
	ClockInterval   time.Duration `mapstructure:"clock_interval"`
	SampleInterval  time.Duration `mapstructure:"sample_interval"`
	LogInterval     time.Duration `mapstructure:"log_interval"`
	WriteRetryDelay time.Duration `mapstructure:"write_retry_delay"`
	InitAttempts    int           `mapstructure:"init_attempts"`
	InitRetryDelay  time.Duration `mapstructure:"init_retry_delay"`

	I2CBus        string `mapstructure:"i2c_bus"`
	RTCAddress    uint16 `mapstructure:"rtc_address"`
	INA219Address uint16 `mapstructure:"ina219_address"`

	StorageRoot string `mapstructure:"storage_root"`
	LogFile     string `mapstructure:"log_file"`

	LogLevel       LogLevel `mapstructure:"log_level"`
	MetricsEnabled bool     `mapstructure:"metrics_enabled"`
	MetricsPath    string   `mapstructure:"metrics_path"`
	PIDFile        string   `mapstructure:"pid_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("clock_interval", DefaultClockInterval)
	v.SetDefault("sample_interval", DefaultSampleInterval)
	v.SetDefault("log_interval", DefaultLogInterval)
	v.SetDefault("write_retry_delay", DefaultWriteRetryDelay)
	v.SetDefault("init_attempts", DefaultInitAttempts)
	v.SetDefault("init_retry_delay", DefaultInitRetryDelay)
	v.SetDefault("i2c_bus", DefaultI2CBus)
	v.SetDefault("rtc_address", DefaultRTCAddress)
	v.SetDefault("ina219_address", DefaultINA219Address)
	v.SetDefault("storage_root", DefaultStorageRoot)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("log_level", string(DefaultLogLevel))
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("metrics_path", DefaultMetricsPath)
	v.SetDefault("pid_file", DefaultPIDFile)
}

// Load reads the configuration from defaults, the optional TOML file and the
// command line args (without the program name), in increasing precedence.
// A missing file in the search path is not an error; a missing explicit file is.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := options{searchPaths: []string{defaultConfigDir}}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errFactory.Wrap(ErrInvalidConfig, err)
		}
	}

	// Define flags
	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	configFlag := fs.String("config", "", "Path to configuration file")
	fs.String("log-level", string(DefaultLogLevel), "Log level (debug, info, warning, error)")

	// Parse flags
	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(ErrParseFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	if err := v.BindPFlag("log_level", fs.Lookup("log-level")); err != nil {
		return nil, errFactory.Wrap(ErrBindFlags, err)
	}

	// Load configuration from file
	path := o.configPath
	if *configFlag != "" {
		path = *configFlag
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, dir := range o.searchPaths {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the tasks cannot run with.
func (c *Config) Validate() error {
	errFactory := errors.New()

	intervals := map[string]time.Duration{
		"clock_interval":    c.ClockInterval,
		"sample_interval":   c.SampleInterval,
		"log_interval":      c.LogInterval,
		"write_retry_delay": c.WriteRetryDelay,
		"init_retry_delay":  c.InitRetryDelay,
	}
	for key, d := range intervals {
		if d <= 0 {
			return errFactory.WithData(ErrInvalidInterval, key+"="+d.String())
		}
	}

	if c.InitAttempts < 1 {
		return errFactory.WithData(ErrInvalidAttempts, c.InitAttempts)
	}

	paths := map[string]string{
		"i2c_bus":      c.I2CBus,
		"storage_root": c.StorageRoot,
		"log_file":     c.LogFile,
	}
	if c.MetricsEnabled {
		paths["metrics_path"] = c.MetricsPath
	}
	for key, p := range paths {
		if p == "" {
			return errFactory.WithData(ErrInvalidPath, key)
		}
	}

	if !c.LogLevel.IsValid() {
		return errFactory.WithData(ErrInvalidLogLevel, c.LogLevel.String())
	}

	return nil
}
