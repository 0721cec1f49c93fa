package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Output    OutputConfig    `mapstructure:"output"`
	Convert   ConvertConfig   `mapstructure:"convert"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type InputConfig struct {
	Path string `mapstructure:"path"`
}

type OutputConfig struct {
	Path string `mapstructure:"path"`
	CRLF bool   `mapstructure:"crlf"`
}

// ConvertConfig controls the projection. Northern=false applies the
// southern false-northing offset to every row.
type ConvertConfig struct {
	Northern bool `mapstructure:"northern"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig enables a Prometheus textfile written at the end of a run.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Option overrides a setting after the file and environment are read.
type Option func(*viper.Viper)

// WithInputPath sets input.path.
func WithInputPath(path string) Option {
	return func(v *viper.Viper) { v.Set("input.path", path) }
}

// WithOutputPath sets output.path.
func WithOutputPath(path string) Option {
	return func(v *viper.Viper) { v.Set("output.path", path) }
}

// Load reads configuration from file and environment variables, applies opts
// and validates the result.
func Load(service string, opts ...Option) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("input.path", "input.csv")
	v.SetDefault("output.path", "output.csv")
	v.SetDefault("output.crlf", true)
	v.SetDefault("convert.northern", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: UTM2LATLNG_OUTPUT_PATH → output.path
	v.SetEnvPrefix("UTM2LATLNG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, opt := range opts {
		opt(v)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Input.Path) == "" {
		errs = append(errs, "input.path is required")
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		errs = append(errs, "output.path is required")
	}
	if c.Input.Path != "" && c.Input.Path == c.Output.Path {
		errs = append(errs, fmt.Sprintf("input.path and output.path must differ, both are %q", c.Input.Path))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Telemetry.Enabled && c.Telemetry.TempoAddr == "" {
		errs = append(errs, "telemetry.tempo_addr is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
