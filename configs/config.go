package configs

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/kneescan/vag-analyzer/internal/pipeline"
	"github.com/kneescan/vag-analyzer/pkg/vag/classify"
	"github.com/kneescan/vag-analyzer/pkg/vag/filter"
	"github.com/kneescan/vag-analyzer/pkg/vag/spectral"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// Acquisition settings
	Acquisition AcquisitionConfig `mapstructure:"acquisition" yaml:"acquisition"`

	// Time-domain filtering
	Filter filter.Config `mapstructure:"filter" yaml:"filter"`

	// Spectral analysis
	Spectral spectral.Config `mapstructure:"spectral" yaml:"spectral"`

	// Classification thresholds (calibration constants)
	Thresholds classify.ThresholdConfig `mapstructure:"thresholds" yaml:"thresholds"`

	// Windowing policy
	Pipeline pipeline.Config `mapstructure:"pipeline" yaml:"pipeline"`
}

// AcquisitionConfig describes the sample stream the pipeline consumes
type AcquisitionConfig struct {
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	ADCBits    int     `mapstructure:"adc_bits" yaml:"adc_bits"`
}

// LoadConfig loads configuration from viper and propagates the
// acquisition sample rate into sections that did not override it
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	if config.Filter.SampleRate == 0 {
		config.Filter.SampleRate = config.Acquisition.SampleRate
	}
	if config.Spectral.SampleRate == 0 {
		config.Spectral.SampleRate = config.Acquisition.SampleRate
	}
	if config.Pipeline.SampleRate == 0 {
		config.Pipeline.SampleRate = config.Acquisition.SampleRate
	}

	return config, nil
}

// Validate validates the configuration. Errors here are fatal to
// pipeline startup; nothing is silently defaulted.
func (c *Config) Validate() error {
	if c.Acquisition.SampleRate <= 0 {
		return fmt.Errorf("acquisition sample rate must be positive")
	}
	if c.Acquisition.ADCBits < 0 || c.Acquisition.ADCBits > 32 {
		return fmt.Errorf("adc resolution must be between 0 and 32 bits")
	}
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if err := c.Spectral.Validate(); err != nil {
		return fmt.Errorf("spectral: %w", err)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}
	if err := c.Pipeline.Validate(); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}
