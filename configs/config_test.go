package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// loadFromYAML runs the same defaults -> config file -> unmarshal
// sequence the CLI uses at startup
func loadFromYAML(t *testing.T, content string) *Config {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults(viper.GetViper())

	if content != "" {
		path := filepath.Join(t.TempDir(), "vag-analyzer.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		viper.SetConfigFile(path)
		require.NoError(t, viper.ReadInConfig())
	}

	config, err := LoadConfig()
	require.NoError(t, err)
	return config
}

func TestDefaultsAreComplete(t *testing.T) {
	config := loadFromYAML(t, "")
	require.NoError(t, config.Validate())

	assert.Equal(t, 5000.0, config.Acquisition.SampleRate)
	assert.Equal(t, 50.0, config.Filter.BandLowHz)
	assert.Equal(t, 600.0, config.Filter.BandHighHz)
	assert.Equal(t, 30.0, config.Filter.NotchQ)
	assert.Equal(t, 80.0, config.Thresholds.HealthyMaxFreqHz)
	assert.Equal(t, 150.0, config.Thresholds.OAMinFreqHz)
	assert.Equal(t, 4096, config.Pipeline.WindowSize)
	assert.Equal(t, [2]float64{50, 150}, config.Spectral.LowBandHz)

	require.Contains(t, config.Thresholds.Severity, vag.ChannelPiezo)
	assert.Equal(t, 120.0, config.Thresholds.Severity[vag.ChannelPiezo].SevereMinHz)
}

// A calibration file must override defaults; defaults may never shadow
// a deployment's configured thresholds
func TestCalibrationFileOverridesDefaults(t *testing.T) {
	config := loadFromYAML(t, `
filter:
  band_high_hz: 500
  notch_hz: 60
thresholds:
  healthy_max_freq_hz: 99
  oa_min_freq_hz: 180
pipeline:
  window_size: 2048
`)
	require.NoError(t, config.Validate())

	assert.Equal(t, 500.0, config.Filter.BandHighHz)
	assert.Equal(t, 60.0, config.Filter.NotchHz)
	assert.Equal(t, 99.0, config.Thresholds.HealthyMaxFreqHz)
	assert.Equal(t, 180.0, config.Thresholds.OAMinFreqHz)
	assert.Equal(t, 2048, config.Pipeline.WindowSize)

	// Keys the file does not mention keep their defaults
	assert.Equal(t, 50.0, config.Filter.BandLowHz)
	assert.Equal(t, 1.0, config.Thresholds.MinConfidenceMagnitude)
	assert.Equal(t, 0.5, config.Pipeline.OverlapFraction)
}

func TestSampleRatePropagation(t *testing.T) {
	config := loadFromYAML(t, `
acquisition:
  sample_rate: 2000
filter:
  band_high_hz: 600
`)
	assert.Equal(t, 2000.0, config.Filter.SampleRate)
	assert.Equal(t, 2000.0, config.Spectral.SampleRate)
	assert.Equal(t, 2000.0, config.Pipeline.SampleRate)
}

func TestSectionSampleRateWins(t *testing.T) {
	config := loadFromYAML(t, `
acquisition:
  sample_rate: 2000
spectral:
  sample_rate: 4000
  band_high_hz: 600
`)
	assert.Equal(t, 2000.0, config.Filter.SampleRate)
	assert.Equal(t, 4000.0, config.Spectral.SampleRate)
}

// The YAML rendering of a loaded config must use the same keys the
// config file accepts, so printed output is valid as a config file
func TestYAMLRoundTrip(t *testing.T) {
	config := loadFromYAML(t, "")

	data, err := yaml.Marshal(config)
	require.NoError(t, err)
	rendered := string(data)
	assert.Contains(t, rendered, "log_level:")
	assert.Contains(t, rendered, "band_low_hz:")
	assert.Contains(t, rendered, "healthy_max_freq_hz:")
	assert.Contains(t, rendered, "window_size:")
	assert.Contains(t, rendered, "sample_rate:")

	var reloaded Config
	require.NoError(t, yaml.Unmarshal(data, &reloaded))
	assert.Equal(t, config.Filter, reloaded.Filter)
	assert.Equal(t, config.Thresholds, reloaded.Thresholds)
	assert.Equal(t, config.Pipeline, reloaded.Pipeline)
}

func TestValidateRejectsBadCalibration(t *testing.T) {
	config := loadFromYAML(t, `
filter:
  band_low_hz: 700
`)
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter")
}
