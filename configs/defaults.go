package configs

import "github.com/spf13/viper"

// SetDefaults registers default configuration values for all
// components. Defaults sit below config files, environment variables
// and flags in viper's precedence, so a calibration file always wins.
func SetDefaults(v *viper.Viper) {
	// Acquisition defaults: the reference acquisition board samples
	// both sensors at 5 kHz with a 12-bit ADC
	v.SetDefault("acquisition.sample_rate", 5000.0)
	v.SetDefault("acquisition.adc_bits", 12)

	// Filter defaults: VAG literature band plus the 50 Hz mains notch
	v.SetDefault("filter.band_low_hz", 50.0)
	v.SetDefault("filter.band_high_hz", 600.0)
	v.SetDefault("filter.notch_hz", 50.0)
	v.SetDefault("filter.notch_q", 30.0)
	v.SetDefault("filter.harmonic_notch", true)
	v.SetDefault("filter.bandpass_order", 4)

	// Spectral defaults
	v.SetDefault("spectral.band_low_hz", 50.0)
	v.SetDefault("spectral.band_high_hz", 600.0)
	v.SetDefault("spectral.noise_floor", 0.5)
	v.SetDefault("spectral.skip_dc_bins", 10)
	v.SetDefault("spectral.low_band_hz", []float64{50.0, 150.0})
	v.SetDefault("spectral.high_band_hz", []float64{300.0, 600.0})

	// Threshold defaults are calibration starting points, expected to
	// be overridden per deployment
	v.SetDefault("thresholds.healthy_max_freq_hz", 80.0)
	v.SetDefault("thresholds.oa_min_freq_hz", 150.0)
	v.SetDefault("thresholds.min_confidence_magnitude", 1.0)
	v.SetDefault("thresholds.severity.piezo.mild_min_hz", 80.0)
	v.SetDefault("thresholds.severity.piezo.severe_min_hz", 120.0)
	v.SetDefault("thresholds.severity.mic.mild_min_hz", 350.0)
	v.SetDefault("thresholds.severity.mic.severe_min_hz", 450.0)

	// Windowing defaults
	v.SetDefault("pipeline.window_size", 4096)
	v.SetDefault("pipeline.overlap_fraction", 0.5)
	v.SetDefault("pipeline.gap_tolerance", 1.5)
	v.SetDefault("pipeline.artifact_limit", 10)
}
