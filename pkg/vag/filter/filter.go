package filter

import (
	"fmt"

	"github.com/kneescan/vag-analyzer/pkg/logging"
	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// Config holds the time-domain filtering parameters for one session
type Config struct {
	BandLowHz  float64 `mapstructure:"band_low_hz" json:"band_low_hz" yaml:"band_low_hz"`
	BandHighHz float64 `mapstructure:"band_high_hz" json:"band_high_hz" yaml:"band_high_hz"`
	NotchHz    float64 `mapstructure:"notch_hz" json:"notch_hz" yaml:"notch_hz"`
	NotchQ     float64 `mapstructure:"notch_q" json:"notch_q" yaml:"notch_q"`
	SampleRate float64 `mapstructure:"sample_rate" json:"sample_rate" yaml:"sample_rate"`

	// HarmonicNotch adds a second notch at 2x NotchHz on the piezo
	// channel, which picks up the mains harmonic strongly
	HarmonicNotch bool `mapstructure:"harmonic_notch" json:"harmonic_notch" yaml:"harmonic_notch"`

	// BandpassOrder is the order of each Butterworth half (highpass and
	// lowpass). Must be even. Defaults to 4.
	BandpassOrder int `mapstructure:"bandpass_order" json:"bandpass_order" yaml:"bandpass_order"`
}

// Validate checks the configuration eagerly, before any window is
// processed
func (c *Config) Validate() error {
	if c.SampleRate <= 0 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("sample rate must be positive, got %v", c.SampleRate), nil)
	}
	nyquist := c.SampleRate / 2
	if c.BandLowHz <= 0 || c.BandHighHz <= 0 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			"bandpass edges must be positive", nil)
	}
	if c.BandLowHz >= c.BandHighHz {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("bandpass low edge %v Hz must be below high edge %v Hz",
				c.BandLowHz, c.BandHighHz), nil)
	}
	if c.BandHighHz >= nyquist {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("bandpass high edge %v Hz must be below Nyquist %v Hz",
				c.BandHighHz, nyquist), nil)
	}
	if c.NotchHz <= 0 || c.NotchHz >= nyquist {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("notch frequency %v Hz must be in (0, %v)", c.NotchHz, nyquist), nil)
	}
	if c.NotchQ <= 0 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("notch quality factor must be positive, got %v", c.NotchQ), nil)
	}
	if c.BandpassOrder != 0 && c.BandpassOrder%2 != 0 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("bandpass order must be even, got %d", c.BandpassOrder), nil)
	}
	return nil
}

// Stage applies the bandpass and notch chain to one window at a time.
// All filtering is zero phase so dominant-frequency estimates are not
// biased by group delay.
type Stage struct {
	config   Config
	bandpass *Cascade
	notch    *Cascade
	harmonic *Cascade
	logger   logging.Logger
}

// NewStage designs the filter cascades from config. Configuration
// errors are reported here, never per call.
func NewStage(config Config, logger logging.Logger) (*Stage, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	order := config.BandpassOrder
	if order == 0 {
		order = 4
	}

	bandpass := NewCascade(
		ButterworthHighpass(order, config.BandLowHz, config.SampleRate),
		ButterworthLowpass(order, config.BandHighHz, config.SampleRate),
	)
	notch := NewCascade(Notch(config.NotchHz, config.NotchQ, config.SampleRate))

	var harmonic *Cascade
	if config.HarmonicNotch {
		harmonic = NewCascade(Notch(2*config.NotchHz, config.NotchQ, config.SampleRate))
	}

	s := &Stage{
		config:   config,
		bandpass: bandpass,
		notch:    notch,
		harmonic: harmonic,
		logger: logger.WithFields(logging.Fields{
			"component": "filter_stage",
		}),
	}

	s.logger.Debug("Filter stage initialized", logging.Fields{
		"band_low_hz":    config.BandLowHz,
		"band_high_hz":   config.BandHighHz,
		"notch_hz":       config.NotchHz,
		"notch_q":        config.NotchQ,
		"bandpass_order": order,
		"min_samples":    s.MinSamples(),
	})

	return s, nil
}

// MinSamples returns the shortest window the stage accepts
func (s *Stage) MinSamples() int {
	return s.bandpass.PadLength() + 1
}

// Apply filters one window. The input is not mutated; channel and
// timing metadata carry over to the result.
func (s *Stage) Apply(window *vag.Window) (*vag.FilteredWindow, error) {
	if len(window.Values) < s.MinSamples() {
		return nil, vag.NewAnalysisError(window.Channel, vag.ErrCodeInsufficientSamples,
			fmt.Sprintf("window of %d samples is below the filter minimum of %d",
				len(window.Values), s.MinSamples()), nil)
	}

	values := s.bandpass.ProcessZeroPhase(window.Values)
	values = s.notch.ProcessZeroPhase(values)

	if s.harmonic != nil && window.Channel == vag.ChannelPiezo {
		values = s.harmonic.ProcessZeroPhase(values)
	}

	return &vag.FilteredWindow{
		Channel:    window.Channel,
		StartIndex: window.StartIndex,
		SampleRate: window.SampleRate,
		Values:     values,
	}, nil
}
