package classify

import (
	"fmt"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// ThresholdConfig holds the calibration constants for the three-way
// threshold classifier. These are supplied per deployment or
// calibration session, never hardcoded into the decision rule.
type ThresholdConfig struct {
	HealthyMaxFreqHz       float64 `mapstructure:"healthy_max_freq_hz" json:"healthy_max_freq_hz" yaml:"healthy_max_freq_hz"`
	OAMinFreqHz            float64 `mapstructure:"oa_min_freq_hz" json:"oa_min_freq_hz" yaml:"oa_min_freq_hz"`
	MinConfidenceMagnitude float64 `mapstructure:"min_confidence_magnitude" json:"min_confidence_magnitude" yaml:"min_confidence_magnitude"`

	// Per-channel severity tables, from the VAG literature
	Severity map[vag.Channel]SeverityThresholds `mapstructure:"severity" json:"severity" yaml:"severity"`
}

// SeverityThresholds grades a dominant frequency for one channel
type SeverityThresholds struct {
	MildMinHz   float64 `mapstructure:"mild_min_hz" json:"mild_min_hz" yaml:"mild_min_hz"`
	SevereMinHz float64 `mapstructure:"severe_min_hz" json:"severe_min_hz" yaml:"severe_min_hz"`
}

// Validate checks the thresholds eagerly
func (c *ThresholdConfig) Validate() error {
	if c.HealthyMaxFreqHz <= 0 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("healthy max frequency must be positive, got %v", c.HealthyMaxFreqHz), nil)
	}
	if c.OAMinFreqHz <= c.HealthyMaxFreqHz {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("oa min frequency %v Hz must be above healthy max %v Hz",
				c.OAMinFreqHz, c.HealthyMaxFreqHz), nil)
	}
	if c.MinConfidenceMagnitude < 0 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			"minimum confidence magnitude cannot be negative", nil)
	}
	for ch, s := range c.Severity {
		if s.MildMinHz <= 0 || s.SevereMinHz <= s.MildMinHz {
			return vag.NewAnalysisError(ch, vag.ErrCodeInvalidConfig,
				fmt.Sprintf("severity thresholds for %s are not ordered: mild %v, severe %v",
					ch, s.MildMinHz, s.SevereMinHz), nil)
		}
	}
	return nil
}

// Classifier maps spectral features to joint-health categories. It is
// stateless: identical feature and thresholds always produce the same
// result.
type Classifier struct {
	thresholds ThresholdConfig
}

// NewClassifier validates the thresholds and returns a classifier
func NewClassifier(thresholds ThresholdConfig) (*Classifier, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{thresholds: thresholds}, nil
}

// Thresholds returns the calibration constants in use
func (c *Classifier) Thresholds() ThresholdConfig {
	return c.thresholds
}

// Classify applies the threshold rule to one feature. Frequencies in
// the unresolved gap between the healthy and OA thresholds come back
// inconclusive rather than being forced into either category.
func (c *Classifier) Classify(feature vag.SpectralFeature) vag.ClassificationResult {
	result := vag.ClassificationResult{
		Feature:          feature,
		HealthyMaxFreqHz: c.thresholds.HealthyMaxFreqHz,
		OAMinFreqHz:      c.thresholds.OAMinFreqHz,
		Severity:         c.GradeSeverity(feature),
	}

	switch {
	case feature.LowConfidence || feature.DominantMagnitude < c.thresholds.MinConfidenceMagnitude:
		result.Category = vag.CategoryInconclusive
	case feature.DominantFreqHz <= c.thresholds.HealthyMaxFreqHz:
		result.Category = vag.CategoryHealthy
	case feature.DominantFreqHz >= c.thresholds.OAMinFreqHz:
		result.Category = vag.CategorySuspectOA
	default:
		result.Category = vag.CategoryInconclusive
	}

	return result
}

// GradeSeverity places the dominant frequency against the channel's
// severity table. Channels without a table grade as normal.
func (c *Classifier) GradeSeverity(feature vag.SpectralFeature) vag.Severity {
	s, ok := c.thresholds.Severity[feature.Channel]
	if !ok || feature.LowConfidence {
		return vag.SeverityNormal
	}
	switch {
	case feature.DominantFreqHz >= s.SevereMinHz:
		return vag.SeveritySevere
	case feature.DominantFreqHz >= s.MildMinHz:
		return vag.SeverityMild
	default:
		return vag.SeverityNormal
	}
}
