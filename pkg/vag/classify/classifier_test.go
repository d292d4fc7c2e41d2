package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

func testThresholds() ThresholdConfig {
	return ThresholdConfig{
		HealthyMaxFreqHz:       80,
		OAMinFreqHz:            150,
		MinConfidenceMagnitude: 1.0,
		Severity: map[vag.Channel]SeverityThresholds{
			vag.ChannelPiezo: {MildMinHz: 80, SevereMinHz: 120},
			vag.ChannelMic:   {MildMinHz: 350, SevereMinHz: 450},
		},
	}
}

func feature(channel vag.Channel, freq, magnitude float64) vag.SpectralFeature {
	return vag.SpectralFeature{
		Channel:           channel,
		DominantFreqHz:    freq,
		DominantMagnitude: magnitude,
	}
}

func TestThresholdValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ThresholdConfig)
	}{
		{"zero healthy max", func(c *ThresholdConfig) { c.HealthyMaxFreqHz = 0 }},
		{"oa below healthy", func(c *ThresholdConfig) { c.OAMinFreqHz = 60 }},
		{"negative confidence floor", func(c *ThresholdConfig) { c.MinConfidenceMagnitude = -1 }},
		{"unordered severity", func(c *ThresholdConfig) {
			c.Severity[vag.ChannelMic] = SeverityThresholds{MildMinHz: 450, SevereMinHz: 350}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testThresholds()
			tt.mutate(&config)

			_, err := NewClassifier(config)
			require.Error(t, err)
			assert.True(t, vag.IsInvalidConfig(err))
		})
	}
}

func TestClassifyDecisionRule(t *testing.T) {
	classifier, err := NewClassifier(testThresholds())
	require.NoError(t, err)

	tests := []struct {
		name     string
		freq     float64
		mag      float64
		expected vag.Category
	}{
		{"well below healthy max", 30, 100, vag.CategoryHealthy},
		{"exactly healthy max", 80, 100, vag.CategoryHealthy},
		{"in the threshold gap", 100, 100, vag.CategoryInconclusive},
		{"just under oa min", 149.9, 100, vag.CategoryInconclusive},
		{"exactly oa min", 150, 100, vag.CategorySuspectOA},
		{"well above oa min", 400, 100, vag.CategorySuspectOA},
		{"below confidence floor", 30, 0.5, vag.CategoryInconclusive},
		{"zero magnitude", 220, 0, vag.CategoryInconclusive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(feature(vag.ChannelMic, tt.freq, tt.mag))
			assert.Equal(t, tt.expected, result.Category)
			assert.Equal(t, 80.0, result.HealthyMaxFreqHz)
			assert.Equal(t, 150.0, result.OAMinFreqHz)
		})
	}
}

func TestLowConfidenceFlagForcesInconclusive(t *testing.T) {
	classifier, err := NewClassifier(testThresholds())
	require.NoError(t, err)

	f := feature(vag.ChannelMic, 30, 100)
	f.LowConfidence = true

	result := classifier.Classify(f)
	assert.Equal(t, vag.CategoryInconclusive, result.Category)
}

func TestClassifyIsPure(t *testing.T) {
	classifier, err := NewClassifier(testThresholds())
	require.NoError(t, err)

	f := feature(vag.ChannelPiezo, 110, 42)

	first := classifier.Classify(f)
	second := classifier.Classify(f)
	assert.Equal(t, first, second)
}

func TestGradeSeverityBoundaries(t *testing.T) {
	classifier, err := NewClassifier(testThresholds())
	require.NoError(t, err)

	tests := []struct {
		channel  vag.Channel
		freq     float64
		expected vag.Severity
	}{
		{vag.ChannelPiezo, 79, vag.SeverityNormal},
		{vag.ChannelPiezo, 80, vag.SeverityMild},
		{vag.ChannelPiezo, 119, vag.SeverityMild},
		{vag.ChannelPiezo, 120, vag.SeveritySevere},
		{vag.ChannelMic, 349, vag.SeverityNormal},
		{vag.ChannelMic, 350, vag.SeverityMild},
		{vag.ChannelMic, 450, vag.SeveritySevere},
	}

	for _, tt := range tests {
		got := classifier.GradeSeverity(feature(tt.channel, tt.freq, 100))
		assert.Equal(t, tt.expected, got, "%s at %.0f Hz", tt.channel, tt.freq)
	}
}

func TestGradeSeverityLowConfidenceIsNormal(t *testing.T) {
	classifier, err := NewClassifier(testThresholds())
	require.NoError(t, err)

	f := feature(vag.ChannelMic, 500, 100)
	f.LowConfidence = true
	assert.Equal(t, vag.SeverityNormal, classifier.GradeSeverity(f))
}

func TestAssessDecisionTable(t *testing.T) {
	tests := []struct {
		name      string
		mic       vag.Severity
		piezo     vag.Severity
		diagnosis string
	}{
		{"both normal", vag.SeverityNormal, vag.SeverityNormal, "Healthy Knee (KL Grade 0)"},
		{"mic elevated only", vag.SeverityMild, vag.SeverityNormal, "Early Osteoarthritis (KL Grade 1-2)"},
		{"mic severe piezo normal", vag.SeveritySevere, vag.SeverityNormal, "Early Osteoarthritis (KL Grade 1-2)"},
		{"piezo elevated only", vag.SeverityNormal, vag.SeverityMild, "Subchondral Bone Changes (Pre-OA)"},
		{"both mild", vag.SeverityMild, vag.SeverityMild, "Moderate Osteoarthritis (KL Grade 2-3)"},
		{"both severe", vag.SeveritySevere, vag.SeveritySevere, "Severe Osteoarthritis (KL Grade 3-4)"},
		{"disagreement", vag.SeveritySevere, vag.SeverityMild, "Inconclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment := Assess(tt.mic, tt.piezo)
			assert.Equal(t, tt.diagnosis, assessment.Diagnosis)
			assert.Equal(t, tt.mic, assessment.MicSeverity)
			assert.Equal(t, tt.piezo, assessment.PiezoSeverity)
			assert.NotEmpty(t, assessment.Notes)
		})
	}
}
