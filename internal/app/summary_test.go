package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kneescan/vag-analyzer/pkg/vag"
	"github.com/kneescan/vag-analyzer/pkg/vag/classify"
)

func testClassifier(t *testing.T) *classify.Classifier {
	t.Helper()
	classifier, err := classify.NewClassifier(classify.ThresholdConfig{
		HealthyMaxFreqHz:       80,
		OAMinFreqHz:            150,
		MinConfidenceMagnitude: 1.0,
		Severity: map[vag.Channel]classify.SeverityThresholds{
			vag.ChannelPiezo: {MildMinHz: 80, SevereMinHz: 120},
			vag.ChannelMic:   {MildMinHz: 350, SevereMinHz: 450},
		},
	})
	require.NoError(t, err)
	return classifier
}

func result(ch vag.Channel, freq, ratio float64, category vag.Category, artifact bool) vag.ClassificationResult {
	return vag.ClassificationResult{
		SessionID: "sess-1",
		Feature: vag.SpectralFeature{
			Channel:        ch,
			DominantFreqHz: freq,
			EnergyRatio:    ratio,
		},
		Category:          category,
		ArtifactSuspected: artifact,
	}
}

func TestBuildSummaryAggregates(t *testing.T) {
	results := []vag.ClassificationResult{
		result(vag.ChannelMic, 40, 0.2, vag.CategoryHealthy, false),
		result(vag.ChannelMic, 60, 0.4, vag.CategoryHealthy, true),
		result(vag.ChannelMic, 0, 0, vag.CategoryInconclusive, false),
		result(vag.ChannelPiezo, 200, 2.0, vag.CategorySuspectOA, false),
		result(vag.ChannelPiezo, 220, 3.0, vag.CategorySuspectOA, false),
	}

	summary := BuildSummary(results, testClassifier(t), nil)
	assert.Equal(t, "sess-1", summary.SessionID)

	mic := summary.Channels[vag.ChannelMic]
	assert.Equal(t, 3, mic.Windows)
	assert.Equal(t, 2, mic.Confident)
	assert.Equal(t, 1, mic.Inconclusive)
	assert.Equal(t, 1, mic.ArtifactWindows)
	assert.InDelta(t, 50.0, mic.MeanDominantHz, 1e-9)
	assert.InDelta(t, 0.3, mic.MeanEnergyRatio, 1e-9)
	assert.Equal(t, vag.CategoryHealthy, mic.DominantCategory)
	assert.Equal(t, vag.SeverityNormal, mic.Severity)
	assert.Equal(t, "normal", mic.SeverityLabel)

	piezo := summary.Channels[vag.ChannelPiezo]
	assert.Equal(t, 2, piezo.Windows)
	assert.InDelta(t, 210.0, piezo.MeanDominantHz, 1e-9)
	assert.Equal(t, vag.CategorySuspectOA, piezo.DominantCategory)
	assert.Equal(t, vag.SeveritySevere, piezo.Severity)

	// Mic normal, piezo elevated: accelerometer-only finding
	assert.Equal(t, "Subchondral Bone Changes (Pre-OA)", summary.Assessment.Diagnosis)
}

func TestBuildSummaryAllInconclusive(t *testing.T) {
	results := []vag.ClassificationResult{
		result(vag.ChannelMic, 0, 0, vag.CategoryInconclusive, false),
		result(vag.ChannelPiezo, 0, 0, vag.CategoryInconclusive, false),
	}

	summary := BuildSummary(results, testClassifier(t), nil)

	for _, ch := range vag.Channels {
		cs := summary.Channels[ch]
		assert.Equal(t, 0, cs.Confident)
		assert.Equal(t, 0.0, cs.MeanDominantHz)
		assert.Equal(t, vag.CategoryInconclusive, cs.DominantCategory)
		assert.Equal(t, vag.SeverityNormal, cs.Severity)
	}
	assert.Equal(t, "Healthy Knee (KL Grade 0)", summary.Assessment.Diagnosis)
}

func TestBuildSummaryEmptySession(t *testing.T) {
	summary := BuildSummary(nil, testClassifier(t), nil)

	assert.Empty(t, summary.SessionID)
	require.Contains(t, summary.Channels, vag.ChannelMic)
	require.Contains(t, summary.Channels, vag.ChannelPiezo)
	assert.Equal(t, 0, summary.Channels[vag.ChannelMic].Windows)
	assert.Equal(t, vag.CategoryInconclusive, summary.Channels[vag.ChannelMic].DominantCategory)
}
