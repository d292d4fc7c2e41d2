package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

func sampleResults() []vag.ClassificationResult {
	ts := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)
	return []vag.ClassificationResult{
		{
			SessionID: "abc-123",
			Timestamp: ts,
			Feature: vag.SpectralFeature{
				Channel:           vag.ChannelMic,
				WindowStart:       0,
				DominantFreqHz:    42.5,
				DominantMagnitude: 87.3,
				EnergyRatio:       0.12,
			},
			Category: vag.CategoryHealthy,
			Severity: vag.SeverityNormal,
		},
		{
			SessionID: "abc-123",
			Timestamp: ts,
			Feature: vag.SpectralFeature{
				Channel:           vag.ChannelPiezo,
				WindowStart:       409 * time.Millisecond,
				DominantFreqHz:    231.0,
				DominantMagnitude: 55.1,
				EnergyRatio:       3.4,
			},
			Category:          vag.CategorySuspectOA,
			Severity:          vag.SeveritySevere,
			ArtifactSuspected: true,
		},
	}
}

func TestFormatterSelection(t *testing.T) {
	assert.IsType(t, &JSONFormatter{}, NewFormatter("json"))
	assert.IsType(t, &YAMLFormatter{}, NewFormatter("yaml"))
	assert.IsType(t, &CSVFormatter{}, NewFormatter("csv"))
	assert.IsType(t, &JSONFormatter{}, NewFormatter(""))
	assert.IsType(t, &JSONFormatter{}, NewFormatter("tsv"))
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := NewFormatter("json").Format(sampleResults(), false)
	require.NoError(t, err)

	var decoded []vag.ClassificationResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, vag.CategorySuspectOA, decoded[1].Category)
	assert.Equal(t, 231.0, decoded[1].Feature.DominantFreqHz)
}

func TestJSONPrettyIndents(t *testing.T) {
	compact, err := NewFormatter("json").Format(sampleResults(), false)
	require.NoError(t, err)
	pretty, err := NewFormatter("json").Format(sampleResults(), true)
	require.NoError(t, err)

	assert.NotContains(t, string(compact), "\n  ")
	assert.Contains(t, string(pretty), "\n  ")
}

func TestYAMLOutput(t *testing.T) {
	data, err := NewFormatter("yaml").Format(sampleResults(), false)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sessionid: abc-123")
}

func TestCSVOutput(t *testing.T) {
	data, err := NewFormatter("csv").Format(sampleResults(), false)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "session_id", rows[0][0])
	assert.Equal(t, "channel", rows[0][2])

	assert.Equal(t, "abc-123", rows[1][0])
	assert.Equal(t, "mic", rows[1][2])
	assert.Equal(t, "0.000", rows[1][3])
	assert.Equal(t, "42.50", rows[1][4])
	assert.Equal(t, "healthy", rows[1][7])
	assert.Equal(t, "false", rows[1][10])

	assert.Equal(t, "piezo", rows[2][2])
	assert.Equal(t, "0.409", rows[2][3])
	assert.Equal(t, "suspect_oa", rows[2][7])
	assert.Equal(t, "severe", rows[2][8])
	assert.Equal(t, "true", rows[2][10])
}

func TestCSVRejectsOtherShapes(t *testing.T) {
	_, err := NewFormatter("csv").Format(map[string]int{"windows": 3}, false)
	require.Error(t, err)

	var analysisErr *vag.AnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, vag.ErrCodeUnsupportedFormat, analysisErr.Code)
}
