package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// Formatter renders analysis output in one of the supported formats
type Formatter interface {
	Format(data any, pretty bool) ([]byte, error)
}

// NewFormatter returns the formatter for a format name, defaulting to
// JSON
func NewFormatter(format string) Formatter {
	switch format {
	case "yaml":
		return &YAMLFormatter{}
	case "csv":
		return &CSVFormatter{}
	default:
		return &JSONFormatter{}
	}
}

// JSONFormatter renders data as JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// YAMLFormatter renders data as YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any, _ bool) ([]byte, error) {
	return yaml.Marshal(data)
}

// CSVFormatter renders classification results as CSV rows. Other data
// shapes are not representable in CSV and are rejected.
type CSVFormatter struct{}

func (f *CSVFormatter) Format(data any, _ bool) ([]byte, error) {
	results, ok := data.([]vag.ClassificationResult)
	if !ok {
		return nil, vag.NewAnalysisError("", vag.ErrCodeUnsupportedFormat,
			fmt.Sprintf("csv output supports classification results only, got %T", data), nil)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"session_id", "timestamp", "channel", "window_start_s",
		"dominant_freq_hz", "dominant_magnitude", "energy_ratio",
		"category", "severity", "low_confidence", "artifact_suspected",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range results {
		row := []string{
			r.SessionID,
			r.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
			string(r.Feature.Channel),
			strconv.FormatFloat(r.Feature.WindowStart.Seconds(), 'f', 3, 64),
			strconv.FormatFloat(r.Feature.DominantFreqHz, 'f', 2, 64),
			strconv.FormatFloat(r.Feature.DominantMagnitude, 'f', 3, 64),
			strconv.FormatFloat(r.Feature.EnergyRatio, 'f', 4, 64),
			string(r.Category),
			r.Severity.String(),
			strconv.FormatBool(r.Feature.LowConfidence),
			strconv.FormatBool(r.ArtifactSuspected),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
