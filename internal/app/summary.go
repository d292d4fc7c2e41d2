package app

import (
	"github.com/kneescan/vag-analyzer/internal/pipeline"
	"github.com/kneescan/vag-analyzer/pkg/vag"
	"github.com/kneescan/vag-analyzer/pkg/vag/classify"
)

// SessionSummary aggregates one session's per-window results into the
// per-channel figures and the dual-sensor assessment
type SessionSummary struct {
	SessionID     string                          `json:"session_id"`
	RecordingFile string                          `json:"recording_file,omitempty"`
	Channels      map[vag.Channel]*ChannelSummary `json:"channels"`
	Assessment    classify.JointAssessment        `json:"assessment"`
	Counters      Counters                        `json:"counters"`
	SkippedLines  int64                           `json:"skipped_lines,omitempty"`
}

// ChannelSummary is the per-channel aggregate over all analysis
// windows
type ChannelSummary struct {
	Windows          int          `json:"windows"`
	Confident        int          `json:"confident_windows"`
	Inconclusive     int          `json:"inconclusive_windows"`
	ArtifactWindows  int          `json:"artifact_windows"`
	MeanDominantHz   float64      `json:"mean_dominant_hz"`
	MeanEnergyRatio  float64      `json:"mean_energy_ratio"`
	DominantCategory vag.Category `json:"dominant_category"`
	Severity         vag.Severity `json:"severity"`
	SeverityLabel    string       `json:"severity_label"`
}

// Counters mirrors the pipeline's data-quality counters
type Counters struct {
	SamplesReceived int64 `json:"samples_received"`
	Windows         int64 `json:"windows"`
	Results         int64 `json:"results"`
	DataGaps        int64 `json:"data_gaps"`
	DroppedWindows  int64 `json:"dropped_windows"`
}

// BuildSummary folds per-window results into a session summary. The
// per-channel severity is graded on the mean dominant frequency of the
// confident windows, then both channels combine into the joint
// assessment.
func BuildSummary(results []vag.ClassificationResult, classifier *classify.Classifier, stats *pipeline.Stats) *SessionSummary {
	summary := &SessionSummary{
		Channels: make(map[vag.Channel]*ChannelSummary, len(vag.Channels)),
	}
	for _, ch := range vag.Channels {
		summary.Channels[ch] = &ChannelSummary{DominantCategory: vag.CategoryInconclusive}
	}

	categories := make(map[vag.Channel]map[vag.Category]int)
	for _, ch := range vag.Channels {
		categories[ch] = make(map[vag.Category]int)
	}

	for _, r := range results {
		if summary.SessionID == "" {
			summary.SessionID = r.SessionID
		}

		cs, ok := summary.Channels[r.Feature.Channel]
		if !ok {
			continue
		}

		cs.Windows++
		categories[r.Feature.Channel][r.Category]++
		if r.ArtifactSuspected {
			cs.ArtifactWindows++
		}
		if r.Category == vag.CategoryInconclusive {
			cs.Inconclusive++
			continue
		}

		cs.Confident++
		cs.MeanDominantHz += r.Feature.DominantFreqHz
		cs.MeanEnergyRatio += r.Feature.EnergyRatio
	}

	for _, ch := range vag.Channels {
		cs := summary.Channels[ch]
		if cs.Confident > 0 {
			cs.MeanDominantHz /= float64(cs.Confident)
			cs.MeanEnergyRatio /= float64(cs.Confident)
		}

		best := 0
		for category, count := range categories[ch] {
			if count > best {
				best = count
				cs.DominantCategory = category
			}
		}

		if cs.Confident > 0 {
			cs.Severity = classifier.GradeSeverity(vag.SpectralFeature{
				Channel:        ch,
				DominantFreqHz: cs.MeanDominantHz,
			})
		}
		cs.SeverityLabel = cs.Severity.String()
	}

	summary.Assessment = classify.Assess(
		summary.Channels[vag.ChannelMic].Severity,
		summary.Channels[vag.ChannelPiezo].Severity,
	)

	if stats != nil {
		received, windows, emitted, gaps, dropped := stats.Snapshot()
		summary.Counters = Counters{
			SamplesReceived: received,
			Windows:         windows,
			Results:         emitted,
			DataGaps:        gaps,
			DroppedWindows:  dropped,
		}
	}

	return summary
}
