package vag

import "time"

// Channel identifies the sensor that produced a sample
type Channel string

const (
	ChannelMic   Channel = "mic"
	ChannelPiezo Channel = "piezo"
)

// Channels lists all sensor channels in processing order
var Channels = []Channel{ChannelMic, ChannelPiezo}

// Sample is a single raw ADC reading from one sensor channel.
// Index is a monotonic per-channel sample counter at the nominal rate.
type Sample struct {
	Index   int64   `json:"index"`
	Channel Channel `json:"channel"`
	Value   int32   `json:"value"`
}

// Window is a fixed-length, time-contiguous block of raw samples for
// one channel
type Window struct {
	Channel    Channel `json:"channel"`
	StartIndex int64   `json:"start_index"`
	SampleRate float64 `json:"sample_rate"`
	Values     []float64
}

// Duration returns the time span covered by the window
func (w *Window) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(w.Values)) / w.SampleRate * float64(time.Second))
}

// StartTime returns the elapsed time of the window's first sample
// relative to the start of the session
func (w *Window) StartTime() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(w.StartIndex) / w.SampleRate * float64(time.Second))
}

// FilteredWindow is a Window after bandpass and notch filtering.
// Length, channel and timing metadata match the source window.
type FilteredWindow struct {
	Channel    Channel `json:"channel"`
	StartIndex int64   `json:"start_index"`
	SampleRate float64 `json:"sample_rate"`
	Values     []float64
}

// Spectrum is the single-sided magnitude spectrum of one filtered
// window. Magnitudes are normalized by PeakMagnitude; Freqs[i] is the
// center frequency of bin i in Hz.
type Spectrum struct {
	Channel        Channel   `json:"channel"`
	StartIndex     int64     `json:"start_index"`
	TransformSize  int       `json:"transform_size"`
	FreqResolution float64   `json:"freq_resolution"`
	PeakMagnitude  float64   `json:"peak_magnitude"`
	Freqs          []float64 `json:"-"`
	Magnitudes     []float64 `json:"-"`
}

// SpectralFeature holds the per-window features fed to the classifier
type SpectralFeature struct {
	Channel           Channel       `json:"channel"`
	WindowStart       time.Duration `json:"window_start"`
	DominantFreqHz    float64       `json:"dominant_freq_hz"`
	DominantMagnitude float64       `json:"dominant_magnitude"`
	EnergyRatio       float64       `json:"energy_ratio"`
	LowConfidence     bool          `json:"low_confidence"`
}

// Category is the three-way classification outcome for one window
type Category string

const (
	CategoryHealthy      Category = "healthy"
	CategorySuspectOA    Category = "suspect_oa"
	CategoryInconclusive Category = "inconclusive"
)

// Severity grades how far a dominant frequency sits above the
// channel's calibrated healthy range
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityMild
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityMild:
		return "mild"
	case SeveritySevere:
		return "severe"
	default:
		return "normal"
	}
}

// ClassificationResult is emitted once per analysis window and never
// mutated afterwards
type ClassificationResult struct {
	SessionID         string          `json:"session_id"`
	Timestamp         time.Time       `json:"timestamp"`
	Feature           SpectralFeature `json:"feature"`
	Category          Category        `json:"category"`
	Severity          Severity        `json:"severity"`
	HealthyMaxFreqHz  float64         `json:"healthy_max_freq_hz"`
	OAMinFreqHz       float64         `json:"oa_min_freq_hz"`
	ArtifactSuspected bool            `json:"artifact_suspected,omitempty"`
}
