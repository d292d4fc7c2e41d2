package pipeline

import (
	"fmt"
	"sync"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// Config holds the windowing policy for one analysis session
type Config struct {
	WindowSize      int     `mapstructure:"window_size" json:"window_size" yaml:"window_size"`
	OverlapFraction float64 `mapstructure:"overlap_fraction" json:"overlap_fraction" yaml:"overlap_fraction"`
	SampleRate      float64 `mapstructure:"sample_rate" json:"sample_rate" yaml:"sample_rate"`

	// GapTolerance is the largest allowed spacing between consecutive
	// samples, in nominal sample periods. Larger gaps discard the
	// active window.
	GapTolerance float64 `mapstructure:"gap_tolerance" json:"gap_tolerance" yaml:"gap_tolerance"`

	// ArtifactLimit is the 3-sigma outlier count above which a window
	// is flagged artifact-suspected
	ArtifactLimit int `mapstructure:"artifact_limit" json:"artifact_limit" yaml:"artifact_limit"`
}

// Validate checks the windowing policy eagerly
func (c *Config) Validate() error {
	if c.WindowSize < 2 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("window size must be at least 2, got %d", c.WindowSize), nil)
	}
	if c.OverlapFraction < 0 || c.OverlapFraction >= 1 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("overlap fraction must be in [0, 1), got %v", c.OverlapFraction), nil)
	}
	if c.SampleRate <= 0 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("sample rate must be positive, got %v", c.SampleRate), nil)
	}
	if c.GapTolerance != 0 && c.GapTolerance < 1 {
		return vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("gap tolerance must be at least 1 period, got %v", c.GapTolerance), nil)
	}
	return nil
}

// Hop returns the window advance in samples
func (c *Config) Hop() int {
	hop := int(float64(c.WindowSize) * (1 - c.OverlapFraction))
	if hop < 1 {
		hop = 1
	}
	return hop
}

// Stats counts what the pipeline saw during a run. All recovered
// errors are observable here; nothing is silently swallowed.
type Stats struct {
	mu             sync.RWMutex
	received       int64
	windows        int64
	results        int64
	gaps           int64
	droppedWindows int64
}

func (s *Stats) incReceived() {
	s.mu.Lock()
	s.received++
	s.mu.Unlock()
}

func (s *Stats) incWindows() {
	s.mu.Lock()
	s.windows++
	s.mu.Unlock()
}

func (s *Stats) incResults() {
	s.mu.Lock()
	s.results++
	s.mu.Unlock()
}

func (s *Stats) incGaps() {
	s.mu.Lock()
	s.gaps++
	s.mu.Unlock()
}

func (s *Stats) incDroppedWindows() {
	s.mu.Lock()
	s.droppedWindows++
	s.mu.Unlock()
}

// Snapshot returns the current counter values
func (s *Stats) Snapshot() (received, windows, results, gaps, droppedWindows int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.received, s.windows, s.results, s.gaps, s.droppedWindows
}
