package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kneescan/vag-analyzer/pkg/logging"
	"github.com/kneescan/vag-analyzer/pkg/source"
	"github.com/kneescan/vag-analyzer/pkg/vag"
	"github.com/kneescan/vag-analyzer/pkg/vag/classify"
	"github.com/kneescan/vag-analyzer/pkg/vag/filter"
	"github.com/kneescan/vag-analyzer/pkg/vag/spectral"
)

// Controller drives the windowed analysis loop: it demuxes the raw
// sample stream per channel, slides fixed-length windows over each
// channel independently, and runs filter, spectral analysis and
// classification per window.
type Controller struct {
	config     Config
	stage      *filter.Stage
	analyzer   *spectral.Analyzer
	classifier *classify.Classifier
	logger     logging.Logger
	stats      Stats

	// SpectrumSink, when set, receives every computed spectrum for
	// visualization or logging. Called from channel workers; the sink
	// must be safe for concurrent use.
	SpectrumSink func(*vag.Spectrum)
}

// NewController wires the pipeline stages together. All configuration
// is validated here; a running pipeline never sees a config error.
func NewController(config Config, stage *filter.Stage, analyzer *spectral.Analyzer, classifier *classify.Classifier, logger logging.Logger) (*Controller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Controller{
		config:     config,
		stage:      stage,
		analyzer:   analyzer,
		classifier: classifier,
		logger: logger.WithFields(logging.Fields{
			"component":   "pipeline_controller",
			"window_size": config.WindowSize,
			"hop":         config.Hop(),
		}),
	}, nil
}

// Stats exposes the run counters
func (c *Controller) Stats() *Stats {
	return &c.stats
}

// Run starts one analysis session over the given source and returns a
// lazily produced stream of results. The channel closes when the
// source is exhausted or ctx is canceled; a partially filled window at
// shutdown is discarded. Per-channel result order is chronological.
func (c *Controller) Run(ctx context.Context, src source.Source) (<-chan vag.ClassificationResult, error) {
	samples, err := src.Samples(ctx)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	results := make(chan vag.ClassificationResult, 16)

	inputs := make(map[vag.Channel]chan vag.Sample, len(vag.Channels))
	var wg sync.WaitGroup

	for _, ch := range vag.Channels {
		in := make(chan vag.Sample, c.config.WindowSize)
		inputs[ch] = in

		wg.Add(1)
		go func(ch vag.Channel, in <-chan vag.Sample) {
			defer wg.Done()
			c.runChannel(ctx, sessionID, ch, in, results)
		}(ch, in)
	}

	// Demux raw samples to the per-channel workers. Channels share no
	// mutable state past this point.
	go func() {
		defer func() {
			for _, in := range inputs {
				close(in)
			}
		}()

		for {
			select {
			case s, ok := <-samples:
				if !ok {
					return
				}
				in, known := inputs[s.Channel]
				if !known {
					c.logger.Warn("Sample for unknown channel dropped", logging.Fields{
						"channel": s.Channel,
					})
					continue
				}
				c.stats.incReceived()
				select {
				case in <- s:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)

		received, windows, emitted, gaps, dropped := c.stats.Snapshot()
		c.logger.Debug("Session finished", logging.Fields{
			"session_id":      sessionID,
			"samples":         received,
			"windows":         windows,
			"results":         emitted,
			"gaps":            gaps,
			"dropped_windows": dropped,
		})
	}()

	c.logger.Debug("Session started", logging.Fields{
		"session_id": sessionID,
	})

	return results, nil
}

// runChannel is the per-channel worker: strictly sequential windowing
// over an exclusively owned buffer
func (c *Controller) runChannel(ctx context.Context, sessionID string, ch vag.Channel, in <-chan vag.Sample, results chan<- vag.ClassificationResult) {
	logger := c.logger.WithFields(logging.Fields{"channel": ch})

	tolerance := c.config.GapTolerance
	if tolerance == 0 {
		tolerance = 1.5
	}

	buffer := make([]float64, 0, c.config.WindowSize)
	var startIndex, lastIndex int64
	hop := c.config.Hop()

	for sample := range in {
		if len(buffer) > 0 {
			delta := float64(sample.Index - lastIndex)
			if delta > tolerance {
				// Discontinuous data never crosses into one window;
				// restart at the offending sample instead of stitching
				c.stats.incGaps()
				gap := vag.NewAnalysisError(ch, vag.ErrCodeDataGap,
					"sample timeline discontinuity", nil)
				logger.Warn(gap.Error(), logging.Fields{
					"last_index":    lastIndex,
					"next_index":    sample.Index,
					"missing":       delta - 1,
					"buffered_lost": len(buffer),
				})
				buffer = buffer[:0]
			}
		}

		if len(buffer) == 0 {
			startIndex = sample.Index
		}
		buffer = append(buffer, float64(sample.Value))
		lastIndex = sample.Index

		if len(buffer) < c.config.WindowSize {
			continue
		}

		window := &vag.Window{
			Channel:    ch,
			StartIndex: startIndex,
			SampleRate: c.config.SampleRate,
			Values:     append([]float64(nil), buffer...),
		}
		c.stats.incWindows()

		if result, ok := c.process(sessionID, window, logger); ok {
			select {
			case results <- result:
				c.stats.incResults()
			case <-ctx.Done():
				return
			}
		}

		// Slide: keep the overlapping tail for the next window
		copy(buffer, buffer[hop:])
		buffer = buffer[:len(buffer)-hop]
		startIndex += int64(hop)
	}
}

// process runs one window through filter, analysis and classification.
// Data-quality failures drop the window and keep the stream alive.
func (c *Controller) process(sessionID string, window *vag.Window, logger logging.Logger) (vag.ClassificationResult, bool) {
	artifact := vag.ArtifactSuspected(window.Values, c.config.ArtifactLimit)

	filtered, err := c.stage.Apply(window)
	if err != nil {
		c.stats.incDroppedWindows()
		logger.Warn("Window dropped by filter stage", logging.Fields{
			"start_index": window.StartIndex,
			"error":       err.Error(),
		})
		return vag.ClassificationResult{}, false
	}

	spectrum, feature, err := c.analyzer.Analyze(filtered)
	if err != nil {
		c.stats.incDroppedWindows()
		logger.Warn("Window dropped by spectral analysis", logging.Fields{
			"start_index": window.StartIndex,
			"error":       err.Error(),
		})
		return vag.ClassificationResult{}, false
	}

	if c.SpectrumSink != nil {
		c.SpectrumSink(spectrum)
	}

	result := c.classifier.Classify(*feature)
	result.SessionID = sessionID
	result.Timestamp = time.Now().UTC()
	result.ArtifactSuspected = artifact

	return result, true
}
