package source

import (
	"context"
	"fmt"
	"math"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// Tone is one sinusoidal component of a synthetic signal
type Tone struct {
	FreqHz    float64
	Amplitude float64
}

// SyntheticConfig describes a generated two-channel session. Used by
// tests and the spectrum-test command; GapAfter/GapLength inject a
// timeline discontinuity for data-quality testing.
type SyntheticConfig struct {
	SampleRate float64
	NumSamples int
	Mic        []Tone
	Piezo      []Tone
	Offset     float64

	// GapAfter > 0 skips GapLength sample indices after that many
	// samples, on both channels
	GapAfter  int
	GapLength int64
}

// SyntheticSource generates sum-of-sinusoid samples per channel
type SyntheticSource struct {
	config SyntheticConfig
}

// NewSyntheticSource validates the generator configuration
func NewSyntheticSource(config SyntheticConfig) (*SyntheticSource, error) {
	if config.SampleRate <= 0 {
		return nil, vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("sample rate must be positive, got %v", config.SampleRate), nil)
	}
	if config.NumSamples <= 0 {
		return nil, vag.NewAnalysisError("", vag.ErrCodeInvalidConfig,
			fmt.Sprintf("sample count must be positive, got %d", config.NumSamples), nil)
	}
	return &SyntheticSource{config: config}, nil
}

// Value evaluates the configured tones for one channel at a sample
// index
func (s *SyntheticSource) Value(channel vag.Channel, index int64) int32 {
	tones := s.config.Mic
	if channel == vag.ChannelPiezo {
		tones = s.config.Piezo
	}

	t := float64(index) / s.config.SampleRate
	v := s.config.Offset
	for _, tone := range tones {
		v += tone.Amplitude * math.Sin(2*math.Pi*tone.FreqHz*t)
	}
	return int32(math.Round(v))
}

// Samples streams the generated session
func (s *SyntheticSource) Samples(ctx context.Context) (<-chan vag.Sample, error) {
	out := make(chan vag.Sample, 256)

	go func() {
		defer close(out)

		var index int64
		for n := 0; n < s.config.NumSamples; n++ {
			if s.config.GapAfter > 0 && n == s.config.GapAfter {
				index += s.config.GapLength
			}

			for _, ch := range vag.Channels {
				sample := vag.Sample{
					Index:   index,
					Channel: ch,
					Value:   s.Value(ch, index),
				}
				select {
				case out <- sample:
				case <-ctx.Done():
					return
				}
			}
			index++
		}
	}()

	return out, nil
}
