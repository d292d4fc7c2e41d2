// Package source defines the raw sample stream contract and the
// sources the analyzer ships with. Acquisition hardware lives behind
// this interface; the pipeline only sees timestamped integer samples
// at a nominal rate.
package source

import (
	"context"

	"github.com/kneescan/vag-analyzer/pkg/vag"
)

// Source produces a stream of raw samples. The returned channel is
// closed when the source is exhausted or the context is canceled;
// reads never block past cancellation.
type Source interface {
	Samples(ctx context.Context) (<-chan vag.Sample, error)
}

// Info describes a source's nominal acquisition parameters
type Info struct {
	Name       string  `json:"name"`
	SampleRate float64 `json:"sample_rate"`
	Channels   int     `json:"channels"`
}
