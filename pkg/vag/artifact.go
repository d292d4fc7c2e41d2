package vag

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DefaultArtifactLimit is the outlier count above which a window is
// treated as motion-artifact contaminated
const DefaultArtifactLimit = 10

// ArtifactSuspected reports whether the window contains more than
// limit samples beyond three standard deviations, a crude marker for
// sensor knocks and motion artifacts. The window is flagged, not
// dropped; classification still runs.
func ArtifactSuspected(values []float64, limit int) bool {
	if len(values) == 0 {
		return false
	}
	if limit <= 0 {
		limit = DefaultArtifactLimit
	}

	std := stat.StdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return false
	}

	outliers := 0
	for _, v := range values {
		if math.Abs(v) > 3*std {
			outliers++
			if outliers > limit {
				return true
			}
		}
	}
	return false
}
