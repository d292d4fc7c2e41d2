package filter

// Biquad holds the coefficients of one second-order IIR section,
// normalized so a0 == 1
type Biquad struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Cascade is a chain of second-order sections applied in order
type Cascade struct {
	sections []Biquad
}

// NewCascade builds a cascade from the given sections
func NewCascade(sections ...[]Biquad) *Cascade {
	var all []Biquad
	for _, s := range sections {
		all = append(all, s...)
	}
	return &Cascade{sections: all}
}

// Order returns the combined filter order of the cascade
func (c *Cascade) Order() int {
	return 2 * len(c.sections)
}

// Process runs the signal through every section once, forward in time.
// Filter state is local to the call, so a Cascade is safe for
// concurrent use.
func (c *Cascade) Process(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)

	for _, s := range c.sections {
		// Direct Form II Transposed
		var z1, z2 float64
		for i, v := range out {
			y := s.B0*v + z1
			z1 = s.B1*v - s.A1*y + z2
			z2 = s.B2*v - s.A2*y
			out[i] = y
		}
	}

	return out
}

// ProcessZeroPhase applies the cascade forward and backward so the net
// phase response is zero. The input is reflected at both edges before
// filtering to suppress startup transients, mirroring the padding rule
// of scipy's filtfilt.
func (c *Cascade) ProcessZeroPhase(x []float64) []float64 {
	pad := c.PadLength()
	if len(x) <= pad {
		// Callers validate length up front; degrade to unpadded
		pad = 0
	}

	ext := oddReflect(x, pad)

	ext = c.Process(ext)
	reverse(ext)
	ext = c.Process(ext)
	reverse(ext)

	out := make([]float64, len(x))
	copy(out, ext[pad:pad+len(x)])
	return out
}

// PadLength returns the edge padding used by ProcessZeroPhase
func (c *Cascade) PadLength() int {
	return 3 * (c.Order() + 1)
}

// oddReflect extends x by pad samples on each side, reflecting values
// around the edge points
func oddReflect(x []float64, pad int) []float64 {
	ext := make([]float64, 0, len(x)+2*pad)
	for i := pad; i > 0; i-- {
		ext = append(ext, 2*x[0]-x[i])
	}
	ext = append(ext, x...)
	last := len(x) - 1
	for i := 1; i <= pad; i++ {
		ext = append(ext, 2*x[last]-x[last-i])
	}
	return ext
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
