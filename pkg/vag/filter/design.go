package filter

import "math"

// butterworthQ returns the per-section quality factors of an
// even-order Butterworth filter (low Q sections first)
func butterworthQ(order int) []float64 {
	q := make([]float64, order/2)
	for k := range q {
		theta := math.Pi * (2.0*float64(k) + 1.0) / (2.0 * float64(order))
		q[len(q)-1-k] = 1.0 / (2.0 * math.Sin(theta))
	}
	return q
}

// ButterworthLowpass designs an even-order Butterworth lowpass as a
// cascade of RBJ biquad sections
func ButterworthLowpass(order int, cutoffHz, sampleRate float64) []Biquad {
	cutoffHz = clampCutoff(cutoffHz, sampleRate)
	sections := make([]Biquad, 0, order/2)

	for _, q := range butterworthQ(order) {
		w0 := 2.0 * math.Pi * cutoffHz / sampleRate
		cosw, sinw := math.Cos(w0), math.Sin(w0)
		alpha := sinw / (2.0 * q)
		a0 := 1.0 + alpha

		sections = append(sections, Biquad{
			B0: (1.0 - cosw) / 2.0 / a0,
			B1: (1.0 - cosw) / a0,
			B2: (1.0 - cosw) / 2.0 / a0,
			A1: -2.0 * cosw / a0,
			A2: (1.0 - alpha) / a0,
		})
	}

	return sections
}

// ButterworthHighpass designs an even-order Butterworth highpass as a
// cascade of RBJ biquad sections
func ButterworthHighpass(order int, cutoffHz, sampleRate float64) []Biquad {
	cutoffHz = clampCutoff(cutoffHz, sampleRate)
	sections := make([]Biquad, 0, order/2)

	for _, q := range butterworthQ(order) {
		w0 := 2.0 * math.Pi * cutoffHz / sampleRate
		cosw, sinw := math.Cos(w0), math.Sin(w0)
		alpha := sinw / (2.0 * q)
		a0 := 1.0 + alpha

		sections = append(sections, Biquad{
			B0: (1.0 + cosw) / 2.0 / a0,
			B1: -(1.0 + cosw) / a0,
			B2: (1.0 + cosw) / 2.0 / a0,
			A1: -2.0 * cosw / a0,
			A2: (1.0 - alpha) / a0,
		})
	}

	return sections
}

// Notch designs a single narrow-band rejection biquad centered at
// centerHz. Q controls the notch width: bandwidth = centerHz / Q.
func Notch(centerHz, q, sampleRate float64) []Biquad {
	centerHz = clampCutoff(centerHz, sampleRate)

	w0 := 2.0 * math.Pi * centerHz / sampleRate
	cosw, sinw := math.Cos(w0), math.Sin(w0)
	alpha := sinw / (2.0 * q)
	a0 := 1.0 + alpha

	return []Biquad{{
		B0: 1.0 / a0,
		B1: -2.0 * cosw / a0,
		B2: 1.0 / a0,
		A1: -2.0 * cosw / a0,
		A2: (1.0 - alpha) / a0,
	}}
}

// clampCutoff keeps design frequencies strictly below Nyquist, where
// the bilinear transform becomes numerically unstable
func clampCutoff(freq, sampleRate float64) float64 {
	limit := sampleRate * 0.499
	if freq >= limit {
		return limit
	}
	return freq
}
