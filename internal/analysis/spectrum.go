package analysis

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/lessonlab/internal/dynamo"
)

// Spectrum is a one-sided amplitude spectrum.
type Spectrum struct {
	Freqs      []float64
	Amplitudes []float64
}

// NewSpectrum transforms samples taken at rate fs. Amplitudes are scaled so
// that a pure tone of amplitude A reads A at its bin.
func NewSpectrum(samples []float64, fs float64) (*Spectrum, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: spectrum needs at least 2 samples, got %d", dynamo.ErrDataFormat, n)
	}
	if fs <= 0 {
		return nil, fmt.Errorf("%w: sampling rate %g", dynamo.ErrParameterBounds, fs)
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, samples)

	s := &Spectrum{
		Freqs:      make([]float64, len(coeffs)),
		Amplitudes: make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		s.Freqs[i] = fft.Freq(i) * fs
		a := cmplx.Abs(c) / float64(n)
		if i != 0 && !(n%2 == 0 && i == len(coeffs)-1) {
			a *= 2
		}
		s.Amplitudes[i] = a
	}
	return s, nil
}

// Dominant returns the frequency of the largest bin.
func (s *Spectrum) Dominant() float64 {
	best := 0
	for i, a := range s.Amplitudes {
		if a > s.Amplitudes[best] {
			best = i
		}
	}
	return s.Freqs[best]
}
