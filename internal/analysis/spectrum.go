package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X(f)|^2 of the mean-removed series for the
// non-negative frequencies, len(data)/2+1 values.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	centred := make([]float64, n)
	copy(centred, data)
	floats.AddConst(-stat.Mean(data, nil), centred)

	coeff := fourier.NewFFT(n).Coefficients(nil, centred)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		a := cmplx.Abs(c)
		ps[i] = a * a
	}
	return ps
}

// Frequencies returns the frequency of every PowerSpectrum bin for n
// samples spaced dt apart.
func Frequencies(n int, dt float64) []float64 {
	if n < 2 {
		return nil
	}
	fft := fourier.NewFFT(n)
	out := make([]float64, n/2+1)
	for i := range out {
		out[i] = fft.Freq(i) / dt
	}
	return out
}

// DominantFrequency returns the frequency of the strongest non-zero bin of
// the power spectrum, or 0 for a constant or too short series.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}
	best := 1 + floats.MaxIdx(ps[1:])
	if ps[best] == 0 {
		return 0
	}
	return Frequencies(len(data), dt)[best]
}

// Autocorrelation returns the normalised autocorrelation of data for lags
// 0 to maxLag. The lag-0 value is 1 unless the series is constant.
func Autocorrelation(data []float64, maxLag int) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	maxLag = min(maxLag, n-1)

	mean := stat.Mean(data, nil)
	var c0 float64
	for _, x := range data {
		c0 += (x - mean) * (x - mean)
	}

	out := make([]float64, maxLag+1)
	if c0 == 0 {
		return out
	}
	for lag := range out {
		var c float64
		for i := 0; i+lag < n; i++ {
			c += (data[i] - mean) * (data[i+lag] - mean)
		}
		out[lag] = c / c0
	}
	return out
}
