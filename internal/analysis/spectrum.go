package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns |X_k|²/n for k = 0..n/2 of the series with its mean
// removed, so bin 0 is always ~0. Bin k corresponds to a period of n/k ticks.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	mean := stat.Mean(series, nil)
	centred := make([]float64, n)
	for i, v := range series {
		centred[i] = v - mean
	}

	spec := fft.FFTReal(centred)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(spec[k])
		ps[k] = a * a / float64(n)
	}
	return ps
}

type Period struct {
	Bin   int
	Ticks float64
	Power float64
	// Share is the fraction of the non-constant power in this bin.
	Share float64
}

// Dominant finds the strongest non-constant bin. ok is false for series
// shorter than four ticks or without variation.
func Dominant(series []float64) (Period, bool) {
	if len(series) < 4 {
		return Period{}, false
	}
	ps := PowerSpectrum(series)

	best, total := 0, 0.0
	for k := 1; k < len(ps); k++ {
		total += ps[k]
		if best == 0 || ps[k] > ps[best] {
			best = k
		}
	}
	if total <= 1e-12 {
		return Period{}, false
	}

	return Period{
		Bin:   best,
		Ticks: float64(len(series)) / float64(best),
		Power: ps[best],
		Share: ps[best] / total,
	}, true
}
