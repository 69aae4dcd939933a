// Package analysis characterizes the time series a run produces.
//
//   - [PowerSpectrum]: one-sided power spectrum of a mean-removed series
//   - [Dominant]: strongest periodic component, reported in ticks
//
// Bond counts in a closed chemistry tend to oscillate as rules build and
// break molecules; the dominant period gives the length of that cycle:
//
//	period, ok := analysis.Dominant(bonds)
//	if ok {
//	    fmt.Printf("bond cycle every %.1f ticks\n", period.Ticks)
//	}
package analysis
