// Package analysis post-processes energy series and trajectories.
//
//   - [PowerSpectrum], [DominantFrequency]: spectra of a sampled series
//   - [Autocorrelation]: normalised autocorrelation function
//   - [LyapunovExponent]: largest Lyapunov exponent from two nearby runs
//   - [Series]: bond, angle or dihedral time series of a trajectory
//   - [Histogram], [Portrait]: distributions and 2D scatter of those series
//
// Frequencies come out in 1/ps when the sample spacing is given in ps:
//
//	f := analysis.DominantFrequency(result.Potential, dt*float64(recordEvery))
package analysis
