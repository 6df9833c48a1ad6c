// Package analysis inspects recorded chain runs.
//
// Runs are reduced to a single coordinate of one particle with [Series],
// then characterized in either domain:
//
//   - [Spectrum] and [DominantFrequency]: real FFT magnitudes of a series
//   - [Crossings] and [Period]: upward threshold crossings in time
//   - [NewPhasePortrait]: coordinate against its finite-difference velocity
//
// A hanging chain that has been released swings at a dominant frequency
// that rises with stiffness:
//
//	ys := analysis.Series(result.Frames, last, analysis.AxisY)
//	f := analysis.DominantFrequency(ys, dt)
package analysis
