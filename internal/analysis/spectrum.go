package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/ropesim/internal/dynamo"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// ParseAxis accepts "x" or "y".
func ParseAxis(s string) (Axis, bool) {
	switch s {
	case "x":
		return AxisX, true
	case "y":
		return AxisY, true
	}
	return AxisX, false
}

// Series extracts one coordinate of particle index across frames. Frames
// too short to contain the particle are skipped.
func Series(frames [][]dynamo.Vec2, index int, axis Axis) []float64 {
	out := make([]float64, 0, len(frames))
	for _, f := range frames {
		if index < 0 || index >= len(f) {
			continue
		}
		if axis == AxisX {
			out = append(out, f[index].X)
		} else {
			out = append(out, f[index].Y)
		}
	}
	return out
}

// Spectrum returns the magnitudes of the non-negative frequency bins of the
// series with its mean removed. Bin k corresponds to k/(n*dt) Hz.
func Spectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	bins := fft.FFTReal(centered)
	mags := make([]float64, n/2+1)
	for i := range mags {
		mags[i] = cmplx.Abs(bins[i])
	}
	return mags
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC bin
// of a series sampled every dt seconds, or 0 when the series is flat.
func DominantFrequency(series []float64, dt float64) float64 {
	mags := Spectrum(series)
	if len(mags) < 2 || dt <= 0 {
		return 0
	}

	best, bestMag := 0, 0.0
	for i := 1; i < len(mags); i++ {
		if mags[i] > bestMag {
			best, bestMag = i, mags[i]
		}
	}
	if bestMag < 1e-9 {
		return 0
	}
	return float64(best) / (float64(len(series)) * dt)
}

// Crossings returns the interpolated times at which series rises through
// threshold.
func Crossings(series, times []float64, threshold float64) []float64 {
	n := min(len(series), len(times))
	out := make([]float64, 0)
	for i := 1; i < n; i++ {
		prev, curr := series[i-1], series[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
		}
	}
	return out
}

// Period is the mean spacing between upward crossings of the series mean,
// or 0 when fewer than two crossings occur.
func Period(series, times []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	c := Crossings(series, times, mean)
	if len(c) < 2 {
		return 0
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1)
}
