package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Max returns the largest non-NaN value, or 0 when there is none
func Max(data []float64) float64 {
	values := withoutNaN(data)
	if len(values) == 0 {
		return 0
	}
	return floats.Max(values)
}

// Min returns the smallest non-NaN value, or 0 when there is none
func Min(data []float64) float64 {
	values := withoutNaN(data)
	if len(values) == 0 {
		return 0
	}
	return floats.Min(values)
}

func withoutNaN(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !isNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// RunningExtremes returns, for every index i, the maximum of highs[0:i] and
// the minimum of lows[0:i]. Index 0 has no priors and uses its own high/low.
// Both inputs must have the same length.
func RunningExtremes(highs, lows []float64) (maxPrior, minPrior []float64) {
	n := len(highs)
	if len(lows) < n {
		n = len(lows)
	}

	maxPrior = make([]float64, n)
	minPrior = make([]float64, n)
	if n == 0 {
		return maxPrior, minPrior
	}

	maxPrior[0] = highs[0]
	minPrior[0] = lows[0]
	runMax, runMin := highs[0], lows[0]
	for i := 1; i < n; i++ {
		maxPrior[i] = runMax
		minPrior[i] = runMin
		runMax = math.Max(runMax, highs[i])
		runMin = math.Min(runMin, lows[i])
	}

	return maxPrior, minPrior
}

// PreviousCloses returns closes shifted by one session; index 0 repeats its
// own close
func PreviousCloses(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i == 0 {
			out[i] = closes[0]
			continue
		}
		out[i] = closes[i-1]
	}
	return out
}

func isNaN(v float64) bool {
	return math.IsNaN(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
