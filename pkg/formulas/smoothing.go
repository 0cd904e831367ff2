package formulas

import (
	"github.com/markcheno/go-talib"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// Smooth calculates Wilder's moving average (RMA) of series
//
// Formula:
//
//	alpha    = 1 / n
//	out[0]   = series[0]
//	out[i]   = alpha × series[i] + (1 - alpha) × out[i-1]
//
// Every position is defined, there is no warm-up prefix. n below 2 is
// treated as 2.
func Smooth(series []float64, n int) domain.IndicatorSeries {
	if n < domain.MinWindow {
		n = domain.MinWindow
	}

	out := domain.IndicatorSeries{
		Values:  make([]float64, len(series)),
		Defined: make([]bool, len(series)),
	}
	if len(series) == 0 {
		return out
	}

	alpha := 1 / float64(n)
	out.Values[0] = series[0]
	out.Defined[0] = true
	for i := 1; i < len(series); i++ {
		out.Values[i] = alpha*series[i] + (1-alpha)*out.Values[i-1]
		out.Defined[i] = true
	}

	return out
}

// SmoothWarmup calculates the classic exponential moving average
//
// EMA Formula:
//
//	EMA_today = (Price_today × multiplier) + (EMA_yesterday × (1 - multiplier))
//	where multiplier = 2 / (period + 1)
//
// The average is seeded with the SMA of the first n values, so the first n-1
// positions are undefined. A series shorter than n is entirely undefined.
func SmoothWarmup(series []float64, n int) domain.IndicatorSeries {
	if n < domain.MinWindow {
		n = domain.MinWindow
	}

	out := domain.IndicatorSeries{
		Values:  make([]float64, len(series)),
		Defined: make([]bool, len(series)),
	}
	if len(series) < n {
		return out
	}

	ema := talib.Ema(series, n)
	for i := n - 1; i < len(series) && i < len(ema); i++ {
		if isNaN(ema[i]) {
			continue
		}
		out.Values[i] = ema[i]
		out.Defined[i] = true
	}

	return out
}

// SmoothWith dispatches on the smoothing method
func SmoothWith(method domain.SmoothingMethod, series []float64, n int) domain.IndicatorSeries {
	if method == domain.SmoothingEMA {
		return SmoothWarmup(series, n)
	}
	return Smooth(series, n)
}
