// Package dashboard turns dashboard control values into a computed chart
// and metric result.
package dashboard

import (
	"strings"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// Inputs are the tracked dashboard controls
type Inputs struct {
	Ticker string                 `json:"ticker" msgpack:"ticker"`
	Period domain.Period          `json:"period" msgpack:"period"`
	Mode   domain.ChartMode       `json:"mode" msgpack:"mode"`
	Window int                    `json:"window" msgpack:"window"`
	Method domain.SmoothingMethod `json:"method" msgpack:"method"`
}

// Defaults are applied to missing or unknown input values
type Defaults struct {
	Ticker string        `json:"ticker" msgpack:"ticker"`
	Period domain.Period `json:"period" msgpack:"period"`
	Window int           `json:"window" msgpack:"window"`
}

// DefaultDefaults returns the built-in defaults
func DefaultDefaults() Defaults {
	return Defaults{
		Ticker: "AAPL",
		Period: domain.DefaultPeriod,
		Window: domain.DefaultWindow,
	}
}

// Normalize cleans raw inputs: the ticker is trimmed and upper-cased, unknown
// enum values fall back to defaults, a zero window takes the default and any
// other window is clamped to the allowed range. It returns
// domain.ErrEmptyTicker, alongside the normalized inputs, when no ticker is
// left.
func Normalize(in Inputs, defaults Defaults) (Inputs, error) {
	out := Inputs{
		Ticker: strings.ToUpper(strings.TrimSpace(in.Ticker)),
	}

	period, ok := domain.ParsePeriod(string(in.Period))
	if !ok {
		period = defaults.Period
		if _, valid := domain.ParsePeriod(string(period)); !valid {
			period = domain.DefaultPeriod
		}
	}
	out.Period = period

	out.Mode, _ = domain.ParseChartMode(string(in.Mode))
	out.Method, _ = domain.ParseSmoothingMethod(string(in.Method))

	window := in.Window
	if window == 0 {
		window = defaults.Window
		if window == 0 {
			window = domain.DefaultWindow
		}
	}
	out.Window = domain.ClampWindow(window)

	if out.Ticker == "" {
		return out, domain.ErrEmptyTicker
	}
	return out, nil
}
