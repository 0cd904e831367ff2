// Package domain provides core domain models and types.
package domain

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Period is a lookback window accepted by the market-data provider
type Period string

const (
	Period1Week   Period = "1wk"
	Period1Month  Period = "1mo"
	Period6Months Period = "6mo"
	Period1Year   Period = "1y"
	Period5Years  Period = "5y"
	PeriodMax     Period = "max"

	// DefaultPeriod is used when no (or an unknown) period is requested
	DefaultPeriod = Period6Months
)

// PeriodOption pairs a period value with its display label
type PeriodOption struct {
	Value Period `json:"value" msgpack:"value"`
	Label string `json:"label" msgpack:"label"`
}

// PeriodOptions lists the selectable periods in display order
var PeriodOptions = []PeriodOption{
	{Value: Period1Week, Label: "1 Week"},
	{Value: Period1Month, Label: "1 Month"},
	{Value: Period6Months, Label: "6 Months"},
	{Value: Period1Year, Label: "1 Year"},
	{Value: Period5Years, Label: "5 Years"},
	{Value: PeriodMax, Label: "From Beginning"},
}

// ParsePeriod returns the period for s and whether it is one of the known values
func ParsePeriod(s string) (Period, bool) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	for _, opt := range PeriodOptions {
		if opt.Value == p {
			return p, true
		}
	}
	return DefaultPeriod, false
}

// Label returns the human readable label of the period
func (p Period) Label() string {
	for _, opt := range PeriodOptions {
		if opt.Value == p {
			return opt.Label
		}
	}
	return string(p)
}

// ChartMode selects how the price trace is drawn
type ChartMode string

const (
	ChartModeCandlestick ChartMode = "candlestick"
	ChartModeLine        ChartMode = "line"
)

// ParseChartMode returns the chart mode for s, defaulting to candlestick
func ParseChartMode(s string) (ChartMode, bool) {
	switch ChartMode(strings.ToLower(strings.TrimSpace(s))) {
	case ChartModeCandlestick:
		return ChartModeCandlestick, true
	case ChartModeLine:
		return ChartModeLine, true
	}
	return ChartModeCandlestick, false
}

// SmoothingMethod selects the trend line convention
type SmoothingMethod string

const (
	// SmoothingWilder is the α = 1/N recurrence seeded with the first value.
	// Defined at every index.
	SmoothingWilder SmoothingMethod = "wilder"
	// SmoothingEMA is the α = 2/(N+1) average seeded with the SMA of the
	// first N values. Undefined for the first N-1 indices.
	SmoothingEMA SmoothingMethod = "ema"
)

// ParseSmoothingMethod returns the method for s, defaulting to wilder
func ParseSmoothingMethod(s string) (SmoothingMethod, bool) {
	switch SmoothingMethod(strings.ToLower(strings.TrimSpace(s))) {
	case SmoothingWilder:
		return SmoothingWilder, true
	case SmoothingEMA:
		return SmoothingEMA, true
	}
	return SmoothingWilder, false
}

// Smoothing window bounds
const (
	MinWindow     = 2
	MaxWindow     = 200
	DefaultWindow = 14
)

// ClampWindow forces n into [MinWindow, MaxWindow]
func ClampWindow(n int) int {
	if n < MinWindow {
		return MinWindow
	}
	if n > MaxWindow {
		return MaxWindow
	}
	return n
}

// PricePoint represents one trading session
type PricePoint struct {
	Timestamp time.Time `json:"timestamp" msgpack:"timestamp"`
	Open      float64   `json:"open" msgpack:"open"`
	High      float64   `json:"high" msgpack:"high"`
	Low       float64   `json:"low" msgpack:"low"`
	Close     float64   `json:"close" msgpack:"close"`
	Volume    float64   `json:"volume" msgpack:"volume"`
}

// History is a chronologically ordered sequence of price points
type History []PricePoint

// Opens returns the open of every session
func (h History) Opens() []float64 {
	out := make([]float64, len(h))
	for i, p := range h {
		out[i] = p.Open
	}
	return out
}

// Closes returns the close of every session
func (h History) Closes() []float64 {
	out := make([]float64, len(h))
	for i, p := range h {
		out[i] = p.Close
	}
	return out
}

// Highs returns the high of every session
func (h History) Highs() []float64 {
	out := make([]float64, len(h))
	for i, p := range h {
		out[i] = p.High
	}
	return out
}

// Lows returns the low of every session
func (h History) Lows() []float64 {
	out := make([]float64, len(h))
	for i, p := range h {
		out[i] = p.Low
	}
	return out
}

// Volumes returns the volume of every session
func (h History) Volumes() []float64 {
	out := make([]float64, len(h))
	for i, p := range h {
		out[i] = p.Volume
	}
	return out
}

// Timestamps returns the timestamp of every session
func (h History) Timestamps() []time.Time {
	out := make([]time.Time, len(h))
	for i, p := range h {
		out[i] = p.Timestamp
	}
	return out
}

// Normalize returns a copy sorted ascending by timestamp with duplicate
// timestamps removed (the last occurrence wins).
func (h History) Normalize() History {
	if len(h) == 0 {
		return History{}
	}

	sorted := make(History, len(h))
	copy(sorted, h)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	out := make(History, 0, len(sorted))
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Timestamp.Equal(p.Timestamp) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// IndicatorSeries is a numeric sequence aligned 1:1 with a History.
// Positions where Defined is false carry no value.
type IndicatorSeries struct {
	Values  []float64
	Defined []bool
}

// Len returns the number of positions in the series
func (s IndicatorSeries) Len() int {
	return len(s.Values)
}

// At returns the value at i and whether it is defined
func (s IndicatorSeries) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.Values) || !s.Defined[i] {
		return 0, false
	}
	return s.Values[i], true
}

// Last returns a pointer to the trailing value, or nil when the series is
// empty or the trailing position is undefined
func (s IndicatorSeries) Last() *float64 {
	v, ok := s.At(len(s.Values) - 1)
	if !ok {
		return nil
	}
	return &v
}

// Nullable returns the series with undefined positions as nil
func (s IndicatorSeries) Nullable() []*float64 {
	out := make([]*float64, len(s.Values))
	for i := range s.Values {
		if v, ok := s.At(i); ok {
			out[i] = &v
		}
	}
	return out
}

// StatementRow is a named financial statement row, most recent period first
type StatementRow struct {
	Name    string      `json:"name" msgpack:"name"`
	Periods []time.Time `json:"periods,omitempty" msgpack:"periods,omitempty"`
	Values  []float64   `json:"values" msgpack:"values"` // NaN where the provider omitted a value
}

// StatementTable maps row names to rows
type StatementTable map[string]*StatementRow

// Row returns the named row, or nil when the table or the row is absent
func (t StatementTable) Row(name string) *StatementRow {
	if t == nil {
		return nil
	}
	return t[name]
}

// Statement row names consumed by the growth metrics
const (
	RowTotalRevenue      = "Total Revenue"
	RowDilutedEPS        = "Diluted EPS"
	RowOperatingCashFlow = "Total Cash From Operating Activities"
)

// ValuationInfo holds trailing valuation ratios. Nil fields are absent.
type ValuationInfo struct {
	TrailingPE   *float64 `json:"trailing_pe,omitempty" msgpack:"trailing_pe,omitempty"`
	PriceToBook  *float64 `json:"price_to_book,omitempty" msgpack:"price_to_book,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty" msgpack:"current_ratio,omitempty"`
	QuickRatio   *float64 `json:"quick_ratio,omitempty" msgpack:"quick_ratio,omitempty"`
}

// Float returns a pointer to v, or nil when v is NaN or infinite
func Float(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
