// Package charts builds the plot dataset (price, trend and volume traces plus
// layout hints) consumed by the dashboard renderer.
package charts

import (
	"fmt"
	"strings"
	"time"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/pkg/formulas"
)

// TraceKind identifies what a trace plots
type TraceKind string

const (
	TraceKindPrice     TraceKind = "price"
	TraceKindIndicator TraceKind = "indicator"
	TraceKindVolume    TraceKind = "volume"
)

// TraceStyle is the render style of a trace
type TraceStyle string

const (
	StyleCandlestick TraceStyle = "candlestick"
	StyleLine        TraceStyle = "line"
	StyleBar         TraceStyle = "bar"
)

// Axis ids
const (
	AxisPrimary   = "y"
	AxisSecondary = "y2"
)

// Trace styling
const (
	IndicatorColor = "orange"
	IndicatorWidth = 2.0
	IndicatorDash  = "dash"
	VolumeColor    = "blue"
	VolumeOpacity  = 0.3
	VolumeHeadroom = 1.05
)

// PointMeta is the per-session context the hover formatter needs
type PointMeta struct {
	PrevClose   float64 `json:"prev_close" msgpack:"prev_close"`
	RunningHigh float64 `json:"running_high" msgpack:"running_high"`
	RunningLow  float64 `json:"running_low" msgpack:"running_low"`
}

// Trace is one plotted series
type Trace struct {
	Kind    TraceKind   `json:"kind" msgpack:"kind"`
	Name    string      `json:"name" msgpack:"name"`
	Style   TraceStyle  `json:"style" msgpack:"style"`
	Axis    string      `json:"axis" msgpack:"axis"`
	Color   string      `json:"color,omitempty" msgpack:"color,omitempty"`
	Dash    string      `json:"dash,omitempty" msgpack:"dash,omitempty"`
	Width   float64     `json:"width,omitempty" msgpack:"width,omitempty"`
	Opacity float64     `json:"opacity,omitempty" msgpack:"opacity,omitempty"`
	X       []time.Time `json:"x" msgpack:"x"`
	Open    []float64   `json:"open,omitempty" msgpack:"open,omitempty"`
	High    []float64   `json:"high,omitempty" msgpack:"high,omitempty"`
	Low     []float64   `json:"low,omitempty" msgpack:"low,omitempty"`
	Close   []float64   `json:"close,omitempty" msgpack:"close,omitempty"`
	Y       []*float64  `json:"y,omitempty" msgpack:"y,omitempty"` // nil entries are gaps
	Meta    []PointMeta `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// RangeButton is one time-axis range selector button
type RangeButton struct {
	Count    int    `json:"count,omitempty" msgpack:"count,omitempty"`
	Label    string `json:"label" msgpack:"label"`
	Step     string `json:"step" msgpack:"step"`
	StepMode string `json:"stepmode,omitempty" msgpack:"stepmode,omitempty"`
}

// XAxis holds time axis hints
type XAxis struct {
	Type          string        `json:"type" msgpack:"type"`
	RangeSelector []RangeButton `json:"rangeselector" msgpack:"rangeselector"`
	RangeSlider   bool          `json:"rangeslider" msgpack:"rangeslider"`
	ShowSpikes    bool          `json:"showspikes" msgpack:"showspikes"`
	SpikeMode     string        `json:"spikemode,omitempty" msgpack:"spikemode,omitempty"`
}

// YAxis holds value axis hints
type YAxis struct {
	Title      string    `json:"title" msgpack:"title"`
	Side       string    `json:"side" msgpack:"side"`
	Overlaying string    `json:"overlaying,omitempty" msgpack:"overlaying,omitempty"`
	ShowGrid   bool      `json:"showgrid" msgpack:"showgrid"`
	ShowSpikes bool      `json:"showspikes" msgpack:"showspikes"`
	Range      []float64 `json:"range,omitempty" msgpack:"range,omitempty"`
}

// Legend holds legend placement hints
type Legend struct {
	Orientation string  `json:"orientation" msgpack:"orientation"`
	Y           float64 `json:"y" msgpack:"y"`
}

// Layout holds chart-wide hints
type Layout struct {
	Title     string  `json:"title" msgpack:"title"`
	Template  string  `json:"template" msgpack:"template"`
	HoverMode string  `json:"hovermode,omitempty" msgpack:"hovermode,omitempty"`
	XAxis     *XAxis  `json:"xaxis,omitempty" msgpack:"xaxis,omitempty"`
	YAxis     *YAxis  `json:"yaxis,omitempty" msgpack:"yaxis,omitempty"`
	Y2Axis    *YAxis  `json:"yaxis2,omitempty" msgpack:"yaxis2,omitempty"`
	Legend    *Legend `json:"legend,omitempty" msgpack:"legend,omitempty"`
}

// Dataset is the complete chart payload. Empty datasets carry no traces.
type Dataset struct {
	Empty   bool    `json:"empty" msgpack:"empty"`
	Message string  `json:"message,omitempty" msgpack:"message,omitempty"`
	Traces  []Trace `json:"traces" msgpack:"traces"`
	Layout  Layout  `json:"layout" msgpack:"layout"`
}

// Trace returns the first trace of the given kind
func (d Dataset) Trace(kind TraceKind) (Trace, bool) {
	for _, t := range d.Traces {
		if t.Kind == kind {
			return t, true
		}
	}
	return Trace{}, false
}

// Options selects what Build draws
type Options struct {
	Ticker string
	Period domain.Period
	Mode   domain.ChartMode
	Window int
	Method domain.SmoothingMethod
}

const chartTemplate = "plotly_white"

// Build assembles the dataset for a history. It never fails: an empty history
// yields an empty dataset with a message.
func Build(history domain.History, opts Options) Dataset {
	ticker := strings.ToUpper(opts.Ticker)
	if len(history) == 0 {
		msg := fmt.Sprintf("No data found for %s", ticker)
		return Dataset{
			Empty:   true,
			Message: msg,
			Traces:  []Trace{},
			Layout:  Layout{Title: msg, Template: chartTemplate},
		}
	}

	window := domain.ClampWindow(opts.Window)
	x := history.Timestamps()
	closes := history.Closes()
	volumes := history.Volumes()

	price := buildPriceTrace(history, opts.Mode, x, closes)
	trend := formulas.SmoothWith(opts.Method, closes, window)

	indicator := Trace{
		Kind:  TraceKindIndicator,
		Name:  IndicatorName(opts.Method, window),
		Style: StyleLine,
		Axis:  AxisPrimary,
		Color: IndicatorColor,
		Dash:  IndicatorDash,
		Width: IndicatorWidth,
		X:     x,
		Y:     trend.Nullable(),
	}

	volume := Trace{
		Kind:    TraceKindVolume,
		Name:    "Volume",
		Style:   StyleBar,
		Axis:    AxisSecondary,
		Color:   VolumeColor,
		Opacity: VolumeOpacity,
		X:       x,
		Y:       pointers(volumes),
	}

	return Dataset{
		Traces: []Trace{price, indicator, volume},
		Layout: buildLayout(ticker, opts.Period, volumes),
	}
}

// IndicatorName is the legend name of the trend trace
func IndicatorName(method domain.SmoothingMethod, window int) string {
	if method == domain.SmoothingEMA {
		return fmt.Sprintf("EMA %d-day Avg", window)
	}
	return fmt.Sprintf("Wilder %d-day Avg", window)
}

// BuildPointMeta computes previous close and prior running extremes for
// every session
func BuildPointMeta(history domain.History) []PointMeta {
	prev := formulas.PreviousCloses(history.Closes())
	highs, lows := formulas.RunningExtremes(history.Highs(), history.Lows())

	meta := make([]PointMeta, len(history))
	for i := range history {
		meta[i] = PointMeta{
			PrevClose:   prev[i],
			RunningHigh: highs[i],
			RunningLow:  lows[i],
		}
	}
	return meta
}

func buildPriceTrace(history domain.History, mode domain.ChartMode, x []time.Time, closes []float64) Trace {
	meta := BuildPointMeta(history)

	if mode == domain.ChartModeLine {
		return Trace{
			Kind:  TraceKindPrice,
			Name:  "Close Price",
			Style: StyleLine,
			Axis:  AxisPrimary,
			X:     x,
			Y:     pointers(closes),
			Meta:  meta,
		}
	}

	return Trace{
		Kind:  TraceKindPrice,
		Name:  "OHLC",
		Style: StyleCandlestick,
		Axis:  AxisPrimary,
		X:     x,
		Open:  history.Opens(),
		High:  history.Highs(),
		Low:   history.Lows(),
		Close: closes,
		Meta:  meta,
	}
}

func buildLayout(ticker string, period domain.Period, volumes []float64) Layout {
	maxVolume := formulas.Max(volumes)
	volumeRange := []float64{0, maxVolume * VolumeHeadroom}
	if maxVolume <= 0 {
		volumeRange = []float64{0, 1}
	}

	return Layout{
		Title:     fmt.Sprintf("%s Stock Price (%s)", ticker, period),
		Template:  chartTemplate,
		HoverMode: "x unified",
		XAxis: &XAxis{
			Type: "date",
			RangeSelector: []RangeButton{
				{Count: 7, Label: "1w", Step: "day", StepMode: "backward"},
				{Count: 1, Label: "1m", Step: "month", StepMode: "backward"},
				{Count: 6, Label: "6m", Step: "month", StepMode: "backward"},
				{Count: 1, Label: "1y", Step: "year", StepMode: "backward"},
				{Label: "all", Step: "all"},
			},
			RangeSlider: true,
			ShowSpikes:  true,
			SpikeMode:   "across",
		},
		YAxis: &YAxis{
			Title:      "Price (USD)",
			Side:       "left",
			ShowGrid:   true,
			ShowSpikes: true,
		},
		Y2Axis: &YAxis{
			Title:      "Volume",
			Side:       "right",
			Overlaying: AxisPrimary,
			ShowGrid:   false,
			Range:      volumeRange,
		},
		Legend: &Legend{Orientation: "h", Y: -0.2},
	}
}

func pointers(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		v := values[i]
		out[i] = &v
	}
	return out
}
