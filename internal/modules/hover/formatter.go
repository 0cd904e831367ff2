// Package hover classifies a hovered chart point into display badges.
package hover

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/charts"
)

// Prompt is shown while no point is selected
const Prompt = "Hover over the chart to see details."

// Placeholder renders a missing value
const Placeholder = "—"

// Badge classes
const (
	ClassDate    = "date"
	ClassUp      = "up"
	ClassDown    = "down"
	ClassFlat    = "flat"
	ClassBullish = "bullish"
	ClassBearish = "bearish"
	ClassNeutral = "neutral"
	ClassNewHigh = "new-high"
	ClassHigh    = "high"
	ClassNewLow  = "new-low"
	ClassLow     = "low"
	ClassVolume  = "volume"
	ClassNA      = "na"
)

// Colors maps badge classes to their background colour
var Colors = map[string]string{
	ClassUp:      "#28a745",
	ClassDown:    "#dc3545",
	ClassFlat:    "#007bff",
	ClassBullish: "#28a745",
	ClassBearish: "#dc3545",
	ClassNeutral: "#6c757d",
	ClassNewHigh: "#2ecc71",
	ClassHigh:    "#28a745",
	ClassNewLow:  "#e74c3c",
	ClassLow:     "#dc3545",
	ClassVolume:  "#17a2b8",
	ClassNA:      "#6c757d",
}

// HoverPoint is a single selected chart point as reported by the renderer
type HoverPoint struct {
	Trace  charts.TraceKind  `json:"trace" msgpack:"trace"`
	X      string            `json:"x" msgpack:"x"`
	Open   *float64          `json:"open,omitempty" msgpack:"open,omitempty"`
	High   *float64          `json:"high,omitempty" msgpack:"high,omitempty"`
	Low    *float64          `json:"low,omitempty" msgpack:"low,omitempty"`
	Close  *float64          `json:"close,omitempty" msgpack:"close,omitempty"`
	Volume *float64          `json:"volume,omitempty" msgpack:"volume,omitempty"`
	Meta   *charts.PointMeta `json:"meta,omitempty" msgpack:"meta,omitempty"`
}

// Badge is one labelled, coloured value
type Badge struct {
	Label string `json:"label" msgpack:"label"`
	Value string `json:"value" msgpack:"value"`
	Class string `json:"class" msgpack:"class"`
	Color string `json:"color,omitempty" msgpack:"color,omitempty"`
}

// Detail is the formatted hover output. Prompt is set only when no point is
// selected.
type Detail struct {
	Prompt string  `json:"prompt,omitempty" msgpack:"prompt,omitempty"`
	Badges []Badge `json:"badges" msgpack:"badges"`
}

// Format classifies point into date, O, H, L, C and Vol badges
func Format(point *HoverPoint) Detail {
	if point == nil {
		return Detail{Prompt: Prompt, Badges: []Badge{}}
	}

	prevClose, runHigh, runLow := point.Close, point.High, point.Low
	if point.Meta != nil {
		prevClose = &point.Meta.PrevClose
		runHigh = &point.Meta.RunningHigh
		runLow = &point.Meta.RunningLow
	}

	return Detail{
		Badges: []Badge{
			{Label: "Date", Value: formatDate(point.X), Class: ClassDate},
			priceBadge("O", point.Open, classifyOpen(point.Open, prevClose)),
			priceBadge("H", point.High, classifyHigh(point.High, runHigh)),
			priceBadge("L", point.Low, classifyLow(point.Low, runLow)),
			priceBadge("C", point.Close, classifyClose(point.Close, point.Open)),
			volumeBadge(point.Volume),
		},
	}
}

// classifyOpen compares the open against the previous close
func classifyOpen(open, prevClose *float64) string {
	switch {
	case !present(open):
		return ClassNA
	case !present(prevClose):
		return ClassFlat
	case *open > *prevClose:
		return ClassUp
	case *open < *prevClose:
		return ClassDown
	default:
		return ClassFlat
	}
}

// classifyClose compares the close against the same session's open
func classifyClose(closeValue, open *float64) string {
	switch {
	case !present(closeValue):
		return ClassNA
	case !present(open):
		return ClassNeutral
	case *closeValue > *open:
		return ClassBullish
	case *closeValue < *open:
		return ClassBearish
	default:
		return ClassNeutral
	}
}

// classifyHigh flags a high at or above the running maximum of prior highs
func classifyHigh(high, runningHigh *float64) string {
	switch {
	case !present(high):
		return ClassNA
	case !present(runningHigh) || *high >= *runningHigh:
		return ClassNewHigh
	default:
		return ClassHigh
	}
}

// classifyLow flags a low at or below the running minimum of prior lows
func classifyLow(low, runningLow *float64) string {
	switch {
	case !present(low):
		return ClassNA
	case !present(runningLow) || *low <= *runningLow:
		return ClassNewLow
	default:
		return ClassLow
	}
}

func priceBadge(label string, v *float64, class string) Badge {
	if !present(v) {
		return Badge{Label: label, Value: Placeholder, Class: ClassNA, Color: Colors[ClassNA]}
	}
	return Badge{Label: label, Value: fmt.Sprintf("%.2f", *v), Class: class, Color: Colors[class]}
}

func volumeBadge(v *float64) Badge {
	value := Placeholder
	if present(v) {
		value = humanize.Comma(int64(math.Round(*v)))
	}
	return Badge{Label: "Vol", Value: value, Class: ClassVolume, Color: Colors[ClassVolume]}
}

// formatDate renders RFC 3339 timestamps as a calendar date and passes
// anything else through
func formatDate(x string) string {
	x = strings.TrimSpace(x)
	if t, err := time.Parse(time.RFC3339, x); err == nil {
		return t.Format("2006-01-02")
	}
	if len(x) > len("2006-01-02") {
		if t, err := time.Parse("2006-01-02 15:04:05", x); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return x
}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// FromDataset reconstructs the hover point for session i of a dataset as the
// renderer would report it for a point on the given trace. Volume is only
// carried by points on the volume trace. Returns nil when i is out of range.
func FromDataset(ds charts.Dataset, kind charts.TraceKind, i int) *HoverPoint {
	price, ok := ds.Trace(charts.TraceKindPrice)
	if ds.Empty || !ok || i < 0 || i >= len(price.X) {
		return nil
	}

	point := &HoverPoint{
		Trace: kind,
		X:     price.X[i].Format(time.RFC3339),
	}
	if i < len(price.Meta) {
		meta := price.Meta[i]
		point.Meta = &meta
	}

	if kind == charts.TraceKindVolume {
		if vol, ok := ds.Trace(charts.TraceKindVolume); ok && i < len(vol.Y) {
			point.Volume = vol.Y[i]
		}
		return point
	}

	switch price.Style {
	case charts.StyleCandlestick:
		point.Open = at(price.Open, i)
		point.High = at(price.High, i)
		point.Low = at(price.Low, i)
		point.Close = at(price.Close, i)
	default:
		if i < len(price.Y) {
			point.Close = price.Y[i]
		}
	}
	return point
}

func at(values []float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	v := values[i]
	return &v
}
