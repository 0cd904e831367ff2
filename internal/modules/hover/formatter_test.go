package hover

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/charts"
	testingpkg "github.com/togu6669/Nasdaq-Charts-and-analysis/internal/testing"
)

func ptr(v float64) *float64 { return &v }

func badge(t *testing.T, d Detail, label string) Badge {
	t.Helper()
	for _, b := range d.Badges {
		if b.Label == label {
			return b
		}
	}
	require.FailNow(t, "badge not found", label)
	return Badge{}
}

func sampleDataset(mode domain.ChartMode) charts.Dataset {
	h := testingpkg.NewHistoryFixture(
		[]float64{98, 104, 104},
		[]float64{10, 12, 9},
		[]float64{8, 9, 7},
		[]float64{100, 105, 103},
		[]float64{1000, 1234567, 2000},
	)
	return charts.Build(h, charts.Options{Ticker: "AAPL", Period: domain.Period1Month, Mode: mode, Window: 14})
}

func TestFormat_NilPoint(t *testing.T) {
	d := Format(nil)

	assert.Equal(t, "Hover over the chart to see details.", d.Prompt)
	assert.Empty(t, d.Badges)
}

func TestFormat_BadgeOrder(t *testing.T) {
	d := Format(FromDataset(sampleDataset(domain.ChartModeCandlestick), charts.TraceKindPrice, 1))

	labels := make([]string, 0, len(d.Badges))
	for _, b := range d.Badges {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"Date", "O", "H", "L", "C", "Vol"}, labels)
	assert.Empty(t, d.Prompt)
	assert.Equal(t, "2024-01-03", d.Badges[0].Value)
}

func TestFormat_CloseVersusOpen(t *testing.T) {
	ds := sampleDataset(domain.ChartModeCandlestick)

	bullish := Format(FromDataset(ds, charts.TraceKindPrice, 1))
	assert.Equal(t, ClassBullish, badge(t, bullish, "C").Class)
	assert.Equal(t, "#28a745", badge(t, bullish, "C").Color)

	bearish := Format(FromDataset(ds, charts.TraceKindPrice, 2))
	assert.Equal(t, ClassBearish, badge(t, bearish, "C").Class)
	assert.Equal(t, "#dc3545", badge(t, bearish, "C").Color)
}

func TestFormat_HighIsNotNewHigh(t *testing.T) {
	d := Format(FromDataset(sampleDataset(domain.ChartModeCandlestick), charts.TraceKindPrice, 2))

	h := badge(t, d, "H")
	assert.NotEqual(t, ClassNewHigh, h.Class)
	assert.Equal(t, ClassHigh, h.Class)
	assert.Equal(t, "9.00", h.Value)

	// 7 is below every prior low
	assert.Equal(t, ClassNewLow, badge(t, d, "L").Class)
}

func TestClassifyOpen(t *testing.T) {
	tests := []struct {
		name  string
		open  *float64
		prev  *float64
		class string
	}{
		{"gap up", ptr(101), ptr(100), ClassUp},
		{"gap down", ptr(99), ptr(100), ClassDown},
		{"flat", ptr(100), ptr(100), ClassFlat},
		{"missing open", nil, ptr(100), ClassNA},
		{"missing previous close", ptr(100), nil, ClassFlat},
		{"nan open", ptr(math.NaN()), ptr(100), ClassNA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.class, classifyOpen(tt.open, tt.prev))
		})
	}
}

func TestClassifyClose(t *testing.T) {
	assert.Equal(t, ClassBullish, classifyClose(ptr(105), ptr(104)))
	assert.Equal(t, ClassBearish, classifyClose(ptr(103), ptr(104)))
	assert.Equal(t, ClassNeutral, classifyClose(ptr(104), ptr(104)))
	assert.Equal(t, ClassNA, classifyClose(nil, ptr(104)))
}

func TestClassifyHighLow_Inclusive(t *testing.T) {
	assert.Equal(t, ClassNewHigh, classifyHigh(ptr(12), ptr(12)))
	assert.Equal(t, ClassNewHigh, classifyHigh(ptr(13), ptr(12)))
	assert.Equal(t, ClassHigh, classifyHigh(ptr(11), ptr(12)))

	assert.Equal(t, ClassNewLow, classifyLow(ptr(8), ptr(8)))
	assert.Equal(t, ClassNewLow, classifyLow(ptr(7), ptr(8)))
	assert.Equal(t, ClassLow, classifyLow(ptr(9), ptr(8)))
}

func TestFormat_Volume(t *testing.T) {
	ds := sampleDataset(domain.ChartModeCandlestick)

	onVolume := Format(FromDataset(ds, charts.TraceKindVolume, 1))
	vol := badge(t, onVolume, "Vol")
	assert.Equal(t, "1,234,567", vol.Value)
	assert.Equal(t, "#17a2b8", vol.Color)

	onPrice := Format(FromDataset(ds, charts.TraceKindPrice, 1))
	assert.Equal(t, "—", badge(t, onPrice, "Vol").Value)
}

func TestFormat_MissingOHLC(t *testing.T) {
	d := Format(FromDataset(sampleDataset(domain.ChartModeCandlestick), charts.TraceKindVolume, 0))

	for _, label := range []string{"O", "H", "L", "C"} {
		b := badge(t, d, label)
		assert.Equal(t, Placeholder, b.Value, label)
		assert.Equal(t, ClassNA, b.Class, label)
	}
}

func TestFormat_LineModeCarriesCloseOnly(t *testing.T) {
	d := Format(FromDataset(sampleDataset(domain.ChartModeLine), charts.TraceKindPrice, 2))

	assert.Equal(t, "103.00", badge(t, d, "C").Value)
	assert.Equal(t, ClassNeutral, badge(t, d, "C").Class)
	assert.Equal(t, ClassNA, badge(t, d, "O").Class)
}

func TestFormat_WithoutMetaFallsBackToOwnValues(t *testing.T) {
	d := Format(&HoverPoint{
		Trace: charts.TraceKindPrice,
		X:     "2024-03-01",
		Open:  ptr(10),
		High:  ptr(11),
		Low:   ptr(9),
		Close: ptr(10.5),
	})

	assert.Equal(t, "2024-03-01", d.Badges[0].Value)
	assert.Equal(t, ClassDown, badge(t, d, "O").Class)
	assert.Equal(t, ClassNewHigh, badge(t, d, "H").Class)
	assert.Equal(t, ClassNewLow, badge(t, d, "L").Class)
	assert.Equal(t, ClassBullish, badge(t, d, "C").Class)
}

func TestFromDataset_OutOfRange(t *testing.T) {
	ds := sampleDataset(domain.ChartModeCandlestick)

	assert.Nil(t, FromDataset(ds, charts.TraceKindPrice, -1))
	assert.Nil(t, FromDataset(ds, charts.TraceKindPrice, 3))
	assert.Nil(t, FromDataset(charts.Build(nil, charts.Options{Ticker: "X"}), charts.TraceKindPrice, 0))
}
