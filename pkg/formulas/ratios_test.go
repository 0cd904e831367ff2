package formulas

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func TestDisparity(t *testing.T) {
	tests := []struct {
		name      string
		close     *float64
		trend     *float64
		available bool
		value     float64
		display   string
	}{
		{"above trend", ptr(105), ptr(100), true, 105, "105.00%"},
		{"rounds to two places", ptr(1), ptr(3), true, 33.33, "33.33%"},
		{"below trend", ptr(90), ptr(100), true, 90, "90.00%"},
		{"zero trend", ptr(100), ptr(0), false, 0, "N/A"},
		{"missing trend", ptr(100), nil, false, 0, "N/A"},
		{"missing close", nil, ptr(100), false, 0, "N/A"},
		{"nan trend", ptr(100), ptr(math.NaN()), false, 0, "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Disparity(tt.close, tt.trend)
			assert.Equal(t, tt.available, got.Available())
			assert.Equal(t, tt.display, got.Display)
			if tt.available {
				v, _ := got.Float()
				assert.InDelta(t, tt.value, v, 1e-9)
			}
		})
	}
}

func TestYoYGrowth(t *testing.T) {
	tests := []struct {
		name    string
		row     *domain.StatementRow
		display string
	}{
		{"growth", &domain.StatementRow{Values: []float64{110, 100}}, "10.00%"},
		{"decline", &domain.StatementRow{Values: []float64{90, 100}}, "-10.00%"},
		{"only latest two periods count", &domain.StatementRow{Values: []float64{120, 100, 1}}, "20.00%"},
		{"zero prior", &domain.StatementRow{Values: []float64{100, 0}}, "N/A"},
		{"single period", &domain.StatementRow{Values: []float64{100}}, "N/A"},
		{"empty row", &domain.StatementRow{}, "N/A"},
		{"absent row", nil, "N/A"},
		{"missing latest", &domain.StatementRow{Values: []float64{math.NaN(), 100}}, "N/A"},
		{"negative prior", &domain.StatementRow{Values: []float64{-50, -100}}, "-50.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := YoYGrowth(tt.row)
			assert.Equal(t, tt.display, got.Display)
			assert.Equal(t, tt.display != "N/A", got.Available())
		})
	}
}

func TestYoYGrowth_Value(t *testing.T) {
	got := YoYGrowth(&domain.StatementRow{Values: []float64{110, 100}})
	v, ok := got.Float()
	require.True(t, ok)
	assert.InDelta(t, 10.0, v, 1e-9)
}

func TestRatio(t *testing.T) {
	got := Ratio(ptr(28.456))
	assert.True(t, got.Available())
	assert.Equal(t, "28.46", got.Display)

	assert.False(t, Ratio(nil).Available())
	assert.False(t, Ratio(ptr(math.Inf(1))).Available())
}
