package formulas

import (
	"github.com/shopspring/decimal"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// Disparity calculates the disparity index of the latest close against the
// trailing trend value
//
// Formula: round(lastClose / lastTrend × 100, 2)
//
// Returns unavailable when either input is missing or the trend is zero.
func Disparity(lastClose, lastTrend *float64) domain.MetricValue {
	if lastClose == nil || lastTrend == nil {
		return domain.Unavailable()
	}
	if *lastTrend == 0 || !isFinite(*lastTrend) || !isFinite(*lastClose) {
		return domain.Unavailable()
	}

	ratio := *lastClose / *lastTrend * 100
	if !isFinite(ratio) {
		return domain.Unavailable()
	}

	d := decimal.NewFromFloat(ratio).Round(2)
	value, _ := d.Float64()
	return domain.Numeric(value, d.StringFixed(2)+"%")
}

// YoYGrowth calculates the year-over-year growth of a statement row whose
// values are ordered most recent first
//
// Formula: (row[0] - row[1]) / row[1] × 100
//
// Returns unavailable when the row is absent, has fewer than two periods, the
// prior period is zero, or either value is missing.
func YoYGrowth(row *domain.StatementRow) domain.MetricValue {
	if row == nil {
		return domain.Unavailable()
	}
	return GrowthOf(row.Values)
}

// GrowthOf is YoYGrowth over a bare most-recent-first slice
func GrowthOf(values []float64) domain.MetricValue {
	if len(values) < 2 {
		return domain.Unavailable()
	}

	latest, prev := values[0], values[1]
	if !isFinite(latest) || !isFinite(prev) || prev == 0 {
		return domain.Unavailable()
	}

	growth := (latest - prev) / prev * 100
	if !isFinite(growth) {
		return domain.Unavailable()
	}

	d := decimal.NewFromFloat(growth).Round(2)
	value, _ := d.Float64()
	return domain.Numeric(value, d.StringFixed(2)+"%")
}

// Ratio wraps an optional valuation ratio as a metric
func Ratio(v *float64) domain.MetricValue {
	if v == nil || !isFinite(*v) {
		return domain.Unavailable()
	}
	return domain.Numeric(*v, decimal.NewFromFloat(*v).StringFixed(2))
}
