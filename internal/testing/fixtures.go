package testing

import (
	"math"
	"time"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// FixtureStart is the timestamp of the first session in generated histories
var FixtureStart = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

// NewHistoryFixture builds a daily history from parallel OHLCV slices.
// Nil volumes default to 1,000,000 per session.
func NewHistoryFixture(opens, highs, lows, closes, volumes []float64) domain.History {
	h := make(domain.History, len(closes))
	for i := range closes {
		vol := 1_000_000.0
		if volumes != nil {
			vol = volumes[i]
		}
		h[i] = domain.PricePoint{
			Timestamp: FixtureStart.AddDate(0, 0, i),
			Open:      opens[i],
			High:      highs[i],
			Low:       lows[i],
			Close:     closes[i],
			Volume:    vol,
		}
	}
	return h
}

// NewHistoryFromCloses builds a history where each session opens at its close
// and trades one dollar either side of it
func NewHistoryFromCloses(closes ...float64) domain.History {
	opens := make([]float64, len(closes))
	highs := make([]float64, len(closes))
	lows := make([]float64, len(closes))
	volumes := make([]float64, len(closes))
	for i, c := range closes {
		opens[i] = c
		highs[i] = c + 1
		lows[i] = c - 1
		volumes[i] = float64(1_000_000 + i*1_000)
	}
	return NewHistoryFixture(opens, highs, lows, closes, volumes)
}

// NewValuationFixture returns a fully populated valuation
func NewValuationFixture() *domain.ValuationInfo {
	return &domain.ValuationInfo{
		TrailingPE:   domain.Float(28.5),
		PriceToBook:  domain.Float(45.25),
		CurrentRatio: domain.Float(0.99),
		QuickRatio:   domain.Float(0.85),
	}
}

// NewFinancialsFixture returns revenue and EPS rows, most recent first
func NewFinancialsFixture() domain.StatementTable {
	return domain.StatementTable{
		domain.RowTotalRevenue: {
			Name:    domain.RowTotalRevenue,
			Periods: annualPeriods(3),
			Values:  []float64{110, 100, 90},
		},
		domain.RowDilutedEPS: {
			Name:    domain.RowDilutedEPS,
			Periods: annualPeriods(3),
			Values:  []float64{6, 5, math.NaN()},
		},
	}
}

// NewCashflowFixture returns the operating cash flow row, most recent first
func NewCashflowFixture() domain.StatementTable {
	return domain.StatementTable{
		domain.RowOperatingCashFlow: {
			Name:    domain.RowOperatingCashFlow,
			Periods: annualPeriods(2),
			Values:  []float64{120, 100},
		},
	}
}

func annualPeriods(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2023-i, 9, 30, 0, 0, 0, 0, time.UTC)
	}
	return out
}
