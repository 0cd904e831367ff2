// Package metrics assembles the ordered fundamental and growth metrics shown
// next to the chart.
package metrics

import (
	"fmt"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/pkg/formulas"
)

// Metric labels in display order
const (
	LabelPE                 = "P/E Ratio"
	LabelPB                 = "P/B Ratio"
	LabelCurrentRatio       = "Current Ratio"
	LabelQuickRatio         = "Quick Ratio"
	LabelRevenueGrowth      = "Revenue Growth"
	LabelEPSGrowth          = "EPS Growth"
	LabelFreeCashFlowGrowth = "Free Cash Flow Growth"
)

// DisparityLabel returns the disparity label for a smoothing window
func DisparityLabel(window int) string {
	return fmt.Sprintf("Disparity (%d-day)", window)
}

// Input carries everything the assembler reads. Valuation, Financials and
// Cashflow may each be nil.
type Input struct {
	History    domain.History
	Valuation  *domain.ValuationInfo
	Financials domain.StatementTable
	Cashflow   domain.StatementTable
	Window     int
	Method     domain.SmoothingMethod
}

// Result is the assembled metric list
type Result struct {
	Metrics domain.Metrics `json:"metrics" msgpack:"metrics"`
	NoData  bool           `json:"no_data" msgpack:"no_data"`
}

// Assemble computes the eight dashboard metrics. Empty history yields an
// empty list flagged NoData; every other gap degrades only its own metric.
func Assemble(in Input) Result {
	if len(in.History) == 0 {
		return Result{Metrics: domain.Metrics{}, NoData: true}
	}

	window := domain.ClampWindow(in.Window)
	closes := in.History.Closes()
	trend := formulas.SmoothWith(in.Method, closes, window)
	lastClose := closes[len(closes)-1]

	valuation := in.Valuation
	if valuation == nil {
		valuation = &domain.ValuationInfo{}
	}

	return Result{
		Metrics: domain.Metrics{
			{Label: LabelPE, Value: formulas.Ratio(valuation.TrailingPE)},
			{Label: LabelPB, Value: formulas.Ratio(valuation.PriceToBook)},
			{Label: DisparityLabel(window), Value: formulas.Disparity(&lastClose, trend.Last())},
			{Label: LabelCurrentRatio, Value: formulas.Ratio(valuation.CurrentRatio)},
			{Label: LabelQuickRatio, Value: formulas.Ratio(valuation.QuickRatio)},
			{Label: LabelRevenueGrowth, Value: formulas.YoYGrowth(in.Financials.Row(domain.RowTotalRevenue))},
			{Label: LabelEPSGrowth, Value: formulas.YoYGrowth(in.Financials.Row(domain.RowDilutedEPS))},
			{Label: LabelFreeCashFlowGrowth, Value: formulas.YoYGrowth(in.Cashflow.Row(domain.RowOperatingCashFlow))},
		},
	}
}
