package domain

import (
	"context"
	"errors"
)

// MarketDataProvider supplies price history, valuation ratios and financial
// statements for a ticker. Every method may fail or return empty data;
// callers treat absence as data, not as a fault.
type MarketDataProvider interface {
	// FetchHistory returns daily sessions for the lookback period, ascending.
	// An unknown ticker yields an empty history, not an error.
	FetchHistory(ctx context.Context, ticker string, period Period) (History, error)

	// FetchValuationInfo returns trailing valuation ratios
	FetchValuationInfo(ctx context.Context, ticker string) (*ValuationInfo, error)

	// FetchFinancials returns income statement rows (annual, most recent first)
	FetchFinancials(ctx context.Context, ticker string) (StatementTable, error)

	// FetchCashflow returns cash-flow statement rows (annual, most recent first)
	FetchCashflow(ctx context.Context, ticker string) (StatementTable, error)
}

// Error values shared across modules
var (
	// ErrEmptyTicker means no ticker was supplied, so nothing can be computed
	ErrEmptyTicker = errors.New("empty ticker")
	// ErrNoData means the provider returned no history for the ticker/period
	ErrNoData = errors.New("no data for ticker")
)
