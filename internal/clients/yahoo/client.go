// Package yahoo implements the market-data provider on top of Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// HistorySource supplies price history and quote-summary ratios
type HistorySource interface {
	GetHistory(ctx context.Context, symbol string, period domain.Period) (domain.History, error)
	GetValuation(ctx context.Context, symbol string) (*domain.ValuationInfo, error)
}

// StatementSource supplies annual statement rows
type StatementSource interface {
	GetFinancials(ctx context.Context, symbol string) (domain.StatementTable, error)
	GetCashflow(ctx context.Context, symbol string) (domain.StatementTable, error)
	GetQuickRatio(ctx context.Context, symbol string) (*float64, error)
}

// Config holds provider client settings
type Config struct {
	TimeseriesURL string
	Timeout       time.Duration
}

// Client implements domain.MarketDataProvider by combining the go-yfinance
// client (history, quote summary) with the fundamentals timeseries API
// (statement rows, quick ratio)
type Client struct {
	history    HistorySource
	statements StatementSource
	timeout    time.Duration
	log        zerolog.Logger
}

// NewClient creates a Yahoo Finance provider
func NewClient(cfg Config, log zerolog.Logger) *Client {
	return NewClientWithSources(
		NewNativeClient(log),
		NewTimeseriesClient(cfg.TimeseriesURL, cfg.Timeout, log),
		cfg.Timeout,
		log,
	)
}

// NewClientWithSources creates a provider from explicit sources
func NewClientWithSources(history HistorySource, statements StatementSource, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		history:    history,
		statements: statements,
		timeout:    timeout,
		log:        log.With().Str("client", "yahoo").Logger(),
	}
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// FetchHistory returns daily sessions for the period
func (c *Client) FetchHistory(ctx context.Context, ticker string, period domain.Period) (domain.History, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	history, err := c.history.GetHistory(ctx, ticker, period)
	if err != nil {
		return nil, fmt.Errorf("fetching history for %s (%s): %w", ticker, period, err)
	}
	return history, nil
}

// FetchValuationInfo returns valuation ratios. The quick ratio comes from the
// balance sheet; failing to derive it only leaves it absent.
func (c *Client) FetchValuationInfo(ctx context.Context, ticker string) (*domain.ValuationInfo, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	valuation, err := c.history.GetValuation(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching valuation for %s: %w", ticker, err)
	}
	if valuation == nil {
		valuation = &domain.ValuationInfo{}
	}

	if valuation.QuickRatio == nil {
		quick, err := c.statements.GetQuickRatio(ctx, ticker)
		if err != nil {
			c.log.Debug().Err(err).Str("ticker", ticker).Msg("Quick ratio unavailable")
		} else {
			valuation.QuickRatio = quick
		}
	}

	return valuation, nil
}

// FetchFinancials returns income statement rows
func (c *Client) FetchFinancials(ctx context.Context, ticker string) (domain.StatementTable, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	table, err := c.statements.GetFinancials(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching financials for %s: %w", ticker, err)
	}
	return table, nil
}

// FetchCashflow returns cash-flow statement rows
func (c *Client) FetchCashflow(ctx context.Context, ticker string) (domain.StatementTable, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	table, err := c.statements.GetCashflow(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching cash flow for %s: %w", ticker, err)
	}
	return table, nil
}

var _ domain.MarketDataProvider = (*Client)(nil)
