package yahoo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// NativeClient fetches history and quote info through the go-yfinance library
type NativeClient struct {
	log zerolog.Logger
}

// NewNativeClient creates a new native Yahoo Finance client
func NewNativeClient(log zerolog.Logger) *NativeClient {
	return &NativeClient{
		log: log.With().Str("client", "yahoo-native").Logger(),
	}
}

// yahooRange maps a dashboard period onto a Yahoo chart range. Yahoo has no
// one-week range, the closest is five trading days.
func yahooRange(p domain.Period) string {
	if p == domain.Period1Week {
		return "5d"
	}
	return string(p)
}

// GetHistory fetches daily bars for the period
func (c *NativeClient) GetHistory(ctx context.Context, symbol string, period domain.Period) (domain.History, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	return runWithContext(ctx, func() (domain.History, error) {
		t, err := ticker.New(symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to create ticker: %w", err)
		}
		defer t.Close()

		bars, err := t.History(models.HistoryParams{
			Period:     yahooRange(period),
			Interval:   "1d",
			AutoAdjust: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get historical prices: %w", err)
		}

		history := make(domain.History, 0, len(bars))
		for _, bar := range bars {
			if bar.Open == 0 && bar.High == 0 && bar.Low == 0 && bar.Close == 0 {
				continue
			}
			history = append(history, domain.PricePoint{
				Timestamp: bar.Date,
				Open:      bar.Open,
				High:      bar.High,
				Low:       bar.Low,
				Close:     bar.Close,
				Volume:    float64(bar.Volume),
			})
		}

		c.log.Debug().Str("symbol", symbol).Str("period", string(period)).Int("bars", len(history)).Msg("Fetched history")
		return history.Normalize(), nil
	})
}

// GetValuation fetches trailing valuation ratios from the quote summary.
// Non-positive ratios are treated as absent. QuickRatio is not part of the
// quote summary and is left nil.
func (c *NativeClient) GetValuation(ctx context.Context, symbol string) (*domain.ValuationInfo, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	return runWithContext(ctx, func() (*domain.ValuationInfo, error) {
		t, err := ticker.New(symbol)
		if err != nil {
			return nil, fmt.Errorf("failed to create ticker: %w", err)
		}
		defer t.Close()

		info, err := t.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get info: %w", err)
		}

		// Copy values before taking addresses, the library may reuse buffers
		valuation := &domain.ValuationInfo{}
		if info.TrailingPE > 0 {
			trailingPE := info.TrailingPE
			valuation.TrailingPE = &trailingPE
		}
		if info.PriceToBook > 0 {
			priceToBook := info.PriceToBook
			valuation.PriceToBook = &priceToBook
		}
		if info.CurrentRatio > 0 {
			currentRatio := info.CurrentRatio
			valuation.CurrentRatio = &currentRatio
		}

		return valuation, nil
	})
}

type outcome[T any] struct {
	value T
	err   error
}

// runWithContext runs a blocking library call and abandons it when ctx is
// done. The call itself keeps running until the library returns.
func runWithContext[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	done := make(chan outcome[T], 1)
	go func() {
		v, err := fn()
		done <- outcome[T]{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case o := <-done:
		return o.value, o.err
	}
}
