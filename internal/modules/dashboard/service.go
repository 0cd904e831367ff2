package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/charts"
	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/modules/metrics"
)

// EmptyTickerMessage is returned when there is nothing to compute
const EmptyTickerMessage = "Enter a ticker symbol"

// Result is one complete dashboard computation
type Result struct {
	ID         string         `json:"id" msgpack:"id"`
	Inputs     Inputs         `json:"inputs" msgpack:"inputs"`
	Chart      charts.Dataset `json:"chart" msgpack:"chart"`
	Metrics    domain.Metrics `json:"metrics" msgpack:"metrics"`
	NoData     bool           `json:"no_data" msgpack:"no_data"`
	Message    string         `json:"message,omitempty" msgpack:"message,omitempty"`
	ComputedAt time.Time      `json:"computed_at" msgpack:"computed_at"`
}

// Service computes dashboard results from a market-data provider
type Service struct {
	provider domain.MarketDataProvider
	defaults Defaults
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a new dashboard service
func NewService(provider domain.MarketDataProvider, defaults Defaults, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		defaults: defaults,
		log:      log.With().Str("service", "dashboard").Logger(),
		now:      time.Now,
	}
}

// Defaults returns the defaults applied to incoming inputs
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// Compute normalizes inputs, fetches provider data and assembles the chart
// and metrics. Provider failures degrade the result, they are never
// returned. The only error is the context's, once it is done.
func (s *Service) Compute(ctx context.Context, raw Inputs) (*Result, error) {
	in, err := Normalize(raw, s.defaults)
	if errors.Is(err, domain.ErrEmptyTicker) {
		return s.noData(in, EmptyTickerMessage), nil
	}

	start := time.Now()

	history, err := s.provider.FetchHistory(ctx, in.Ticker, in.Period)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", in.Ticker).Str("period", string(in.Period)).Msg("Failed to fetch history")
		history = nil
	}
	if len(history) == 0 {
		return s.noData(in, fmt.Sprintf("No data found for %s", in.Ticker)), nil
	}

	mIn := metrics.Input{
		History: history,
		Window:  in.Window,
		Method:  in.Method,
	}
	s.fetchFundamentals(ctx, in.Ticker, &mIn)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	assembled := metrics.Assemble(mIn)
	chart := charts.Build(history, charts.Options{
		Ticker: in.Ticker,
		Period: in.Period,
		Mode:   in.Mode,
		Window: in.Window,
		Method: in.Method,
	})

	s.log.Debug().
		Str("ticker", in.Ticker).
		Str("period", string(in.Period)).
		Int("sessions", len(history)).
		Dur("duration", time.Since(start)).
		Msg("Computed dashboard")

	return &Result{
		ID:         uuid.New().String(),
		Inputs:     in,
		Chart:      chart,
		Metrics:    assembled.Metrics,
		NoData:     assembled.NoData,
		ComputedAt: s.now(),
	}, nil
}

// fetchFundamentals fills valuation and statement tables concurrently.
// Each failure is logged and leaves its field nil.
func (s *Service) fetchFundamentals(ctx context.Context, ticker string, in *metrics.Input) {
	var g errgroup.Group

	g.Go(func() error {
		v, err := s.provider.FetchValuationInfo(ctx, ticker)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch valuation info")
			return nil
		}
		in.Valuation = v
		return nil
	})
	g.Go(func() error {
		t, err := s.provider.FetchFinancials(ctx, ticker)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch financials")
			return nil
		}
		in.Financials = t
		return nil
	})
	g.Go(func() error {
		t, err := s.provider.FetchCashflow(ctx, ticker)
		if err != nil {
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch cash flow")
			return nil
		}
		in.Cashflow = t
		return nil
	})

	_ = g.Wait()
}

func (s *Service) noData(in Inputs, message string) *Result {
	chart := charts.Build(nil, charts.Options{Ticker: in.Ticker, Period: in.Period})
	chart.Message = message
	chart.Layout.Title = message

	return &Result{
		ID:         uuid.New().String(),
		Inputs:     in,
		Chart:      chart,
		Metrics:    domain.Metrics{},
		NoData:     true,
		Message:    message,
		ComputedAt: s.now(),
	}
}
