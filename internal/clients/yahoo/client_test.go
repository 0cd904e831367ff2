package yahoo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

type stubHistorySource struct {
	history   domain.History
	valuation *domain.ValuationInfo
	err       error
	block     bool
}

func (s *stubHistorySource) GetHistory(ctx context.Context, symbol string, period domain.Period) (domain.History, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.history, s.err
}

func (s *stubHistorySource) GetValuation(ctx context.Context, symbol string) (*domain.ValuationInfo, error) {
	return s.valuation, s.err
}

type stubStatementSource struct {
	financials domain.StatementTable
	cashflow   domain.StatementTable
	quick      *float64
	quickErr   error
	err        error
}

func (s *stubStatementSource) GetFinancials(ctx context.Context, symbol string) (domain.StatementTable, error) {
	return s.financials, s.err
}

func (s *stubStatementSource) GetCashflow(ctx context.Context, symbol string) (domain.StatementTable, error) {
	return s.cashflow, s.err
}

func (s *stubStatementSource) GetQuickRatio(ctx context.Context, symbol string) (*float64, error) {
	return s.quick, s.quickErr
}

func testLog() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func TestNewClient(t *testing.T) {
	client := NewClient(Config{Timeout: time.Second}, testLog())

	assert.NotNil(t, client)
	assert.NotNil(t, client.history)
	assert.NotNil(t, client.statements)
}

func TestClient_FetchValuationInfo_AddsQuickRatio(t *testing.T) {
	pe := 30.0
	quick := 0.9
	client := NewClientWithSources(
		&stubHistorySource{valuation: &domain.ValuationInfo{TrailingPE: &pe}},
		&stubStatementSource{quick: &quick},
		time.Second, testLog(),
	)

	v, err := client.FetchValuationInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, v.TrailingPE)
	assert.Equal(t, 30.0, *v.TrailingPE)
	require.NotNil(t, v.QuickRatio)
	assert.Equal(t, 0.9, *v.QuickRatio)
}

func TestClient_FetchValuationInfo_QuickRatioFailureIsAbsence(t *testing.T) {
	client := NewClientWithSources(
		&stubHistorySource{valuation: &domain.ValuationInfo{}},
		&stubStatementSource{quickErr: errors.New("timeseries down")},
		time.Second, testLog(),
	)

	v, err := client.FetchValuationInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, v.QuickRatio)
}

func TestClient_WrapsErrors(t *testing.T) {
	cause := errors.New("boom")
	client := NewClientWithSources(
		&stubHistorySource{err: cause},
		&stubStatementSource{err: cause},
		time.Second, testLog(),
	)

	_, err := client.FetchHistory(context.Background(), "AAPL", domain.Period1Year)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "AAPL")

	_, err = client.FetchValuationInfo(context.Background(), "AAPL")
	assert.ErrorIs(t, err, cause)

	_, err = client.FetchFinancials(context.Background(), "AAPL")
	assert.ErrorIs(t, err, cause)

	_, err = client.FetchCashflow(context.Background(), "AAPL")
	assert.ErrorIs(t, err, cause)
}

func TestClient_FetchHistoryHonoursTimeout(t *testing.T) {
	client := NewClientWithSources(
		&stubHistorySource{block: true},
		&stubStatementSource{},
		20*time.Millisecond, testLog(),
	)

	_, err := client.FetchHistory(context.Background(), "AAPL", domain.Period1Year)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_PassesTablesThrough(t *testing.T) {
	financials := domain.StatementTable{
		domain.RowTotalRevenue: {Name: domain.RowTotalRevenue, Values: []float64{2, 1}},
	}
	client := NewClientWithSources(
		&stubHistorySource{},
		&stubStatementSource{financials: financials},
		0, testLog(),
	)

	table, err := client.FetchFinancials(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, financials, table)
}
