package testing

import (
	"context"
	"sync"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// HistoryFunc overrides MockMarketDataProvider.FetchHistory
type HistoryFunc func(ctx context.Context, ticker string, period domain.Period) (domain.History, error)

// MockMarketDataProvider is a mock implementation of domain.MarketDataProvider for testing
type MockMarketDataProvider struct {
	mu          sync.RWMutex
	history     domain.History
	valuation   *domain.ValuationInfo
	financials  domain.StatementTable
	cashflow    domain.StatementTable
	historyFunc HistoryFunc

	historyErr    error
	valuationErr  error
	financialsErr error
	cashflowErr   error

	calls map[string]int
}

// NewMockMarketDataProvider creates a mock provider returning nothing
func NewMockMarketDataProvider() *MockMarketDataProvider {
	return &MockMarketDataProvider{
		calls: make(map[string]int),
	}
}

// SetHistory sets the history to return
func (m *MockMarketDataProvider) SetHistory(h domain.History) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = h
}

// SetHistoryFunc replaces FetchHistory with fn
func (m *MockMarketDataProvider) SetHistoryFunc(fn HistoryFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyFunc = fn
}

// SetValuation sets the valuation info to return
func (m *MockMarketDataProvider) SetValuation(v *domain.ValuationInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valuation = v
}

// SetFinancials sets the financial statement table to return
func (m *MockMarketDataProvider) SetFinancials(t domain.StatementTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.financials = t
}

// SetCashflow sets the cash-flow statement table to return
func (m *MockMarketDataProvider) SetCashflow(t domain.StatementTable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cashflow = t
}

// SetError sets the error returned by every fetch
func (m *MockMarketDataProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyErr = err
	m.valuationErr = err
	m.financialsErr = err
	m.cashflowErr = err
}

// SetHistoryError sets the error returned by FetchHistory
func (m *MockMarketDataProvider) SetHistoryError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyErr = err
}

// SetValuationError sets the error returned by FetchValuationInfo
func (m *MockMarketDataProvider) SetValuationError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.valuationErr = err
}

// SetFinancialsError sets the error returned by FetchFinancials
func (m *MockMarketDataProvider) SetFinancialsError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.financialsErr = err
}

// SetCashflowError sets the error returned by FetchCashflow
func (m *MockMarketDataProvider) SetCashflowError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cashflowErr = err
}

// CallCount returns how many times the named method was called
func (m *MockMarketDataProvider) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

func (m *MockMarketDataProvider) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
}

// FetchHistory returns the configured history
func (m *MockMarketDataProvider) FetchHistory(ctx context.Context, ticker string, period domain.Period) (domain.History, error) {
	m.record("FetchHistory")

	m.mu.RLock()
	fn := m.historyFunc
	m.mu.RUnlock()
	if fn != nil {
		return fn(ctx, ticker, period)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

// FetchValuationInfo returns the configured valuation info
func (m *MockMarketDataProvider) FetchValuationInfo(ctx context.Context, ticker string) (*domain.ValuationInfo, error) {
	m.record("FetchValuationInfo")
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.valuationErr != nil {
		return nil, m.valuationErr
	}
	return m.valuation, nil
}

// FetchFinancials returns the configured financial statement table
func (m *MockMarketDataProvider) FetchFinancials(ctx context.Context, ticker string) (domain.StatementTable, error) {
	m.record("FetchFinancials")
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.financialsErr != nil {
		return nil, m.financialsErr
	}
	return m.financials, nil
}

// FetchCashflow returns the configured cash-flow statement table
func (m *MockMarketDataProvider) FetchCashflow(ctx context.Context, ticker string) (domain.StatementTable, error) {
	m.record("FetchCashflow")
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cashflowErr != nil {
		return nil, m.cashflowErr
	}
	return m.cashflow, nil
}

var _ domain.MarketDataProvider = (*MockMarketDataProvider)(nil)
