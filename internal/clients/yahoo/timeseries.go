package yahoo

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

// DefaultTimeseriesURL is the Yahoo fundamentals-timeseries endpoint
const DefaultTimeseriesURL = "https://query2.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"

// Timeseries keys requested from Yahoo
const (
	TypeTotalRevenue       = "annualTotalRevenue"
	TypeDilutedEPS         = "annualDilutedEPS"
	TypeOperatingCashFlow  = "annualOperatingCashFlow"
	TypeCashAndShortTerm   = "annualCashCashEquivalentsAndShortTermInvestments"
	TypeReceivables        = "annualReceivables"
	TypeCurrentLiabilities = "annualCurrentLiabilities"
)

// Statement row names for each timeseries key
var (
	financialsRows = map[string]string{
		TypeTotalRevenue: domain.RowTotalRevenue,
		TypeDilutedEPS:   domain.RowDilutedEPS,
	}
	cashflowRows = map[string]string{
		TypeOperatingCashFlow: domain.RowOperatingCashFlow,
	}
	balanceSheetTypes = []string{TypeCashAndShortTerm, TypeReceivables, TypeCurrentLiabilities}
)

// lookback is how far back annual statements are requested
const lookback = 6

// TimeseriesClient reads annual statement rows from the fundamentals
// timeseries API
type TimeseriesClient struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
	now     func() time.Time
}

// NewTimeseriesClient creates a timeseries client. An empty baseURL uses
// DefaultTimeseriesURL.
func NewTimeseriesClient(baseURL string, timeout time.Duration, log zerolog.Logger) *TimeseriesClient {
	if baseURL == "" {
		baseURL = DefaultTimeseriesURL
	}
	return &TimeseriesClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("client", "yahoo-timeseries").Logger(),
		now: time.Now,
	}
}

// GetFinancials returns the income statement rows used for growth metrics
func (c *TimeseriesClient) GetFinancials(ctx context.Context, symbol string) (domain.StatementTable, error) {
	return c.fetchTable(ctx, symbol, financialsRows)
}

// GetCashflow returns the cash-flow statement rows used for growth metrics
func (c *TimeseriesClient) GetCashflow(ctx context.Context, symbol string) (domain.StatementTable, error) {
	return c.fetchTable(ctx, symbol, cashflowRows)
}

// GetQuickRatio derives the latest quick ratio from the balance sheet:
// (cash and short-term investments + receivables) / current liabilities.
// Returns nil when any component is missing or liabilities are zero.
func (c *TimeseriesClient) GetQuickRatio(ctx context.Context, symbol string) (*float64, error) {
	series, err := c.Fetch(ctx, symbol, balanceSheetTypes)
	if err != nil {
		return nil, err
	}

	latest := func(key string) float64 {
		row, ok := series[key]
		if !ok || len(row.Values) == 0 {
			return math.NaN()
		}
		return row.Values[0]
	}

	liabilities := latest(TypeCurrentLiabilities)
	quick := (latest(TypeCashAndShortTerm) + latest(TypeReceivables)) / liabilities
	if liabilities == 0 || math.IsNaN(quick) || math.IsInf(quick, 0) {
		return nil, nil
	}
	return domain.Float(quick), nil
}

func (c *TimeseriesClient) fetchTable(ctx context.Context, symbol string, rows map[string]string) (domain.StatementTable, error) {
	types := make([]string, 0, len(rows))
	for t := range rows {
		types = append(types, t)
	}

	series, err := c.Fetch(ctx, symbol, types)
	if err != nil {
		return nil, err
	}

	table := make(domain.StatementTable, len(rows))
	for key, name := range rows {
		row, ok := series[key]
		if !ok {
			continue
		}
		row.Name = name
		table[name] = row
	}
	return table, nil
}

// Fetch requests the given timeseries keys for symbol. Rows are keyed by
// timeseries type with values most recent first.
func (c *TimeseriesClient) Fetch(ctx context.Context, symbol string, types []string) (map[string]*domain.StatementRow, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, domain.ErrEmptyTicker
	}

	now := c.now()
	params := url.Values{}
	params.Add("type", strings.Join(types, ","))
	params.Add("period1", strconv.FormatInt(now.AddDate(-lookback, 0, 0).Unix(), 10))
	params.Add("period2", strconv.FormatInt(now.Unix(), 10))

	reqURL := c.baseURL + "/" + url.PathEscape(symbol) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to mimic browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeseries for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo timeseries returned status %d: %s", resp.StatusCode, string(body))
	}

	series, err := parseTimeseries(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse timeseries for %s: %w", symbol, err)
	}

	c.log.Debug().Str("symbol", symbol).Int("series", len(series)).Msg("Fetched timeseries")
	return series, nil
}

// parseTimeseries reads a fundamentals-timeseries document. Yahoo lists
// entries oldest first and pads missing years with null; those become NaN.
func parseTimeseries(body []byte) (map[string]*domain.StatementRow, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json")
	}

	doc := gjson.ParseBytes(body)
	if errMsg := doc.Get("timeseries.error"); errMsg.Exists() && errMsg.Type != gjson.Null {
		return nil, fmt.Errorf("yahoo timeseries error: %s", errMsg.Get("description").String())
	}

	out := make(map[string]*domain.StatementRow)
	for _, result := range doc.Get("timeseries.result").Array() {
		key := result.Get("meta.type.0").String()
		if key == "" {
			continue
		}

		entries := result.Get(key).Array()
		if len(entries) == 0 {
			continue
		}

		row := &domain.StatementRow{
			Name:    key,
			Periods: make([]time.Time, len(entries)),
			Values:  make([]float64, len(entries)),
		}
		for i, entry := range entries {
			// Reverse into most recent first
			j := len(entries) - 1 - i

			row.Values[j] = math.NaN()
			if entry.Type == gjson.Null {
				continue
			}
			if date, err := time.Parse("2006-01-02", entry.Get("asOfDate").String()); err == nil {
				row.Periods[j] = date
			}
			if raw := entry.Get("reportedValue.raw"); raw.Exists() && raw.Type == gjson.Number {
				row.Values[j] = raw.Float()
			}
		}
		out[key] = row
	}

	return out, nil
}
