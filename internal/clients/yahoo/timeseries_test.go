package yahoo

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/togu6669/Nasdaq-Charts-and-analysis/internal/domain"
)

const timeseriesFixture = `{
  "timeseries": {
    "result": [
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualTotalRevenue"]},
        "timestamp": [1632960000, 1664496000, 1696032000],
        "annualTotalRevenue": [
          {"asOfDate": "2021-09-30", "periodType": "12M", "reportedValue": {"raw": 365817000000, "fmt": "365.82B"}},
          {"asOfDate": "2022-09-30", "periodType": "12M", "reportedValue": {"raw": 394328000000, "fmt": "394.33B"}},
          {"asOfDate": "2023-09-30", "periodType": "12M", "reportedValue": {"raw": 383285000000, "fmt": "383.29B"}}
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualDilutedEPS"]},
        "annualDilutedEPS": [
          null,
          {"asOfDate": "2022-09-30", "reportedValue": {"raw": 6.11}},
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 6.13}}
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualOperatingCashFlow"]}
      }
    ],
    "error": null
  }
}`

const balanceSheetFixture = `{
  "timeseries": {
    "result": [
      {"meta": {"type": ["annualCashCashEquivalentsAndShortTermInvestments"]},
       "annualCashCashEquivalentsAndShortTermInvestments": [{"asOfDate": "2023-09-30", "reportedValue": {"raw": 60}}]},
      {"meta": {"type": ["annualReceivables"]},
       "annualReceivables": [{"asOfDate": "2023-09-30", "reportedValue": {"raw": 40}}]},
      {"meta": {"type": ["annualCurrentLiabilities"]},
       "annualCurrentLiabilities": [{"asOfDate": "2022-09-30", "reportedValue": {"raw": 50}}, {"asOfDate": "2023-09-30", "reportedValue": {"raw": 125}}]}
    ],
    "error": null
  }
}`

func newTestTimeseriesClient(t *testing.T, handler http.HandlerFunc) *TimeseriesClient {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := zerolog.New(nil).Level(zerolog.Disabled)
	client := NewTimeseriesClient(server.URL, 5*time.Second, log)
	client.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return client
}

func TestParseTimeseries(t *testing.T) {
	series, err := parseTimeseries([]byte(timeseriesFixture))
	require.NoError(t, err)

	revenue, ok := series[TypeTotalRevenue]
	require.True(t, ok)
	assert.Equal(t, []float64{383285000000, 394328000000, 365817000000}, revenue.Values)
	assert.Equal(t, time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC), revenue.Periods[0])

	eps, ok := series[TypeDilutedEPS]
	require.True(t, ok)
	require.Len(t, eps.Values, 3)
	assert.Equal(t, 6.13, eps.Values[0])
	assert.Equal(t, 6.11, eps.Values[1])
	assert.True(t, math.IsNaN(eps.Values[2]), "null entries become NaN")

	_, ok = series[TypeOperatingCashFlow]
	assert.False(t, ok, "series without entries are omitted")
}

func TestParseTimeseries_Errors(t *testing.T) {
	_, err := parseTimeseries([]byte(`not json`))
	assert.Error(t, err)

	_, err = parseTimeseries([]byte(`{"timeseries":{"result":null,"error":{"code":"Bad Request","description":"Invalid type"}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid type")
}

func TestTimeseriesClient_GetFinancials(t *testing.T) {
	var capturedPath string
	var capturedTypes string
	client := newTestTimeseriesClient(t, func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedTypes = r.URL.Query().Get("type")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(timeseriesFixture))
	})

	table, err := client.GetFinancials(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "/AAPL", capturedPath)
	assert.Contains(t, capturedTypes, TypeTotalRevenue)
	assert.Contains(t, capturedTypes, TypeDilutedEPS)

	revenue := table.Row(domain.RowTotalRevenue)
	require.NotNil(t, revenue)
	assert.Equal(t, domain.RowTotalRevenue, revenue.Name)
	assert.Equal(t, 383285000000.0, revenue.Values[0])

	require.NotNil(t, table.Row(domain.RowDilutedEPS))
	assert.Nil(t, table.Row(domain.RowOperatingCashFlow), "cash flow rows are not part of financials")
}

func TestTimeseriesClient_GetCashflowMissingRow(t *testing.T) {
	client := newTestTimeseriesClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(timeseriesFixture))
	})

	table, err := client.GetCashflow(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, table.Row(domain.RowOperatingCashFlow))
}

func TestTimeseriesClient_GetQuickRatio(t *testing.T) {
	client := newTestTimeseriesClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Query().Get("type"), TypeCurrentLiabilities))
		_, _ = w.Write([]byte(balanceSheetFixture))
	})

	quick, err := client.GetQuickRatio(context.Background(), "AAPL")
	require.NoError(t, err)
	require.NotNil(t, quick)
	assert.InDelta(t, 0.8, *quick, 1e-12)
}

func TestTimeseriesClient_GetQuickRatioIncomplete(t *testing.T) {
	client := newTestTimeseriesClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(timeseriesFixture))
	})

	quick, err := client.GetQuickRatio(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, quick)
}

func TestTimeseriesClient_NonOKStatus(t *testing.T) {
	client := newTestTimeseriesClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.GetFinancials(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestTimeseriesClient_EmptySymbol(t *testing.T) {
	client := NewTimeseriesClient("", time.Second, zerolog.New(nil).Level(zerolog.Disabled))

	_, err := client.Fetch(context.Background(), " ", []string{TypeTotalRevenue})
	assert.ErrorIs(t, err, domain.ErrEmptyTicker)
	assert.Equal(t, DefaultTimeseriesURL, client.baseURL)
}

func TestTimeseriesClient_RequestWindow(t *testing.T) {
	var period1, period2 string
	client := newTestTimeseriesClient(t, func(w http.ResponseWriter, r *http.Request) {
		period1 = r.URL.Query().Get("period1")
		period2 = r.URL.Query().Get("period2")
		_, _ = w.Write([]byte(`{"timeseries":{"result":[],"error":null}}`))
	})

	_, err := client.Fetch(context.Background(), "AAPL", []string{TypeTotalRevenue})
	require.NoError(t, err)

	assert.Equal(t, "1527811200", period1)
	assert.Equal(t, "1717200000", period2)
}
