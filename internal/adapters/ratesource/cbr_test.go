package ratesource

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hrforge/candidate_rates_service/internal/apperrors"
	"github.com/hrforge/candidate_rates_service/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dailyPageFull = `
<html><body>
<table class="data">
<tr><th>Num</th><th>Code</th><th>Units</th><th>Currency</th><th>Rate</th></tr>
<tr><td>840</td><td>USD</td><td>1</td><td>US Dollar</td><td>95,5000</td></tr>
<tr><td>978</td><td>EUR</td><td>1</td><td>Euro</td><td>103,2500</td></tr>
<tr><td>933</td><td>BYN</td><td>1</td><td>Belarusian Ruble</td><td>29,8000</td></tr>
<tr><td>392</td><td>JPY</td><td>100</td><td>Japanese Yen</td><td>63,1075</td></tr>
</table>
</body></html>`

const dailyPageNestedMarkup = `
<table>
<tr class="odd"><td><span>840</span></td><td><b>USD</b></td><td>1</td><td>US&nbsp;Dollar</td><td><span class="rate">95,5000</span></td></tr>
<tr><td>978</td><td>EUR</td><td>1</td><td>Euro</td><td>103,2500</td></tr>
<tr><td>933</td><td>BYN</td><td>100</td><td>Belarusian Rubles</td><td>2980,0000</td></tr>
</table>`

const dailyPagePartial = `
<table>
<tr><td>840</td><td>USD</td><td>1</td><td>US Dollar</td><td>95,5000</td></tr>
<tr><td>978</td><td>EUR</td><td>1</td><td>Euro</td><td>103,2500</td></tr>
</table>`

func TestParseDailyTable_FullDocument(t *testing.T) {
	fetchedAt := time.Now()

	quotes, err := parseDailyTable([]byte(dailyPageFull), fetchedAt)

	require.NoError(t, err)
	assert.Equal(t, fetchedAt, quotes.FetchedAt)

	usd, ok := quotes.Rate(domain.USD)
	require.True(t, ok)
	assert.True(t, usd.Equal(decimal.RequireFromString("95.50")), "USD, got %s", usd)

	eur, ok := quotes.Rate(domain.EUR)
	require.True(t, ok)
	assert.True(t, eur.Equal(decimal.RequireFromString("103.25")), "EUR, got %s", eur)

	byn, ok := quotes.Rate(domain.BYN)
	require.True(t, ok)
	assert.True(t, byn.Equal(decimal.RequireFromString("29.80")), "BYN, got %s", byn)
}

func TestParseDailyTable_NestedMarkupAndMultiUnitQuotes(t *testing.T) {
	quotes, err := parseDailyTable([]byte(dailyPageNestedMarkup), time.Now())

	require.NoError(t, err)

	usd, ok := quotes.Rate(domain.USD)
	require.True(t, ok, "nested tags inside cells must not break extraction")
	assert.True(t, usd.Equal(decimal.RequireFromString("95.50")))

	// BYN quoted per 100 units must be normalized to a per-unit rate.
	byn, ok := quotes.Rate(domain.BYN)
	require.True(t, ok)
	assert.True(t, byn.Equal(decimal.RequireFromString("29.80")), "per-unit BYN, got %s", byn)
}

func TestParseDailyTable_PartialDocument(t *testing.T) {
	quotes, err := parseDailyTable([]byte(dailyPagePartial), time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPartialRates)

	// Recovered quotes still come back alongside the error.
	_, ok := quotes.Rate(domain.USD)
	assert.True(t, ok)
	_, ok = quotes.Rate(domain.EUR)
	assert.True(t, ok)
	_, ok = quotes.Rate(domain.BYN)
	assert.False(t, ok)
	assert.Equal(t, []domain.CurrencyCode{domain.BYN}, quotes.Missing())
}

func TestParseDailyTable_UnparseableDocuments(t *testing.T) {
	_, err := parseDailyTable([]byte("<html><body>maintenance page</body></html>"), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrSourceUnparseable)

	_, err = parseDailyTable([]byte(`<table><tr><td>840</td><td>XAU</td><td>1</td><td>Gold</td><td>1,0</td></tr></table>`), time.Now())
	assert.ErrorIs(t, err, apperrors.ErrSourceUnparseable)
}

func TestParseRateNumber(t *testing.T) {
	got, err := parseRateNumber("1 234,5678")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("1234.5678")))

	_, err = parseRateNumber("n/a")
	assert.Error(t, err)
}

func TestFetchDaily_HappyPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(dailyPageFull))
	}))
	defer server.Close()

	client := NewCBRClient(slog.Default(), WithURL(server.URL))
	quotes, err := client.FetchDaily(context.Background())

	require.NoError(t, err)
	assert.Empty(t, quotes.Missing())
	assert.False(t, quotes.FetchedAt.IsZero())
}

func TestFetchDaily_ServerErrorIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewCBRClient(slog.Default(), WithURL(server.URL))
	_, err := client.FetchDaily(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrSourceUnreachable)
}

func TestFetchDaily_ConnectionRefusedIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // deliberately closed before the fetch

	client := NewCBRClient(slog.Default(), WithURL(server.URL), WithTimeout(2*time.Second))
	_, err := client.FetchDaily(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrSourceUnreachable)
}
