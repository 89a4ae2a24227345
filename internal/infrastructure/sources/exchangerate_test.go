package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valutatrade-hub/internal/domain/errs"
	"valutatrade-hub/internal/infrastructure/config"
)

func exchangeRateTestConfig(serverURL string) config.SourcesConfig {
	return config.SourcesConfig{
		ExchangeRateAPIURL: serverURL,
		ExchangeRateAPIKey: "test-key",
		RequestTimeout:     2 * time.Second,
		MaxRetries:         1,
		FiatCurrencies:     []string{"EUR", "GBP"},
	}
}

func TestExchangeRateFetchRatesInvertsQuotes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/latest/USD", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"result": "success",
			"conversion_rates": {"EUR": 0.92, "GBP": 0.79, "JPY": 149.5}
		}`))
	}))
	defer server.Close()

	client := NewExchangeRateClient(exchangeRateTestConfig(server.URL), "usd")

	rates, err := client.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 2)
	// Upstream reports "1 USD = 0.92 EUR"; the pair EUR_USD is the inverse
	assert.InDelta(t, 1.0/0.92, rates["EUR_USD"], 1e-12)
	assert.InDelta(t, 1.0/0.79, rates["GBP_USD"], 1e-12)
}

func TestExchangeRateFetchRatesLegacyRatesField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": "success", "rates": {"EUR": 0.92}}`))
	}))
	defer server.Close()

	client := NewExchangeRateClient(exchangeRateTestConfig(server.URL), "USD")

	rates, err := client.FetchRates(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0/0.92, rates["EUR_USD"], 1e-12)
}

func TestExchangeRateFetchRatesMissingAPIKey(t *testing.T) {
	cfg := exchangeRateTestConfig("http://example.invalid")
	cfg.ExchangeRateAPIKey = "  "
	client := NewExchangeRateClient(cfg, "USD")

	_, err := client.FetchRates(context.Background())
	var fetchErr *errs.SourceFetchError
	require.Error(t, err)
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, err.Error(), "API key")
}

func TestExchangeRateFetchRatesUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": "error", "error-type": "invalid-key"}`))
	}))
	defer server.Close()

	client := NewExchangeRateClient(exchangeRateTestConfig(server.URL), "USD")

	_, err := client.FetchRates(context.Background())
	var fetchErr *errs.SourceFetchError
	require.Error(t, err)
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, err.Error(), "invalid-key")
}

func TestExchangeRateFetchRatesMissingRatesField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": "success"}`))
	}))
	defer server.Close()

	client := NewExchangeRateClient(exchangeRateTestConfig(server.URL), "USD")

	_, err := client.FetchRates(context.Background())
	var fetchErr *errs.SourceFetchError
	require.Error(t, err)
	assert.True(t, errors.As(err, &fetchErr))
}

func TestExchangeRateFetchRatesSkipsNonPositive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": "success", "conversion_rates": {"EUR": -1, "GBP": 0.79}}`))
	}))
	defer server.Close()

	client := NewExchangeRateClient(exchangeRateTestConfig(server.URL), "USD")

	rates, err := client.FetchRates(context.Background())
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Contains(t, rates, "GBP_USD")
}
