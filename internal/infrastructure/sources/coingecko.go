// Package sources implements the SourceProvider clients for the external
// quote APIs. Each client either returns a completed pair->rate mapping or a
// SourceFetchError; retries and timeouts are handled here so the updater
// never blocks on network state.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
	"valutatrade-hub/internal/infrastructure/config"
	"valutatrade-hub/internal/infrastructure/logging"
)

const (
	BaseBackoff = 100 * time.Millisecond
	MaxBackoff  = 2 * time.Second
)

// CoinGeckoClient fetches crypto rates from the CoinGecko simple price API.
// Pairs are reported as TICKER_BASE, e.g. BTC_USD.
type CoinGeckoClient struct {
	cfg        config.SourcesConfig
	base       string
	httpClient *http.Client
}

// NewCoinGeckoClient creates a CoinGecko client quoting against the given
// base currency.
func NewCoinGeckoClient(cfg config.SourcesConfig, baseCurrency string) *CoinGeckoClient {
	return &CoinGeckoClient{
		cfg:  cfg,
		base: strings.ToUpper(baseCurrency),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Name implements interfaces.SourceProvider.
func (c *CoinGeckoClient) Name() string {
	return "coingecko"
}

// FetchRates requests all configured crypto ids in one call and maps them to
// canonical pair keys.
func (c *CoinGeckoClient) FetchRates(ctx context.Context) (map[string]float64, error) {
	ids := make([]string, 0, len(c.cfg.CryptoIDs))
	for _, id := range c.cfg.CryptoIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	vs := strings.ToLower(c.base)
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", vs)
	requestURL := c.cfg.CoinGeckoURL + "?" + query.Encode()

	var payload map[string]map[string]float64
	if err := c.getJSON(ctx, requestURL, &payload); err != nil {
		return nil, &errs.SourceFetchError{Source: c.Name(), Err: err}
	}

	result := make(map[string]float64)
	for ticker, id := range c.cfg.CryptoIDs {
		node, ok := payload[id]
		if !ok {
			continue
		}
		price, ok := node[vs]
		if !ok || price <= 0 {
			continue
		}
		result[entities.PairKey(strings.ToUpper(ticker), c.base)] = price
	}

	return result, nil
}

// getJSON performs a GET with retry and decodes the body.
func (c *CoinGeckoClient) getJSON(ctx context.Context, requestURL string, v interface{}) error {
	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("network error: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("coingecko HTTP %d", resp.StatusCode)
			}

			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return fmt.Errorf("invalid JSON response: %w", err)
			}
			return nil
		},
		retry.Attempts(uint(c.cfg.MaxRetries)),
		retry.Delay(BaseBackoff),
		retry.MaxDelay(MaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logging.GetLogger().WithFields(map[string]interface{}{
				"source":  c.Name(),
				"attempt": n + 1,
				"error":   err.Error(),
			}).Warn("Quote source retry attempt")
		}),
	)
}
