package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
	"valutatrade-hub/internal/infrastructure/config"
	"valutatrade-hub/internal/infrastructure/logging"
)

// ExchangeRateClient fetches fiat rates from ExchangeRate-API. The upstream
// reports "1 BASE = X CUR"; rates are inverted so the pair CUR_BASE means
// units of BASE per 1 CUR.
type ExchangeRateClient struct {
	cfg        config.SourcesConfig
	base       string
	httpClient *http.Client
}

type exchangeRatePayload struct {
	Result          string             `json:"result"`
	ErrorType       string             `json:"error-type"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	Rates           map[string]float64 `json:"rates"`
}

// NewExchangeRateClient creates an ExchangeRate-API client quoting against
// the given base currency.
func NewExchangeRateClient(cfg config.SourcesConfig, baseCurrency string) *ExchangeRateClient {
	return &ExchangeRateClient{
		cfg:  cfg,
		base: strings.ToUpper(baseCurrency),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// Name implements interfaces.SourceProvider.
func (c *ExchangeRateClient) Name() string {
	return "exchangerate-api"
}

// FetchRates requests the latest table for the base currency and inverts the
// configured fiat entries.
func (c *ExchangeRateClient) FetchRates(ctx context.Context) (map[string]float64, error) {
	key := strings.TrimSpace(c.cfg.ExchangeRateAPIKey)
	if key == "" {
		return nil, &errs.SourceFetchError{
			Source: c.Name(),
			Err:    errors.New("API key is missing, set EXCHANGERATE_API_KEY"),
		}
	}

	requestURL := fmt.Sprintf("%s/%s/latest/%s",
		strings.TrimRight(c.cfg.ExchangeRateAPIURL, "/"), key, c.base)

	var payload exchangeRatePayload
	if err := c.getJSON(ctx, requestURL, &payload); err != nil {
		return nil, &errs.SourceFetchError{Source: c.Name(), Err: err}
	}

	if payload.Result != "success" {
		reason := payload.ErrorType
		if reason == "" {
			reason = "unknown error"
		}
		return nil, &errs.SourceFetchError{
			Source: c.Name(),
			Err:    fmt.Errorf("upstream error: %s", reason),
		}
	}

	rates := payload.ConversionRates
	if rates == nil {
		rates = payload.Rates
	}
	if rates == nil {
		return nil, &errs.SourceFetchError{
			Source: c.Name(),
			Err:    errors.New("'conversion_rates'/'rates' field missing or invalid"),
		}
	}

	result := make(map[string]float64)
	for _, cur := range c.cfg.FiatCurrencies {
		code := strings.ToUpper(cur)
		raw, ok := rates[code]
		if !ok || raw <= 0 {
			continue
		}
		// rates hold "1 BASE = raw CUR"; invert to get CUR_BASE
		result[entities.PairKey(code, c.base)] = 1.0 / raw
	}

	return result, nil
}

func (c *ExchangeRateClient) getJSON(ctx context.Context, requestURL string, v interface{}) error {
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
				return fmt.Errorf("exchangerate-api HTTP %d", resp.StatusCode)
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
