package sources

import (
	"context"

	"valutatrade-hub/internal/domain/errs"
	"valutatrade-hub/internal/domain/interfaces"
)

var (
	_ interfaces.SourceProvider = (*CoinGeckoClient)(nil)
	_ interfaces.SourceProvider = (*ExchangeRateClient)(nil)
	_ interfaces.SourceProvider = (*MockProvider)(nil)
)

// MockProvider returns a fixed rate table (or a fixed error). Used by tests
// and by mock-sources mode to run without network access.
type MockProvider struct {
	SourceName string
	Rates      map[string]float64
	Err        error
}

// NewMockProvider creates a mock source with the development default table.
func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		SourceName: name,
		Rates: map[string]float64{
			"BTC_USD": 59337.21,
			"ETH_USD": 3112.50,
			"SOL_USD": 144.80,
			"EUR_USD": 1.0786,
			"GBP_USD": 1.2645,
		},
	}
}

// Name implements interfaces.SourceProvider.
func (m *MockProvider) Name() string {
	return m.SourceName
}

// FetchRates returns a copy of the configured table.
func (m *MockProvider) FetchRates(ctx context.Context) (map[string]float64, error) {
	if m.Err != nil {
		return nil, &errs.SourceFetchError{Source: m.SourceName, Err: m.Err}
	}
	out := make(map[string]float64, len(m.Rates))
	for pair, rate := range m.Rates {
		out[pair] = rate
	}
	return out, nil
}
