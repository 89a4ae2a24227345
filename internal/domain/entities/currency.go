package entities

import (
	"fmt"
	"sort"
	"strings"

	"valutatrade-hub/internal/domain/errs"
)

// CurrencyKind tags a currency as fiat or crypto. The only kind-specific
// behavior is display formatting.
type CurrencyKind string

const (
	KindFiat   CurrencyKind = "fiat"
	KindCrypto CurrencyKind = "crypto"
)

// Currency describes one tradable currency. IssuingCountry is set for fiat
// currencies, Algorithm and MarketCap for crypto.
type Currency struct {
	Code           string
	Name           string
	Kind           CurrencyKind
	IssuingCountry string
	Algorithm      string
	MarketCap      float64
}

// DisplayInfo renders the registry line shown by the CLI.
func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case KindCrypto:
		return fmt.Sprintf("[CRYPTO] %s - %s (Algo: %s, MCAP: %.2e)",
			c.Code, c.Name, c.Algorithm, c.MarketCap)
	default:
		return fmt.Sprintf("[FIAT] %s - %s (Issuing: %s)",
			c.Code, c.Name, c.IssuingCountry)
	}
}

var currencyRegistry = map[string]Currency{
	"USD": {Code: "USD", Name: "US Dollar", Kind: KindFiat, IssuingCountry: "United States"},
	"EUR": {Code: "EUR", Name: "Euro", Kind: KindFiat, IssuingCountry: "Eurozone"},
	"GBP": {Code: "GBP", Name: "Pound Sterling", Kind: KindFiat, IssuingCountry: "United Kingdom"},
	"RUB": {Code: "RUB", Name: "Russian Ruble", Kind: KindFiat, IssuingCountry: "Russia"},
	"BTC": {Code: "BTC", Name: "Bitcoin", Kind: KindCrypto, Algorithm: "SHA-256", MarketCap: 1.12e12},
	"ETH": {Code: "ETH", Name: "Ethereum", Kind: KindCrypto, Algorithm: "Ethash", MarketCap: 4.50e11},
	"SOL": {Code: "SOL", Name: "Solana", Kind: KindCrypto, Algorithm: "PoH", MarketCap: 8.20e10},
}

// NormalizeCode trims and uppercases a currency code and checks its shape:
// 2-5 characters, no whitespace. Shape violations are a distinct error class
// from unknown codes.
func NormalizeCode(code string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(code))
	if value == "" {
		return "", &errs.InvalidCurrencyCodeError{Code: code, Reason: "code cannot be empty"}
	}
	if len(value) < 2 || len(value) > 5 || strings.ContainsAny(value, " \t") {
		return "", &errs.InvalidCurrencyCodeError{
			Code:   code,
			Reason: "code must be 2-5 characters without spaces",
		}
	}
	return value, nil
}

// GetCurrency resolves a code against the registry. Unknown codes yield
// CurrencyNotFoundError, malformed codes InvalidCurrencyCodeError.
func GetCurrency(code string) (Currency, error) {
	norm, err := NormalizeCode(code)
	if err != nil {
		return Currency{}, err
	}
	cur, ok := currencyRegistry[norm]
	if !ok {
		return Currency{}, &errs.CurrencyNotFoundError{Code: norm}
	}
	return cur, nil
}

// Currencies returns the registry contents for display purposes.
func Currencies() []Currency {
	out := make([]Currency, 0, len(currencyRegistry))
	for _, cur := range currencyRegistry {
		out = append(out, cur)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
