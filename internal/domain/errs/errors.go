// Package errs defines the typed error taxonomy shared by the rates and
// ledger services. Every error carries enough structured detail for the
// presentation layer to render an actionable message.
package errs

import (
	"errors"
	"fmt"
)

// ErrAllSourcesFailed is returned by an update run when every configured
// quote source failed and no snapshot write occurred.
var ErrAllSourcesFailed = errors.New("no rates fetched from any source")

// CurrencyNotFoundError indicates a well-formed currency code that is not
// present in the registry.
type CurrencyNotFoundError struct {
	Code string
}

func (e *CurrencyNotFoundError) Error() string {
	return fmt.Sprintf("currency code '%s' not found", e.Code)
}

// InvalidCurrencyCodeError indicates a malformed currency code (wrong length,
// whitespace, empty). It is a distinct class from CurrencyNotFoundError.
type InvalidCurrencyCodeError struct {
	Code   string
	Reason string
}

func (e *InvalidCurrencyCodeError) Error() string {
	return fmt.Sprintf("invalid currency code '%s': %s", e.Code, e.Reason)
}

// InvalidAmountError indicates a non-positive operation amount.
type InvalidAmountError struct {
	Amount float64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("amount must be a positive number, got %v", e.Amount)
}

// InsufficientFundsError indicates a debit larger than the wallet balance.
// The wallet and the store are left untouched.
type InsufficientFundsError struct {
	Code      string
	Available float64
	Required  float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in '%s' wallet: available %v, required %v",
		e.Code, e.Available, e.Required)
}

// WalletNotFoundError indicates an operation that requires an existing wallet
// (sell) found none for the given currency.
type WalletNotFoundError struct {
	Code string
}

func (e *WalletNotFoundError) Error() string {
	return fmt.Sprintf("no '%s' wallet: it is created automatically on the first buy", e.Code)
}

// StaleOrMissingRateError indicates neither a fresh direct nor reverse cached
// rate exists for the pair. The caller must refresh the cache.
type StaleOrMissingRateError struct {
	From string
	To   string
}

func (e *StaleOrMissingRateError) Error() string {
	return fmt.Sprintf("rate %s->%s is missing or stale, run 'update-rates' to refresh the cache",
		e.From, e.To)
}

// SourceFetchError indicates a single quote source failed to deliver rates.
// Update runs record it per source and continue with the remaining sources.
type SourceFetchError struct {
	Source string
	Err    error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("source '%s' fetch failed: %v", e.Source, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}

// MalformedStoreError indicates persisted data violates the store schema.
// It is fatal: stores are never auto-repaired or silently coerced.
type MalformedStoreError struct {
	Store  string
	Detail string
}

func (e *MalformedStoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Store, e.Detail)
}

// ValidationError indicates rejected input to a store mutation. No write is
// performed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
