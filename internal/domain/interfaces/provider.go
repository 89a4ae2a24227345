package interfaces

import "context"

// SourceProvider fetches exchange rates from one external quote source.
// The returned mapping uses canonical "FROM_TO" pair keys with positive
// rates. Timeouts and retries are the provider's responsibility: it either
// returns a completed mapping or an error, never blocks indefinitely.
type SourceProvider interface {
	Name() string
	FetchRates(ctx context.Context) (map[string]float64, error)
}
