// Package services contains the application use cases: rate resolution,
// reconciliation of quote sources into the cache, the wallet ledger and
// account management.
package services

import (
	"time"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
	"valutatrade-hub/internal/domain/interfaces"
	"valutatrade-hub/internal/infrastructure/metrics"
)

// RateResolver answers "rate from A to B" from the cached snapshot, applying
// TTL freshness and direct/reverse fallback. Staleness is a hard failure:
// there is no fallback to defaults.
type RateResolver struct {
	cache interfaces.RateCache
	now   func() time.Time
}

// NewRateResolver creates a resolver over the given cache.
func NewRateResolver(cache interfaces.RateCache) *RateResolver {
	return &RateResolver{
		cache: cache,
		now:   time.Now,
	}
}

// GetRate resolves the rate from one currency to another, accepting cached
// entries up to maxAge old (inclusive boundary). Identical codes resolve to
// 1.0 without consulting the cache.
func (r *RateResolver) GetRate(from, to string, maxAge time.Duration) (entities.Quote, error) {
	f, err := entities.NormalizeCode(from)
	if err != nil {
		return entities.Quote{}, err
	}
	t, err := entities.NormalizeCode(to)
	if err != nil {
		return entities.Quote{}, err
	}

	if f == t {
		metrics.RecordRateLookup("identity")
		return entities.Quote{
			From:        f,
			To:          t,
			Rate:        1.0,
			UpdatedAt:   entities.FormatTimestamp(r.now()),
			ReverseRate: 1.0,
		}, nil
	}

	snapshot, err := r.cache.Load()
	if err != nil {
		return entities.Quote{}, err
	}

	if entry, ok := r.freshEntry(snapshot, entities.PairKey(f, t), maxAge); ok {
		metrics.RecordRateLookup("direct")
		return entities.Quote{
			From:        f,
			To:          t,
			Rate:        entry.Rate,
			UpdatedAt:   entry.UpdatedAt,
			ReverseRate: 1.0 / entry.Rate,
		}, nil
	}

	if entry, ok := r.freshEntry(snapshot, entities.PairKey(t, f), maxAge); ok {
		metrics.RecordRateLookup("reverse")
		return entities.Quote{
			From:        f,
			To:          t,
			Rate:        1.0 / entry.Rate,
			UpdatedAt:   entry.UpdatedAt,
			ReverseRate: entry.Rate,
		}, nil
	}

	metrics.RecordRateLookup("miss")
	return entities.Quote{}, &errs.StaleOrMissingRateError{From: f, To: t}
}

// freshEntry returns the entry for pair when it exists, has a positive rate
// and is no older than maxAge. An entry without its own timestamp falls back
// to the snapshot's last_refresh.
func (r *RateResolver) freshEntry(snapshot entities.RateSnapshot, pair string, maxAge time.Duration) (entities.RateEntry, bool) {
	entry, ok := snapshot.Pairs[pair]
	if !ok || entry.Rate <= 0 {
		return entities.RateEntry{}, false
	}

	updatedAt := entry.UpdatedAt
	if updatedAt == "" && snapshot.LastRefresh != nil {
		updatedAt = *snapshot.LastRefresh
	}

	ts, ok := entities.ParseTimestamp(updatedAt)
	if !ok {
		return entities.RateEntry{}, false
	}

	if r.now().UTC().Sub(ts) > maxAge {
		return entities.RateEntry{}, false
	}

	entry.UpdatedAt = updatedAt
	return entry, true
}
