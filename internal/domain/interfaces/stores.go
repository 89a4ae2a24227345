package interfaces

import "valutatrade-hub/internal/domain/entities"

// RateCache is the persistent snapshot of cached exchange rates.
type RateCache interface {
	// Load returns the current snapshot, or an empty one when nothing has
	// been persisted yet. Schema violations fail with a malformed-store
	// error.
	Load() (entities.RateSnapshot, error)

	// UpsertPair writes the pair if absent or strictly newer than the stored
	// entry, returning whether the snapshot changed. A change also advances
	// the snapshot's last_refresh to updatedAt.
	UpsertPair(pair string, rate float64, updatedAt, source string) (bool, error)
}

// PortfolioStore persists every user portfolio as one unit. Mutations are
// whole-store read-modify-write; no partial state is ever written.
type PortfolioStore interface {
	Load() ([]entities.PortfolioRecord, error)
	Save(records []entities.PortfolioRecord) error
}

// UserStore persists registered users. Owned by the auth service.
type UserStore interface {
	Load() ([]entities.User, error)
	Save(users []entities.User) error
}

// HistoryStore is the append-only audit trail of update runs, deduplicated
// by record ID.
type HistoryStore interface {
	Append(record entities.HistoryRecord) error
}
