package storage

import (
	"fmt"
	"strings"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
)

const ratesStoreName = "rates store"

// FileRateCache persists the rate snapshot in one JSON file:
//
//	{"pairs": {"BTC_USD": {"rate": ..., "updated_at": "...", "source": "..."}},
//	 "last_refresh": "..."}
type FileRateCache struct {
	path string
}

// NewFileRateCache creates a rate cache backed by the given file path.
func NewFileRateCache(path string) *FileRateCache {
	return &FileRateCache{path: path}
}

// Load returns the persisted snapshot, or an empty one when no file exists.
// Schema violations surface as MalformedStoreError and are never repaired.
func (c *FileRateCache) Load() (entities.RateSnapshot, error) {
	snapshot := entities.NewRateSnapshot()

	found, err := readJSONFile(c.path, &snapshot)
	if err != nil {
		return entities.RateSnapshot{}, &errs.MalformedStoreError{
			Store:  ratesStoreName,
			Detail: err.Error(),
		}
	}
	if !found {
		return entities.NewRateSnapshot(), nil
	}
	if snapshot.Pairs == nil {
		snapshot.Pairs = make(map[string]entities.RateEntry)
	}

	for pair, entry := range snapshot.Pairs {
		if err := validatePairKey(pair); err != nil {
			return entities.RateSnapshot{}, &errs.MalformedStoreError{
				Store:  ratesStoreName,
				Detail: err.Error(),
			}
		}
		if entry.Rate <= 0 {
			return entities.RateSnapshot{}, &errs.MalformedStoreError{
				Store:  ratesStoreName,
				Detail: fmt.Sprintf("pair %s: rate must be positive, got %v", pair, entry.Rate),
			}
		}
	}

	return snapshot, nil
}

// UpsertPair writes the pair if absent, or replaces it only when updatedAt is
// strictly newer than the stored entry. On any change the snapshot is
// rewritten atomically and last_refresh advances to updatedAt.
func (c *FileRateCache) UpsertPair(pair string, rate float64, updatedAt, source string) (bool, error) {
	if err := validatePairKey(pair); err != nil {
		return false, &errs.ValidationError{Field: "pair", Reason: err.Error()}
	}
	if rate <= 0 {
		return false, &errs.ValidationError{Field: "rate", Reason: "must be a positive number"}
	}
	if strings.TrimSpace(updatedAt) == "" {
		return false, &errs.ValidationError{Field: "updated_at", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(source) == "" {
		return false, &errs.ValidationError{Field: "source", Reason: "cannot be empty"}
	}

	snapshot, err := c.Load()
	if err != nil {
		return false, err
	}

	old, exists := snapshot.Pairs[pair]
	if exists && updatedAt <= old.UpdatedAt && old.UpdatedAt != "" {
		// Stored entry is as new or newer: no-op
		return false, nil
	}

	snapshot.Pairs[pair] = entities.RateEntry{
		Rate:      rate,
		UpdatedAt: updatedAt,
		Source:    source,
	}
	refresh := updatedAt
	snapshot.LastRefresh = &refresh

	if err := writeJSONFileAtomic(c.path, snapshot); err != nil {
		return false, err
	}
	return true, nil
}

// validatePairKey requires the canonical FROM_TO shape with exactly one
// underscore and non-empty sides.
func validatePairKey(pair string) error {
	parts := strings.Split(pair, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("pair key %q must have the form FROM_TO", pair)
	}
	return nil
}
