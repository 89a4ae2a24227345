package storage

import (
	"fmt"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
)

const portfoliosStoreName = "portfolios store"

// FilePortfolioStore persists all portfolios as one JSON array of
// {"user_id": ..., "wallets": {"USD": {"balance": ...}}} records.
type FilePortfolioStore struct {
	path string
}

// NewFilePortfolioStore creates a portfolio store backed by the given path.
func NewFilePortfolioStore(path string) *FilePortfolioStore {
	return &FilePortfolioStore{path: path}
}

// Load returns every persisted portfolio record. Schema violations surface
// as MalformedStoreError.
func (s *FilePortfolioStore) Load() ([]entities.PortfolioRecord, error) {
	var records []entities.PortfolioRecord

	found, err := readJSONFile(s.path, &records)
	if err != nil {
		return nil, &errs.MalformedStoreError{
			Store:  portfoliosStoreName,
			Detail: err.Error(),
		}
	}
	if !found {
		return []entities.PortfolioRecord{}, nil
	}

	for i := range records {
		if records[i].Wallets == nil {
			records[i].Wallets = make(map[string]entities.WalletRecord)
		}
		for code, wallet := range records[i].Wallets {
			if wallet.Balance < 0 {
				return nil, &errs.MalformedStoreError{
					Store: portfoliosStoreName,
					Detail: fmt.Sprintf("user %d wallet %s: balance cannot be negative, got %v",
						records[i].UserID, code, wallet.Balance),
				}
			}
		}
	}

	return records, nil
}

// Save rewrites the whole store atomically.
func (s *FilePortfolioStore) Save(records []entities.PortfolioRecord) error {
	if records == nil {
		records = []entities.PortfolioRecord{}
	}
	return writeJSONFileAtomic(s.path, records)
}
