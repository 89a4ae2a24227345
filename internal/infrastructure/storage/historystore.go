package storage

import (
	"encoding/json"
	"strings"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
)

const historyStoreName = "history store"

// FileHistoryStore is the append-only audit trail of update runs, one JSON
// array of records each carrying a unique "id".
type FileHistoryStore struct {
	path string
}

// NewFileHistoryStore creates a history store backed by the given path.
func NewFileHistoryStore(path string) *FileHistoryStore {
	return &FileHistoryStore{path: path}
}

// Append adds the record unless one with the same id already exists.
func (s *FileHistoryStore) Append(record entities.HistoryRecord) error {
	if strings.TrimSpace(record.ID) == "" {
		return &errs.ValidationError{Field: "id", Reason: "history record id cannot be empty"}
	}

	var history []json.RawMessage
	if _, err := readJSONFile(s.path, &history); err != nil {
		return &errs.MalformedStoreError{
			Store:  historyStoreName,
			Detail: err.Error(),
		}
	}

	for _, raw := range history {
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &probe); err != nil {
			return &errs.MalformedStoreError{
				Store:  historyStoreName,
				Detail: err.Error(),
			}
		}
		if probe.ID == record.ID {
			// Duplicate append is a no-op
			return nil
		}
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return err
	}
	history = append(history, encoded)

	return writeJSONFileAtomic(s.path, history)
}
