package storage

import (
	"fmt"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
)

const usersStoreName = "users store"

// FileUserStore persists registered users as one JSON array.
type FileUserStore struct {
	path string
}

// NewFileUserStore creates a user store backed by the given path.
func NewFileUserStore(path string) *FileUserStore {
	return &FileUserStore{path: path}
}

// Load returns every persisted user.
func (s *FileUserStore) Load() ([]entities.User, error) {
	var users []entities.User

	found, err := readJSONFile(s.path, &users)
	if err != nil {
		return nil, &errs.MalformedStoreError{
			Store:  usersStoreName,
			Detail: err.Error(),
		}
	}
	if !found {
		return []entities.User{}, nil
	}

	for _, u := range users {
		if u.UserID <= 0 {
			return nil, &errs.MalformedStoreError{
				Store:  usersStoreName,
				Detail: fmt.Sprintf("user_id must be positive, got %d", u.UserID),
			}
		}
	}

	return users, nil
}

// Save rewrites the whole store atomically.
func (s *FileUserStore) Save(users []entities.User) error {
	if users == nil {
		users = []entities.User{}
	}
	return writeJSONFileAtomic(s.path, users)
}
