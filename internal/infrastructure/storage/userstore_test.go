package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
)

func TestFileUserStoreRoundTrip(t *testing.T) {
	store := NewFileUserStore(filepath.Join(t.TempDir(), "users.json"))

	in := []entities.User{
		{
			UserID:           1,
			Username:         "alice",
			HashedPassword:   "deadbeef",
			Salt:             "abcd1234",
			RegistrationDate: "2024-01-01T00:00:00Z",
		},
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileUserStoreLoadMissingFile(t *testing.T) {
	store := NewFileUserStore(filepath.Join(t.TempDir(), "users.json"))

	users, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestFileUserStoreLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"user_id": 0, "username": "ghost"}]`), 0o644))

	_, err := NewFileUserStore(path).Load()
	var malformed *errs.MalformedStoreError
	require.Error(t, err)
	assert.True(t, errors.As(err, &malformed))
}
