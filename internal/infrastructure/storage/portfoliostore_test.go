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

func TestFilePortfolioStoreLoadMissingFile(t *testing.T) {
	store := NewFilePortfolioStore(filepath.Join(t.TempDir(), "portfolios.json"))

	records, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFilePortfolioStoreRoundTrip(t *testing.T) {
	store := NewFilePortfolioStore(filepath.Join(t.TempDir(), "portfolios.json"))

	in := []entities.PortfolioRecord{
		{
			UserID: 1,
			Wallets: map[string]entities.WalletRecord{
				"USD": {Balance: 150.25},
				"BTC": {Balance: 0.5},
			},
		},
		{
			UserID:  2,
			Wallets: map[string]entities.WalletRecord{},
		},
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFilePortfolioStoreLoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid json",
			content: `[{"user_id": 1`,
		},
		{
			name:    "negative balance",
			content: `[{"user_id": 1, "wallets": {"USD": {"balance": -5}}}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "portfolios.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := NewFilePortfolioStore(path).Load()
			var malformed *errs.MalformedStoreError
			require.Error(t, err)
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

func TestFilePortfolioStoreSaveNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolios.json")
	store := NewFilePortfolioStore(path)

	require.NoError(t, store.Save(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
