package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
	"valutatrade-hub/internal/infrastructure/sources"
	"valutatrade-hub/internal/infrastructure/storage"
)

func newTestUpdater(t *testing.T, providers []NamedProvider) (*RatesUpdater, string, string) {
	t.Helper()
	dir := t.TempDir()
	ratesPath := filepath.Join(dir, "rates.json")
	historyPath := filepath.Join(dir, "history.json")

	updater := NewRatesUpdater(providers, storage.NewFileRateCache(ratesPath), storage.NewFileHistoryStore(historyPath))
	updater.now = fixedClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	return updater, ratesPath, historyPath
}

func TestRunUpdateToleratesPartialSourceFailure(t *testing.T) {
	failing := &sources.MockProvider{SourceName: "coingecko", Err: errors.New("HTTP 503")}
	working := &sources.MockProvider{
		SourceName: "exchangerate-api",
		Rates:      map[string]float64{"BTC_USD": 60000},
	}
	updater, ratesPath, _ := newTestUpdater(t, []NamedProvider{
		{Name: failing.Name(), Provider: failing},
		{Name: working.Name(), Provider: working},
	})

	result, err := updater.RunUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "2024-01-01T12:00:00Z", result.LastRefresh)
	assert.True(t, result.HadErrors)

	require.Contains(t, result.Sources, "coingecko")
	assert.False(t, result.Sources["coingecko"].OK)
	assert.NotEmpty(t, result.Sources["coingecko"].Error)

	require.Contains(t, result.Sources, "exchangerate-api")
	assert.True(t, result.Sources["exchangerate-api"].OK)
	assert.Equal(t, 1, result.Sources["exchangerate-api"].Count)

	snapshot, err := storage.NewFileRateCache(ratesPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 60000.0, snapshot.Pairs["BTC_USD"].Rate)
	assert.Equal(t, "exchangerate-api", snapshot.Pairs["BTC_USD"].Source)
	assert.Equal(t, "2024-01-01T12:00:00Z", snapshot.Pairs["BTC_USD"].UpdatedAt)
}

func TestRunUpdateAllSourcesFailedLeavesSnapshotUntouched(t *testing.T) {
	a := &sources.MockProvider{SourceName: "coingecko", Err: errors.New("timeout")}
	b := &sources.MockProvider{SourceName: "exchangerate-api", Err: errors.New("HTTP 500")}
	updater, ratesPath, _ := newTestUpdater(t, []NamedProvider{
		{Name: a.Name(), Provider: a},
		{Name: b.Name(), Provider: b},
	})

	result, err := updater.RunUpdate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAllSourcesFailed))
	assert.Equal(t, 0, result.Updated)
	assert.True(t, result.HadErrors)
	assert.Len(t, result.Sources, 2)

	_, statErr := os.Stat(ratesPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunUpdateLaterProviderWinsOnCollision(t *testing.T) {
	first := &sources.MockProvider{
		SourceName: "coingecko",
		Rates:      map[string]float64{"BTC_USD": 100},
	}
	second := &sources.MockProvider{
		SourceName: "exchangerate-api",
		Rates:      map[string]float64{"BTC_USD": 200},
	}
	updater, ratesPath, _ := newTestUpdater(t, []NamedProvider{
		{Name: first.Name(), Provider: first},
		{Name: second.Name(), Provider: second},
	})

	result, err := updater.RunUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.False(t, result.HadErrors)

	snapshot, err := storage.NewFileRateCache(ratesPath).Load()
	require.NoError(t, err)
	assert.Equal(t, 200.0, snapshot.Pairs["BTC_USD"].Rate)
	assert.Equal(t, "exchangerate-api", snapshot.Pairs["BTC_USD"].Source)
}

func TestRunUpdateSkipsNonPositiveRates(t *testing.T) {
	provider := &sources.MockProvider{
		SourceName: "mock",
		Rates: map[string]float64{
			"BTC_USD": -5,
			"ETH_USD": 0,
			"SOL_USD": 144.80,
		},
	}
	updater, ratesPath, _ := newTestUpdater(t, []NamedProvider{
		{Name: provider.Name(), Provider: provider},
	})

	result, err := updater.RunUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Sources["mock"].Count)

	snapshot, err := storage.NewFileRateCache(ratesPath).Load()
	require.NoError(t, err)
	assert.Len(t, snapshot.Pairs, 1)
	assert.Equal(t, 144.80, snapshot.Pairs["SOL_USD"].Rate)
}

func TestRunUpdateDoesNotOverwriteNewerEntries(t *testing.T) {
	provider := &sources.MockProvider{
		SourceName: "mock",
		Rates:      map[string]float64{"BTC_USD": 50000},
	}
	updater, ratesPath, _ := newTestUpdater(t, []NamedProvider{
		{Name: provider.Name(), Provider: provider},
	})

	// The stored entry is newer than this run's refresh timestamp
	cache := storage.NewFileRateCache(ratesPath)
	_, err := cache.UpsertPair("BTC_USD", 70000, "2024-01-01T12:30:00Z", "manual")
	require.NoError(t, err)

	result, err := updater.RunUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Updated)

	snapshot, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, 70000.0, snapshot.Pairs["BTC_USD"].Rate)
	assert.Equal(t, "manual", snapshot.Pairs["BTC_USD"].Source)
}

func TestRunUpdateAppendsHistoryRecord(t *testing.T) {
	provider := sources.NewMockProvider("mock")
	updater, _, historyPath := newTestUpdater(t, []NamedProvider{
		{Name: provider.Name(), Provider: provider},
	})

	result, err := updater.RunUpdate(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(historyPath)
	require.NoError(t, err)

	var records []entities.HistoryRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, result.Updated, records[0].Updated)
	assert.Equal(t, result.LastRefresh, records[0].LastRefresh)
	assert.True(t, records[0].Sources["mock"].OK)
}

func TestRunUpdateNilHistoryIsAllowed(t *testing.T) {
	provider := sources.NewMockProvider("mock")
	updater := NewRatesUpdater(
		[]NamedProvider{{Name: provider.Name(), Provider: provider}},
		storage.NewFileRateCache(filepath.Join(t.TempDir(), "rates.json")),
		nil,
	)

	result, err := updater.RunUpdate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Updated)
}
