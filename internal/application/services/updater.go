package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
	"valutatrade-hub/internal/domain/interfaces"
	"valutatrade-hub/internal/infrastructure/logging"
	"valutatrade-hub/internal/infrastructure/metrics"
)

// NamedProvider pairs a quote source with its reporting name. Providers are
// held in a slice so the merge order within one run is deterministic: the
// later provider wins on pair collisions.
type NamedProvider struct {
	Name     string
	Provider interfaces.SourceProvider
}

// UpdateResult reports one reconciliation run.
type UpdateResult struct {
	Updated     int
	LastRefresh string
	Sources     map[string]entities.SourceStatus
	HadErrors   bool
}

// RatesUpdater pulls rates from the configured sources, merges them under a
// single refresh timestamp and commits the changes into the rate cache.
// Partial source failure is tolerated; only a run where every source failed
// is fatal, and it leaves the snapshot untouched.
type RatesUpdater struct {
	providers []NamedProvider
	cache     interfaces.RateCache
	history   interfaces.HistoryStore
	now       func() time.Time
}

// NewRatesUpdater creates an updater over the given providers, cache and
// history trail. The history store may be nil to disable auditing.
func NewRatesUpdater(providers []NamedProvider, cache interfaces.RateCache, history interfaces.HistoryStore) *RatesUpdater {
	return &RatesUpdater{
		providers: providers,
		cache:     cache,
		history:   history,
		now:       time.Now,
	}
}

// RunUpdate performs one reconciliation run.
func (u *RatesUpdater) RunUpdate(ctx context.Context) (UpdateResult, error) {
	log := logging.GetLogger()
	start := u.now()
	refreshTs := entities.FormatTimestamp(start)

	log.WithField("run_id", logging.GetRunID(ctx)).Info("Starting rates update")

	combined := make(map[string]entities.RateEntry)
	sourcesMeta := make(map[string]entities.SourceStatus)
	hadErrors := false

	for _, p := range u.providers {
		rates, err := p.Provider.FetchRates(ctx)
		if err != nil {
			hadErrors = true
			metrics.RecordSourceFetch(p.Name, "error")
			logging.LogSourceFetch(ctx, p.Name, 0, err)
			sourcesMeta[p.Name] = entities.SourceStatus{OK: false, Error: err.Error()}
			continue
		}

		count := 0
		for pair, rate := range rates {
			if rate <= 0 {
				continue
			}
			combined[pair] = entities.RateEntry{
				Rate:      rate,
				UpdatedAt: refreshTs,
				Source:    p.Name,
			}
			count++
		}

		metrics.RecordSourceFetch(p.Name, "success")
		logging.LogSourceFetch(ctx, p.Name, count, nil)
		sourcesMeta[p.Name] = entities.SourceStatus{OK: true, Count: count}
	}

	if len(combined) == 0 {
		metrics.RecordUpdateRun("error", u.now().Sub(start).Seconds(), 0)
		log.Error("No rates fetched from any source")
		return UpdateResult{
			Sources:   sourcesMeta,
			HadErrors: hadErrors,
		}, errs.ErrAllSourcesFailed
	}

	// Deterministic commit order keeps runs reproducible
	pairs := make([]string, 0, len(combined))
	for pair := range combined {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	updated := 0
	for _, pair := range pairs {
		entry := combined[pair]
		changed, err := u.cache.UpsertPair(pair, entry.Rate, entry.UpdatedAt, entry.Source)
		if err != nil {
			metrics.RecordUpdateRun("error", u.now().Sub(start).Seconds(), updated)
			return UpdateResult{
				Sources:   sourcesMeta,
				HadErrors: true,
			}, err
		}
		if changed {
			updated++
		}
	}

	result := UpdateResult{
		Updated:     updated,
		LastRefresh: refreshTs,
		Sources:     sourcesMeta,
		HadErrors:   hadErrors,
	}

	u.appendHistory(ctx, result)

	metrics.RecordUpdateRun("success", u.now().Sub(start).Seconds(), updated)
	log.WithFields(map[string]interface{}{
		"run_id":       logging.GetRunID(ctx),
		"updated":      updated,
		"last_refresh": refreshTs,
		"had_errors":   hadErrors,
	}).Info("Rates update finished")

	return result, nil
}

// appendHistory records the run in the audit trail. Failures are logged but
// do not fail the run: the snapshot commit already happened.
func (u *RatesUpdater) appendHistory(ctx context.Context, result UpdateResult) {
	if u.history == nil {
		return
	}

	record := entities.HistoryRecord{
		ID:          uuid.New().String(),
		Timestamp:   result.LastRefresh,
		Updated:     result.Updated,
		LastRefresh: result.LastRefresh,
		Sources:     result.Sources,
	}

	if err := u.history.Append(record); err != nil {
		logging.GetLogger().WithFields(map[string]interface{}{
			"run_id": logging.GetRunID(ctx),
			"error":  err.Error(),
		}).Warn("Failed to append update history record")
	}
}
