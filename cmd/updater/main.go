package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"valutatrade-hub/internal/application/services"
	"valutatrade-hub/internal/infrastructure/config"
	"valutatrade-hub/internal/infrastructure/logging"
	"valutatrade-hub/internal/infrastructure/sources"
	"valutatrade-hub/internal/infrastructure/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(cfg.Logging.Level, cfg.Logging.Format)
	logger := logging.GetLogger()

	rateCache := storage.NewFileRateCache(cfg.Storage.RatesFile)
	history := storage.NewFileHistoryStore(cfg.Storage.HistoryFile)
	updater := services.NewRatesUpdater(buildProviders(cfg), rateCache, history)

	var lastRefresh atomic.Value
	lastRefresh.Store("")

	runOnce := func(ctx context.Context) {
		runCtx := logging.WithRunID(ctx)
		result, err := updater.RunUpdate(runCtx)
		if err != nil {
			logger.WithField("error", err.Error()).Error("Rates update run failed")
			return
		}
		lastRefresh.Store(result.LastRefresh)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pre-warm the snapshot before the periodic loop starts
	runOnce(ctx)
	go refreshLoop(ctx, cfg.Rates.RefreshInterval, runOnce)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "ok",
			"last_refresh": lastRefresh.Load(),
		})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Updater daemon is running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithField("error", err.Error()).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down updater daemon...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithField("error", err.Error()).Fatal("Server forced to shutdown")
	}

	logger.Info("Updater daemon shutdown completed")
}

// refreshLoop re-runs the update on the configured interval until the
// context is cancelled.
func refreshLoop(ctx context.Context, interval time.Duration, runOnce func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.GetLogger().WithField("interval", interval.String()).Info("Starting background rates refresh loop")

	for {
		select {
		case <-ticker.C:
			runOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func buildProviders(cfg *config.Config) []services.NamedProvider {
	if cfg.Development.MockSources {
		mock := sources.NewMockProvider("mock")
		return []services.NamedProvider{{Name: mock.Name(), Provider: mock}}
	}

	coingecko := sources.NewCoinGeckoClient(cfg.Sources, cfg.Rates.BaseCurrency)
	exchangerate := sources.NewExchangeRateClient(cfg.Sources, cfg.Rates.BaseCurrency)
	return []services.NamedProvider{
		{Name: coingecko.Name(), Provider: coingecko},
		{Name: exchangerate.Name(), Provider: exchangerate},
	}
}
