package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"valutatrade-hub/internal/application/services"
	"valutatrade-hub/internal/cli"
	"valutatrade-hub/internal/infrastructure/config"
	"valutatrade-hub/internal/infrastructure/logging"
	"valutatrade-hub/internal/infrastructure/sources"
	"valutatrade-hub/internal/infrastructure/storage"
)

func main() {
	// .env is optional, used for EXCHANGERATE_API_KEY in development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logging.Configure(cfg.Logging.Level, cfg.Logging.Format)

	rateCache := storage.NewFileRateCache(cfg.Storage.RatesFile)
	portfolios := storage.NewFilePortfolioStore(cfg.Storage.PortfoliosFile)
	users := storage.NewFileUserStore(cfg.Storage.UsersFile)
	history := storage.NewFileHistoryStore(cfg.Storage.HistoryFile)

	resolver := services.NewRateResolver(rateCache)
	updater := services.NewRatesUpdater(buildProviders(cfg), rateCache, history)
	ledger := services.NewLedger(portfolios, resolver, cfg.Rates.BaseCurrency, cfg.Rates.TTL)
	auth := services.NewAuth(users, portfolios)

	shell := cli.New(auth, ledger, resolver, updater,
		cfg.Rates.BaseCurrency, cfg.Rates.TTL, os.Stdin, os.Stdout)

	if err := shell.Run(context.Background()); err != nil {
		log.Fatalf("Shell failed: %v", err)
	}
}

// buildProviders wires the quote sources in deterministic order: on pair
// collisions within one run the later source wins.
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
