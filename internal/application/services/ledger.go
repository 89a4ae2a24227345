package services

import (
	"sort"
	"time"

	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/domain/errs"
	"valutatrade-hub/internal/domain/interfaces"
	"valutatrade-hub/internal/infrastructure/metrics"
)

// Ledger performs validated wallet mutations. Every operation follows the
// same rule: load the full portfolio store, locate or create the user's
// record, apply all wallet deltas in memory, then write the store back once.
// A multi-wallet operation like sell therefore persists either completely or
// not at all.
type Ledger struct {
	portfolios   interfaces.PortfolioStore
	resolver     *RateResolver
	baseCurrency string
	maxRateAge   time.Duration
}

// TradeResult reports a completed buy or sell.
type TradeResult struct {
	Currency    string
	Amount      float64
	Base        string
	Rate        float64
	Before      float64
	After       float64
	ValueInBase float64
}

// ReportItem is one wallet line in a portfolio report.
type ReportItem struct {
	CurrencyCode string
	Balance      float64
	ValueInBase  float64
}

// PortfolioReport is the valuation of a full portfolio in a base currency.
type PortfolioReport struct {
	Base        string
	Items       []ReportItem
	Total       float64
	GeneratedAt string
}

// NewLedger creates a ledger pricing conversions against baseCurrency with
// the given rate freshness limit.
func NewLedger(portfolios interfaces.PortfolioStore, resolver *RateResolver, baseCurrency string, maxRateAge time.Duration) *Ledger {
	return &Ledger{
		portfolios:   portfolios,
		resolver:     resolver,
		baseCurrency: baseCurrency,
		maxRateAge:   maxRateAge,
	}
}

// Deposit credits amount to the user's wallet, creating it at zero when
// absent. Returns the balance before and after.
func (l *Ledger) Deposit(userID int, code string, amount float64) (before, after float64, err error) {
	defer func() { metrics.RecordLedgerOperation("deposit", status(err)) }()

	cur, err := entities.GetCurrency(code)
	if err != nil {
		return 0, 0, err
	}
	if amount <= 0 {
		return 0, 0, &errs.InvalidAmountError{Amount: amount}
	}

	records, record, err := l.loadRecord(userID)
	if err != nil {
		return 0, 0, err
	}

	wallet := entities.Wallet{
		CurrencyCode: cur.Code,
		Balance:      record.Wallets[cur.Code].Balance,
	}
	before = wallet.Balance
	if err = wallet.Deposit(amount); err != nil {
		return 0, 0, err
	}
	record.Wallets[cur.Code] = entities.WalletRecord{Balance: wallet.Balance}

	if err = l.portfolios.Save(records); err != nil {
		return 0, 0, err
	}
	return before, wallet.Balance, nil
}

// Withdraw debits amount from the user's wallet. On insufficient funds the
// wallet is left untouched and the store is not rewritten.
func (l *Ledger) Withdraw(userID int, code string, amount float64) (before, after float64, err error) {
	defer func() { metrics.RecordLedgerOperation("withdraw", status(err)) }()

	cur, err := entities.GetCurrency(code)
	if err != nil {
		return 0, 0, err
	}
	if amount <= 0 {
		return 0, 0, &errs.InvalidAmountError{Amount: amount}
	}

	records, record, err := l.loadRecord(userID)
	if err != nil {
		return 0, 0, err
	}

	wallet := entities.Wallet{
		CurrencyCode: cur.Code,
		Balance:      record.Wallets[cur.Code].Balance,
	}
	before = wallet.Balance
	if err = wallet.Withdraw(amount); err != nil {
		return 0, 0, err
	}
	record.Wallets[cur.Code] = entities.WalletRecord{Balance: wallet.Balance}

	if err = l.portfolios.Save(records); err != nil {
		return 0, 0, err
	}
	return before, wallet.Balance, nil
}

// Buy credits amount of the bought currency and reports the resolved rate
// plus amount*rate as the informational valuation. The rate is resolved
// before any mutation so a stale cache leaves the store untouched.
func (l *Ledger) Buy(userID int, code string, amount float64) (result TradeResult, err error) {
	defer func() { metrics.RecordLedgerOperation("buy", status(err)) }()

	cur, err := entities.GetCurrency(code)
	if err != nil {
		return TradeResult{}, err
	}
	if amount <= 0 {
		return TradeResult{}, &errs.InvalidAmountError{Amount: amount}
	}
	base, err := entities.GetCurrency(l.baseCurrency)
	if err != nil {
		return TradeResult{}, err
	}

	quote, err := l.resolver.GetRate(cur.Code, base.Code, l.maxRateAge)
	if err != nil {
		return TradeResult{}, err
	}

	records, record, err := l.loadRecord(userID)
	if err != nil {
		return TradeResult{}, err
	}

	wallet := entities.Wallet{
		CurrencyCode: cur.Code,
		Balance:      record.Wallets[cur.Code].Balance,
	}
	before := wallet.Balance
	if err = wallet.Deposit(amount); err != nil {
		return TradeResult{}, err
	}
	record.Wallets[cur.Code] = entities.WalletRecord{Balance: wallet.Balance}

	if err = l.portfolios.Save(records); err != nil {
		return TradeResult{}, err
	}

	return TradeResult{
		Currency:    cur.Code,
		Amount:      amount,
		Base:        base.Code,
		Rate:        quote.Rate,
		Before:      before,
		After:       wallet.Balance,
		ValueInBase: amount * quote.Rate,
	}, nil
}

// Sell debits amount from the sold currency and, when it differs from the
// base currency, credits the revenue (amount*rate) to the base wallet in the
// same transaction. Both deltas are computed in memory and persisted in one
// store write, so a crash cannot destroy or duplicate money between them.
func (l *Ledger) Sell(userID int, code string, amount float64) (result TradeResult, err error) {
	defer func() { metrics.RecordLedgerOperation("sell", status(err)) }()

	cur, err := entities.GetCurrency(code)
	if err != nil {
		return TradeResult{}, err
	}
	if amount <= 0 {
		return TradeResult{}, &errs.InvalidAmountError{Amount: amount}
	}
	base, err := entities.GetCurrency(l.baseCurrency)
	if err != nil {
		return TradeResult{}, err
	}

	quote, err := l.resolver.GetRate(cur.Code, base.Code, l.maxRateAge)
	if err != nil {
		return TradeResult{}, err
	}

	records, record, err := l.loadRecord(userID)
	if err != nil {
		return TradeResult{}, err
	}

	stored, exists := record.Wallets[cur.Code]
	if !exists {
		return TradeResult{}, &errs.WalletNotFoundError{Code: cur.Code}
	}

	wallet := entities.Wallet{CurrencyCode: cur.Code, Balance: stored.Balance}
	before := wallet.Balance
	if err = wallet.Withdraw(amount); err != nil {
		return TradeResult{}, err
	}
	record.Wallets[cur.Code] = entities.WalletRecord{Balance: wallet.Balance}

	revenue := amount * quote.Rate
	if cur.Code != base.Code {
		baseWallet := entities.Wallet{
			CurrencyCode: base.Code,
			Balance:      record.Wallets[base.Code].Balance,
		}
		if err = baseWallet.Deposit(revenue); err != nil {
			return TradeResult{}, err
		}
		record.Wallets[base.Code] = entities.WalletRecord{Balance: baseWallet.Balance}
	}

	if err = l.portfolios.Save(records); err != nil {
		return TradeResult{}, err
	}

	return TradeResult{
		Currency:    cur.Code,
		Amount:      amount,
		Base:        base.Code,
		Rate:        quote.Rate,
		Before:      before,
		After:       wallet.Balance,
		ValueInBase: revenue,
	}, nil
}

// BuildPortfolioReport values every wallet in the base currency. The base
// code itself is validated up front via an identity rate lookup so a bad
// code surfaces even for an empty portfolio. The whole report fails when any
// wallet's rate cannot be resolved.
func (l *Ledger) BuildPortfolioReport(userID int, baseCurrency string) (report PortfolioReport, err error) {
	defer func() { metrics.RecordLedgerOperation("report", status(err)) }()

	base, err := entities.GetCurrency(baseCurrency)
	if err != nil {
		return PortfolioReport{}, err
	}
	if _, err = l.resolver.GetRate(base.Code, base.Code, l.maxRateAge); err != nil {
		return PortfolioReport{}, err
	}

	_, record, err := l.loadRecord(userID)
	if err != nil {
		return PortfolioReport{}, err
	}

	codes := make([]string, 0, len(record.Wallets))
	for code := range record.Wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	items := make([]ReportItem, 0, len(codes))
	total := 0.0
	for _, code := range codes {
		balance := record.Wallets[code].Balance
		quote, rateErr := l.resolver.GetRate(code, base.Code, l.maxRateAge)
		if rateErr != nil {
			err = rateErr
			return PortfolioReport{}, err
		}
		value := balance * quote.Rate
		items = append(items, ReportItem{
			CurrencyCode: code,
			Balance:      balance,
			ValueInBase:  value,
		})
		total += value
	}

	return PortfolioReport{
		Base:        base.Code,
		Items:       items,
		Total:       total,
		GeneratedAt: entities.FormatTimestamp(time.Now()),
	}, nil
}

// loadRecord loads the full store and returns it together with the user's
// record, creating an empty in-memory record (and appending it to the slice)
// when the user has none yet.
func (l *Ledger) loadRecord(userID int) ([]entities.PortfolioRecord, *entities.PortfolioRecord, error) {
	records, err := l.portfolios.Load()
	if err != nil {
		return nil, nil, err
	}

	for i := range records {
		if records[i].UserID == userID {
			if records[i].Wallets == nil {
				records[i].Wallets = make(map[string]entities.WalletRecord)
			}
			return records, &records[i], nil
		}
	}

	records = append(records, entities.PortfolioRecord{
		UserID:  userID,
		Wallets: make(map[string]entities.WalletRecord),
	})
	return records, &records[len(records)-1], nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
