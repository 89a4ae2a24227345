package entities

import "valutatrade-hub/internal/domain/errs"

// Wallet holds the balance of one currency. Invariant: Balance >= 0.
type Wallet struct {
	CurrencyCode string
	Balance      float64
}

// Deposit credits a positive amount.
func (w *Wallet) Deposit(amount float64) error {
	if amount <= 0 {
		return &errs.InvalidAmountError{Amount: amount}
	}
	w.Balance += amount
	return nil
}

// Withdraw debits a positive amount, failing without mutation when the
// balance does not cover it.
func (w *Wallet) Withdraw(amount float64) error {
	if amount <= 0 {
		return &errs.InvalidAmountError{Amount: amount}
	}
	if amount > w.Balance {
		return &errs.InsufficientFundsError{
			Code:      w.CurrencyCode,
			Available: w.Balance,
			Required:  amount,
		}
	}
	w.Balance -= amount
	return nil
}

// WalletRecord is the persisted form of a wallet inside a portfolio record.
type WalletRecord struct {
	Balance float64 `json:"balance"`
}

// PortfolioRecord is one user's persisted portfolio: at most one wallet per
// currency code. Portfolios are created empty at registration and mutated
// only through the ledger.
type PortfolioRecord struct {
	UserID  int                     `json:"user_id"`
	Wallets map[string]WalletRecord `json:"wallets"`
}
