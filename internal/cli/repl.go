// Package cli implements the interactive trading shell. It is a thin
// presentation layer: every command delegates to the application services
// and renders their plain results or typed failures.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"valutatrade-hub/internal/application/services"
	"valutatrade-hub/internal/domain/entities"
	"valutatrade-hub/internal/infrastructure/logging"
)

// REPL holds the shell state: the logged-in user and the services it drives.
type REPL struct {
	auth     *services.Auth
	ledger   *services.Ledger
	resolver *services.RateResolver
	updater  *services.RatesUpdater

	baseCurrency string
	rateTTL      time.Duration

	in  io.Reader
	out io.Writer

	userID   int
	username string
}

// New creates a shell over the given services.
func New(auth *services.Auth, ledger *services.Ledger, resolver *services.RateResolver, updater *services.RatesUpdater, baseCurrency string, rateTTL time.Duration, in io.Reader, out io.Writer) *REPL {
	return &REPL{
		auth:         auth,
		ledger:       ledger,
		resolver:     resolver,
		updater:      updater,
		baseCurrency: baseCurrency,
		rateTTL:      rateTTL,
		in:           in,
		out:          out,
	}
}

// Run reads commands until EOF or exit.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "ValutaTrade Hub CLI")
	fmt.Fprintln(r.out, "Commands: register, login, deposit, withdraw, buy, sell, show-portfolio, get-rate, update-rates, currencies, exit")

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			fmt.Fprintln(r.out, "Bye.")
			return nil
		}

		tokens := strings.Fields(line)
		r.dispatch(ctx, tokens[0], tokens)
	}
}

func (r *REPL) dispatch(ctx context.Context, command string, tokens []string) {
	switch command {
	case "register":
		r.handleRegister(tokens)
	case "login":
		r.handleLogin(tokens)
	case "deposit":
		r.handleFunds(ctx, "DEPOSIT", tokens)
	case "withdraw":
		r.handleFunds(ctx, "WITHDRAW", tokens)
	case "buy":
		r.handleTrade(ctx, "BUY", tokens)
	case "sell":
		r.handleTrade(ctx, "SELL", tokens)
	case "show-portfolio":
		r.handleShowPortfolio(tokens)
	case "get-rate":
		r.handleGetRate(tokens)
	case "update-rates":
		r.handleUpdateRates(ctx)
	case "currencies":
		r.handleCurrencies()
	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", command)
	}
}

func (r *REPL) handleRegister(tokens []string) {
	username := flagValue(tokens, "--username")
	password := flagValue(tokens, "--password")
	if username == "" || password == "" {
		fmt.Fprintln(r.out, "Usage: register --username <str> --password <str>")
		return
	}

	userID, name, err := r.auth.Register(username, password)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	fmt.Fprintf(r.out, "User '%s' registered (id=%d). Log in: login --username %s --password ****\n",
		name, userID, name)
}

func (r *REPL) handleLogin(tokens []string) {
	username := flagValue(tokens, "--username")
	password := flagValue(tokens, "--password")
	if username == "" || password == "" {
		fmt.Fprintln(r.out, "Usage: login --username <str> --password <str>")
		return
	}

	userID, name, err := r.auth.Login(username, password)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	r.userID = userID
	r.username = name
	fmt.Fprintf(r.out, "Logged in as '%s'\n", name)
}

func (r *REPL) handleFunds(ctx context.Context, action string, tokens []string) {
	if !r.requireLogin() {
		return
	}
	code, amount, ok := r.currencyAmountArgs(tokens, strings.ToLower(action))
	if !ok {
		return
	}

	var before, after float64
	var err error
	if action == "DEPOSIT" {
		before, after, err = r.ledger.Deposit(r.userID, code, amount)
	} else {
		before, after, err = r.ledger.Withdraw(r.userID, code, amount)
	}
	logging.LogAction(ctx, action, r.userID, r.username, map[string]interface{}{
		"currency": code,
		"amount":   amount,
	}, err)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	norm := strings.ToUpper(strings.TrimSpace(code))
	fmt.Fprintf(r.out, "%s: %s %s\n", action, formatAmount(norm, amount), norm)
	fmt.Fprintf(r.out, "- %s: %s -> %s\n", norm, formatAmount(norm, before), formatAmount(norm, after))
}

func (r *REPL) handleTrade(ctx context.Context, action string, tokens []string) {
	if !r.requireLogin() {
		return
	}
	code, amount, ok := r.currencyAmountArgs(tokens, strings.ToLower(action))
	if !ok {
		return
	}

	var result services.TradeResult
	var err error
	if action == "BUY" {
		result, err = r.ledger.Buy(r.userID, code, amount)
	} else {
		result, err = r.ledger.Sell(r.userID, code, amount)
	}
	logging.LogAction(ctx, action, r.userID, r.username, map[string]interface{}{
		"currency": code,
		"amount":   amount,
		"rate":     result.Rate,
		"base":     result.Base,
	}, err)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	verb := "Bought"
	valueLabel := "Estimated cost"
	if action == "SELL" {
		verb = "Sold"
		valueLabel = "Estimated revenue"
	}
	fmt.Fprintf(r.out, "%s %s %s at %s %s/%s\n",
		verb, formatAmount(result.Currency, result.Amount), result.Currency,
		formatAmount(result.Base, result.Rate), result.Base, result.Currency)
	fmt.Fprintln(r.out, "Portfolio changes:")
	fmt.Fprintf(r.out, "- %s: %s -> %s\n", result.Currency,
		formatAmount(result.Currency, result.Before), formatAmount(result.Currency, result.After))
	fmt.Fprintf(r.out, "%s: %s %s\n", valueLabel,
		formatAmount(result.Base, result.ValueInBase), result.Base)
}

func (r *REPL) handleShowPortfolio(tokens []string) {
	if !r.requireLogin() {
		return
	}
	base := flagValue(tokens, "--base")
	if base == "" {
		base = r.baseCurrency
	}

	report, err := r.ledger.BuildPortfolioReport(r.userID, base)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	fmt.Fprintf(r.out, "Portfolio of '%s' (base: %s):\n", r.username, report.Base)
	if len(report.Items) == 0 {
		fmt.Fprintln(r.out, "No wallets yet")
		return
	}
	for _, item := range report.Items {
		fmt.Fprintf(r.out, "- %s: %s -> %s %s\n",
			item.CurrencyCode,
			formatAmount(item.CurrencyCode, item.Balance),
			formatAmount(report.Base, item.ValueInBase),
			report.Base)
	}
	fmt.Fprintln(r.out, "---------------------------------")
	fmt.Fprintf(r.out, "TOTAL: %s %s\n", formatAmount(report.Base, report.Total), report.Base)
}

func (r *REPL) handleGetRate(tokens []string) {
	from := flagValue(tokens, "--from")
	to := flagValue(tokens, "--to")
	if from == "" || to == "" {
		fmt.Fprintln(r.out, "Usage: get-rate --from <code> --to <code>")
		return
	}

	// Validate against the registry first so unknown codes are reported as
	// such rather than as missing rates
	if _, err := entities.GetCurrency(from); err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	if _, err := entities.GetCurrency(to); err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	quote, err := r.resolver.GetRate(from, to, r.rateTTL)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	fmt.Fprintf(r.out, "%s -> %s: %.6f (reverse %.6f, updated %s)\n",
		quote.From, quote.To, quote.Rate, quote.ReverseRate, quote.UpdatedAt)
}

func (r *REPL) handleUpdateRates(ctx context.Context) {
	runCtx := logging.WithRunID(ctx)
	result, err := r.updater.RunUpdate(runCtx)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}

	fmt.Fprintf(r.out, "Updated %d pairs (last_refresh=%s)\n", result.Updated, result.LastRefresh)
	for name, meta := range result.Sources {
		if meta.OK {
			fmt.Fprintf(r.out, "- %s: OK (%d rates)\n", name, meta.Count)
		} else {
			fmt.Fprintf(r.out, "- %s: FAILED (%s)\n", name, meta.Error)
		}
	}
}

func (r *REPL) handleCurrencies() {
	for _, cur := range entities.Currencies() {
		fmt.Fprintln(r.out, cur.DisplayInfo())
	}
}

func (r *REPL) requireLogin() bool {
	if r.userID == 0 {
		fmt.Fprintln(r.out, "Log in first")
		return false
	}
	return true
}

// currencyAmountArgs parses the shared --currency/--amount pair.
func (r *REPL) currencyAmountArgs(tokens []string, usage string) (string, float64, bool) {
	code := flagValue(tokens, "--currency")
	amountStr := flagValue(tokens, "--amount")
	if code == "" || amountStr == "" {
		fmt.Fprintf(r.out, "Usage: %s --currency <code> --amount <number>\n", usage)
		return "", 0, false
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		fmt.Fprintln(r.out, "'amount' must be a positive number")
		return "", 0, false
	}
	return code, amount, true
}

// flagValue finds "--flag value" in the token list.
func flagValue(tokens []string, flag string) string {
	for i, tok := range tokens {
		if tok == flag && i+1 < len(tokens) {
			return tokens[i+1]
		}
	}
	return ""
}

// formatAmount renders crypto balances with 4 decimals and fiat with 2.
func formatAmount(code string, value float64) string {
	if cur, err := entities.GetCurrency(code); err == nil && cur.Kind == entities.KindCrypto {
		return fmt.Sprintf("%.4f", value)
	}
	return fmt.Sprintf("%.2f", value)
}
