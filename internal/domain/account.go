package domain

import "github.com/shopspring/decimal"

// Account groups transactions under a currency.
//
// An account carries no stored balance field: balances are always derived
// from the transaction log so they can never drift from it.
type Account struct {
	ID         int64
	CurrencyID int64
	Name       string
}

// AccountBalances holds the derived balances of an account.
type AccountBalances struct {
	// Balance includes every transaction dated at or before "now".
	Balance decimal.Decimal
	// FutureBalance additionally includes scheduled (future-dated) entries.
	FutureBalance decimal.Decimal
}
