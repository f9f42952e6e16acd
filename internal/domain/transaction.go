package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation classifies a transaction by the sign of its amount.
type Operation string

const (
	OperationCredit Operation = "CREDIT"
	OperationDebit  Operation = "DEBIT"
)

// Transaction represents a single signed ledger entry on an account.
//
// The ID is assigned by the store, is monotonically increasing, and is never
// reassigned: it is the deterministic tie-break key for entries sharing a
// DateTime.
type Transaction struct {
	ID          int64
	AccountID   int64
	Amount      decimal.Decimal
	DateTime    time.Time
	Name        string
	Description string
	Tags        []*Tag
}

// Operation returns CREDIT for non-negative amounts, DEBIT otherwise.
func (t *Transaction) Operation() Operation {
	if t.Amount.IsNegative() {
		return OperationDebit
	}
	return OperationCredit
}

// Scheduled reports whether the transaction is dated strictly after now.
func (t *Transaction) Scheduled(now time.Time) bool {
	return t.DateTime.After(now)
}

// OrderedBefore reports whether t sorts strictly before other in the ledger
// order: DateTime ascending, ties broken by ID ascending. Two entries with
// equal timestamps are never simultaneous; the lower ID is earlier.
func (t *Transaction) OrderedBefore(other *Transaction) bool {
	if t.DateTime.Before(other.DateTime) {
		return true
	}
	if t.DateTime.Equal(other.DateTime) {
		return t.ID < other.ID
	}
	return false
}

// TransactionBalances holds the derived balance attributes of a transaction.
type TransactionBalances struct {
	OldAccountBalance decimal.Decimal
	NewAccountBalance decimal.Decimal
	Scheduled         bool
	Operation         Operation
}
