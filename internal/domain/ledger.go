package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger arithmetic over ordered transaction slices. These helpers are pure:
// every balance in the system is derived from them (or from the equivalent SQL
// predicate) and never stored.

// SortLedger sorts entries in ledger order (DateTime ascending, ID ascending).
func SortLedger(entries []*Transaction) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].OrderedBefore(entries[j])
	})
}

// SumLedger returns the exact sum of amounts. An empty slice sums to zero.
func SumLedger(entries []*Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// RunningBalance sums all entries dated at or before asOf. A nil asOf means
// future-inclusive: every entry counts regardless of its DateTime.
func RunningBalance(entries []*Transaction, asOf *time.Time) decimal.Decimal {
	if asOf == nil {
		return SumLedger(entries)
	}
	sum := decimal.Zero
	for _, e := range entries {
		if e.DateTime.After(*asOf) {
			continue
		}
		sum = sum.Add(e.Amount)
	}
	return sum
}

// BalanceBefore returns the account balance immediately before t: the sum of
// every entry that sorts strictly before it. The predicate is
// (DateTime < t.DateTime) OR (DateTime == t.DateTime AND ID < t.ID); excluding
// only lower IDs without the timestamp guard miscounts same-instant entries.
func BalanceBefore(entries []*Transaction, t *Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.OrderedBefore(t) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}
