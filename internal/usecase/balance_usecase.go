package usecase

import (
	"context"
	"time"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/infrastructure/metrics"
)

// BalanceUseCase derives account and transaction balances from the ledger
// store. Balances are never persisted: every call recomputes them from a
// snapshot-isolated read, so they cannot go stale after writes.
type BalanceUseCase struct {
	txManager  TxManager
	ledgerRepo LedgerRepository
	retrier    Retrier
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(txManager TxManager, ledgerRepo LedgerRepository, retrier Retrier, metrics *metrics.Metrics) *BalanceUseCase {
	return &BalanceUseCase{
		txManager:  txManager,
		ledgerRepo: ledgerRepo,
		retrier:    retrier,
		metrics:    metrics,
		now:        time.Now,
	}
}

// observeComputation records one balance derivation and the ledger entries it
// scanned.
func (uc *BalanceUseCase) observeComputation(start time.Time, entriesRead int) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.BalanceComputations.Inc()
	uc.metrics.BalanceDuration.Observe(time.Since(start).Seconds())
	uc.metrics.LedgerEntriesRead.Observe(float64(entriesRead))
}

// AccountBalances returns an account's as-of-now balance and its
// future-inclusive balance. Both are computed from one ledger read so
// concurrent writers cannot make them disagree.
func (uc *BalanceUseCase) AccountBalances(ctx context.Context, accountID int64) (*domain.AccountBalances, error) {
	start := time.Now()

	var out *domain.AccountBalances
	var entriesRead int

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.BeginSnapshot(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		entries, err := uc.ledgerRepo.ListByAccount(ctx, tx, accountID, nil)
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		now := uc.now()
		out = &domain.AccountBalances{
			Balance:       domain.RunningBalance(entries, &now),
			FutureBalance: domain.RunningBalance(entries, nil),
		}
		entriesRead = len(entries)

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.observeComputation(start, entriesRead)

	return out, nil
}

// TransactionBalances returns the derived attributes of one transaction: the
// account balance immediately before and after it under the ledger order,
// plus its scheduled flag and operation.
func (uc *BalanceUseCase) TransactionBalances(ctx context.Context, transactionID int64) (*domain.TransactionBalances, error) {
	start := time.Now()

	var out *domain.TransactionBalances
	var entriesRead int

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.BeginSnapshot(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		t, err := uc.ledgerRepo.GetByID(ctx, tx, transactionID)
		if err != nil {
			return err
		}

		entries, err := uc.ledgerRepo.ListByAccount(ctx, tx, t.AccountID, nil)
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		out = deriveBalances(entries, t, uc.now())
		entriesRead = len(entries)

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.observeComputation(start, entriesRead)

	return out, nil
}

// deriveBalances computes a transaction's balance attributes against its
// account's full ledger.
func deriveBalances(entries []*domain.Transaction, t *domain.Transaction, now time.Time) *domain.TransactionBalances {
	old := domain.BalanceBefore(entries, t)

	return &domain.TransactionBalances{
		OldAccountBalance: old,
		NewAccountBalance: old.Add(t.Amount),
		Scheduled:         t.Scheduled(now),
		Operation:         t.Operation(),
	}
}
