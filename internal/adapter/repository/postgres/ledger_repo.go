package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/usecase"
)

// LedgerRepository implements the ledger store over PostgreSQL. Ids come
// from a sequence, so entries sharing a datetime always carry distinct,
// insertion-ordered tie-break keys.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// Insert appends a transaction and assigns its id
func (r *LedgerRepository) Insert(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, amount, datetime, name, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := txQuerier(r.pool, tx).QueryRow(ctx, query,
		t.AccountID,
		decimalToNumeric(t.Amount),
		timeToPgTimestamptz(t.DateTime),
		t.Name,
		t.Description,
	).Scan(&t.ID)

	return mapConstraintError(err)
}

// GetByID retrieves a transaction by ID
func (r *LedgerRepository) GetByID(ctx context.Context, tx usecase.Tx, id int64) (*domain.Transaction, error) {
	query := `
		SELECT id, account_id, amount, datetime, name, description
		FROM transactions
		WHERE id = $1
	`

	return scanTransaction(txQuerier(r.pool, tx).QueryRow(ctx, query, id))
}

// GetOwner resolves the owning user of a transaction through its account's
// currency
func (r *LedgerRepository) GetOwner(ctx context.Context, transactionID int64) (int64, error) {
	query := `
		SELECT c.user_id
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN currencies c ON c.id = a.currency_id
		WHERE t.id = $1
	`

	var userID int64
	err := r.pool.QueryRow(ctx, query, transactionID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrTransactionNotFound
	}
	if err != nil {
		return 0, err
	}

	return userID, nil
}

// Update patches a transaction. The id column is never written.
func (r *LedgerRepository) Update(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $2, amount = $3, datetime = $4, name = $5,
		    description = $6, updated_at = now()
		WHERE id = $1
	`

	tag, err := txQuerier(r.pool, tx).Exec(ctx, query,
		t.ID,
		t.AccountID,
		decimalToNumeric(t.Amount),
		timeToPgTimestamptz(t.DateTime),
		t.Name,
		t.Description,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction; its tag links cascade
func (r *LedgerRepository) Delete(ctx context.Context, tx usecase.Tx, id int64) error {
	tag, err := txQuerier(r.pool, tx).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// ListByAccount returns an account's transactions in ledger order, optionally
// bounded to datetime <= before
func (r *LedgerRepository) ListByAccount(ctx context.Context, tx usecase.Tx, accountID int64, before *time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT id, account_id, amount, datetime, name, description
		FROM transactions
		WHERE account_id = $1 AND ($2::timestamptz IS NULL OR datetime <= $2)
		ORDER BY datetime, id
	`

	var bound pgtype.Timestamptz
	if before != nil {
		bound = timeToPgTimestamptz(*before)
	}

	rows, err := txQuerier(r.pool, tx).Query(ctx, query, accountID, bound)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// ListByUser returns every transaction on the user's accounts in ledger order
func (r *LedgerRepository) ListByUser(ctx context.Context, tx usecase.Tx, userID int64) ([]*domain.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.amount, t.datetime, t.name, t.description
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN currencies c ON c.id = a.currency_id
		WHERE c.user_id = $1
		ORDER BY t.datetime, t.id
	`

	rows, err := txQuerier(r.pool, tx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t        domain.Transaction
		amount   pgtype.Numeric
		dateTime pgtype.Timestamptz
	)

	err := row.Scan(&t.ID, &t.AccountID, &amount, &dateTime, &t.Name, &t.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	t.Amount = numericToDecimal(amount)
	t.DateTime = dateTime.Time

	return &t, nil
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction

	for rows.Next() {
		var (
			t        domain.Transaction
			amount   pgtype.Numeric
			dateTime pgtype.Timestamptz
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &amount, &dateTime, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		t.Amount = numericToDecimal(amount)
		t.DateTime = dateTime.Time
		transactions = append(transactions, &t)
	}

	return transactions, rows.Err()
}
