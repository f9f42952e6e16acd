package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thriftease/api/internal/domain"
)

// AccountRepository implements account persistence. Accounts store no
// balance column; balances are always derived from the transaction log.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (currency_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		account.CurrencyID,
		account.Name,
	).Scan(&account.ID)

	return mapConstraintError(err)
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	query := `
		SELECT id, currency_id, name
		FROM accounts
		WHERE id = $1
	`

	var account domain.Account
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.CurrencyID,
		&account.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// GetOwner resolves the owning user of an account through its currency
func (r *AccountRepository) GetOwner(ctx context.Context, accountID int64) (int64, error) {
	query := `
		SELECT c.user_id
		FROM accounts a
		JOIN currencies c ON c.id = a.currency_id
		WHERE a.id = $1
	`

	var userID int64
	err := r.pool.QueryRow(ctx, query, accountID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}

	return userID, nil
}

// ListByUser retrieves every account owned by a user
func (r *AccountRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Account, error) {
	query := `
		SELECT a.id, a.currency_id, a.name
		FROM accounts a
		JOIN currencies c ON c.id = a.currency_id
		WHERE c.user_id = $1
		ORDER BY a.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.CurrencyID, &account.Name); err != nil {
			return nil, err
		}
		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

// Exists reports whether an account with this name exists under the currency
func (r *AccountRepository) Exists(ctx context.Context, currencyID int64, name string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts WHERE currency_id = $1 AND name = $2
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, currencyID, name).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// Update updates an account's record
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	query := `
		UPDATE accounts
		SET currency_id = $2, name = $3, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, account.ID, account.CurrencyID, account.Name)
	if err != nil {
		return mapConstraintError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// Delete removes an account; its transactions cascade
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}
