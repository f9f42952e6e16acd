package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thriftease/api/internal/domain"
)

// CurrencyRepository implements currency persistence
type CurrencyRepository struct {
	pool *pgxpool.Pool
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(pool *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{pool: pool}
}

// Create inserts a new currency
func (r *CurrencyRepository) Create(ctx context.Context, currency *domain.Currency) error {
	query := `
		INSERT INTO currencies (user_id, abbreviation, symbol, name)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		currency.UserID,
		currency.Abbreviation,
		currency.Symbol,
		currency.Name,
	).Scan(&currency.ID)

	return mapConstraintError(err)
}

// GetByID retrieves a currency by ID
func (r *CurrencyRepository) GetByID(ctx context.Context, id int64) (*domain.Currency, error) {
	query := `
		SELECT id, user_id, abbreviation, symbol, name
		FROM currencies
		WHERE id = $1
	`

	var currency domain.Currency
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&currency.ID,
		&currency.UserID,
		&currency.Abbreviation,
		&currency.Symbol,
		&currency.Name,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCurrencyNotFound
	}
	if err != nil {
		return nil, err
	}

	return &currency, nil
}

// ListByUser retrieves every currency owned by a user
func (r *CurrencyRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Currency, error) {
	query := `
		SELECT id, user_id, abbreviation, symbol, name
		FROM currencies
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var currencies []*domain.Currency
	for rows.Next() {
		var currency domain.Currency
		if err := rows.Scan(
			&currency.ID,
			&currency.UserID,
			&currency.Abbreviation,
			&currency.Symbol,
			&currency.Name,
		); err != nil {
			return nil, err
		}
		currencies = append(currencies, &currency)
	}

	return currencies, rows.Err()
}

// Update updates a currency's record
func (r *CurrencyRepository) Update(ctx context.Context, currency *domain.Currency) error {
	query := `
		UPDATE currencies
		SET abbreviation = $2, symbol = $3, name = $4, updated_at = now()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		currency.ID,
		currency.Abbreviation,
		currency.Symbol,
		currency.Name,
	)
	if err != nil {
		return mapConstraintError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCurrencyNotFound
	}

	return nil
}

// Delete removes a currency; its accounts and their transactions cascade
func (r *CurrencyRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM currencies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCurrencyNotFound
	}

	return nil
}
