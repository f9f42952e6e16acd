package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/usecase"
)

// TagRepository implements tag persistence and the transaction-tag links.
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository creates a new tag repository
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// Create inserts a new tag
func (r *TagRepository) Create(ctx context.Context, tx usecase.Tx, tag *domain.Tag) error {
	query := `
		INSERT INTO tags (user_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	err := txQuerier(r.pool, tx).QueryRow(ctx, query, tag.UserID, tag.Name).Scan(&tag.ID)

	return mapConstraintError(err)
}

// GetByID retrieves a tag by ID
func (r *TagRepository) GetByID(ctx context.Context, tx usecase.Tx, id int64) (*domain.Tag, error) {
	query := `SELECT id, user_id, name FROM tags WHERE id = $1`

	return scanTag(txQuerier(r.pool, tx).QueryRow(ctx, query, id))
}

// GetByName retrieves a user's tag by exact name
func (r *TagRepository) GetByName(ctx context.Context, tx usecase.Tx, userID int64, name string) (*domain.Tag, error) {
	query := `SELECT id, user_id, name FROM tags WHERE user_id = $1 AND name = $2`

	return scanTag(txQuerier(r.pool, tx).QueryRow(ctx, query, userID, name))
}

// ListByUser retrieves every tag owned by a user
func (r *TagRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	query := `SELECT id, user_id, name FROM tags WHERE user_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

// ListByTransaction retrieves the tags attached to a transaction
func (r *TagRepository) ListByTransaction(ctx context.Context, tx usecase.Tx, transactionID int64) ([]*domain.Tag, error) {
	query := `
		SELECT t.id, t.user_id, t.name
		FROM tags t
		JOIN transaction_tags tt ON tt.tag_id = t.id
		WHERE tt.transaction_id = $1
		ORDER BY t.id
	`

	rows, err := txQuerier(r.pool, tx).Query(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

// Update renames a tag
func (r *TagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	query := `UPDATE tags SET name = $2, updated_at = now() WHERE id = $1`

	commandTag, err := r.pool.Exec(ctx, query, tag.ID, tag.Name)
	if err != nil {
		return mapConstraintError(err)
	}
	if commandTag.RowsAffected() == 0 {
		return domain.ErrTagNotFound
	}

	return nil
}

// Delete removes a tag; its transaction links cascade
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	commandTag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() == 0 {
		return domain.ErrTagNotFound
	}

	return nil
}

// Attach links a tag to a transaction. Attaching an already linked tag is a
// no-op.
func (r *TagRepository) Attach(ctx context.Context, tx usecase.Tx, transactionID, tagID int64) error {
	query := `
		INSERT INTO transaction_tags (transaction_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	_, err := txQuerier(r.pool, tx).Exec(ctx, query, transactionID, tagID)

	return mapConstraintError(err)
}

// Detach unlinks a tag from a transaction. Detaching an absent link is a
// no-op.
func (r *TagRepository) Detach(ctx context.Context, tx usecase.Tx, transactionID, tagID int64) error {
	query := `DELETE FROM transaction_tags WHERE transaction_id = $1 AND tag_id = $2`

	_, err := txQuerier(r.pool, tx).Exec(ctx, query, transactionID, tagID)

	return err
}

func scanTag(row pgx.Row) (*domain.Tag, error) {
	var tag domain.Tag
	err := row.Scan(&tag.ID, &tag.UserID, &tag.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	return &tag, nil
}

func scanTags(rows pgx.Rows) ([]*domain.Tag, error) {
	var tags []*domain.Tag

	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}

	return tags, rows.Err()
}
