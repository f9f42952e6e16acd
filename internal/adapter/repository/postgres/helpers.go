package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/usecase"
)

// PostgreSQL error codes mapped to domain.ErrConstraintViolation.
const (
	pgErrForeignKeyViolation = "23503"
	pgErrUniqueViolation     = "23505"
	pgErrCheckViolation      = "23514"
)

// querier is the subset of pgx operations shared by the pool and by open
// transactions. Repository methods that take a usecase.Tx run on whichever
// the caller supplies.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func txQuerier(pool querier, tx usecase.Tx) querier {
	if tx == nil {
		return pool
	}
	return tx.(*Tx).PgxTx()
}

// mapConstraintError translates integrity violations into the domain error;
// everything else passes through unchanged.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrForeignKeyViolation, pgErrUniqueViolation, pgErrCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrConstraintViolation, pgErr.ConstraintName)
		}
	}
	return err
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
