package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/thriftease/api/internal/domain"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	tests := []string{"0", "100.00", "-30.00", "0.01", "-0.01", "9999999999999999.99"}

	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			d := decimal.RequireFromString(s)
			got := numericToDecimal(decimalToNumeric(d))
			if !got.Equal(d) {
				t.Errorf("round trip %s = %s", d, got)
			}
		})
	}
}

func TestNumericToDecimalInvalid(t *testing.T) {
	got := numericToDecimal(decimalToNumeric(decimal.Zero))
	if !got.IsZero() {
		t.Errorf("got %s, want 0", got)
	}
}

func TestMapConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "currencies_user_id_abbreviation_key"},
			want: domain.ErrConstraintViolation,
		},
		{
			name: "foreign key violation",
			err:  &pgconn.PgError{Code: pgErrForeignKeyViolation, ConstraintName: "transactions_account_id_fkey"},
			want: domain.ErrConstraintViolation,
		},
		{
			name: "unrelated pg error passes through",
			err:  &pgconn.PgError{Code: "42703"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapConstraintError(tt.err)
			if tt.want != nil {
				if !errors.Is(got, tt.want) {
					t.Errorf("got %v, want %v", got, tt.want)
				}
				return
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("got %v, want original error", got)
			}
		})
	}
}
