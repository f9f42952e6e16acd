package usecase

import (
	"context"
	"time"

	"github.com/thriftease/api/internal/domain"
)

// Tx represents a store transaction. Repository methods that accept a Tx run
// inside it; a nil Tx executes against the connection pool directly.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles store transaction lifecycle.
type TxManager interface {
	// Begin starts a read-write transaction for lifecycle mutations.
	Begin(ctx context.Context) (Tx, error)
	// BeginSnapshot starts a read-only, snapshot-isolated transaction so
	// balance computations observe one consistent version of the ledger.
	BeginSnapshot(ctx context.Context) (Tx, error)
}

// Retrier re-executes an operation on transient store conflicts. The whole
// read-then-compute sequence is retried; retrying only the aggregation step
// would mix snapshots.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}

// CurrencyRepository defines data access for currencies.
type CurrencyRepository interface {
	Create(ctx context.Context, currency *domain.Currency) error
	GetByID(ctx context.Context, id int64) (*domain.Currency, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Currency, error)
	Update(ctx context.Context, currency *domain.Currency) error
	Delete(ctx context.Context, id int64) error
}

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	// GetOwner resolves the owning user of an account through its currency.
	GetOwner(ctx context.Context, accountID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Account, error)
	Exists(ctx context.Context, currencyID int64, name string) (bool, error)
	Update(ctx context.Context, account *domain.Account) error
	Delete(ctx context.Context, id int64) error
}

// LedgerRepository is the ledger store: the ordered, account-partitioned
// collection of transactions.
type LedgerRepository interface {
	// Insert appends a transaction, assigning a monotonically increasing id.
	// A missing account surfaces as ErrConstraintViolation.
	Insert(ctx context.Context, tx Tx, t *domain.Transaction) error
	GetByID(ctx context.Context, tx Tx, id int64) (*domain.Transaction, error)
	// GetOwner resolves the owning user of a transaction through its
	// account's currency.
	GetOwner(ctx context.Context, transactionID int64) (int64, error)
	// Update patches amount/datetime/name/description/account. The id is
	// immutable: it is the deterministic tie-break key.
	Update(ctx context.Context, tx Tx, t *domain.Transaction) error
	Delete(ctx context.Context, tx Tx, id int64) error
	// ListByAccount returns the account's transactions in ledger order
	// (datetime ascending, id ascending), optionally bounded to
	// datetime <= before.
	ListByAccount(ctx context.Context, tx Tx, accountID int64, before *time.Time) ([]*domain.Transaction, error)
	ListByUser(ctx context.Context, tx Tx, userID int64) ([]*domain.Transaction, error)
}

// TagRepository defines data access for tags and their transaction links.
type TagRepository interface {
	Create(ctx context.Context, tx Tx, tag *domain.Tag) error
	GetByID(ctx context.Context, tx Tx, id int64) (*domain.Tag, error)
	GetByName(ctx context.Context, tx Tx, userID int64, name string) (*domain.Tag, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Tag, error)
	ListByTransaction(ctx context.Context, tx Tx, transactionID int64) ([]*domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id int64) error
	Attach(ctx context.Context, tx Tx, transactionID, tagID int64) error
	Detach(ctx context.Context, tx Tx, transactionID, tagID int64) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
