package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/infrastructure/metrics"
	"github.com/thriftease/api/internal/query"
)

// TransactionUseCase is the transaction lifecycle manager: validated
// create/update/delete of ledger entries with tag side-effects, each wrapped
// in a single store transaction so a failure rolls back both the row mutation
// and its tag-association changes.
type TransactionUseCase struct {
	txManager   TxManager
	ledgerRepo  LedgerRepository
	accountRepo AccountRepository
	tagRepo     TagRepository
	retrier     Retrier
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
func NewTransactionUseCase(
	txManager TxManager,
	ledgerRepo LedgerRepository,
	accountRepo AccountRepository,
	tagRepo TagRepository,
	retrier Retrier,
	metrics *metrics.Metrics,
) *TransactionUseCase {
	return &TransactionUseCase{
		txManager:   txManager,
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		tagRepo:     tagRepo,
		retrier:     retrier,
		metrics:     metrics,
		now:         time.Now,
	}
}

// TransactionView pairs a transaction with its derived balance attributes.
type TransactionView struct {
	Transaction *domain.Transaction
	Balances    domain.TransactionBalances
}

// CreateTransactionInput represents input for creating a transaction.
type CreateTransactionInput struct {
	AccountID   int64
	Amount      decimal.Decimal
	DateTime    *time.Time
	Name        string
	Description string
	Tags        []string
	TagIDs      []int64
}

// Create inserts a ledger entry for userID's account, resolving tag names
// (reuse-or-create) and tag ids (must exist) and attaching them atomically
// with the insert. DateTime defaults to the creation instant; a future
// DateTime represents a scheduled entry.
func (uc *TransactionUseCase) Create(ctx context.Context, userID int64, input CreateTransactionInput) (*TransactionView, error) {
	if err := uc.authorizeAccount(ctx, userID, input.AccountID); err != nil {
		return nil, err
	}

	if err := validateTransactionFields(input.Amount, input.Name, input.Description); err != nil {
		return nil, err
	}

	dateTime := uc.now().UTC()
	if input.DateTime != nil {
		dateTime = input.DateTime.UTC()
	}

	var view *TransactionView

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		t := &domain.Transaction{
			AccountID:   input.AccountID,
			Amount:      input.Amount,
			DateTime:    dateTime,
			Name:        input.Name,
			Description: input.Description,
		}

		if err := uc.ledgerRepo.Insert(ctx, tx, t); err != nil {
			return err
		}

		tags, err := uc.resolveTags(ctx, tx, userID, input.Tags, input.TagIDs)
		if err != nil {
			return err
		}

		for _, tag := range tags {
			if err := uc.tagRepo.Attach(ctx, tx, t.ID, tag.ID); err != nil {
				return err
			}
		}

		t.Tags = tags

		entries, err := uc.ledgerRepo.ListByAccount(ctx, tx, t.AccountID, nil)
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		view = &TransactionView{Transaction: t, Balances: *deriveBalances(entries, t, uc.now())}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsCreated.Inc()
		uc.metrics.TransactionAmount.Observe(input.Amount.Abs().InexactFloat64())
	}

	return view, nil
}

// UpdateTransactionInput represents a partial update. Nil fields are left
// unchanged; tag removals are applied before tag additions, so a tag present
// in both lists ends up attached.
type UpdateTransactionInput struct {
	AccountID    *int64
	Amount       *decimal.Decimal
	DateTime     *time.Time
	Name         *string
	Description  *string
	AddTags      []string
	AddTagIDs    []int64
	RemoveTags   []string
	RemoveTagIDs []int64
}

// Update applies a patch to a ledger entry owned by userID. The id is never
// reassigned; moving the entry to another account requires ownership of the
// target account too.
func (uc *TransactionUseCase) Update(ctx context.Context, userID, id int64, input UpdateTransactionInput) (*TransactionView, error) {
	if err := uc.authorizeTransaction(ctx, userID, id); err != nil {
		return nil, err
	}

	if input.AccountID != nil {
		if err := uc.authorizeAccount(ctx, userID, *input.AccountID); err != nil {
			return nil, err
		}
	}

	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
	}
	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
	}

	var view *TransactionView

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		t, err := uc.ledgerRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if input.AccountID != nil {
			t.AccountID = *input.AccountID
		}
		if input.Amount != nil {
			t.Amount = *input.Amount
		}
		if input.DateTime != nil {
			t.DateTime = input.DateTime.UTC()
		}
		if input.Name != nil {
			t.Name = *input.Name
		}
		if input.Description != nil {
			t.Description = *input.Description
		}

		if err := uc.ledgerRepo.Update(ctx, tx, t); err != nil {
			return err
		}

		// Remove before add: a tag named in both lists stays attached.
		if err := uc.removeTags(ctx, tx, userID, t.ID, input.RemoveTags, input.RemoveTagIDs); err != nil {
			return err
		}

		added, err := uc.resolveTags(ctx, tx, userID, input.AddTags, input.AddTagIDs)
		if err != nil {
			return err
		}

		for _, tag := range added {
			if err := uc.tagRepo.Attach(ctx, tx, t.ID, tag.ID); err != nil {
				return err
			}
		}

		tags, err := uc.tagRepo.ListByTransaction(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		t.Tags = tags

		entries, err := uc.ledgerRepo.ListByAccount(ctx, tx, t.AccountID, nil)
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		view = &TransactionView{Transaction: t, Balances: *deriveBalances(entries, t, uc.now())}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsUpdated.Inc()
	}

	return view, nil
}

// Delete removes a ledger entry owned by userID and returns its last known
// state, balances included, captured in the same transaction that deletes it.
func (uc *TransactionUseCase) Delete(ctx context.Context, userID, id int64) (*TransactionView, error) {
	if err := uc.authorizeTransaction(ctx, userID, id); err != nil {
		return nil, err
	}

	var view *TransactionView

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		t, err := uc.ledgerRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		tags, err := uc.tagRepo.ListByTransaction(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		t.Tags = tags

		entries, err := uc.ledgerRepo.ListByAccount(ctx, tx, t.AccountID, nil)
		if err != nil {
			return err
		}

		if err := uc.ledgerRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		view = &TransactionView{Transaction: t, Balances: *deriveBalances(entries, t, uc.now())}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransactionsDeleted.Inc()
	}

	return view, nil
}

// Get returns one transaction with balances computed against a snapshot of
// its account's ledger.
func (uc *TransactionUseCase) Get(ctx context.Context, userID, id int64) (*TransactionView, error) {
	if err := uc.authorizeTransaction(ctx, userID, id); err != nil {
		return nil, err
	}

	var view *TransactionView

	err := uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.BeginSnapshot(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		t, err := uc.ledgerRepo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		tags, err := uc.tagRepo.ListByTransaction(ctx, tx, t.ID)
		if err != nil {
			return err
		}
		t.Tags = tags

		entries, err := uc.ledgerRepo.ListByAccount(ctx, tx, t.AccountID, nil)
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		view = &TransactionView{Transaction: t, Balances: *deriveBalances(entries, t, uc.now())}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

// TransactionFilterInput holds optional filter fields. Populated fields are
// OR-combined; the union is intersected with the user's transaction set.
type TransactionFilterInput struct {
	ID           *int64
	AccountID    *int64
	Amount       *decimal.Decimal
	Name         *string
	Description  *string
	DateTimeFrom *time.Time
	DateTimeTo   *time.Time
}

func (f *TransactionFilterInput) predicates() []query.Predicate[*domain.Transaction] {
	if f == nil {
		return nil
	}

	var preds []query.Predicate[*domain.Transaction]

	if f.ID != nil {
		id := *f.ID
		preds = append(preds, func(t *domain.Transaction) bool { return t.ID == id })
	}
	if f.AccountID != nil {
		accountID := *f.AccountID
		preds = append(preds, func(t *domain.Transaction) bool { return t.AccountID == accountID })
	}
	if f.Amount != nil {
		amount := *f.Amount
		preds = append(preds, func(t *domain.Transaction) bool { return t.Amount.Equal(amount) })
	}
	if f.Name != nil {
		name := strings.ToLower(*f.Name)
		preds = append(preds, func(t *domain.Transaction) bool {
			return strings.Contains(strings.ToLower(t.Name), name)
		})
	}
	if f.Description != nil {
		description := strings.ToLower(*f.Description)
		preds = append(preds, func(t *domain.Transaction) bool {
			return strings.Contains(strings.ToLower(t.Description), description)
		})
	}
	if f.DateTimeFrom != nil {
		from := *f.DateTimeFrom
		preds = append(preds, func(t *domain.Transaction) bool { return !t.DateTime.Before(from) })
	}
	if f.DateTimeTo != nil {
		to := *f.DateTimeTo
		preds = append(preds, func(t *domain.Transaction) bool { return !t.DateTime.After(to) })
	}

	return preds
}

// TransactionOrderKey selects a sort key for transaction listings.
type TransactionOrderKey string

const (
	TransactionOrderIDAsc        TransactionOrderKey = "ID_ASC"
	TransactionOrderIDDesc       TransactionOrderKey = "ID_DESC"
	TransactionOrderDateTimeAsc  TransactionOrderKey = "DATETIME_ASC"
	TransactionOrderDateTimeDesc TransactionOrderKey = "DATETIME_DESC"
)

func transactionOrderKeys(keys []TransactionOrderKey) ([]query.Compare[*domain.Transaction], error) {
	byID := func(a, b *domain.Transaction) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	}
	byDateTime := func(a, b *domain.Transaction) int {
		return a.DateTime.Compare(b.DateTime)
	}

	out := make([]query.Compare[*domain.Transaction], 0, len(keys))
	for _, key := range keys {
		switch key {
		case TransactionOrderIDAsc:
			out = append(out, byID)
		case TransactionOrderIDDesc:
			out = append(out, query.Descending(byID))
		case TransactionOrderDateTimeAsc:
			out = append(out, byDateTime)
		case TransactionOrderDateTimeDesc:
			out = append(out, query.Descending(byDateTime))
		default:
			return nil, fmt.Errorf("%w: unknown order key %q", domain.ErrValidation, key)
		}
	}

	return out, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	Filter  *TransactionFilterInput
	Order   []TransactionOrderKey
	PerPage int
	Page    int
}

// List returns userID's transactions, filtered, ordered, paginated, and
// decorated with balances computed against one snapshot of the ledger.
// Without explicit order keys the ledger order applies.
func (uc *TransactionUseCase) List(ctx context.Context, userID int64, input ListTransactionsInput) ([]*TransactionView, query.Paginator, error) {
	orderKeys, err := transactionOrderKeys(input.Order)
	if err != nil {
		return nil, query.Paginator{}, err
	}

	var views []*TransactionView
	var paginator query.Paginator

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.BeginSnapshot(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		all, err := uc.ledgerRepo.ListByUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		matched := query.Filter(all, input.Filter.predicates())
		query.Order(matched, orderKeys)
		pageItems, p := query.Paginate(matched, input.PerPage, input.Page)

		// One ledger read per account on the page keeps every balance on
		// this response derived from the same snapshot.
		ledgers := make(map[int64][]*domain.Transaction)
		for _, t := range pageItems {
			if _, ok := ledgers[t.AccountID]; !ok {
				entries, err := uc.ledgerRepo.ListByAccount(ctx, tx, t.AccountID, nil)
				if err != nil {
					return err
				}
				ledgers[t.AccountID] = entries
			}

			tags, err := uc.tagRepo.ListByTransaction(ctx, tx, t.ID)
			if err != nil {
				return err
			}
			t.Tags = tags
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		now := uc.now()
		views = make([]*TransactionView, 0, len(pageItems))
		for _, t := range pageItems {
			views = append(views, &TransactionView{
				Transaction: t,
				Balances:    *deriveBalances(ledgers[t.AccountID], t, now),
			})
		}
		paginator = p

		return nil
	})
	if err != nil {
		return nil, query.Paginator{}, err
	}

	return views, paginator, nil
}

// resolveTags maps tag names and ids to tag rows for userID. Names reuse an
// exact match or create a new tag (blank names are skipped); an unknown or
// foreign tag id fails the whole operation. The result is de-duplicated.
func (uc *TransactionUseCase) resolveTags(ctx context.Context, tx Tx, userID int64, names []string, ids []int64) ([]*domain.Tag, error) {
	seen := make(map[int64]bool)
	var tags []*domain.Tag

	add := func(tag *domain.Tag) {
		if !seen[tag.ID] {
			seen[tag.ID] = true
			tags = append(tags, tag)
		}
	}

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}

		tag, err := uc.tagRepo.GetByName(ctx, tx, userID, name)
		if err == nil {
			add(tag)
			continue
		}
		if !errors.Is(err, domain.ErrTagNotFound) {
			return nil, err
		}

		tag = &domain.Tag{UserID: userID, Name: name}
		if err := uc.tagRepo.Create(ctx, tx, tag); err != nil {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.TagsCreated.Inc()
		}
		add(tag)
	}

	for _, id := range ids {
		tag, err := uc.tagRepo.GetByID(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if tag.UserID != userID {
			return nil, domain.ErrTagNotFound
		}
		add(tag)
	}

	return tags, nil
}

// removeTags detaches the named and identified tags from a transaction.
// Unknown names and ids are skipped: there is nothing to detach.
func (uc *TransactionUseCase) removeTags(ctx context.Context, tx Tx, userID, transactionID int64, names []string, ids []int64) error {
	for _, name := range names {
		tag, err := uc.tagRepo.GetByName(ctx, tx, userID, name)
		if errors.Is(err, domain.ErrTagNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		if err := uc.tagRepo.Detach(ctx, tx, transactionID, tag.ID); err != nil {
			return err
		}
	}

	for _, id := range ids {
		tag, err := uc.tagRepo.GetByID(ctx, tx, id)
		if errors.Is(err, domain.ErrTagNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if tag.UserID != userID {
			continue
		}

		if err := uc.tagRepo.Detach(ctx, tx, transactionID, tag.ID); err != nil {
			return err
		}
	}

	return nil
}

func (uc *TransactionUseCase) authorizeAccount(ctx context.Context, userID, accountID int64) error {
	owner, err := uc.accountRepo.GetOwner(ctx, accountID)
	if err != nil {
		return err
	}
	if owner != userID {
		return domain.ErrPermissionDenied
	}
	return nil
}

func (uc *TransactionUseCase) authorizeTransaction(ctx context.Context, userID, transactionID int64) error {
	owner, err := uc.ledgerRepo.GetOwner(ctx, transactionID)
	if err != nil {
		return err
	}
	if owner != userID {
		return domain.ErrPermissionDenied
	}
	return nil
}

func validateTransactionFields(amount decimal.Decimal, name, description string) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	return domain.ValidateDescription(description)
}
