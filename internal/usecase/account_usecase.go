package usecase

import (
	"context"
	"strings"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/infrastructure/metrics"
	"github.com/thriftease/api/internal/query"
)

// AccountUseCase handles account management. Balances on account reads come
// from the balance use case; accounts themselves store none.
type AccountUseCase struct {
	accountRepo  AccountRepository
	currencyRepo CurrencyRepository
	balances     *BalanceUseCase
	metrics      *metrics.Metrics
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, currencyRepo CurrencyRepository, balances *BalanceUseCase, metrics *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		accountRepo:  accountRepo,
		currencyRepo: currencyRepo,
		balances:     balances,
		metrics:      metrics,
	}
}

// AccountView pairs an account with its derived balances.
type AccountView struct {
	Account  *domain.Account
	Balances domain.AccountBalances
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	CurrencyID int64
	Name       string
}

// Create creates an account under one of userID's currencies. A duplicate
// (currency, name) pair surfaces as ErrConstraintViolation.
func (uc *AccountUseCase) Create(ctx context.Context, userID int64, input CreateAccountInput) (*domain.Account, error) {
	if err := uc.authorizeCurrency(ctx, userID, input.CurrencyID); err != nil {
		return nil, err
	}

	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	account := &domain.Account{
		CurrencyID: input.CurrencyID,
		Name:       input.Name,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// Get returns an account owned by userID together with its balances.
func (uc *AccountUseCase) Get(ctx context.Context, userID, id int64) (*AccountView, error) {
	account, err := uc.authorizeAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	balances, err := uc.balances.AccountBalances(ctx, id)
	if err != nil {
		return nil, err
	}

	return &AccountView{Account: account, Balances: *balances}, nil
}

// Exists reports whether userID already has an account with this name under
// the currency.
func (uc *AccountUseCase) Exists(ctx context.Context, userID, currencyID int64, name string) (bool, error) {
	if err := uc.authorizeCurrency(ctx, userID, currencyID); err != nil {
		return false, err
	}

	return uc.accountRepo.Exists(ctx, currencyID, name)
}

// AccountFilterInput holds optional filter fields for account listings.
type AccountFilterInput struct {
	ID         *int64
	CurrencyID *int64
	Name       *string
}

func (f *AccountFilterInput) predicates() []query.Predicate[*domain.Account] {
	if f == nil {
		return nil
	}

	var preds []query.Predicate[*domain.Account]

	if f.ID != nil {
		id := *f.ID
		preds = append(preds, func(a *domain.Account) bool { return a.ID == id })
	}
	if f.CurrencyID != nil {
		currencyID := *f.CurrencyID
		preds = append(preds, func(a *domain.Account) bool { return a.CurrencyID == currencyID })
	}
	if f.Name != nil {
		name := strings.ToLower(*f.Name)
		preds = append(preds, func(a *domain.Account) bool {
			return strings.Contains(strings.ToLower(a.Name), name)
		})
	}

	return preds
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Filter  *AccountFilterInput
	PerPage int
	Page    int
}

// List returns userID's accounts with balances, filtered and paginated.
func (uc *AccountUseCase) List(ctx context.Context, userID int64, input ListAccountsInput) ([]*AccountView, query.Paginator, error) {
	accounts, err := uc.accountRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, query.Paginator{}, err
	}

	matched := query.Filter(accounts, input.Filter.predicates())
	pageItems, paginator := query.Paginate(matched, input.PerPage, input.Page)

	views := make([]*AccountView, 0, len(pageItems))
	for _, account := range pageItems {
		balances, err := uc.balances.AccountBalances(ctx, account.ID)
		if err != nil {
			return nil, query.Paginator{}, err
		}
		views = append(views, &AccountView{Account: account, Balances: *balances})
	}

	return views, paginator, nil
}

// UpdateAccountInput represents a partial account update.
type UpdateAccountInput struct {
	CurrencyID *int64
	Name       *string
}

// Update patches an account owned by userID. Re-homing the account to another
// currency requires ownership of the target currency.
func (uc *AccountUseCase) Update(ctx context.Context, userID, id int64, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.authorizeAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.CurrencyID != nil {
		if err := uc.authorizeCurrency(ctx, userID, *input.CurrencyID); err != nil {
			return nil, err
		}
		account.CurrencyID = *input.CurrencyID
	}
	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
		account.Name = *input.Name
	}

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Delete removes an account owned by userID, cascading to its transactions,
// and returns the pre-delete snapshot.
func (uc *AccountUseCase) Delete(ctx context.Context, userID, id int64) (*domain.Account, error) {
	account, err := uc.authorizeAccount(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return account, nil
}

func (uc *AccountUseCase) authorizeAccount(ctx context.Context, userID, id int64) (*domain.Account, error) {
	owner, err := uc.accountRepo.GetOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, domain.ErrPermissionDenied
	}

	return uc.accountRepo.GetByID(ctx, id)
}

func (uc *AccountUseCase) authorizeCurrency(ctx context.Context, userID, currencyID int64) error {
	currency, err := uc.currencyRepo.GetByID(ctx, currencyID)
	if err != nil {
		return err
	}
	if currency.UserID != userID {
		return domain.ErrPermissionDenied
	}
	return nil
}
