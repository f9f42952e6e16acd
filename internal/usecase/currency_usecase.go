package usecase

import (
	"context"
	"strings"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/infrastructure/metrics"
	"github.com/thriftease/api/internal/query"
)

// CurrencyUseCase handles currency management.
type CurrencyUseCase struct {
	currencyRepo CurrencyRepository
	metrics      *metrics.Metrics
}

// NewCurrencyUseCase creates a new CurrencyUseCase.
func NewCurrencyUseCase(currencyRepo CurrencyRepository, metrics *metrics.Metrics) *CurrencyUseCase {
	return &CurrencyUseCase{currencyRepo: currencyRepo, metrics: metrics}
}

// CreateCurrencyInput represents input for creating a currency.
type CreateCurrencyInput struct {
	Abbreviation string
	Symbol       string
	Name         string
}

// Create creates a currency for userID. The abbreviation is lowercased on
// write; a duplicate (user, abbreviation) pair surfaces as
// ErrConstraintViolation.
func (uc *CurrencyUseCase) Create(ctx context.Context, userID int64, input CreateCurrencyInput) (*domain.Currency, error) {
	if err := domain.ValidateAbbreviation(input.Abbreviation); err != nil {
		return nil, err
	}
	if err := domain.ValidateSymbol(input.Symbol); err != nil {
		return nil, err
	}
	if err := domain.ValidateName(input.Name); err != nil {
		return nil, err
	}

	currency := &domain.Currency{
		UserID:       userID,
		Abbreviation: domain.NormalizeAbbreviation(input.Abbreviation),
		Symbol:       input.Symbol,
		Name:         input.Name,
	}

	if err := uc.currencyRepo.Create(ctx, currency); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CurrenciesCreated.Inc()
	}

	return currency, nil
}

// Get returns a currency owned by userID.
func (uc *CurrencyUseCase) Get(ctx context.Context, userID, id int64) (*domain.Currency, error) {
	return uc.authorize(ctx, userID, id)
}

// CurrencyFilterInput holds optional filter fields for currency listings.
type CurrencyFilterInput struct {
	ID           *int64
	Abbreviation *string
	Symbol       *string
	Name         *string
}

func (f *CurrencyFilterInput) predicates() []query.Predicate[*domain.Currency] {
	if f == nil {
		return nil
	}

	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}

	var preds []query.Predicate[*domain.Currency]

	if f.ID != nil {
		id := *f.ID
		preds = append(preds, func(c *domain.Currency) bool { return c.ID == id })
	}
	if f.Abbreviation != nil {
		abbreviation := *f.Abbreviation
		preds = append(preds, func(c *domain.Currency) bool { return contains(c.Abbreviation, abbreviation) })
	}
	if f.Symbol != nil {
		symbol := *f.Symbol
		preds = append(preds, func(c *domain.Currency) bool { return contains(c.Symbol, symbol) })
	}
	if f.Name != nil {
		name := *f.Name
		preds = append(preds, func(c *domain.Currency) bool { return contains(c.Name, name) })
	}

	return preds
}

// ListCurrenciesInput represents input for listing currencies.
type ListCurrenciesInput struct {
	Filter  *CurrencyFilterInput
	PerPage int
	Page    int
}

// List returns userID's currencies, filtered and paginated.
func (uc *CurrencyUseCase) List(ctx context.Context, userID int64, input ListCurrenciesInput) ([]*domain.Currency, query.Paginator, error) {
	currencies, err := uc.currencyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, query.Paginator{}, err
	}

	matched := query.Filter(currencies, input.Filter.predicates())
	pageItems, paginator := query.Paginate(matched, input.PerPage, input.Page)

	return pageItems, paginator, nil
}

// UpdateCurrencyInput represents a partial currency update.
type UpdateCurrencyInput struct {
	Abbreviation *string
	Symbol       *string
	Name         *string
}

// Update patches a currency owned by userID.
func (uc *CurrencyUseCase) Update(ctx context.Context, userID, id int64, input UpdateCurrencyInput) (*domain.Currency, error) {
	currency, err := uc.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Abbreviation != nil {
		if err := domain.ValidateAbbreviation(*input.Abbreviation); err != nil {
			return nil, err
		}
		currency.Abbreviation = domain.NormalizeAbbreviation(*input.Abbreviation)
	}
	if input.Symbol != nil {
		if err := domain.ValidateSymbol(*input.Symbol); err != nil {
			return nil, err
		}
		currency.Symbol = *input.Symbol
	}
	if input.Name != nil {
		if err := domain.ValidateName(*input.Name); err != nil {
			return nil, err
		}
		currency.Name = *input.Name
	}

	if err := uc.currencyRepo.Update(ctx, currency); err != nil {
		return nil, err
	}

	return currency, nil
}

// Delete removes a currency owned by userID, cascading to its accounts and
// their transactions, and returns the pre-delete snapshot.
func (uc *CurrencyUseCase) Delete(ctx context.Context, userID, id int64) (*domain.Currency, error) {
	currency, err := uc.authorize(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := uc.currencyRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	return currency, nil
}

func (uc *CurrencyUseCase) authorize(ctx context.Context, userID, id int64) (*domain.Currency, error) {
	currency, err := uc.currencyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if currency.UserID != userID {
		return nil, domain.ErrPermissionDenied
	}
	return currency, nil
}
