package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thriftease/api/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	GivenName  string `json:"given_name"`
	MiddleName string `json:"middle_name,omitempty"`
	FamilyName string `json:"family_name"`
	Suffix     string `json:"suffix,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Email:      r.Email,
		Password:   r.Password,
		GivenName:  r.GivenName,
		MiddleName: r.MiddleName,
		FamilyName: r.FamilyName,
		Suffix:     r.Suffix,
	}
}

// LoginRequest represents a request to authenticate.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest represents a partial update of the authenticated user.
// Absent fields are left unchanged.
type UpdateUserRequest struct {
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
	GivenName  *string `json:"given_name,omitempty"`
	MiddleName *string `json:"middle_name,omitempty"`
	FamilyName *string `json:"family_name,omitempty"`
	Suffix     *string `json:"suffix,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput() usecase.UpdateUserInput {
	return usecase.UpdateUserInput{
		Email:      r.Email,
		Password:   r.Password,
		GivenName:  r.GivenName,
		MiddleName: r.MiddleName,
		FamilyName: r.FamilyName,
		Suffix:     r.Suffix,
	}
}

// CreateCurrencyRequest represents a request to create a currency.
type CreateCurrencyRequest struct {
	Abbreviation string `json:"abbreviation"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCurrencyRequest) ToUseCaseInput() usecase.CreateCurrencyInput {
	return usecase.CreateCurrencyInput{
		Abbreviation: r.Abbreviation,
		Symbol:       r.Symbol,
		Name:         r.Name,
	}
}

// UpdateCurrencyRequest represents a partial currency update.
type UpdateCurrencyRequest struct {
	Abbreviation *string `json:"abbreviation,omitempty"`
	Symbol       *string `json:"symbol,omitempty"`
	Name         *string `json:"name,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCurrencyRequest) ToUseCaseInput() usecase.UpdateCurrencyInput {
	return usecase.UpdateCurrencyInput{
		Abbreviation: r.Abbreviation,
		Symbol:       r.Symbol,
		Name:         r.Name,
	}
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	CurrencyID int64  `json:"currency_id"`
	Name       string `json:"name"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		CurrencyID: r.CurrencyID,
		Name:       r.Name,
	}
}

// UpdateAccountRequest represents a partial account update.
type UpdateAccountRequest struct {
	CurrencyID *int64  `json:"currency_id,omitempty"`
	Name       *string `json:"name,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput() usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		CurrencyID: r.CurrencyID,
		Name:       r.Name,
	}
}

// CreateTransactionRequest represents a request to create a transaction.
// Tags holds tag names resolved or created on the fly; TagIDs holds ids of
// tags that must already exist.
type CreateTransactionRequest struct {
	AccountID   int64           `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	DateTime    *time.Time      `json:"datetime,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	TagIDs      []int64         `json:"tag_ids,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.CreateTransactionInput {
	return usecase.CreateTransactionInput{
		AccountID:   r.AccountID,
		Amount:      r.Amount,
		DateTime:    r.DateTime,
		Name:        r.Name,
		Description: r.Description,
		Tags:        r.Tags,
		TagIDs:      r.TagIDs,
	}
}

// UpdateTransactionRequest represents a partial transaction update. Tag
// removals are applied before additions.
type UpdateTransactionRequest struct {
	AccountID    *int64           `json:"account_id,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	DateTime     *time.Time       `json:"datetime,omitempty"`
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	AddTags      []string         `json:"add_tags,omitempty"`
	AddTagIDs    []int64          `json:"add_tag_ids,omitempty"`
	RemoveTags   []string         `json:"remove_tags,omitempty"`
	RemoveTagIDs []int64          `json:"remove_tag_ids,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateTransactionRequest) ToUseCaseInput() usecase.UpdateTransactionInput {
	return usecase.UpdateTransactionInput{
		AccountID:    r.AccountID,
		Amount:       r.Amount,
		DateTime:     r.DateTime,
		Name:         r.Name,
		Description:  r.Description,
		AddTags:      r.AddTags,
		AddTagIDs:    r.AddTagIDs,
		RemoveTags:   r.RemoveTags,
		RemoveTagIDs: r.RemoveTagIDs,
	}
}

// CreateTagRequest represents a request to create a tag.
type CreateTagRequest struct {
	Name string `json:"name"`
}

// UpdateTagRequest represents a tag rename.
type UpdateTagRequest struct {
	Name string `json:"name"`
}
