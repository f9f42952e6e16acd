package dto

import (
	"time"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/query"
	"github.com/thriftease/api/internal/usecase"
)

// Monetary amounts are rendered as fixed two-decimal strings so clients never
// see floating point artifacts.

// UserResponse represents a user in API responses. The password hash is never
// exposed.
type UserResponse struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	MiddleName string `json:"middle_name,omitempty"`
	FamilyName string `json:"family_name"`
	Suffix     string `json:"suffix,omitempty"`
	FullName   string `json:"full_name"`
	Admin      bool   `json:"admin"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		GivenName:  u.GivenName,
		MiddleName: u.MiddleName,
		FamilyName: u.FamilyName,
		Suffix:     u.Suffix,
		FullName:   u.FullName(),
		Admin:      u.Admin,
	}
}

// AuthResponse carries a signed token and the user it identifies.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// CurrencyResponse represents a currency in API responses.
type CurrencyResponse struct {
	ID           int64  `json:"id"`
	Abbreviation string `json:"abbreviation"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
}

// CurrencyFromDomain converts a domain currency to a response.
func CurrencyFromDomain(c *domain.Currency) *CurrencyResponse {
	return &CurrencyResponse{
		ID:           c.ID,
		Abbreviation: c.Abbreviation,
		Symbol:       c.Symbol,
		Name:         c.Name,
	}
}

// CurrenciesFromDomain converts domain currencies to responses.
func CurrenciesFromDomain(currencies []*domain.Currency) []*CurrencyResponse {
	result := make([]*CurrencyResponse, len(currencies))
	for i, c := range currencies {
		result[i] = CurrencyFromDomain(c)
	}
	return result
}

// ListCurrenciesResponse is a paginated currency listing.
type ListCurrenciesResponse struct {
	Currencies []*CurrencyResponse `json:"currencies"`
	Paginator  query.Paginator     `json:"paginator"`
}

// AccountResponse represents an account in API responses. Balance fields are
// present only when the endpoint derives them.
type AccountResponse struct {
	ID            int64  `json:"id"`
	CurrencyID    int64  `json:"currency_id"`
	Name          string `json:"name"`
	Balance       string `json:"balance,omitempty"`
	FutureBalance string `json:"future_balance,omitempty"`
}

// AccountFromDomain converts a domain account to a response without balances.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:         a.ID,
		CurrencyID: a.CurrencyID,
		Name:       a.Name,
	}
}

// AccountFromView converts an account view, balances included.
func AccountFromView(v *usecase.AccountView) *AccountResponse {
	resp := AccountFromDomain(v.Account)
	resp.Balance = v.Balances.Balance.StringFixed(2)
	resp.FutureBalance = v.Balances.FutureBalance.StringFixed(2)
	return resp
}

// AccountsFromViews converts account views to responses.
func AccountsFromViews(views []*usecase.AccountView) []*AccountResponse {
	result := make([]*AccountResponse, len(views))
	for i, v := range views {
		result[i] = AccountFromView(v)
	}
	return result
}

// ListAccountsResponse is a paginated account listing.
type ListAccountsResponse struct {
	Accounts  []*AccountResponse `json:"accounts"`
	Paginator query.Paginator    `json:"paginator"`
}

// BalancesResponse holds the derived balances of an account.
type BalancesResponse struct {
	Balance       string `json:"balance"`
	FutureBalance string `json:"future_balance"`
}

// BalancesFromDomain converts derived balances to a response.
func BalancesFromDomain(b *domain.AccountBalances) *BalancesResponse {
	return &BalancesResponse{
		Balance:       b.Balance.StringFixed(2),
		FutureBalance: b.FutureBalance.StringFixed(2),
	}
}

// ExistsResponse reports whether a resource exists.
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagFromDomain converts a domain tag to a response.
func TagFromDomain(t *domain.Tag) *TagResponse {
	return &TagResponse{ID: t.ID, Name: t.Name}
}

// TagsFromDomain converts domain tags to responses.
func TagsFromDomain(tags []*domain.Tag) []*TagResponse {
	result := make([]*TagResponse, len(tags))
	for i, t := range tags {
		result[i] = TagFromDomain(t)
	}
	return result
}

// ListTagsResponse is a paginated tag listing.
type ListTagsResponse struct {
	Tags      []*TagResponse  `json:"tags"`
	Paginator query.Paginator `json:"paginator"`
}

// TransactionResponse represents a transaction in API responses, decorated
// with the balance attributes derived for it.
type TransactionResponse struct {
	ID                int64            `json:"id"`
	AccountID         int64            `json:"account_id"`
	Amount            string           `json:"amount"`
	DateTime          time.Time        `json:"datetime"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Operation         domain.Operation `json:"operation"`
	Scheduled         bool             `json:"scheduled"`
	OldAccountBalance string           `json:"old_account_balance"`
	NewAccountBalance string           `json:"new_account_balance"`
	Tags              []*TagResponse   `json:"tags"`
}

// TransactionFromView converts a transaction view to a response.
func TransactionFromView(v *usecase.TransactionView) *TransactionResponse {
	t := v.Transaction
	return &TransactionResponse{
		ID:                t.ID,
		AccountID:         t.AccountID,
		Amount:            t.Amount.StringFixed(2),
		DateTime:          t.DateTime,
		Name:              t.Name,
		Description:       t.Description,
		Operation:         v.Balances.Operation,
		Scheduled:         v.Balances.Scheduled,
		OldAccountBalance: v.Balances.OldAccountBalance.StringFixed(2),
		NewAccountBalance: v.Balances.NewAccountBalance.StringFixed(2),
		Tags:              TagsFromDomain(t.Tags),
	}
}

// TransactionsFromViews converts transaction views to responses.
func TransactionsFromViews(views []*usecase.TransactionView) []*TransactionResponse {
	result := make([]*TransactionResponse, len(views))
	for i, v := range views {
		result[i] = TransactionFromView(v)
	}
	return result
}

// ListTransactionsResponse is a paginated transaction listing.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Paginator    query.Paginator        `json:"paginator"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
