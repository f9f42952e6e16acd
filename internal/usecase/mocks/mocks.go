// Package mocks provides hand-written in-memory implementations of the
// usecase interfaces for unit testing.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/thriftease/api/internal/domain"
	"github.com/thriftease/api/internal/usecase"
)

// MockTx is a no-op transaction.
type MockTx struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTx) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.RolledBack = true
	return nil
}

// MockTxManager hands out no-op transactions.
type MockTxManager struct {
	BeginFunc         func(ctx context.Context) (usecase.Tx, error)
	BeginSnapshotFunc func(ctx context.Context) (usecase.Tx, error)

	mu        sync.Mutex
	Begun     int
	Snapshots int
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Begun++
	return &MockTx{}, nil
}

func (m *MockTxManager) BeginSnapshot(ctx context.Context) (usecase.Tx, error) {
	if m.BeginSnapshotFunc != nil {
		return m.BeginSnapshotFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshots++
	return &MockTx{}, nil
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64

	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
	UpdateFunc     func(ctx context.Context, user *domain.User) error
	DeleteFunc     func(ctx context.Context, id int64) error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[int64]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrConstraintViolation
		}
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

// MockCurrencyRepository is an in-memory implementation of CurrencyRepository.
type MockCurrencyRepository struct {
	mu         sync.RWMutex
	currencies map[int64]*domain.Currency
	nextID     int64

	CreateFunc     func(ctx context.Context, currency *domain.Currency) error
	GetByIDFunc    func(ctx context.Context, id int64) (*domain.Currency, error)
	ListByUserFunc func(ctx context.Context, userID int64) ([]*domain.Currency, error)
	UpdateFunc     func(ctx context.Context, currency *domain.Currency) error
	DeleteFunc     func(ctx context.Context, id int64) error
}

func NewMockCurrencyRepository() *MockCurrencyRepository {
	return &MockCurrencyRepository{currencies: make(map[int64]*domain.Currency)}
}

func (m *MockCurrencyRepository) Create(ctx context.Context, currency *domain.Currency) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.currencies {
		if c.UserID == currency.UserID && c.Abbreviation == currency.Abbreviation {
			return domain.ErrConstraintViolation
		}
	}
	m.nextID++
	currency.ID = m.nextID
	stored := *currency
	m.currencies[currency.ID] = &stored
	return nil
}

func (m *MockCurrencyRepository) GetByID(ctx context.Context, id int64) (*domain.Currency, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.currencies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, domain.ErrCurrencyNotFound
}

func (m *MockCurrencyRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Currency, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Currency
	for _, c := range m.currencies {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockCurrencyRepository) Update(ctx context.Context, currency *domain.Currency) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, currency)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.currencies[currency.ID]; !ok {
		return domain.ErrCurrencyNotFound
	}
	stored := *currency
	m.currencies[currency.ID] = &stored
	return nil
}

func (m *MockCurrencyRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.currencies[id]; !ok {
		return domain.ErrCurrencyNotFound
	}
	delete(m.currencies, id)
	return nil
}

// MockAccountRepository is an in-memory implementation of AccountRepository.
// Owners maps account id to owning user id for GetOwner.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.Account
	Owners   map[int64]int64
	nextID   int64

	CreateFunc   func(ctx context.Context, account *domain.Account) error
	GetByIDFunc  func(ctx context.Context, id int64) (*domain.Account, error)
	GetOwnerFunc func(ctx context.Context, accountID int64) (int64, error)
	ExistsFunc   func(ctx context.Context, currencyID int64, name string) (bool, error)
	UpdateFunc   func(ctx context.Context, account *domain.Account) error
	DeleteFunc   func(ctx context.Context, id int64) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[int64]*domain.Account),
		Owners:   make(map[int64]int64),
	}
}

// Seed inserts an account with a fixed id and owner, for test setup.
func (m *MockAccountRepository) Seed(account *domain.Account, ownerUserID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *account
	m.accounts[account.ID] = &stored
	m.Owners[account.ID] = ownerUserID
	if account.ID > m.nextID {
		m.nextID = account.ID
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.CurrencyID == account.CurrencyID && a.Name == account.Name {
			return domain.ErrConstraintViolation
		}
	}
	m.nextID++
	account.ID = m.nextID
	stored := *account
	m.accounts[account.ID] = &stored
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetOwner(ctx context.Context, accountID int64) (int64, error) {
	if m.GetOwnerFunc != nil {
		return m.GetOwnerFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if owner, ok := m.Owners[accountID]; ok {
		return owner, nil
	}
	return 0, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for id, a := range m.accounts {
		if m.Owners[id] == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockAccountRepository) Exists(ctx context.Context, currencyID int64, name string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, currencyID, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.CurrencyID == currencyID && a.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	stored := *account
	m.accounts[account.ID] = &stored
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
	delete(m.Owners, id)
	return nil
}

// MockLedgerRepository is an in-memory implementation of LedgerRepository.
// AccountOwners maps account id to owning user id; Insert rejects account
// ids absent from it, and GetOwner/ListByUser resolve ownership through it.
type MockLedgerRepository struct {
	mu            sync.RWMutex
	transactions  map[int64]*domain.Transaction
	AccountOwners map[int64]int64
	nextID        int64

	InsertFunc        func(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error
	GetByIDFunc       func(ctx context.Context, tx usecase.Tx, id int64) (*domain.Transaction, error)
	GetOwnerFunc      func(ctx context.Context, transactionID int64) (int64, error)
	UpdateFunc        func(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error
	DeleteFunc        func(ctx context.Context, tx usecase.Tx, id int64) error
	ListByAccountFunc func(ctx context.Context, tx usecase.Tx, accountID int64, before *time.Time) ([]*domain.Transaction, error)
	ListByUserFunc    func(ctx context.Context, tx usecase.Tx, userID int64) ([]*domain.Transaction, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		transactions:  make(map[int64]*domain.Transaction),
		AccountOwners: make(map[int64]int64),
	}
}

// Seed inserts a transaction with a fixed id, for test setup. The account
// must already be registered in AccountOwners.
func (m *MockLedgerRepository) Seed(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *t
	m.transactions[t.ID] = &stored
	if t.ID > m.nextID {
		m.nextID = t.ID
	}
}

func (m *MockLedgerRepository) Insert(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.AccountOwners[t.AccountID]; !ok {
		return domain.ErrConstraintViolation
	}
	m.nextID++
	t.ID = m.nextID
	stored := *t
	m.transactions[t.ID] = &stored
	return nil
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, tx usecase.Tx, id int64) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockLedgerRepository) GetOwner(ctx context.Context, transactionID int64) (int64, error) {
	if m.GetOwnerFunc != nil {
		return m.GetOwnerFunc(ctx, transactionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.transactions[transactionID]
	if !ok {
		return 0, domain.ErrTransactionNotFound
	}
	return m.AccountOwners[t.AccountID], nil
}

func (m *MockLedgerRepository) Update(ctx context.Context, tx usecase.Tx, t *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[t.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	stored := *t
	m.transactions[t.ID] = &stored
	return nil
}

func (m *MockLedgerRepository) Delete(ctx context.Context, tx usecase.Tx, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MockLedgerRepository) ListByAccount(ctx context.Context, tx usecase.Tx, accountID int64, before *time.Time) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, tx, accountID, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range m.transactions {
		if t.AccountID != accountID {
			continue
		}
		if before != nil && t.DateTime.After(*before) {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	domain.SortLedger(out)
	return out, nil
}

func (m *MockLedgerRepository) ListByUser(ctx context.Context, tx usecase.Tx, userID int64) ([]*domain.Transaction, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, tx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for _, t := range m.transactions {
		if m.AccountOwners[t.AccountID] != userID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	domain.SortLedger(out)
	return out, nil
}

// MockTagRepository is an in-memory implementation of TagRepository.
type MockTagRepository struct {
	mu     sync.RWMutex
	tags   map[int64]*domain.Tag
	links  map[int64][]int64
	nextID int64

	CreateFunc    func(ctx context.Context, tx usecase.Tx, tag *domain.Tag) error
	GetByIDFunc   func(ctx context.Context, tx usecase.Tx, id int64) (*domain.Tag, error)
	GetByNameFunc func(ctx context.Context, tx usecase.Tx, userID int64, name string) (*domain.Tag, error)
	AttachFunc    func(ctx context.Context, tx usecase.Tx, transactionID, tagID int64) error
	DetachFunc    func(ctx context.Context, tx usecase.Tx, transactionID, tagID int64) error
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{
		tags:  make(map[int64]*domain.Tag),
		links: make(map[int64][]int64),
	}
}

// Seed inserts a tag with a fixed id, for test setup.
func (m *MockTagRepository) Seed(tag *domain.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *tag
	m.tags[tag.ID] = &stored
	if tag.ID > m.nextID {
		m.nextID = tag.ID
	}
}

func (m *MockTagRepository) Create(ctx context.Context, tx usecase.Tx, tag *domain.Tag) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, tag)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tags {
		if t.UserID == tag.UserID && t.Name == tag.Name {
			return domain.ErrConstraintViolation
		}
	}
	m.nextID++
	tag.ID = m.nextID
	stored := *tag
	m.tags[tag.ID] = &stored
	return nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, tx usecase.Tx, id int64) (*domain.Tag, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.tags[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, domain.ErrTagNotFound
}

func (m *MockTagRepository) GetByName(ctx context.Context, tx usecase.Tx, userID int64, name string) (*domain.Tag, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, tx, userID, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tags {
		if t.UserID == userID && t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

func (m *MockTagRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Tag
	for _, t := range m.tags {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockTagRepository) ListByTransaction(ctx context.Context, tx usecase.Tx, transactionID int64) ([]*domain.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Tag
	for _, tagID := range m.links[transactionID] {
		if t, ok := m.tags[tagID]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockTagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[tag.ID]; !ok {
		return domain.ErrTagNotFound
	}
	stored := *tag
	m.tags[tag.ID] = &stored
	return nil
}

func (m *MockTagRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return domain.ErrTagNotFound
	}
	delete(m.tags, id)
	for transactionID, tagIDs := range m.links {
		kept := tagIDs[:0]
		for _, tagID := range tagIDs {
			if tagID != id {
				kept = append(kept, tagID)
			}
		}
		m.links[transactionID] = kept
	}
	return nil
}

func (m *MockTagRepository) Attach(ctx context.Context, tx usecase.Tx, transactionID, tagID int64) error {
	if m.AttachFunc != nil {
		return m.AttachFunc(ctx, tx, transactionID, tagID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[tagID]; !ok {
		return domain.ErrConstraintViolation
	}
	for _, existing := range m.links[transactionID] {
		if existing == tagID {
			return nil
		}
	}
	m.links[transactionID] = append(m.links[transactionID], tagID)
	return nil
}

func (m *MockTagRepository) Detach(ctx context.Context, tx usecase.Tx, transactionID, tagID int64) error {
	if m.DetachFunc != nil {
		return m.DetachFunc(ctx, tx, transactionID, tagID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.links[transactionID][:0]
	for _, existing := range m.links[transactionID] {
		if existing != tagID {
			kept = append(kept, existing)
		}
	}
	m.links[transactionID] = kept
	return nil
}

// MockIdempotencyStore is an in-memory implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{entries: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[key]; ok {
		return true, existing, nil
	}
	m.entries[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = response
	return nil
}
