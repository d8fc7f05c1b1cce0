// Package fakes provides in-memory repository implementations for
// saga-level tests that need real state behind the interfaces.
package fakes

import (
	"context"
	"fmt"
	"sync"

	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/repository"
)

// AccountStore is an in-memory repository.AccountRepository with the same
// conditional-increment semantics as the MongoDB implementation.
type AccountStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

// NewAccountStore creates an empty account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{accounts: make(map[string]*domain.Account)}
}

// Seed inserts an account directly.
func (s *AccountStore) Seed(account *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *account
	s.accounts[account.AccountNumber] = &copied
}

// BalanceOf returns the stored balance in minor units.
func (s *AccountStore) BalanceOf(accountNumber string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[accountNumber]; ok {
		return a.Balance
	}
	return 0
}

func (s *AccountStore) Create(ctx context.Context, account *domain.Account) error {
	s.Seed(account)
	return nil
}

func (s *AccountStore) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountNumber]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (s *AccountStore) ListByEmail(ctx context.Context, email, accountType string) ([]*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Account
	for _, a := range s.accounts {
		if a.Email == email && (accountType == "" || a.AccountType == accountType) {
			copied := *a
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *AccountStore) ExistsByEmailAndType(ctx context.Context, email, accountType string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email && a.AccountType == accountType {
			return true, nil
		}
	}
	return false, nil
}

func (s *AccountStore) Credit(ctx context.Context, accountNumber string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountNumber]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Balance += amount
	return nil
}

func (s *AccountStore) DebitIfSufficient(ctx context.Context, accountNumber string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountNumber]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if a.Balance < amount {
		return domain.ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}

var _ repository.AccountRepository = (*AccountStore)(nil)

// TransactionStore is an in-memory repository.TransactionRepository.
type TransactionStore struct {
	mu           sync.Mutex
	transactions map[string]*domain.Transaction
	nextID       int
}

// NewTransactionStore creates an empty transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{transactions: make(map[string]*domain.Transaction)}
}

func (s *TransactionStore) Create(ctx context.Context, tx *domain.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("tx-%06d", s.nextID)
	copied := *tx
	copied.ID = id
	s.transactions[id] = &copied
	return id, nil
}

func (s *TransactionStore) MarkCompleted(ctx context.Context, id string) error {
	return s.transition(id, domain.TransactionCompleted, "")
}

func (s *TransactionStore) MarkFailed(ctx context.Context, id string, cause string) error {
	return s.transition(id, domain.TransactionFailed, cause)
}

func (s *TransactionStore) transition(id string, status domain.TransactionStatus, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok || tx.Status != domain.TransactionPending {
		return domain.ErrTransactionNotFound
	}
	tx.Status = status
	tx.Error = cause
	return nil
}

func (s *TransactionStore) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	copied := *tx
	return &copied, nil
}

func (s *TransactionStore) ListByAccount(ctx context.Context, accountNumber string) ([]*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range s.transactions {
		if tx.Sender == accountNumber || tx.Receiver == accountNumber {
			copied := *tx
			out = append(out, &copied)
		}
	}
	return out, nil
}

var _ repository.TransactionRepository = (*TransactionStore)(nil)

// ProcessedStore is an in-memory repository.ProcessedEventRepository.
type ProcessedStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewProcessedStore creates an empty processed-event store.
func NewProcessedStore() *ProcessedStore {
	return &ProcessedStore{seen: make(map[string]bool)}
}

func (s *ProcessedStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func (s *ProcessedStore) Unmark(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, eventID)
	return nil
}

var _ repository.ProcessedEventRepository = (*ProcessedStore)(nil)
