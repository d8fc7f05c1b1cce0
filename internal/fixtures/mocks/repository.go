// Package mocks provides testify mocks for the repository and event bus
// contracts used by the service tests.
package mocks

import (
	"context"
	"testing"

	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/repository"
	"github.com/stretchr/testify/mock"
)

// AccountRepository is a mock repository.AccountRepository.
type AccountRepository struct {
	mock.Mock
}

// NewAccountRepository creates a mock wired to the test lifecycle.
func NewAccountRepository(t *testing.T) *AccountRepository {
	m := &AccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if v := args.Get(0); v != nil {
		return v.(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AccountRepository) ListByEmail(ctx context.Context, email, accountType string) ([]*domain.Account, error) {
	args := m.Called(ctx, email, accountType)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AccountRepository) ExistsByEmailAndType(ctx context.Context, email, accountType string) (bool, error) {
	args := m.Called(ctx, email, accountType)
	return args.Bool(0), args.Error(1)
}

func (m *AccountRepository) Credit(ctx context.Context, accountNumber string, amount int64) error {
	return m.Called(ctx, accountNumber, amount).Error(0)
}

func (m *AccountRepository) DebitIfSufficient(ctx context.Context, accountNumber string, amount int64) error {
	return m.Called(ctx, accountNumber, amount).Error(0)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

// TransactionRepository is a mock repository.TransactionRepository.
type TransactionRepository struct {
	mock.Mock
}

// NewTransactionRepository creates a mock wired to the test lifecycle.
func NewTransactionRepository(t *testing.T) *TransactionRepository {
	m := &TransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (string, error) {
	args := m.Called(ctx, tx)
	return args.String(0), args.Error(1)
}

func (m *TransactionRepository) MarkCompleted(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TransactionRepository) MarkFailed(ctx context.Context, id string, cause string) error {
	return m.Called(ctx, id, cause).Error(0)
}

func (m *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TransactionRepository) ListByAccount(ctx context.Context, accountNumber string) ([]*domain.Transaction, error) {
	args := m.Called(ctx, accountNumber)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

// LoanRepository is a mock repository.LoanRepository.
type LoanRepository struct {
	mock.Mock
}

// NewLoanRepository creates a mock wired to the test lifecycle.
func NewLoanRepository(t *testing.T) *LoanRepository {
	m := &LoanRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *LoanRepository) Create(ctx context.Context, loan *domain.Loan) (string, error) {
	args := m.Called(ctx, loan)
	return args.String(0), args.Error(1)
}

func (m *LoanRepository) MarkApproved(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *LoanRepository) MarkFailed(ctx context.Context, id string, cause string) error {
	return m.Called(ctx, id, cause).Error(0)
}

func (m *LoanRepository) ListByEmail(ctx context.Context, email string) ([]*domain.Loan, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.([]*domain.Loan), args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repository.LoanRepository = (*LoanRepository)(nil)

// ProcessedEventRepository is a mock repository.ProcessedEventRepository.
type ProcessedEventRepository struct {
	mock.Mock
}

// NewProcessedEventRepository creates a mock wired to the test lifecycle.
func NewProcessedEventRepository(t *testing.T) *ProcessedEventRepository {
	m := &ProcessedEventRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ProcessedEventRepository) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *ProcessedEventRepository) Unmark(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

var _ repository.ProcessedEventRepository = (*ProcessedEventRepository)(nil)
