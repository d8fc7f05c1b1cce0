// Package repository defines the data access contracts for the three ledger
// collections. Implementations live under infra/repository; services depend
// only on these interfaces so the saga logic stays testable without a store.
package repository

import (
	"context"

	"github.com/martianbank/banking/pkg/domain"
)

// AccountRepository is the accounts collection.
//
// Balance mutations are relative increments evaluated at the store, never
// read-modify-write, so concurrent updates to the same account accumulate
// correctly.
type AccountRepository interface {
	// Create inserts a new account document.
	Create(ctx context.Context, account *domain.Account) error

	// GetByNumber returns the account with the given account number, or
	// domain.ErrAccountNotFound.
	GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// GetByEmail returns the first account owned by the given email, or
	// domain.ErrAccountNotFound.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// ListByEmail returns all accounts owned by the given email, optionally
	// narrowed to one account type.
	ListByEmail(ctx context.Context, email, accountType string) ([]*domain.Account, error)

	// ExistsByEmailAndType reports whether an account already exists for the
	// email and account type pair.
	ExistsByEmailAndType(ctx context.Context, email, accountType string) (bool, error)

	// Credit atomically increments the account balance by amount minor units.
	// Returns domain.ErrAccountNotFound if no document matched.
	Credit(ctx context.Context, accountNumber string, amount int64) error

	// DebitIfSufficient atomically decrements the balance by amount minor
	// units, matching only while the resulting balance stays non-negative.
	// Returns domain.ErrAccountNotFound if the account does not exist and
	// domain.ErrInsufficientFunds if it exists but the balance is short.
	DebitIfSufficient(ctx context.Context, accountNumber string, amount int64) error
}

// TransactionRepository is the transactions collection. Status transitions
// are one-way: pending documents move to exactly one terminal state.
type TransactionRepository interface {
	// Create inserts a pending transaction and returns its generated id,
	// the transfer's permanent handle.
	Create(ctx context.Context, tx *domain.Transaction) (string, error)

	// MarkCompleted moves a pending transaction to completed.
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed moves a pending transaction to failed with the publish
	// error text attached.
	MarkFailed(ctx context.Context, id string, cause string) error

	// GetByID returns the transaction, or domain.ErrTransactionNotFound.
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)

	// ListByAccount returns transactions where the account is sender or
	// receiver, newest first.
	ListByAccount(ctx context.Context, accountNumber string) ([]*domain.Transaction, error)
}

// LoanRepository is the loans collection.
type LoanRepository interface {
	// Create inserts a pending loan and returns its generated id.
	Create(ctx context.Context, loan *domain.Loan) (string, error)

	// MarkApproved moves a pending loan to approved.
	MarkApproved(ctx context.Context, id string) error

	// MarkFailed moves a pending loan to failed with the publish error
	// text attached.
	MarkFailed(ctx context.Context, id string, cause string) error

	// ListByEmail returns all loans requested by the given email.
	ListByEmail(ctx context.Context, email string) ([]*domain.Loan, error)
}

// ProcessedEventRepository tracks event ids the Balance Updater has applied,
// making at-least-once delivery safe.
type ProcessedEventRepository interface {
	// MarkProcessed records the event id. Returns false if the id was
	// already recorded (duplicate delivery).
	MarkProcessed(ctx context.Context, eventID string) (bool, error)

	// Unmark removes the record so a failed application can be retried on
	// redelivery. Best effort.
	Unmark(ctx context.Context, eventID string) error
}
