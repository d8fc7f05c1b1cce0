// Package account provides account opening and the read-only account
// projections. The Balance Updater is the only writer of balances after
// creation; this service never mutates a balance.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/money"
	"github.com/martianbank/banking/pkg/repository"
)

// InitialBalance is credited to every newly opened account.
var InitialBalance = money.MustParse("100", money.USD)

// Service provides account opening and lookups.
type Service struct {
	accounts repository.AccountRepository
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an account service.
func NewService(accounts repository.AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accounts: accounts,
		logger:   logger.With("service", "account"),
		now:      time.Now,
	}
}

// OpenCommand carries an account-opening request.
type OpenCommand struct {
	Name         string
	Email        string
	AccountType  string
	Address      string
	GovtIDType   string
	GovtIDNumber string
}

// Open creates a new account with a generated account number and the
// initial balance. One account per email and account-type pair.
func (s *Service) Open(ctx context.Context, cmd OpenCommand) (*domain.Account, error) {
	exists, err := s.accounts.ExistsByEmailAndType(ctx, cmd.Email, cmd.AccountType)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return nil, domain.ErrAccountExists
	}

	account := &domain.Account{
		AccountNumber: generateAccountNumber(),
		Name:          cmd.Name,
		Email:         cmd.Email,
		AccountType:   cmd.AccountType,
		Address:       cmd.Address,
		GovtIDType:    cmd.GovtIDType,
		GovtIDNumber:  cmd.GovtIDNumber,
		Balance:       InitialBalance.Minor(),
		Currency:      InitialBalance.Currency(),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.logger.Info("account opened",
		"account_number", account.AccountNumber, "account_type", account.AccountType)
	return account, nil
}

// Get returns one account by account number.
func (s *Service) Get(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.accounts.GetByNumber(ctx, accountNumber)
}

// ListByEmail returns the accounts owned by an email, optionally narrowed
// to one account type.
func (s *Service) ListByEmail(ctx context.Context, email, accountType string) ([]*domain.Account, error) {
	return s.accounts.ListByEmail(ctx, email, accountType)
}

// generateAccountNumber returns an IBAN-prefixed 16-digit account number.
func generateAccountNumber() string {
	const span = 9999999999999999 - 1000000000000000
	return fmt.Sprintf("IBAN%d", 1000000000000000+rand.Int64N(span+1))
}
