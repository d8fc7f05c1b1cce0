// Package loan implements the producer side of the funds-movement saga for
// loan disbursement. Same step order as transfers: validate, insert a
// pending loan, publish LoanGranted, then mark approved or failed from the
// publish outcome.
package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/martianbank/banking/pkg/eventbus"
	"github.com/martianbank/banking/pkg/money"
	"github.com/martianbank/banking/pkg/repository"
)

// Service orchestrates loan origination. Stateless; safe for concurrent use.
type Service struct {
	accounts  repository.AccountRepository
	loans     repository.LoanRepository
	bus       eventbus.Publisher
	maxAmount money.Money
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a loan service. maxAmount is the bank's maximum
// exposure threshold; loans at or above it are rejected.
func NewService(
	accounts repository.AccountRepository,
	loans repository.LoanRepository,
	bus eventbus.Publisher,
	maxAmount money.Money,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:  accounts,
		loans:     loans,
		bus:       bus,
		maxAmount: maxAmount,
		logger:    logger.With("service", "loan"),
		now:       time.Now,
	}
}

// Command carries a loan application. AccountNumber is resolved against the
// store unless a pre-resolved account is supplied via ProcessResolved.
type Command struct {
	Name          string
	Email         string
	AccountType   string
	AccountNumber string
	GovtIDType    string
	GovtIDNumber  string
	LoanType      string
	Amount        money.Money
	InterestRate  float64
	TimePeriod    string
}

// Result is the command output shape.
type Result struct {
	Approved bool   `json:"approved"`
	Message  string `json:"message"`
	LoanID   string `json:"loanId,omitempty"`
}

// Process validates the application, resolves the target account and runs
// the disbursement saga step.
func (s *Service) Process(ctx context.Context, cmd Command) (*Result, error) {
	if res, err := s.validate(cmd); err != nil {
		return res, err
	}
	account, err := s.accounts.GetByNumber(ctx, cmd.AccountNumber)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &Result{Approved: false, Message: "Account not found"}, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.disburse(ctx, cmd, account)
}

// ProcessResolved runs the saga step against an account already resolved by
// an upstream orchestration step, skipping the store lookup.
func (s *Service) ProcessResolved(ctx context.Context, cmd Command, account *domain.Account) (*Result, error) {
	if res, err := s.validate(cmd); err != nil {
		return res, err
	}
	if account == nil {
		return &Result{Approved: false, Message: "Account not found"}, domain.ErrAccountNotFound
	}
	return s.disburse(ctx, cmd, account)
}

func (s *Service) validate(cmd Command) (*Result, error) {
	if !cmd.Amount.IsPositive() {
		return &Result{Approved: false, Message: "Invalid loan amount"}, domain.ErrValidation
	}
	if cmd.Amount.Minor() >= s.maxAmount.Minor() {
		return &Result{
			Approved: false,
			Message:  fmt.Sprintf("Loan amount exceeds the maximum of %s", s.maxAmount),
		}, domain.ErrLoanLimitExceeded
	}
	return nil, nil
}

func (s *Service) disburse(ctx context.Context, cmd Command, account *domain.Account) (*Result, error) {
	id, err := s.loans.Create(ctx, &domain.Loan{
		Name:          cmd.Name,
		Email:         cmd.Email,
		AccountType:   cmd.AccountType,
		AccountNumber: account.AccountNumber,
		GovtIDType:    cmd.GovtIDType,
		GovtIDNumber:  cmd.GovtIDNumber,
		LoanType:      cmd.LoanType,
		LoanAmount:    cmd.Amount.Minor(),
		Currency:      cmd.Amount.Currency(),
		InterestRate:  cmd.InterestRate,
		TimePeriod:    cmd.TimePeriod,
		Status:        domain.LoanPending,
		Timestamp:     s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("record loan: %w", err)
	}
	logger := s.logger.With("loan_id", id, "account", account.AccountNumber)

	env, err := events.Encode(events.LoanGranted{
		EventID:       id,
		AccountNumber: account.AccountNumber,
		Amount:        cmd.Amount,
	})
	if err != nil {
		return nil, s.fail(ctx, logger, id, err)
	}
	if err := s.bus.Publish(ctx, env); err != nil {
		return nil, s.fail(ctx, logger, id, err)
	}

	if err := s.loans.MarkApproved(ctx, id); err != nil {
		logger.Error("loan granted but not marked approved", "error", err)
	}
	logger.Info("loan approved", "amount", cmd.Amount.String())
	return &Result{Approved: true, Message: "Loan Approved", LoanID: id}, nil
}

func (s *Service) fail(ctx context.Context, logger *slog.Logger, id string, cause error) error {
	logger.Error("event publish failed", "error", cause)
	if err := s.loans.MarkFailed(ctx, id, cause.Error()); err != nil {
		logger.Error("failed to mark loan failed", "error", err)
	}
	return fmt.Errorf("%w: %v", domain.ErrPublishFailed, cause)
}

// History returns the loans requested by an email.
func (s *Service) History(ctx context.Context, email string) ([]*domain.Loan, error) {
	return s.loans.ListByEmail(ctx, email)
}
