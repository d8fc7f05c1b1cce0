// Package transfer implements the producer side of the funds-movement saga
// for account-to-account transfers.
//
// The saga step order is fixed: validate, insert a pending transaction,
// publish the TransactionCompleted event, then mark the transaction
// completed or failed from the publish outcome. The transaction record is
// the source of truth for "was the intent durably recorded"; balances move
// later when the Balance Updater consumes the event. A failed publish leaves
// the record in a terminal failed state and is never retried here.
package transfer

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

// DefaultReason is recorded when the caller does not give one.
const DefaultReason = "Transfer"

// Service orchestrates transfers. Stateless; safe for concurrent use.
type Service struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	bus          eventbus.Publisher
	logger       *slog.Logger
	now          func() time.Time
}

// NewService creates a transfer service.
func NewService(
	accounts repository.AccountRepository,
	transactions repository.TransactionRepository,
	bus eventbus.Publisher,
	logger *slog.Logger,
) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		bus:          bus,
		logger:       logger.With("service", "transfer"),
		now:          time.Now,
	}
}

// Command addresses both parties by account number.
type Command struct {
	SenderAccount   string
	ReceiverAccount string
	Amount          money.Money
	Reason          string
}

// EmailCommand addresses both parties by email, falling back to account
// numbers for any party whose email does not resolve.
type EmailCommand struct {
	SenderEmail     string
	ReceiverEmail   string
	SenderAccount   string
	ReceiverAccount string
	Amount          money.Money
	Reason          string
}

// Result is the command output shape.
type Result struct {
	Approved      bool   `json:"approved"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
}

// Send transfers funds between two accounts addressed by account number.
//
// Business rejections (bad amount, unknown account, short balance) return a
// non-approved Result together with the matching sentinel error; nothing is
// written before validation passes. A publish failure returns
// domain.ErrPublishFailed after the transaction record is marked failed.
func (s *Service) Send(ctx context.Context, cmd Command) (*Result, error) {
	if !cmd.Amount.IsPositive() {
		return &Result{Approved: false, Message: "Invalid amount"}, domain.ErrValidation
	}

	sender, err := s.accounts.GetByNumber(ctx, cmd.SenderAccount)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &Result{Approved: false, Message: "Sender Account Not Found"}, domain.ErrSenderNotFound
	}
	if err != nil {
		return nil, err
	}
	receiver, err := s.accounts.GetByNumber(ctx, cmd.ReceiverAccount)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &Result{Approved: false, Message: "Receiver Account Not Found"}, domain.ErrReceiverNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.send(ctx, sender, receiver, cmd.Amount, cmd.Reason)
}

// SendByEmail transfers funds between two accounts addressed by email.
func (s *Service) SendByEmail(ctx context.Context, cmd EmailCommand) (*Result, error) {
	if !cmd.Amount.IsPositive() {
		return &Result{Approved: false, Message: "Invalid amount"}, domain.ErrValidation
	}

	sender, err := s.resolve(ctx, cmd.SenderEmail, cmd.SenderAccount)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &Result{Approved: false, Message: "Sender Account Not Found"}, domain.ErrSenderNotFound
	}
	if err != nil {
		return nil, err
	}
	receiver, err := s.resolve(ctx, cmd.ReceiverEmail, cmd.ReceiverAccount)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &Result{Approved: false, Message: "Receiver Account Not Found"}, domain.ErrReceiverNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.send(ctx, sender, receiver, cmd.Amount, cmd.Reason)
}

// resolve looks a party up by email first, then by account number.
func (s *Service) resolve(ctx context.Context, email, accountNumber string) (*domain.Account, error) {
	if email != "" {
		account, err := s.accounts.GetByEmail(ctx, email)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, domain.ErrAccountNotFound) || accountNumber == "" {
			return nil, err
		}
	}
	if accountNumber == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.accounts.GetByNumber(ctx, accountNumber)
}

func (s *Service) send(ctx context.Context, sender, receiver *domain.Account, amount money.Money, reason string) (*Result, error) {
	if !amount.SameCurrency(sender.Currency) {
		return &Result{Approved: false, Message: "Currency mismatch"}, domain.ErrValidation
	}
	// Balance snapshot check; the authoritative guard is the conditional
	// debit applied later by the Balance Updater.
	if sender.Balance < amount.Minor() {
		return &Result{Approved: false, Message: "Insufficient Balance"}, domain.ErrInsufficientFunds
	}
	if reason == "" {
		reason = DefaultReason
	}

	id, err := s.transactions.Create(ctx, &domain.Transaction{
		Sender:    sender.AccountNumber,
		Receiver:  receiver.AccountNumber,
		Amount:    amount.Minor(),
		Currency:  amount.Currency(),
		Reason:    reason,
		Timestamp: s.now().UTC(),
		Status:    domain.TransactionPending,
	})
	if err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}
	logger := s.logger.With("transaction_id", id,
		"sender", sender.AccountNumber, "receiver", receiver.AccountNumber)

	env, err := events.Encode(events.TransactionCompleted{
		EventID:     id,
		FromAccount: sender.AccountNumber,
		ToAccount:   receiver.AccountNumber,
		Amount:      amount,
		Reason:      reason,
	})
	if err != nil {
		return nil, s.fail(ctx, logger, id, err)
	}
	if err := s.bus.Publish(ctx, env); err != nil {
		return nil, s.fail(ctx, logger, id, err)
	}

	if err := s.transactions.MarkCompleted(ctx, id); err != nil {
		// The event is already on the bus; the record stays pending but the
		// business fact is durable. Surface in logs only.
		logger.Error("transaction published but not marked completed", "error", err)
	}
	logger.Info("transfer completed", "amount", amount.String())
	return &Result{
		Approved:      true,
		Message:       "Transaction is Successful",
		TransactionID: id,
	}, nil
}

// fail records the publish error on the transaction and wraps it.
func (s *Service) fail(ctx context.Context, logger *slog.Logger, id string, cause error) error {
	logger.Error("event publish failed", "error", cause)
	if err := s.transactions.MarkFailed(ctx, id, cause.Error()); err != nil {
		logger.Error("failed to mark transaction failed", "error", err)
	}
	return fmt.Errorf("%w: %v", domain.ErrPublishFailed, cause)
}

// Transaction returns one transfer record by id.
func (s *Service) Transaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

// History returns the transfers touching an account, newest first.
func (s *Service) History(ctx context.Context, accountNumber string) ([]*domain.Transaction, error) {
	return s.transactions.ListByAccount(ctx, accountNumber)
}
