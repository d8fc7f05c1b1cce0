// Package balance implements the consumer side of the funds-movement saga.
//
// The updater consumes one envelope at a time and applies the balance deltas
// as relative increments at the store. Delivery is at-least-once, so every
// application is guarded by the event's idempotency key: duplicates are
// no-op successes. The sender debit is conditional on the balance staying
// non-negative, which closes the producer's stale-read overdraw race at the
// moment of mutation. A receiver credit that matches no account is reversed
// by compensating the sender debit before the error is reported.
package balance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/martianbank/banking/pkg/repository"
)

// Updater applies domain events to account balances.
// Stateless; safe for concurrent use.
type Updater struct {
	accounts  repository.AccountRepository
	processed repository.ProcessedEventRepository
	logger    *slog.Logger
}

// NewUpdater creates a balance updater.
func NewUpdater(
	accounts repository.AccountRepository,
	processed repository.ProcessedEventRepository,
	logger *slog.Logger,
) *Updater {
	return &Updater{
		accounts:  accounts,
		processed: processed,
		logger:    logger.With("service", "balance"),
	}
}

// Handle consumes one envelope. A nil return commits the delivery; an error
// leaves it uncommitted for redelivery and must reach the operator.
// Envelopes from unrecognized sources are accepted as no-ops.
func (u *Updater) Handle(ctx context.Context, env events.Envelope) error {
	ev, err := events.Decode(env)
	if err != nil {
		return fmt.Errorf("balance updater: %w", err)
	}
	switch e := ev.(type) {
	case events.TransactionCompleted:
		return u.applyTransfer(ctx, e)
	case events.LoanGranted:
		return u.applyLoan(ctx, e)
	case events.Unknown:
		u.logger.Info("ignoring event from unhandled source",
			"source", e.Source, "detail_type", e.DetailType)
		return nil
	default:
		return nil
	}
}

func (u *Updater) applyTransfer(ctx context.Context, e events.TransactionCompleted) error {
	first, err := u.claim(ctx, e.EventID)
	if err != nil {
		return err
	}
	if !first {
		u.logger.Info("duplicate delivery skipped", "event_id", e.EventID)
		return nil
	}

	amount := e.Amount.Minor()
	if err := u.accounts.DebitIfSufficient(ctx, e.FromAccount, amount); err != nil {
		u.release(ctx, e.EventID)
		return fmt.Errorf("debit sender %s: %w", e.FromAccount, err)
	}

	if err := u.accounts.Credit(ctx, e.ToAccount, amount); err != nil {
		// The sender is already debited; reverse it so the transfer is not
		// left half-applied.
		if compErr := u.accounts.Credit(ctx, e.FromAccount, amount); compErr != nil {
			return fmt.Errorf("credit receiver %s failed (%w) and compensation failed: %w",
				e.ToAccount, err, compErr)
		}
		u.release(ctx, e.EventID)
		u.logger.Error("transfer reversed after receiver credit failed",
			"event_id", e.EventID, "receiver", e.ToAccount, "error", err)
		return fmt.Errorf("credit receiver %s: %w", e.ToAccount, err)
	}

	u.logger.Info("transfer applied",
		"event_id", e.EventID, "from", e.FromAccount, "to", e.ToAccount,
		"amount", e.Amount.String())
	return nil
}

func (u *Updater) applyLoan(ctx context.Context, e events.LoanGranted) error {
	first, err := u.claim(ctx, e.EventID)
	if err != nil {
		return err
	}
	if !first {
		u.logger.Info("duplicate delivery skipped", "event_id", e.EventID)
		return nil
	}

	if err := u.accounts.Credit(ctx, e.AccountNumber, e.Amount.Minor()); err != nil {
		u.release(ctx, e.EventID)
		return fmt.Errorf("credit loan account %s: %w", e.AccountNumber, err)
	}

	u.logger.Info("loan disbursed",
		"event_id", e.EventID, "account", e.AccountNumber, "amount", e.Amount.String())
	return nil
}

// claim records the event id before any mutation. Events without an id
// predate the idempotency key and are applied without de-duplication.
func (u *Updater) claim(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		u.logger.Warn("event carries no id, applying without de-duplication")
		return true, nil
	}
	first, err := u.processed.MarkProcessed(ctx, eventID)
	if err != nil {
		return false, fmt.Errorf("claim event %s: %w", eventID, err)
	}
	return first, nil
}

// release unclaims an event whose application failed so redelivery can
// retry it. Best effort.
func (u *Updater) release(ctx context.Context, eventID string) {
	if eventID == "" {
		return
	}
	if err := u.processed.Unmark(ctx, eventID); err != nil &&
		!errors.Is(err, context.Canceled) {
		u.logger.Error("failed to release event claim", "event_id", eventID, "error", err)
	}
}
