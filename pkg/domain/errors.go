package domain

import "errors"

// Common domain errors.
var (
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrSenderNotFound is returned when the transfer's sender account is unknown.
	ErrSenderNotFound = errors.New("sender account not found")
	// ErrReceiverNotFound is returned when the transfer's receiver account is unknown.
	ErrReceiverNotFound = errors.New("receiver account not found")
	// ErrInsufficientFunds is returned when a debit would overdraw the account.
	ErrInsufficientFunds = errors.New("insufficient balance")
	// ErrAccountExists is returned when opening an account that already exists.
	ErrAccountExists = errors.New("account already exists")
	// ErrLoanLimitExceeded is returned when a loan meets or exceeds the bank's
	// maximum exposure threshold. A business rejection, not a system failure.
	ErrLoanLimitExceeded = errors.New("loan amount exceeds maximum")
	// ErrTransactionNotFound is returned when no transaction matches the id.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrPublishFailed wraps event bus publish failures.
	ErrPublishFailed = errors.New("event publish failed")
)
