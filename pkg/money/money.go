// Package money provides the monetary value object used across the ledger.
//
// Invariants:
//   - Amount is always stored in the smallest currency unit (e.g., cents for USD).
//   - Currency code must be a 3-letter uppercase ISO 4217 code.
//   - All comparisons require matching currencies.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned when an amount cannot be represented
	// exactly in the currency's smallest unit.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned when a currency code is not valid.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrCurrencyMismatch is returned when comparing money of different currencies.
	ErrCurrencyMismatch = errors.New("mismatched currencies")
)

// Code is a 3-letter ISO 4217 currency code (e.g., "USD").
type Code string

// Common currency codes.
const (
	USD Code = "USD"
	EUR Code = "EUR"
	GBP Code = "GBP"
	JPY Code = "JPY"
)

// IsValid reports whether the code is three uppercase ASCII letters.
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

func (c Code) String() string { return string(c) }

// Decimals returns the number of decimal places for the currency.
func (c Code) Decimals() int32 {
	if c == JPY {
		return 0
	}
	return 2
}

// DefaultCode is the currency used when a request does not specify one.
const DefaultCode = USD

// Money is a monetary value in a specific currency, stored in minor units.
type Money struct {
	amount   int64
	currency Code
}

// New creates Money from a decimal amount, rejecting values that do not fit
// the currency's smallest unit (e.g., USD 1.005).
func New(amount decimal.Decimal, code Code) (Money, error) {
	if !code.IsValid() {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	minor := amount.Shift(code.Decimals())
	if !minor.IsInteger() {
		return Money{}, fmt.Errorf("%w: %s has more than %d decimal places",
			ErrInvalidAmount, amount, code.Decimals())
	}
	if !minor.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, amount)
	}
	return Money{amount: minor.IntPart(), currency: code}, nil
}

// Parse creates Money from a decimal string such as "100.50".
func Parse(s string, code Code) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return New(d, code)
}

// MustParse is Parse that panics on error. For tests and constants only.
func MustParse(s string, code Code) Money {
	m, err := Parse(s, code)
	if err != nil {
		panic(err)
	}
	return m
}

// FromMinor creates Money from an amount already in minor units.
func FromMinor(minor int64, code Code) Money {
	return Money{amount: minor, currency: code}
}

// Minor returns the amount in the currency's smallest unit.
func (m Money) Minor() int64 { return m.amount }

// Currency returns the currency code.
func (m Money) Currency() Code { return m.currency }

// Decimal returns the amount in major units as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -m.currency.Decimals())
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.amount > 0 }

// Negate returns the money with the sign of the amount flipped.
func (m Money) Negate() Money {
	return Money{amount: -m.amount, currency: m.currency}
}

// SameCurrency reports whether the code matches this money's currency.
func (m Money) SameCurrency(code Code) bool { return m.currency == code }

// String renders the amount with the currency's decimal places, e.g. "100.50 USD".
func (m Money) String() string {
	return m.Decimal().StringFixed(m.currency.Decimals()) + " " + string(m.currency)
}
