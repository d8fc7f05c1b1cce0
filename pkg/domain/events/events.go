// Package events defines the domain events exchanged over the bus and the
// codec between them and the bus envelope format.
//
// The envelope is {source, detail_type, detail} with a fixed source string
// per event kind. Amounts travel as decimal strings so the wire encoding is
// never floating-point-lossy. Every event carries the hex id of its backing
// record as an idempotency key; the Balance Updater uses it to reject
// duplicate deliveries.
package events

import (
	"encoding/json"
	"fmt"

	"github.com/martianbank/banking/pkg/money"
)

// Fixed envelope constants, one pair per event kind.
const (
	SourceTransactions = "martian-bank.transactions"
	SourceLoans        = "martian-bank.loans"

	TypeTransactionCompleted = "transaction.completed"
	TypeLoanGranted          = "loan.granted"
)

// Envelope is the bus wire format.
type Envelope struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detail_type"`
	Detail     json.RawMessage `json:"detail"`
}

// Event is the closed set of domain events the consumer understands.
// Unknown envelopes decode to Unknown so unrecognized sources never fail
// the consumer.
type Event interface {
	isEvent()
}

// TransactionCompleted is published once a transfer intent is durably
// recorded and describes the balance deltas to apply.
type TransactionCompleted struct {
	EventID     string
	FromAccount string
	ToAccount   string
	Amount      money.Money
	Reason      string
}

// LoanGranted is published once a loan is approved for disbursement.
type LoanGranted struct {
	EventID       string
	AccountNumber string
	Amount        money.Money
}

// Unknown is the ignore arm for envelopes from sources this consumer does
// not handle.
type Unknown struct {
	Source     string
	DetailType string
}

func (TransactionCompleted) isEvent() {}
func (LoanGranted) isEvent()          {}
func (Unknown) isEvent()              {}

type transactionDetail struct {
	EventID     string `json:"eventId"`
	FromAccount string `json:"fromAccount"`
	ToAccount   string `json:"toAccount"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Reason      string `json:"reason"`
}

type loanDetail struct {
	EventID       string `json:"eventId"`
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// Encode renders a domain event into its bus envelope.
func Encode(ev Event) (Envelope, error) {
	switch e := ev.(type) {
	case TransactionCompleted:
		detail, err := json.Marshal(transactionDetail{
			EventID:     e.EventID,
			FromAccount: e.FromAccount,
			ToAccount:   e.ToAccount,
			Amount:      e.Amount.Decimal().String(),
			Currency:    e.Amount.Currency().String(),
			Reason:      e.Reason,
		})
		if err != nil {
			return Envelope{}, err
		}
		return Envelope{
			Source:     SourceTransactions,
			DetailType: TypeTransactionCompleted,
			Detail:     detail,
		}, nil
	case LoanGranted:
		detail, err := json.Marshal(loanDetail{
			EventID:       e.EventID,
			AccountNumber: e.AccountNumber,
			Amount:        e.Amount.Decimal().String(),
			Currency:      e.Amount.Currency().String(),
		})
		if err != nil {
			return Envelope{}, err
		}
		return Envelope{
			Source:     SourceLoans,
			DetailType: TypeLoanGranted,
			Detail:     detail,
		}, nil
	default:
		return Envelope{}, fmt.Errorf("encode: unsupported event %T", ev)
	}
}

// Decode dispatches an envelope on its source into a domain event.
// Envelopes from unrecognized sources decode to Unknown with a nil error.
func Decode(env Envelope) (Event, error) {
	switch env.Source {
	case SourceTransactions:
		var d transactionDetail
		if err := json.Unmarshal(env.Detail, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Source, err)
		}
		amount, err := money.Parse(d.Amount, currencyOrDefault(d.Currency))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Source, err)
		}
		return TransactionCompleted{
			EventID:     d.EventID,
			FromAccount: d.FromAccount,
			ToAccount:   d.ToAccount,
			Amount:      amount,
			Reason:      d.Reason,
		}, nil
	case SourceLoans:
		var d loanDetail
		if err := json.Unmarshal(env.Detail, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Source, err)
		}
		amount, err := money.Parse(d.Amount, currencyOrDefault(d.Currency))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", env.Source, err)
		}
		return LoanGranted{
			EventID:       d.EventID,
			AccountNumber: d.AccountNumber,
			Amount:        amount,
		}, nil
	default:
		return Unknown{Source: env.Source, DetailType: env.DetailType}, nil
	}
}

func currencyOrDefault(code string) money.Code {
	if code == "" {
		return money.DefaultCode
	}
	return money.Code(code)
}
