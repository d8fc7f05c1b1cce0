package domain

import (
	"time"

	"github.com/martianbank/banking/pkg/money"
)

// TransactionStatus is the lifecycle state of a transfer record.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction records a transfer intent between two accounts.
//
// It is inserted pending before the event is published and moved to exactly
// one terminal state afterwards; terminal records are never mutated again.
// The record answers "was the intent durably recorded", not "did the
// balances move" — balance movement is the Balance Updater's job.
type Transaction struct {
	ID        string            `bson:"-" json:"id"`
	Sender    string            `bson:"sender" json:"sender"`
	Receiver  string            `bson:"receiver" json:"receiver"`
	Amount    int64             `bson:"amount" json:"amount"`
	Currency  money.Code        `bson:"currency" json:"currency"`
	Reason    string            `bson:"reason" json:"reason"`
	Timestamp time.Time         `bson:"time_stamp" json:"time_stamp"`
	Status    TransactionStatus `bson:"status" json:"status"`
	Error     string            `bson:"error,omitempty" json:"error,omitempty"`
}

// AmountMoney returns the transfer amount as a money value.
func (t *Transaction) AmountMoney() money.Money {
	return money.FromMinor(t.Amount, t.Currency)
}
