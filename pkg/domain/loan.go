package domain

import (
	"time"

	"github.com/martianbank/banking/pkg/money"
)

// LoanStatus is the lifecycle state of a loan record.
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanFailed   LoanStatus = "failed"
)

// Loan records a disbursement request. Same lifecycle shape as Transaction:
// pending until the grant event is accepted by the bus, then approved or
// failed with the publish error attached.
type Loan struct {
	ID            string     `bson:"-" json:"id"`
	Name          string     `bson:"name" json:"name"`
	Email         string     `bson:"email" json:"email"`
	AccountType   string     `bson:"account_type" json:"account_type"`
	AccountNumber string     `bson:"account_number" json:"account_number"`
	GovtIDType    string     `bson:"govt_id_type,omitempty" json:"govt_id_type,omitempty"`
	GovtIDNumber  string     `bson:"govt_id_number,omitempty" json:"govt_id_number,omitempty"`
	LoanType      string     `bson:"loan_type" json:"loan_type"`
	LoanAmount    int64      `bson:"loan_amount" json:"loan_amount"`
	Currency      money.Code `bson:"currency" json:"currency"`
	InterestRate  float64    `bson:"interest_rate" json:"interest_rate"`
	TimePeriod    string     `bson:"time_period" json:"time_period"`
	Status        LoanStatus `bson:"status" json:"status"`
	Error         string     `bson:"error,omitempty" json:"error,omitempty"`
	Timestamp     time.Time  `bson:"timestamp" json:"timestamp"`
}

// AmountMoney returns the loan principal as a money value.
func (l *Loan) AmountMoney() money.Money {
	return money.FromMinor(l.LoanAmount, l.Currency)
}
