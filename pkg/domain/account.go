// Package domain holds the entities shared by the account, transaction and
// loan services. Each entity maps one-to-one onto a document in its own
// collection; there are no cross-collection references beyond the soft
// account_number key.
package domain

import (
	"time"

	"github.com/martianbank/banking/pkg/money"
)

// Account is the ledger's balance-carrying entity.
//
// Balance is stored in minor currency units and is only ever mutated by
// relative increment, never overwritten, so concurrent transfers touching the
// same account accumulate correctly.
type Account struct {
	AccountNumber string     `bson:"account_number" json:"account_number"`
	Name          string     `bson:"name" json:"name"`
	Email         string     `bson:"email" json:"email"`
	AccountType   string     `bson:"account_type" json:"account_type"`
	Address       string     `bson:"address,omitempty" json:"address,omitempty"`
	GovtIDType    string     `bson:"govt_id_type,omitempty" json:"govt_id_type,omitempty"`
	GovtIDNumber  string     `bson:"govt_id_number,omitempty" json:"govt_id_number,omitempty"`
	Balance       int64      `bson:"balance" json:"balance"`
	Currency      money.Code `bson:"currency" json:"currency"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
}

// BalanceMoney returns the balance as a money value in the account currency.
func (a *Account) BalanceMoney() money.Money {
	return money.FromMinor(a.Balance, a.Currency)
}
