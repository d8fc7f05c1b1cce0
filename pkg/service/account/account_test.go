package account

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/martianbank/banking/internal/fixtures/fakes"
	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen(t *testing.T) {
	store := fakes.NewAccountStore()
	svc := NewService(store, discardLogger())

	account, err := svc.Open(context.Background(), OpenCommand{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		AccountType: "Savings",
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^IBAN\d{16}$`), account.AccountNumber)
	assert.Equal(t, InitialBalance.Minor(), account.Balance)
	assert.Equal(t, money.USD, account.Currency)
	assert.False(t, account.CreatedAt.IsZero())

	stored, err := svc.Get(context.Background(), account.AccountNumber)
	require.NoError(t, err)
	assert.Equal(t, account.AccountNumber, stored.AccountNumber)
}

func TestOpenRejectsDuplicate(t *testing.T) {
	store := fakes.NewAccountStore()
	svc := NewService(store, discardLogger())

	cmd := OpenCommand{Name: "Ada", Email: "ada@example.com", AccountType: "Savings"}
	_, err := svc.Open(context.Background(), cmd)
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), cmd)
	require.ErrorIs(t, err, domain.ErrAccountExists)

	// A different account type for the same email is allowed.
	cmd.AccountType = "Checking"
	_, err = svc.Open(context.Background(), cmd)
	require.NoError(t, err)
}

func TestListByEmail(t *testing.T) {
	store := fakes.NewAccountStore()
	svc := NewService(store, discardLogger())

	for _, accountType := range []string{"Savings", "Checking"} {
		_, err := svc.Open(context.Background(), OpenCommand{
			Name: "Ada", Email: "ada@example.com", AccountType: accountType,
		})
		require.NoError(t, err)
	}

	all, err := svc.ListByEmail(context.Background(), "ada@example.com", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	savings, err := svc.ListByEmail(context.Background(), "ada@example.com", "Savings")
	require.NoError(t, err)
	require.Len(t, savings, 1)
	assert.Equal(t, "Savings", savings[0].AccountType)
}

func TestGetUnknownAccount(t *testing.T) {
	svc := NewService(fakes.NewAccountStore(), discardLogger())
	_, err := svc.Get(context.Background(), "IBAN0000000000000000")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
