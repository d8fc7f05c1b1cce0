package transfer_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	infrabus "github.com/martianbank/banking/infra/eventbus"
	"github.com/martianbank/banking/internal/fixtures/fakes"
	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/martianbank/banking/pkg/money"
	"github.com/martianbank/banking/pkg/service/balance"
	"github.com/martianbank/banking/pkg/service/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wires the producer and consumer through the in-memory bus and checks the
// terminal state of the whole saga.
func TestTransferSagaEndToEnd(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accounts := fakes.NewAccountStore()
	transactions := fakes.NewTransactionStore()
	bus := infrabus.NewMemoryBus(logger)

	accounts.Seed(&domain.Account{
		AccountNumber: "IBAN1111222233334444",
		Email:         "sender@example.com",
		Balance:       money.MustParse("1000.00", money.USD).Minor(),
		Currency:      money.USD,
	})
	accounts.Seed(&domain.Account{
		AccountNumber: "IBAN5555666677778888",
		Email:         "receiver@example.com",
		Balance:       money.MustParse("500.00", money.USD).Minor(),
		Currency:      money.USD,
	})

	updater := balance.NewUpdater(accounts, fakes.NewProcessedStore(), logger)
	bus.Subscribe(events.SourceTransactions, updater.Handle)

	svc := transfer.NewService(accounts, transactions, bus, logger)
	res, err := svc.Send(context.Background(), transfer.Command{
		SenderAccount:   "IBAN1111222233334444",
		ReceiverAccount: "IBAN5555666677778888",
		Amount:          money.MustParse("100.50", money.USD),
		Reason:          "Test transfer",
	})
	require.NoError(t, err)
	require.True(t, res.Approved)

	// Transaction record reached its terminal state.
	tx, err := svc.Transaction(context.Background(), res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionCompleted, tx.Status)

	// Balances moved by exactly the amount.
	assert.Equal(t, money.MustParse("899.50", money.USD).Minor(),
		accounts.BalanceOf("IBAN1111222233334444"))
	assert.Equal(t, money.MustParse("600.50", money.USD).Minor(),
		accounts.BalanceOf("IBAN5555666677778888"))
}
