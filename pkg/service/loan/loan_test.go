package loan

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	infrabus "github.com/martianbank/banking/infra/eventbus"
	"github.com/martianbank/banking/internal/fixtures/mocks"
	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/martianbank/banking/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	accountNumber = "IBAN1111222233334444"
	loanID        = "65a1f0c2e4b0a1b2c3d4e5f7"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func maxAmount() money.Money {
	return money.MustParse("100000", money.USD)
}

func sampleCommand(amount string) Command {
	return Command{
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		AccountType:   "Savings",
		AccountNumber: accountNumber,
		GovtIDType:    "passport",
		GovtIDNumber:  "P1234567",
		LoanType:      "personal",
		Amount:        money.MustParse(amount, money.USD),
		InterestRate:  5.5,
		TimePeriod:    "24 months",
	}
}

func account() *domain.Account {
	return &domain.Account{
		AccountNumber: accountNumber,
		Email:         "ada@example.com",
		Balance:       10000,
		Currency:      money.USD,
	}
}

func TestProcessHappyPath(t *testing.T) {
	accounts := mocks.NewAccountRepository(t)
	loans := mocks.NewLoanRepository(t)
	bus := infrabus.NewMemoryBus(discardLogger())

	accounts.On("GetByNumber", mock.Anything, accountNumber).Return(account(), nil)
	loans.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Status == domain.LoanPending &&
			l.AccountNumber == accountNumber &&
			l.LoanAmount == 1000000 &&
			l.LoanType == "personal"
	})).Return(loanID, nil)
	loans.On("MarkApproved", mock.Anything, loanID).Return(nil)

	svc := NewService(accounts, loans, bus, maxAmount(), discardLogger())
	res, err := svc.Process(context.Background(), sampleCommand("10000"))

	require.NoError(t, err)
	assert.True(t, res.Approved)
	assert.Equal(t, "Loan Approved", res.Message)
	assert.Equal(t, loanID, res.LoanID)

	published := bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.SourceLoans, published[0].Source)
	var detail map[string]any
	require.NoError(t, json.Unmarshal(published[0].Detail, &detail))
	assert.Equal(t, accountNumber, detail["accountNumber"])
	assert.Equal(t, "10000", detail["amount"])
}

func TestProcessRejectsNonPositiveAmount(t *testing.T) {
	accounts := mocks.NewAccountRepository(t)
	loans := mocks.NewLoanRepository(t)
	bus := infrabus.NewMemoryBus(discardLogger())

	svc := NewService(accounts, loans, bus, maxAmount(), discardLogger())
	res, err := svc.Process(context.Background(), sampleCommand("0"))

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.False(t, res.Approved)
	loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, bus.Published())
}

func TestProcessRejectsAmountAtOrAboveMax(t *testing.T) {
	for _, amount := range []string{"100000", "250000.01"} {
		t.Run(amount, func(t *testing.T) {
			accounts := mocks.NewAccountRepository(t)
			loans := mocks.NewLoanRepository(t)
			bus := infrabus.NewMemoryBus(discardLogger())

			svc := NewService(accounts, loans, bus, maxAmount(), discardLogger())
			res, err := svc.Process(context.Background(), sampleCommand(amount))

			// Business rejection, nothing written or published.
			require.ErrorIs(t, err, domain.ErrLoanLimitExceeded)
			assert.False(t, res.Approved)
			loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Empty(t, bus.Published())
		})
	}
}

func TestProcessAccountNotFound(t *testing.T) {
	accounts := mocks.NewAccountRepository(t)
	loans := mocks.NewLoanRepository(t)
	bus := infrabus.NewMemoryBus(discardLogger())

	accounts.On("GetByNumber", mock.Anything, accountNumber).Return(nil, domain.ErrAccountNotFound)

	svc := NewService(accounts, loans, bus, maxAmount(), discardLogger())
	res, err := svc.Process(context.Background(), sampleCommand("10000"))

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, "Account not found", res.Message)
	loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProcessPublishFailureMarksLoanFailed(t *testing.T) {
	accounts := mocks.NewAccountRepository(t)
	loans := mocks.NewLoanRepository(t)
	bus := mocks.NewPublisher(t)

	publishErr := errors.New("bus unavailable")
	accounts.On("GetByNumber", mock.Anything, accountNumber).Return(account(), nil)
	loans.On("Create", mock.Anything, mock.Anything).Return(loanID, nil)
	bus.On("Publish", mock.Anything, mock.Anything).Return(publishErr)
	loans.On("MarkFailed", mock.Anything, loanID, "bus unavailable").Return(nil)

	svc := NewService(accounts, loans, bus, maxAmount(), discardLogger())
	_, err := svc.Process(context.Background(), sampleCommand("10000"))

	require.ErrorIs(t, err, domain.ErrPublishFailed)
	loans.AssertNotCalled(t, "MarkApproved", mock.Anything, mock.Anything)
}

func TestProcessResolvedSkipsLookup(t *testing.T) {
	accounts := mocks.NewAccountRepository(t)
	loans := mocks.NewLoanRepository(t)
	bus := infrabus.NewMemoryBus(discardLogger())

	loans.On("Create", mock.Anything, mock.Anything).Return(loanID, nil)
	loans.On("MarkApproved", mock.Anything, loanID).Return(nil)

	svc := NewService(accounts, loans, bus, maxAmount(), discardLogger())
	res, err := svc.ProcessResolved(context.Background(), sampleCommand("10000"), account())

	require.NoError(t, err)
	assert.True(t, res.Approved)
	accounts.AssertNotCalled(t, "GetByNumber", mock.Anything, mock.Anything)
}

func TestProcessResolvedNilAccount(t *testing.T) {
	accounts := mocks.NewAccountRepository(t)
	loans := mocks.NewLoanRepository(t)
	bus := infrabus.NewMemoryBus(discardLogger())

	svc := NewService(accounts, loans, bus, maxAmount(), discardLogger())
	_, err := svc.ProcessResolved(context.Background(), sampleCommand("10000"), nil)

	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
