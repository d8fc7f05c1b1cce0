package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	infrabus "github.com/martianbank/banking/infra/eventbus"
	"github.com/martianbank/banking/internal/fixtures/fakes"
	"github.com/martianbank/banking/pkg/domain"
	"github.com/martianbank/banking/pkg/domain/events"
	"github.com/martianbank/banking/pkg/money"
	accountsvc "github.com/martianbank/banking/pkg/service/account"
	"github.com/martianbank/banking/pkg/service/balance"
	loansvc "github.com/martianbank/banking/pkg/service/loan"
	transfersvc "github.com/martianbank/banking/pkg/service/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	app      *fiber.App
	accounts *fakes.AccountStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	accounts := fakes.NewAccountStore()
	transactions := fakes.NewTransactionStore()
	bus := infrabus.NewMemoryBus(logger)

	updater := balance.NewUpdater(accounts, fakes.NewProcessedStore(), logger)
	bus.Subscribe(events.SourceTransactions, updater.Handle)
	bus.Subscribe(events.SourceLoans, updater.Handle)

	api := New(
		accountsvc.NewService(accounts, logger),
		transfersvc.NewService(accounts, transactions, bus, logger),
		loansvc.NewService(accounts, newLoanRepo(), bus, money.MustParse("100000", money.USD), logger),
		logger,
	)
	return &fixture{app: SetupApp(api), accounts: accounts}
}

// newLoanRepo returns an in-memory loan repository; loans only need
// create/transition/list here.
func newLoanRepo() *loanStore {
	return &loanStore{loans: map[string]*domain.Loan{}}
}

type loanStore struct {
	loans  map[string]*domain.Loan
	nextID int
}

func (s *loanStore) Create(ctx context.Context, loan *domain.Loan) (string, error) {
	s.nextID++
	id := fmt.Sprintf("loan-%04d", s.nextID)
	copied := *loan
	copied.ID = id
	s.loans[id] = &copied
	return id, nil
}

func (s *loanStore) MarkApproved(ctx context.Context, id string) error {
	s.loans[id].Status = domain.LoanApproved
	return nil
}

func (s *loanStore) MarkFailed(ctx context.Context, id string, cause string) error {
	s.loans[id].Status = domain.LoanFailed
	s.loans[id].Error = cause
	return nil
}

func (s *loanStore) ListByEmail(ctx context.Context, email string) ([]*domain.Loan, error) {
	var out []*domain.Loan
	for _, l := range s.loans {
		if l.Email == email {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fixture) seedAccounts() {
	f.accounts.Seed(&domain.Account{
		AccountNumber: "IBAN1111222233334444",
		Email:         "sender@example.com",
		AccountType:   "Checking",
		Balance:       money.MustParse("1000.00", money.USD).Minor(),
		Currency:      money.USD,
	})
	f.accounts.Seed(&domain.Account{
		AccountNumber: "IBAN5555666677778888",
		Email:         "receiver@example.com",
		AccountType:   "Checking",
		Balance:       money.MustParse("500.00", money.USD).Minor(),
		Currency:      money.USD,
	})
}

func (f *fixture) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSendMoneyEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seedAccounts()

	resp := f.post(t, "/transactions", fiber.Map{
		"sender_account_number":   "IBAN1111222233334444",
		"receiver_account_number": "IBAN5555666677778888",
		"amount":                  "100.50",
		"reason":                  "Test transfer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, true, body["approved"])
	assert.Equal(t, "Transaction is Successful", body["message"])
	assert.NotEmpty(t, body["transactionId"])

	assert.Equal(t, money.MustParse("899.50", money.USD).Minor(),
		f.accounts.BalanceOf("IBAN1111222233334444"))
	assert.Equal(t, money.MustParse("600.50", money.USD).Minor(),
		f.accounts.BalanceOf("IBAN5555666677778888"))
}

func TestSendMoneyRejectsBadAmount(t *testing.T) {
	f := newFixture(t)
	f.seedAccounts()

	resp := f.post(t, "/transactions", fiber.Map{
		"sender_account_number":   "IBAN1111222233334444",
		"receiver_account_number": "IBAN5555666677778888",
		"amount":                  "0",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["approved"])
	assert.Equal(t, "Invalid amount", body["message"])
}

func TestSendMoneyUnknownSender(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/transactions", fiber.Map{
		"sender_account_number":   "IBAN0000000000000000",
		"receiver_account_number": "IBAN5555666677778888",
		"amount":                  "10",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Sender Account Not Found", body["message"])
}

func TestZelleEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seedAccounts()

	resp := f.post(t, "/transactions/zelle", fiber.Map{
		"sender_email":   "sender@example.com",
		"receiver_email": "receiver@example.com",
		"amount":         "25",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["approved"])
}

func TestProcessLoanEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seedAccounts()

	resp := f.post(t, "/loans", fiber.Map{
		"name":           "Ada Lovelace",
		"email":          "sender@example.com",
		"account_type":   "Checking",
		"account_number": "IBAN1111222233334444",
		"loan_type":      "personal",
		"loan_amount":    "10000",
		"interest_rate":  5.5,
		"time_period":    "24 months",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["approved"])
	assert.Equal(t, "Loan Approved", body["message"])

	// The grant event credited the account.
	assert.Equal(t,
		money.MustParse("11000.00", money.USD).Minor(),
		f.accounts.BalanceOf("IBAN1111222233334444"))
}

func TestProcessLoanRejectsOverMax(t *testing.T) {
	f := newFixture(t)
	f.seedAccounts()

	resp := f.post(t, "/loans", fiber.Map{
		"name":           "Ada Lovelace",
		"email":          "sender@example.com",
		"account_type":   "Checking",
		"account_number": "IBAN1111222233334444",
		"loan_type":      "personal",
		"loan_amount":    "100000",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, false, body["approved"])
	// No credit happened.
	assert.Equal(t, money.MustParse("1000.00", money.USD).Minor(),
		f.accounts.BalanceOf("IBAN1111222233334444"))
}

func TestOpenAccountEndpoint(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, "/accounts", fiber.Map{
		"name":         "Ada Lovelace",
		"email":        "ada@example.com",
		"account_type": "Savings",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["account_number"])

	// Duplicate open is rejected.
	resp = f.post(t, "/accounts", fiber.Map{
		"name":         "Ada Lovelace",
		"email":        "ada@example.com",
		"account_type": "Savings",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
