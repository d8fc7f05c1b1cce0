// Package webapi is the thin HTTP surface over the services. Handlers parse
// requests, call one service operation and format the response; no business
// rules live here.
package webapi

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/martianbank/banking/pkg/domain"
	accountsvc "github.com/martianbank/banking/pkg/service/account"
	loansvc "github.com/martianbank/banking/pkg/service/loan"
	transfersvc "github.com/martianbank/banking/pkg/service/transfer"
)

// API bundles the handler dependencies.
type API struct {
	accounts  *accountsvc.Service
	transfers *transfersvc.Service
	loans     *loansvc.Service
	validate  *validator.Validate
	logger    *slog.Logger
}

// New creates the API over the three services.
func New(
	accounts *accountsvc.Service,
	transfers *transfersvc.Service,
	loans *loansvc.Service,
	logger *slog.Logger,
) *API {
	return &API{
		accounts:  accounts,
		transfers: transfers,
		loans:     loans,
		validate:  validator.New(),
		logger:    logger.With("component", "webapi"),
	}
}

// SetupApp builds the Fiber app with all routes registered.
func SetupApp(api *API) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())
	api.Register(app)
	return app
}

// Register attaches all routes.
func (a *API) Register(app *fiber.App) {
	app.Post("/accounts", a.openAccount)
	app.Get("/accounts/:number", a.getAccount)
	app.Post("/accounts/search", a.searchAccounts)
	app.Get("/accounts/:number/transactions", a.transactionHistory)

	app.Post("/transactions", a.sendMoney)
	app.Post("/transactions/zelle", a.sendMoneyZelle)
	app.Get("/transactions/:id", a.getTransaction)

	app.Post("/loans", a.processLoan)
	app.Post("/loans/history", a.loanHistory)
}

// status maps domain errors to HTTP statuses.
func status(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrLoanLimitExceeded),
		errors.Is(err, domain.ErrAccountExists):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrSenderNotFound),
		errors.Is(err, domain.ErrReceiverNotFound),
		errors.Is(err, domain.ErrTransactionNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError renders a failed command with the mapped status.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(status(err)).JSON(fiber.Map{"error": err.Error()})
}
