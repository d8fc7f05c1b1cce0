package webapi

import (
	"github.com/gofiber/fiber/v2"
	loansvc "github.com/martianbank/banking/pkg/service/loan"
)

type processLoanRequest struct {
	Name          string        `json:"name" validate:"required"`
	Email         string        `json:"email" validate:"required,email"`
	AccountType   string        `json:"account_type" validate:"required"`
	AccountNumber string        `json:"account_number" validate:"required"`
	GovtIDType    string        `json:"govt_id_type"`
	GovtIDNumber  string        `json:"govt_id_number"`
	LoanType      string        `json:"loan_type" validate:"required"`
	LoanAmount    decimalString `json:"loan_amount" validate:"required"`
	Currency      string        `json:"currency"`
	InterestRate  float64       `json:"interest_rate"`
	TimePeriod    string        `json:"time_period"`
}

type loanHistoryRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (a *API) processLoan(c *fiber.Ctx) error {
	var req processLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": "Invalid request body"})
	}
	if err := a.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": err.Error()})
	}
	amount, err := parseAmount(req.LoanAmount, req.Currency)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": "Invalid loan amount"})
	}

	res, err := a.loans.Process(c.Context(), loansvc.Command{
		Name:          req.Name,
		Email:         req.Email,
		AccountType:   req.AccountType,
		AccountNumber: req.AccountNumber,
		GovtIDType:    req.GovtIDType,
		GovtIDNumber:  req.GovtIDNumber,
		LoanType:      req.LoanType,
		Amount:        amount,
		InterestRate:  req.InterestRate,
		TimePeriod:    req.TimePeriod,
	})
	if err != nil {
		if res != nil {
			return c.Status(status(err)).JSON(res)
		}
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (a *API) loanHistory(c *fiber.Ctx) error {
	var req loanHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := a.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	loans, err := a.loans.History(c.Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(loans)
}
