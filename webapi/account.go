package webapi

import (
	"github.com/gofiber/fiber/v2"
	accountsvc "github.com/martianbank/banking/pkg/service/account"
)

type openAccountRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	AccountType  string `json:"account_type" validate:"required"`
	Address      string `json:"address"`
	GovtIDType   string `json:"govt_id_type"`
	GovtIDNumber string `json:"govt_id_number"`
}

type searchAccountsRequest struct {
	Email       string `json:"email" validate:"required,email"`
	AccountType string `json:"account_type"`
}

func (a *API) openAccount(c *fiber.Ctx) error {
	var req openAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}
	if err := a.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "message": err.Error()})
	}

	account, err := a.accounts.Open(c.Context(), accountsvc.OpenCommand{
		Name:         req.Name,
		Email:        req.Email,
		AccountType:  req.AccountType,
		Address:      req.Address,
		GovtIDType:   req.GovtIDType,
		GovtIDNumber: req.GovtIDNumber,
	})
	if err != nil {
		return c.Status(status(err)).
			JSON(fiber.Map{"success": false, "message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":        true,
		"account_number": account.AccountNumber,
	})
}

func (a *API) getAccount(c *fiber.Ctx) error {
	account, err := a.accounts.Get(c.Context(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(account)
}

func (a *API) searchAccounts(c *fiber.Ctx) error {
	var req searchAccountsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := a.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	accounts, err := a.accounts.ListByEmail(c.Context(), req.Email, req.AccountType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(accounts)
}
