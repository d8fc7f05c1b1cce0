package webapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/martianbank/banking/pkg/money"
	transfersvc "github.com/martianbank/banking/pkg/service/transfer"
)

// decimalString accepts an amount as a JSON number or string, keeping its
// exact text for lossless decimal parsing.
type decimalString string

func (d *decimalString) UnmarshalJSON(b []byte) error {
	*d = decimalString(strings.Trim(string(b), `"`))
	return nil
}

type sendMoneyRequest struct {
	SenderAccountNumber   string        `json:"sender_account_number" validate:"required"`
	ReceiverAccountNumber string        `json:"receiver_account_number" validate:"required"`
	Amount                decimalString `json:"amount" validate:"required"`
	Currency              string        `json:"currency"`
	Reason                string        `json:"reason"`
}

type zelleRequest struct {
	SenderEmail           string        `json:"sender_email" validate:"required,email"`
	ReceiverEmail         string        `json:"receiver_email" validate:"required,email"`
	SenderAccountNumber   string        `json:"sender_account_number"`
	ReceiverAccountNumber string        `json:"receiver_account_number"`
	Amount                decimalString `json:"amount" validate:"required"`
	Currency              string        `json:"currency"`
	Reason                string        `json:"reason"`
}

func parseAmount(raw decimalString, currency string) (money.Money, error) {
	code := money.DefaultCode
	if currency != "" {
		code = money.Code(currency)
	}
	return money.Parse(string(raw), code)
}

func (a *API) sendMoney(c *fiber.Ctx) error {
	var req sendMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": "Invalid request body"})
	}
	if err := a.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": err.Error()})
	}
	amount, err := parseAmount(req.Amount, req.Currency)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": "Invalid amount"})
	}

	res, err := a.transfers.Send(c.Context(), transfersvc.Command{
		SenderAccount:   req.SenderAccountNumber,
		ReceiverAccount: req.ReceiverAccountNumber,
		Amount:          amount,
		Reason:          req.Reason,
	})
	if err != nil {
		if res != nil {
			return c.Status(status(err)).JSON(res)
		}
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (a *API) sendMoneyZelle(c *fiber.Ctx) error {
	var req zelleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": "Invalid request body"})
	}
	if err := a.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": err.Error()})
	}
	amount, err := parseAmount(req.Amount, req.Currency)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"approved": false, "message": "Invalid amount"})
	}

	reason := req.Reason
	if reason == "" {
		reason = "Zelle Transfer"
	}
	res, err := a.transfers.SendByEmail(c.Context(), transfersvc.EmailCommand{
		SenderEmail:     req.SenderEmail,
		ReceiverEmail:   req.ReceiverEmail,
		SenderAccount:   req.SenderAccountNumber,
		ReceiverAccount: req.ReceiverAccountNumber,
		Amount:          amount,
		Reason:          reason,
	})
	if err != nil {
		if res != nil {
			return c.Status(status(err)).JSON(res)
		}
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (a *API) getTransaction(c *fiber.Ctx) error {
	tx, err := a.transfers.Transaction(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

func (a *API) transactionHistory(c *fiber.Ctx) error {
	txs, err := a.transfers.History(c.Context(), c.Params("number"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(txs)
}
