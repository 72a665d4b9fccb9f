package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"retailapi/internal/model"
	"retailapi/internal/service"
)

// ReceiptLinker presigns download links for archived receipts.
type ReceiptLinker interface {
	ReceiptURL(ctx context.Context, transactionID string, expiry time.Duration) (string, error)
}

// CreateTransaction opens a new in-progress transaction.
//
// @Summary Create transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body createTransactionRequest true "Transaction"
// @Success 201 {object} transactionResponse
// @Failure 400 {object} errorPayload
// @Router /transactions [post]
func CreateTransaction(svc service.TransactionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createTransactionRequest
		if msg, ok := bindBody(c, &req); !ok {
			return invalidBody(c, msg)
		}
		tx, err := svc.Create(c.UserContext(), req.CashierID, req.CustomerID, toLineItems(req.Items))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newTransactionResponse(*tx))
	}
}

// ListTransactions filters by cashier_id, customer_id or status.
//
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Param cashier_id query string false "Cashier"
// @Param customer_id query string false "Customer"
// @Param status query string false "Status"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} pageResponse[transactionResponse]
// @Failure 400 {object} errorPayload
// @Router /transactions [get]
func ListTransactions(svc service.TransactionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters, page, err := listQuery(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.List(c.UserContext(), filters, page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newPage(res, page, newTransactionResponse))
	}
}

// GetTransaction
//
// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} transactionResponse
// @Failure 404 {object} errorPayload
// @Router /transactions/{id} [get]
func GetTransaction(svc service.TransactionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		tx, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newTransactionResponse(*tx))
	}
}

// UpdateTransaction replaces the items of an in-progress transaction.
//
// @Summary Update transaction items
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param body body updateTransactionRequest true "Items"
// @Success 200 {object} transactionResponse
// @Failure 409 {object} errorPayload
// @Router /transactions/{id} [put]
func UpdateTransaction(svc service.TransactionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		var req updateTransactionRequest
		if msg, ok := bindBody(c, &req); !ok {
			return invalidBody(c, msg)
		}
		tx, err := svc.Update(c.UserContext(), id, toLineItems(req.Items))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newTransactionResponse(*tx))
	}
}

// CompleteTransaction
//
// @Summary Complete transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} transactionResponse
// @Failure 409 {object} errorPayload
// @Router /transactions/{id}/complete [post]
func CompleteTransaction(svc service.TransactionService) fiber.Handler {
	return transitionHandler(svc.Complete)
}

// CancelTransaction
//
// @Summary Cancel transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} transactionResponse
// @Failure 409 {object} errorPayload
// @Router /transactions/{id}/cancel [post]
func CancelTransaction(svc service.TransactionService) fiber.Handler {
	return transitionHandler(svc.Cancel)
}

func transitionHandler(apply func(ctx context.Context, id string) (*model.Transaction, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		tx, err := apply(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newTransactionResponse(*tx))
	}
}

// DeleteTransaction
//
// @Summary Delete transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 409 {object} errorPayload
// @Router /transactions/{id} [delete]
func DeleteTransaction(svc service.TransactionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// TransactionReceipt redirects to a presigned receipt download. A nil linker means archiving is disabled.
//
// @Summary Download receipt
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Success 302
// @Failure 404 {object} errorPayload
// @Router /transactions/{id}/receipt [get]
func TransactionReceipt(receipts ReceiptLinker, expiry time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		if receipts == nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "receipt archiving is disabled")
		}
		url, err := receipts.ReceiptURL(c.UserContext(), id, expiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}
