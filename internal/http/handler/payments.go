package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"retailapi/internal/model"
	"retailapi/internal/service"
)

// CreatePayment opens a payment for a transaction.
//
// @Summary Create payment
// @Tags payments
// @Accept json
// @Produce json
// @Param body body createPaymentRequest true "Payment"
// @Success 201 {object} paymentResponse
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /payments [post]
func CreatePayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createPaymentRequest
		if msg, ok := bindBody(c, &req); !ok {
			return invalidBody(c, msg)
		}
		method, ok := model.ParsePaymentMethod(req.Method)
		if !ok {
			return writeServiceError(c, fmt.Errorf("%w: %q", model.ErrUnsupportedMethod, req.Method))
		}
		p, err := svc.Create(c.UserContext(), service.CreatePaymentInput{
			TransactionID: req.TransactionID,
			Amount:        req.Amount,
			Method:        method,
			DueDate:       req.DueDate,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(newPaymentResponse(*p))
	}
}

// ListPayments filters by transaction_id, status or method.
//
// @Summary List payments
// @Tags payments
// @Produce json
// @Param transaction_id query string false "Transaction"
// @Param status query string false "Status"
// @Param method query string false "Method"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} pageResponse[paymentResponse]
// @Router /payments [get]
func ListPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters, page, err := listQuery(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := svc.List(c.UserContext(), filters, page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newPage(res, page, newPaymentResponse))
	}
}

// GetPayment
//
// @Summary Get payment
// @Tags payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} paymentResponse
// @Failure 404 {object} errorPayload
// @Router /payments/{id} [get]
func GetPayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newPaymentResponse(*p))
	}
}

// TransactionPayments lists the payments opened for one transaction.
//
// @Summary Payments of a transaction
// @Tags payments
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} listResponse[paymentResponse]
// @Failure 404 {object} errorPayload
// @Router /transactions/{id}/payments [get]
func TransactionPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		ps, err := svc.GetByTransaction(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(mapList(ps, newPaymentResponse))
	}
}

// RecordInstallment
//
// @Summary Record installment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param body body installmentRequest true "Installment"
// @Success 200 {object} paymentResponse
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /payments/{id}/installments [post]
func RecordInstallment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		var req installmentRequest
		if msg, ok := bindBody(c, &req); !ok {
			return invalidBody(c, msg)
		}
		p, err := svc.RecordInstallment(c.UserContext(), id, req.Amount)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newPaymentResponse(*p))
	}
}

// DeletePayment
//
// @Summary Delete payment
// @Tags payments
// @Param id path string true "Payment ID"
// @Success 204
// @Failure 409 {object} errorPayload
// @Router /payments/{id} [delete]
func DeletePayment(svc service.PaymentService) fiber.Handler {
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
