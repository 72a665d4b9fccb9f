package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retailapi/internal/model"
	"retailapi/internal/repository"
	"retailapi/internal/service"
	serviceMocks "retailapi/internal/service/mocks"
)

func decimalEq(want string) any {
	w := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(w) })
}

func TestCreatePayment(t *testing.T) {
	mockSvc := new(serviceMocks.MockPaymentService)
	app := fiber.New()
	app.Post("/payments", CreatePayment(mockSvc))

	txID := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreatePaymentInput) bool {
			return in.TransactionID == txID && in.Method == model.MethodBankTransfer && in.Amount.Equal(decimal.NewFromInt(100))
		})).Return(&model.Payment{
			ID:            id,
			TransactionID: txID,
			Amount:        decimal.NewFromInt(100),
			Method:        model.MethodBankTransfer,
			Status:        model.PaymentInstallment,
		}, nil).Once()

		body := `{"transaction_id":"` + txID + `","amount":"100.00","method":"bank_transfer"}`
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments", body))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result paymentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, id, result.ID)
		assert.Equal(t, "100", result.Outstanding.String())
		assert.Equal(t, model.PaymentInstallment, result.Status)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unsupported method", func(t *testing.T) {
		body := `{"transaction_id":"` + txID + `","amount":"100.00","method":"barter"}`
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments", body))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "UNSUPPORTED_METHOD", decodeError(t, resp).Error.Code)
	})

	t.Run("non positive amount", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidAmount).Once()

		body := `{"transaction_id":"` + txID + `","amount":"0","method":"CASH"}`
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments", body))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_AMOUNT", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: transaction %s", model.ErrNotFound, txID)).Once()

		body := `{"transaction_id":"` + txID + `","amount":"10","method":"CASH"}`
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments", body))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRecordInstallment(t *testing.T) {
	mockSvc := new(serviceMocks.MockPaymentService)
	app := fiber.New()
	app.Post("/payments/:id/installments", RecordInstallment(mockSvc))

	t.Run("settles payment", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("RecordInstallment", mock.Anything, id, decimalEq("25")).Return(&model.Payment{
			ID:     id,
			Amount: decimal.NewFromInt(25),
			Method: model.MethodCash,
			Status: model.PaymentPaid,
			Installments: []model.Installment{
				{ID: uuid.NewString(), PaymentID: id, Amount: decimal.NewFromInt(25)},
			},
		}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments/"+id+"/installments", `{"amount":25}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result paymentResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, model.PaymentPaid, result.Status)
		assert.Equal(t, "25", result.TotalPaid.String())
		assert.True(t, result.Outstanding.IsZero())
		mockSvc.AssertExpectations(t)
	})

	t.Run("already paid", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("RecordInstallment", mock.Anything, id, mock.Anything).Return(nil, model.ErrAlreadyPaid).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments/"+id+"/installments", `{"amount":"5"}`))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ALREADY_PAID", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments/nope/installments", `{"amount":"5"}`))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestPaymentQueries(t *testing.T) {
	mockSvc := new(serviceMocks.MockPaymentService)
	app := fiber.New()
	app.Get("/payments", ListPayments(mockSvc))
	app.Get("/payments/:id", GetPayment(mockSvc))
	app.Get("/transactions/:id/payments", TransactionPayments(mockSvc))

	t.Run("list by method", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, map[string]string{"method": "CASH"}, repository.PageQuery{Limit: repository.DefaultPageLimit, Offset: 5}).
			Return(repository.NewPageResult([]model.Payment{{ID: uuid.NewString(), Method: model.MethodCash, Status: model.PaymentInstallment}}, 6), nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/payments?method=CASH&offset=5", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result pageResponse[paymentResponse]
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 6, result.Total)
		assert.Equal(t, 5, result.Offset)
		mockSvc.AssertExpectations(t)
	})

	t.Run("get missing", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Get", mock.Anything, id).Return(nil, model.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/payments/"+id, nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("by transaction", func(t *testing.T) {
		txID := uuid.NewString()
		mockSvc.On("GetByTransaction", mock.Anything, txID).Return([]model.Payment{
			{ID: uuid.NewString(), TransactionID: txID, Method: model.MethodCash, Status: model.PaymentInstallment},
			{ID: uuid.NewString(), TransactionID: txID, Method: model.MethodEWallet, Status: model.PaymentPaid},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/transactions/"+txID+"/payments", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var result listResponse[paymentResponse]
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, 2, result.Total)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeletePayment(t *testing.T) {
	mockSvc := new(serviceMocks.MockPaymentService)
	app := fiber.New()
	app.Delete("/payments/:id", DeletePayment(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/payments/"+id, nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("paid payment", func(t *testing.T) {
		id := uuid.NewString()
		mockSvc.On("Delete", mock.Anything, id).Return(fmt.Errorf("%w: payment is paid", model.ErrInvalidState)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/payments/"+id, nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "INVALID_STATE", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}
