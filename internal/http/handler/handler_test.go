package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retailapi/internal/http/middleware"
	"retailapi/internal/model"
	serviceMocks "retailapi/internal/service/mocks"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})

	t.Run("no database", func(t *testing.T) {
		app := fiber.New()
		app.Get("/health", HealthCheck(nil))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLiveness(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", Liveness())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", fmt.Errorf("%w: cashier id is required", model.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid amount", model.ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
		{"unsupported method", model.ErrUnsupportedMethod, http.StatusBadRequest, "UNSUPPORTED_METHOD"},
		{"not found", fmt.Errorf("%w: transaction", model.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"invalid state", model.ErrInvalidState, http.StatusConflict, "INVALID_STATE"},
		{"already paid", model.ErrAlreadyPaid, http.StatusConflict, "ALREADY_PAID"},
		{"persistence", fmt.Errorf("%w: insert: connection reset", model.ErrPersistence), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(middleware.RequestID())
			app.Get("/", func(c *fiber.Ctx) error { return writeServiceError(c, tc.err) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-1")
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.Equal(t, "req-1", body.RequestID)
		})
	}

	t.Run("persistence details are not leaked", func(t *testing.T) {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			return writeServiceError(c, fmt.Errorf("%w: secret dsn", model.ErrPersistence))
		})

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		raw, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(raw), "secret dsn")
	})
}

func TestBindBody(t *testing.T) {
	svc := new(serviceMocks.MockTransactionService)
	app := fiber.New()
	app.Post("/transactions", CreateTransaction(svc))

	cases := map[string]string{
		"malformed json":   `{"cashier_id":`,
		"missing cashier":  `{"customer_id":"c1","items":[{"product_id":"` + uuid.NewString() + `","quantity":1}]}`,
		"empty items":      `{"cashier_id":"k1","customer_id":"c1","items":[]}`,
		"zero quantity":    `{"cashier_id":"k1","customer_id":"c1","items":[{"product_id":"` + uuid.NewString() + `","quantity":0}]}`,
		"non uuid product": `{"cashier_id":"k1","customer_id":"c1","items":[{"product_id":"apple","quantity":1}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp, _ := app.Test(jsonRequest(http.MethodPost, "/transactions", body))

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "routing_test_total", Help: "test"}))

	RegisterRoutes(app, Dependencies{
		Transactions: new(serviceMocks.MockTransactionService),
		Payments:     new(serviceMocks.MockPaymentService),
		Products:     new(serviceMocks.MockProductService),
		Customers:    new(serviceMocks.MockCustomerService),
		Suppliers:    new(serviceMocks.MockSupplierService),
		Audit:        new(serviceMocks.MockAuditService),
		Gatherer:     reg,
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(raw), "routing_test_total")
	})

	t.Run("receipt archiving disabled", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/transactions/"+uuid.NewString()+"/receipt", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})
}
