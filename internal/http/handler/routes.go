package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"retailapi/internal/service"
)

// Dependencies carries everything the HTTP surface needs.
// DB is nil for the in-memory store; Receipts is nil when archiving is disabled.
type Dependencies struct {
	DB            Pinger
	Transactions  service.TransactionService
	Payments      service.PaymentService
	Products      service.ProductService
	Customers     service.CustomerService
	Suppliers     service.SupplierService
	Audit         service.AuditService
	Receipts      ReceiptLinker
	ReceiptExpiry time.Duration
	Gatherer      prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", HealthCheck(deps.DB))
	app.Get("/healthz", Liveness())

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	tx := app.Group("/transactions")
	tx.Post("/", CreateTransaction(deps.Transactions))
	tx.Get("/", ListTransactions(deps.Transactions))
	tx.Get("/:id", GetTransaction(deps.Transactions))
	tx.Put("/:id", UpdateTransaction(deps.Transactions))
	tx.Delete("/:id", DeleteTransaction(deps.Transactions))
	tx.Post("/:id/complete", CompleteTransaction(deps.Transactions))
	tx.Post("/:id/cancel", CancelTransaction(deps.Transactions))
	tx.Get("/:id/receipt", TransactionReceipt(deps.Receipts, deps.ReceiptExpiry))
	tx.Get("/:id/payments", TransactionPayments(deps.Payments))

	pay := app.Group("/payments")
	pay.Post("/", CreatePayment(deps.Payments))
	pay.Get("/", ListPayments(deps.Payments))
	pay.Get("/:id", GetPayment(deps.Payments))
	pay.Delete("/:id", DeletePayment(deps.Payments))
	pay.Post("/:id/installments", RecordInstallment(deps.Payments))

	products := app.Group("/products")
	products.Post("/", CreateProduct(deps.Products))
	products.Get("/", ListProducts(deps.Products))
	products.Get("/:id", GetProduct(deps.Products))

	customers := app.Group("/customers")
	customers.Post("/", CreateCustomer(deps.Customers))
	customers.Get("/", ListCustomers(deps.Customers))
	customers.Get("/:id", GetCustomer(deps.Customers))

	suppliers := app.Group("/suppliers")
	suppliers.Post("/", CreateSupplier(deps.Suppliers))
	suppliers.Get("/", ListSuppliers(deps.Suppliers))
	suppliers.Get("/:id", GetSupplier(deps.Suppliers))
	suppliers.Get("/:id/transactions", SupplierTransactions(deps.Suppliers))

	app.Get("/audit-logs", ListAuditLogs(deps.Audit))
}
