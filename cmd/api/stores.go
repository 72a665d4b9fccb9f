package main

import (
	"database/sql"

	"retailapi/internal/repository"
	"retailapi/internal/repository/memory"
	"retailapi/internal/repository/postgres"
)

type repositories struct {
	transactions repository.TransactionRepository
	payments     repository.PaymentRepository
	products     repository.ProductRepository
	customers    repository.CustomerRepository
	suppliers    repository.SupplierRepository
	supplierLogs repository.SupplierTransactionRepository
	auditLogs    repository.AuditLogRepository
}

func memoryRepositories() repositories {
	s := memory.NewStore()
	return repositories{
		transactions: memory.NewTransactionRepository(s),
		payments:     memory.NewPaymentRepository(s),
		products:     memory.NewProductRepository(s),
		customers:    memory.NewCustomerRepository(s),
		suppliers:    memory.NewSupplierRepository(s),
		supplierLogs: memory.NewSupplierTransactionRepository(s),
		auditLogs:    memory.NewAuditLogRepository(s),
	}
}

func postgresRepositories(db *sql.DB) repositories {
	return repositories{
		transactions: postgres.NewTransactionPostgres(db),
		payments:     postgres.NewPaymentPostgres(db),
		products:     postgres.NewProductPostgres(db),
		customers:    postgres.NewCustomerPostgres(db),
		suppliers:    postgres.NewSupplierPostgres(db),
		supplierLogs: postgres.NewSupplierTransactionPostgres(db),
		auditLogs:    postgres.NewAuditLogPostgres(db),
	}
}
