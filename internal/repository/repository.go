package repository

import (
	"context"

	"retailapi/internal/model"
)

// Package repository contains the persistence ports consumed by the services.
// Implementations live in subpackages (postgres, memory) and contain no business logic.
//
// Lookups that miss return an error wrapping model.ErrNotFound; storage failures wrap model.ErrPersistence.
// FindAll receives filters already validated against the whitelists in filter.go and returns one page
// of matches in creation order together with the total match count.

// TransactionRepository persists sales transactions together with their line items.
type TransactionRepository interface {
	Save(ctx context.Context, tx *model.Transaction) (*model.Transaction, error)
	FindByID(ctx context.Context, id string) (*model.Transaction, error)
	FindAll(ctx context.Context, filters map[string]string, page PageQuery) (*PageResult[model.Transaction], error)
	// Update rewrites status and items of an existing transaction.
	Update(ctx context.Context, tx *model.Transaction) (*model.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// PaymentRepository persists payments together with their installments.
type PaymentRepository interface {
	Save(ctx context.Context, p *model.Payment) (*model.Payment, error)
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) ([]model.Payment, error)
	FindAll(ctx context.Context, filters map[string]string, page PageQuery) (*PageResult[model.Payment], error)
	// Update stores the payment status and appends installments not stored yet.
	Update(ctx context.Context, p *model.Payment) (*model.Payment, error)
	Delete(ctx context.Context, id string) error
}

type ProductRepository interface {
	Save(ctx context.Context, p *model.Product) (*model.Product, error)
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters map[string]string, page PageQuery) (*PageResult[model.Product], error)
	// AdjustStock adds delta (possibly negative) to the stock and returns the updated product.
	AdjustStock(ctx context.Context, id string, delta int) (*model.Product, error)
}

type CustomerRepository interface {
	Save(ctx context.Context, c *model.Customer) (*model.Customer, error)
	FindByID(ctx context.Context, id string) (*model.Customer, error)
	FindAll(ctx context.Context, filters map[string]string, page PageQuery) (*PageResult[model.Customer], error)
}

type SupplierRepository interface {
	Save(ctx context.Context, s *model.Supplier) (*model.Supplier, error)
	FindByID(ctx context.Context, id string) (*model.Supplier, error)
	FindAll(ctx context.Context, filters map[string]string, page PageQuery) (*PageResult[model.Supplier], error)
}

// SupplierTransactionRepository is written by observers only.
type SupplierTransactionRepository interface {
	Save(ctx context.Context, st *model.SupplierTransaction) (*model.SupplierTransaction, error)
	FindBySupplierID(ctx context.Context, supplierID string) ([]model.SupplierTransaction, error)
}

// AuditLogRepository is written by observers only.
type AuditLogRepository interface {
	Save(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error)
	FindAll(ctx context.Context, filters map[string]string, page PageQuery) (*PageResult[model.AuditLog], error)
}
