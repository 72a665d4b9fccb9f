package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

type MockSupplierTransactionRepository struct {
	mock.Mock
}

var _ repository.SupplierTransactionRepository = (*MockSupplierTransactionRepository)(nil)

func (m *MockSupplierTransactionRepository) Save(ctx context.Context, st *model.SupplierTransaction) (*model.SupplierTransaction, error) {
	args := m.Called(ctx, st)
	if f, ok := args.Get(0).(func(context.Context, *model.SupplierTransaction) *model.SupplierTransaction); ok {
		return f(ctx, st), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupplierTransaction), args.Error(1)
}

func (m *MockSupplierTransactionRepository) FindBySupplierID(ctx context.Context, supplierID string) ([]model.SupplierTransaction, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SupplierTransaction), args.Error(1)
}

type MockAuditLogRepository struct {
	mock.Mock
}

var _ repository.AuditLogRepository = (*MockAuditLogRepository)(nil)

func (m *MockAuditLogRepository) Save(ctx context.Context, entry *model.AuditLog) (*model.AuditLog, error) {
	args := m.Called(ctx, entry)
	if f, ok := args.Get(0).(func(context.Context, *model.AuditLog) *model.AuditLog); ok {
		return f(ctx, entry), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) FindAll(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.AuditLog], error) {
	args := m.Called(ctx, filters, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AuditLog]), args.Error(1)
}
