package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retailapi/internal/event"
	"retailapi/internal/model"
	"retailapi/internal/repository"
	repoMocks "retailapi/internal/repository/mocks"
)

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		in      CreateProductInput
		wantErr error
	}{
		{name: "happy path", in: CreateProductInput{Name: " Rice ", Price: decimal.NewFromInt(10000), Stock: 5}},
		{name: "empty name", in: CreateProductInput{Name: "  ", Price: decimal.NewFromInt(1)}, wantErr: model.ErrValidation},
		{name: "negative price", in: CreateProductInput{Name: "Rice", Price: decimal.NewFromInt(-1)}, wantErr: model.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockProductRepository)
			if tt.wantErr == nil {
				mRepo.On("Save", ctx, mock.MatchedBy(func(p *model.Product) bool {
					return p.Name == "Rice" && p.ID != ""
				})).Return(func(_ context.Context, p *model.Product) *model.Product { return p }, nil)
			}

			p, err := NewProductService(mRepo).Create(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				mRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 5, p.Stock)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_List_RejectsUnknownFilter(t *testing.T) {
	_, err := NewProductService(new(repoMocks.MockProductRepository)).List(context.Background(), map[string]string{"price": "1"}, repository.PageQuery{})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCustomerService(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockCustomerRepository)
	mRepo.On("Save", ctx, mock.Anything).Return(func(_ context.Context, c *model.Customer) *model.Customer { return c }, nil)
	mRepo.On("FindAll", ctx, map[string]string{"phone": "0812"}, repository.PageQuery{Limit: 20}).
		Return(repository.NewPageResult([]model.Customer{{ID: "c-1"}}, 1), nil)
	svc := NewCustomerService(mRepo)

	c, err := svc.Create(ctx, CreateCustomerInput{Name: "Ani", Phone: " 0812 ", Email: "ani@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "0812", c.Phone)

	_, err = svc.Create(ctx, CreateCustomerInput{})
	assert.ErrorIs(t, err, model.ErrValidation)

	res, err := svc.List(ctx, map[string]string{"phone": "0812", "email": ""}, repository.PageQuery{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}

func TestSupplierService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies supplier saved", func(t *testing.T) {
		mRepo := new(repoMocks.MockSupplierRepository)
		mProducts := new(repoMocks.MockProductRepository)
		mProducts.On("FindByID", ctx, "p-1").Return(&model.Product{ID: "p-1"}, nil)
		mRepo.On("Save", ctx, mock.Anything).Return(func(_ context.Context, s *model.Supplier) *model.Supplier { return s }, nil)
		events := &recordingNotifier{}

		s, err := NewSupplierService(mRepo, mProducts, nil, events).Create(ctx, CreateSupplierInput{
			Name: "PT Maju", ProductID: "p-1", Quantity: 20,
		})

		require.NoError(t, err)
		require.Len(t, events.events, 1)
		saved, ok := events.events[0].(event.SupplierSaved)
		require.True(t, ok)
		assert.Equal(t, s.ID, saved.Supplier.ID)
		assert.Equal(t, uint(20), saved.Supplier.Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		mProducts := new(repoMocks.MockProductRepository)
		mProducts.On("FindByID", ctx, "ghost").Return(nil, model.ErrNotFound)
		events := &recordingNotifier{}

		_, err := NewSupplierService(new(repoMocks.MockSupplierRepository), mProducts, nil, events).Create(ctx, CreateSupplierInput{
			Name: "PT Maju", ProductID: "ghost", Quantity: 1,
		})

		assert.ErrorIs(t, err, model.ErrValidation)
		assert.Empty(t, events.events)
	})
}

func TestSupplierService_Transactions(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockSupplierRepository)
	mLogs := new(repoMocks.MockSupplierTransactionRepository)
	mRepo.On("FindByID", ctx, "s-1").Return(&model.Supplier{ID: "s-1"}, nil)
	mRepo.On("FindByID", ctx, "s-2").Return(nil, model.ErrNotFound)
	mLogs.On("FindBySupplierID", ctx, "s-1").Return([]model.SupplierTransaction{{ID: "st-1"}}, nil)
	svc := NewSupplierService(mRepo, nil, mLogs, nil)

	list, err := svc.Transactions(ctx, "s-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Transactions(ctx, "s-2")
	assert.ErrorIs(t, err, model.ErrNotFound)
	mLogs.AssertNumberOfCalls(t, "FindBySupplierID", 1)
}

func TestAuditService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockAuditLogRepository)
	mRepo.On("FindAll", ctx, map[string]string{"entity": "payment"}, repository.PageQuery{Limit: repository.DefaultPageLimit}).
		Return(repository.NewPageResult([]model.AuditLog{{ID: "a-1"}}, 1), nil)

	res, err := NewAuditService(mRepo).List(ctx, map[string]string{"Entity": "payment"}, repository.PageQuery{})

	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Total)
}
