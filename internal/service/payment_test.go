package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"retailapi/internal/event"
	"retailapi/internal/lifecycle"
	"retailapi/internal/model"
	"retailapi/internal/repository"
	repoMocks "retailapi/internal/repository/mocks"
)

func openPayment(amount int64) *model.Payment {
	return &model.Payment{
		ID:            "pay-1",
		TransactionID: "tx-1",
		Amount:        decimal.NewFromInt(amount),
		Method:        model.MethodCash,
		Status:        model.PaymentInstallment,
		Installments:  []model.Installment{},
	}
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         CreatePaymentInput
		setupMocks func(mRepo *repoMocks.MockPaymentRepository, mTx *repoMocks.MockTransactionRepository)
		wantErr    error
	}{
		{
			name: "happy path",
			in:   CreatePaymentInput{TransactionID: "tx-1", Amount: decimal.NewFromInt(1000), Method: model.MethodEWallet},
			setupMocks: func(mRepo *repoMocks.MockPaymentRepository, mTx *repoMocks.MockTransactionRepository) {
				mTx.On("FindByID", ctx, "tx-1").Return(inProgressTx("tx-1"), nil)
				mRepo.On("Save", ctx, mock.MatchedBy(func(p *model.Payment) bool {
					return p.Status == model.PaymentInstallment && p.Method == model.MethodEWallet
				})).Return(func(_ context.Context, p *model.Payment) *model.Payment { return p }, nil)
			},
		},
		{
			name: "missing transaction id",
			in:   CreatePaymentInput{Amount: decimal.NewFromInt(1000), Method: model.MethodCash},
			setupMocks: func(*repoMocks.MockPaymentRepository, *repoMocks.MockTransactionRepository) {
			},
			wantErr: model.ErrValidation,
		},
		{
			name: "unknown transaction",
			in:   CreatePaymentInput{TransactionID: "tx-1", Amount: decimal.NewFromInt(1000), Method: model.MethodCash},
			setupMocks: func(_ *repoMocks.MockPaymentRepository, mTx *repoMocks.MockTransactionRepository) {
				mTx.On("FindByID", ctx, "tx-1").Return(nil, model.ErrNotFound)
			},
			wantErr: model.ErrNotFound,
		},
		{
			name: "cancelled transaction",
			in:   CreatePaymentInput{TransactionID: "tx-1", Amount: decimal.NewFromInt(1000), Method: model.MethodCash},
			setupMocks: func(_ *repoMocks.MockPaymentRepository, mTx *repoMocks.MockTransactionRepository) {
				tx := inProgressTx("tx-1")
				tx.Status = model.StatusCancelled
				mTx.On("FindByID", ctx, "tx-1").Return(tx, nil)
			},
			wantErr: model.ErrInvalidState,
		},
		{
			name: "non-positive amount",
			in:   CreatePaymentInput{TransactionID: "tx-1", Amount: decimal.Zero, Method: model.MethodCash},
			setupMocks: func(_ *repoMocks.MockPaymentRepository, mTx *repoMocks.MockTransactionRepository) {
				mTx.On("FindByID", ctx, "tx-1").Return(inProgressTx("tx-1"), nil)
			},
			wantErr: model.ErrInvalidAmount,
		},
		{
			name: "unsupported method",
			in:   CreatePaymentInput{TransactionID: "tx-1", Amount: decimal.NewFromInt(10)},
			setupMocks: func(_ *repoMocks.MockPaymentRepository, mTx *repoMocks.MockTransactionRepository) {
				mTx.On("FindByID", ctx, "tx-1").Return(inProgressTx("tx-1"), nil)
			},
			wantErr: model.ErrUnsupportedMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockPaymentRepository)
			mTx := new(repoMocks.MockTransactionRepository)
			tt.setupMocks(mRepo, mTx)

			p, err := NewPaymentService(nil, mRepo, mTx, nil).Create(ctx, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, p.ID)
			}
			mRepo.AssertExpectations(t)
			mTx.AssertExpectations(t)
		})
	}
}

func TestPaymentService_RecordInstallment(t *testing.T) {
	ctx := context.Background()

	t.Run("settles once and notifies", func(t *testing.T) {
		stored := openPayment(1000)
		mRepo := new(repoMocks.MockPaymentRepository)
		mRepo.On("FindByID", ctx, "pay-1").Return(func() *model.Payment {
			c := stored.Clone()
			return &c
		}(), nil).Once()
		mRepo.On("Update", ctx, mock.Anything).Return(func(_ context.Context, p *model.Payment) *model.Payment {
			stored = p
			return p
		}, nil)
		events := &recordingNotifier{}
		svc := NewPaymentService(lifecycle.NewPaymentStateMachine(fixedClock), mRepo, nil, events)

		p, err := svc.RecordInstallment(ctx, "pay-1", decimal.NewFromInt(400))
		require.NoError(t, err)
		assert.Equal(t, model.PaymentInstallment, p.Status)
		assert.Empty(t, events.events)

		mRepo.On("FindByID", ctx, "pay-1").Return(stored, nil).Once()
		p, err = svc.RecordInstallment(ctx, "pay-1", decimal.NewFromInt(700))
		require.NoError(t, err)
		assert.Equal(t, model.PaymentPaid, p.Status)
		assert.True(t, decimal.NewFromInt(1100).Equal(p.TotalPaid()))

		require.Len(t, events.events, 1)
		settled, ok := events.events[0].(event.PaymentSettled)
		require.True(t, ok)
		assert.Equal(t, "pay-1", settled.Payment.ID)
	})

	t.Run("already paid", func(t *testing.T) {
		paid := openPayment(100)
		paid.Status = model.PaymentPaid
		mRepo := new(repoMocks.MockPaymentRepository)
		mRepo.On("FindByID", ctx, "pay-1").Return(paid, nil)
		events := &recordingNotifier{}

		p, err := NewPaymentService(nil, mRepo, nil, events).RecordInstallment(ctx, "pay-1", decimal.NewFromInt(1))

		assert.Nil(t, p)
		assert.ErrorIs(t, err, model.ErrAlreadyPaid)
		assert.Empty(t, events.events)
		mRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("update failure", func(t *testing.T) {
		mRepo := new(repoMocks.MockPaymentRepository)
		mRepo.On("FindByID", ctx, "pay-1").Return(openPayment(100), nil)
		mRepo.On("Update", ctx, mock.Anything).Return(nil, errors.New("db down"))
		events := &recordingNotifier{}

		_, err := NewPaymentService(nil, mRepo, nil, events).RecordInstallment(ctx, "pay-1", decimal.NewFromInt(100))

		assert.EqualError(t, err, "update payment: db down")
		assert.Empty(t, events.events)
	})
}

func TestPaymentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("open payment", func(t *testing.T) {
		mRepo := new(repoMocks.MockPaymentRepository)
		mRepo.On("FindByID", ctx, "pay-1").Return(openPayment(100), nil)
		mRepo.On("Delete", ctx, "pay-1").Return(nil)

		assert.NoError(t, NewPaymentService(nil, mRepo, nil, nil).Delete(ctx, "pay-1"))
		mRepo.AssertExpectations(t)
	})

	t.Run("paid payment is kept", func(t *testing.T) {
		paid := openPayment(100)
		paid.Status = model.PaymentPaid
		mRepo := new(repoMocks.MockPaymentRepository)
		mRepo.On("FindByID", ctx, "pay-1").Return(paid, nil)

		err := NewPaymentService(nil, mRepo, nil, nil).Delete(ctx, "pay-1")

		assert.ErrorIs(t, err, model.ErrInvalidState)
		mRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_GetByTransaction(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockPaymentRepository)
	mTx := new(repoMocks.MockTransactionRepository)
	mTx.On("FindByID", ctx, "tx-1").Return(inProgressTx("tx-1"), nil)
	mTx.On("FindByID", ctx, "tx-2").Return(nil, model.ErrNotFound)
	mRepo.On("FindByTransactionID", ctx, "tx-1").Return([]model.Payment{*openPayment(10)}, nil)
	svc := NewPaymentService(nil, mRepo, mTx, nil)

	list, err := svc.GetByTransaction(ctx, "tx-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetByTransaction(ctx, "tx-2")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPaymentService_List(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockPaymentRepository)
	mRepo.On("FindAll", ctx, map[string]string{"status": "LUNAS", "method": "E_WALLET"}, repository.PageQuery{Limit: repository.DefaultPageLimit}).
		Return(repository.NewPageResult([]model.Payment{}, 0), nil)
	svc := NewPaymentService(nil, mRepo, nil, nil)

	_, err := svc.List(ctx, map[string]string{"status": "lunas", "method": "e_wallet"}, repository.PageQuery{})
	require.NoError(t, err)

	_, err = svc.List(ctx, map[string]string{"method": "cheque"}, repository.PageQuery{})
	assert.ErrorIs(t, err, model.ErrValidation)
	mRepo.AssertExpectations(t)
}
