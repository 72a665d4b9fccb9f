package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

var paymentCols = []string{"id", "transaction_id", "amount", "method", "status", "due_date", "created_at"}

func TestPaymentPostgres_Save(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentPostgres(db)
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	p := &model.Payment{
		ID:            "pay-1",
		TransactionID: "tx-1",
		Amount:        decimal.NewFromInt(100000),
		Method:        model.MethodCreditCard,
		Status:        model.PaymentInstallment,
		CreatedAt:     created,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WithArgs("pay-1", "tx-1", p.Amount, "CREDIT_CARD", "CICILAN", nil, created).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := repo.Save(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, "pay-1", out.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentPostgres(db)
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM payments WHERE id = ?").
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-1", "tx-1", "100000", "CREDIT_CARD", "CICILAN", due, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM installments WHERE payment_id IN ($1)")).
		WithArgs("pay-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "amount", "reference", "recorded_at"}).
			AddRow("in-1", "pay-1", "40000", "CC-tx-1-abc", time.Now()))

	p, err := repo.FindByID(context.Background(), "pay-1")

	require.NoError(t, err)
	assert.Equal(t, model.MethodCreditCard, p.Method)
	require.NotNil(t, p.DueDate)
	assert.Equal(t, due, *p.DueDate)
	require.Len(t, p.Installments, 1)
	assert.True(t, decimal.NewFromInt(60000).Equal(p.Outstanding()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_FindByTransactionID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentPostgres(db)
	ctx := context.Background()
	created := time.Now()

	t.Run("returns every payment unpaged", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payments WHERE transaction_id = $1")).
			WithArgs("tx-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(regexp.QuoteMeta("FROM payments WHERE transaction_id = $1 ORDER BY created_at, id")).
			WithArgs("tx-1").
			WillReturnRows(sqlmock.NewRows(paymentCols).
				AddRow("pay-1", "tx-1", "100", "CASH", "LUNAS", nil, created).
				AddRow("pay-2", "tx-1", "100", "CREDIT_CARD", "CICILAN", nil, created))
		mock.ExpectQuery(regexp.QuoteMeta("FROM installments WHERE payment_id IN ($1,$2)")).
			WithArgs("pay-1", "pay-2").
			WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "amount", "reference", "recorded_at"}).
				AddRow("in-1", "pay-1", "100", "CASH-tx-1", created))

		list, err := repo.FindByTransactionID(ctx, "tx-1")

		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Len(t, list[0].Installments, 1)
		assert.NotNil(t, list[1].Installments)
		assert.Empty(t, list[1].Installments)
	})

	t.Run("none", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payments WHERE transaction_id = $1")).
			WithArgs("tx-9").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		list, err := repo.FindByTransactionID(ctx, "tx-9")

		require.NoError(t, err)
		assert.Empty(t, list)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_FindAll_Page(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentPostgres(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payments WHERE method = $1 AND status = $2")).
		WithArgs("E_WALLET", "LUNAS").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE method = $1 AND status = $2 ORDER BY created_at, id LIMIT 1 OFFSET 2")).
		WithArgs("E_WALLET", "LUNAS").
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow("pay-3", "tx-3", "50", "E_WALLET", "LUNAS", nil, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("FROM installments WHERE payment_id IN ($1)")).
		WithArgs("pay-3").
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "amount", "reference", "recorded_at"}))

	res, err := repo.FindAll(context.Background(),
		map[string]string{"status": "LUNAS", "method": "E_WALLET"},
		repository.PageQuery{Limit: 1, Offset: 2},
	)

	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "pay-3", res.Items[0].ID)
	assert.NotNil(t, res.Items[0].Installments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_Save_EmptyInstallments(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentPostgres(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := repo.Save(context.Background(), &model.Payment{
		ID:     "pay-1",
		Method: model.MethodCreditCard,
		Status: model.PaymentInstallment,
	})

	require.NoError(t, err)
	assert.NotNil(t, out.Installments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentPostgres_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPaymentPostgres(db)
	now := time.Now().UTC()
	p := &model.Payment{
		ID:     "pay-1",
		Amount: decimal.NewFromInt(100),
		Status: model.PaymentPaid,
		Installments: []model.Installment{
			{ID: "in-1", PaymentID: "pay-1", Amount: decimal.NewFromInt(40), Reference: "r1", RecordedAt: now},
			{ID: "in-2", PaymentID: "pay-1", Amount: decimal.NewFromInt(60), Reference: "r2", RecordedAt: now},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("LUNAS", "pay-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO installments (.+) ON CONFLICT").
		WithArgs("in-1", "pay-1", p.Installments[0].Amount, "r1", now).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO installments (.+) ON CONFLICT").
		WithArgs("in-2", "pay-1", p.Installments[1].Amount, "r2", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := repo.Update(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, out.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
