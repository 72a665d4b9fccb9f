package postgres

import (
	"context"
	"database/sql"
	"errors"
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

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func sampleTransaction() *model.Transaction {
	return &model.Transaction{
		ID:         "tx-1",
		CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		CashierID:  "cashier-1",
		CustomerID: "customer-1",
		Status:     model.StatusInProgress,
		Items: []model.LineItem{
			{ProductID: "p-1", ProductName: "Rice", Quantity: 2, UnitPrice: decimal.NewFromInt(10000)},
			{ProductID: "p-2", ProductName: "Salt", Quantity: 1, UnitPrice: decimal.NewFromInt(5000)},
		},
	}
}

func TestTransactionPostgres_Save(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)
	tx := sampleTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(tx.ID, tx.CreatedAt, tx.CashierID, tx.CustomerID, tx.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transaction_items").
		WithArgs(tx.ID, 0, "p-1", "Rice", uint(2), tx.Items[0].UnitPrice).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transaction_items").
		WithArgs(tx.ID, 1, "p-2", "Salt", uint(1), tx.Items[1].UnitPrice).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	out, err := repo.Save(context.Background(), tx)

	require.NoError(t, err)
	assert.Equal(t, tx.ID, out.ID)
	assert.Len(t, out.Items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionPostgres_Save_RollsBackOnItemFailure(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)
	tx := sampleTransaction()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transaction_items").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	out, err := repo.Save(context.Background(), tx)

	assert.Nil(t, out)
	assert.ErrorIs(t, err, model.ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionPostgres_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id = ?").
			WithArgs("tx-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "cashier_id", "customer_id", "status"}).
				AddRow("tx-1", created, "cashier-1", "customer-1", "SELESAI"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM transaction_items WHERE transaction_id IN ($1)")).
			WithArgs("tx-1").
			WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "product_id", "product_name", "quantity", "unit_price"}).
				AddRow("tx-1", "p-1", "Rice", int64(2), "10000").
				AddRow("tx-1", "p-2", "Salt", int64(1), "5000"))

		tx, err := repo.FindByID(ctx, "tx-1")

		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, tx.Status)
		require.Len(t, tx.Items, 2)
		assert.Equal(t, uint(2), tx.Items[0].Quantity)
		assert.True(t, decimal.NewFromInt(25000).Equal(tx.Total()))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM transactions WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		tx, err := repo.FindByID(ctx, "missing")

		assert.Nil(t, tx)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionPostgres_FindAll(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)
	ctx := context.Background()

	t.Run("filtered page", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT COUNT(*) FROM transactions WHERE cashier_id = $1 AND status = $2",
		)).
			WithArgs("cashier-1", "MASIHDIPROSES").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
		mock.ExpectQuery(regexp.QuoteMeta(
			"SELECT id, created_at, cashier_id, customer_id, status FROM transactions WHERE cashier_id = $1 AND status = $2 ORDER BY created_at, id LIMIT 2 OFFSET 4",
		)).
			WithArgs("cashier-1", "MASIHDIPROSES").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "cashier_id", "customer_id", "status"}).
				AddRow("tx-2", time.Now(), "cashier-1", "c", "MASIHDIPROSES").
				AddRow("tx-1", time.Now(), "cashier-1", "c", "MASIHDIPROSES"))
		mock.ExpectQuery(regexp.QuoteMeta("FROM transaction_items WHERE transaction_id IN ($1,$2)")).
			WithArgs("tx-2", "tx-1").
			WillReturnRows(sqlmock.NewRows([]string{"transaction_id", "product_id", "product_name", "quantity", "unit_price"}).
				AddRow("tx-1", "p-1", "Rice", int64(1), "100"))

		res, err := repo.FindAll(ctx,
			map[string]string{"status": "MASIHDIPROSES", "cashier_id": "cashier-1"},
			repository.PageQuery{Limit: 2, Offset: 4},
		)

		require.NoError(t, err)
		assert.Equal(t, 7, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "tx-2", res.Items[0].ID)
		assert.Empty(t, res.Items[0].Items)
		assert.Len(t, res.Items[1].Items, 1)
	})

	t.Run("no matches skips the page query", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM transactions")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		res, err := repo.FindAll(ctx, nil, repository.PageQuery{Limit: 50})

		require.NoError(t, err)
		assert.Zero(t, res.Total)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("count failure", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM transactions")).
			WillReturnError(errors.New("connection reset"))

		res, err := repo.FindAll(ctx, nil, repository.PageQuery{})

		assert.Nil(t, res)
		assert.ErrorIs(t, err, model.ErrPersistence)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionPostgres_Update(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)
	ctx := context.Background()

	t.Run("rewrites items", func(t *testing.T) {
		tx := sampleTransaction()
		tx.Items = tx.Items[:1]
		tx.Status = model.StatusCompleted

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transactions SET status").
			WithArgs(model.StatusCompleted, tx.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM transaction_items").
			WithArgs(tx.ID).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("INSERT INTO transaction_items").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		out, err := repo.Update(ctx, tx)

		require.NoError(t, err)
		assert.Equal(t, model.StatusCompleted, out.Status)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE transactions SET status").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		out, err := repo.Update(ctx, sampleTransaction())

		assert.Nil(t, out)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionPostgres_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionPostgres(db)

	mock.ExpectExec("DELETE FROM transactions WHERE id = ?").
		WithArgs("tx-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "tx-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
