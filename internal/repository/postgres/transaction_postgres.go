package postgres

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// TransactionPostgres is a PostgreSQL implementation of repository.TransactionRepository.
// Line items live in transaction_items and are rewritten as a whole on Update.
type TransactionPostgres struct {
	db *sql.DB
}

// NewTransactionPostgres creates a new TransactionPostgres.
func NewTransactionPostgres(db *sql.DB) *TransactionPostgres {
	return &TransactionPostgres{db: db}
}

var _ repository.TransactionRepository = (*TransactionPostgres)(nil)

var transactionColumns = map[string]string{
	"status":      "status",
	"cashier_id":  "cashier_id",
	"customer_id": "customer_id",
}

// Save inserts the transaction and its line items in one database transaction.
func (r *TransactionPostgres) Save(ctx context.Context, t *model.Transaction) (*model.Transaction, error) {
	const q = `
		INSERT INTO transactions (id, created_at, cashier_id, customer_id, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, q, t.ID, t.CreatedAt, t.CashierID, t.CustomerID, t.Status); err != nil {
			return err
		}
		return insertItems(ctx, tx, t)
	})
	if err != nil {
		return nil, dbErr(err, "save transaction")
	}
	out := t.Clone()
	return &out, nil
}

// FindByID fetches a transaction with its items. It returns model.ErrNotFound if no row exists.
func (r *TransactionPostgres) FindByID(ctx context.Context, id string) (*model.Transaction, error) {
	const q = `
		SELECT id, created_at, cashier_id, customer_id, status
		FROM transactions
		WHERE id = $1
	`
	var t model.Transaction
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID,
		&t.CreatedAt,
		&t.CashierID,
		&t.CustomerID,
		&t.Status,
	); err != nil {
		return nil, dbErr(err, "transaction "+id)
	}

	items, err := loadItems(ctx, r.db, []string{id})
	if err != nil {
		return nil, dbErr(err, "transaction items")
	}
	t.Items = items[id]
	return &t, nil
}

// FindAll returns one page of transactions in creation order and the total match count.
func (r *TransactionPostgres) FindAll(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Transaction], error) {
	where := equals(filters, transactionColumns)
	total, err := countRows(ctx, r.db, "transactions", where)
	if err != nil {
		return nil, dbErr(err, "count transactions")
	}
	if total == 0 {
		return repository.NewPageResult[model.Transaction](nil, 0), nil
	}

	q, args, err := selectPage("transactions", []string{"id", "created_at", "cashier_id", "customer_id", "status"}, where, page).ToSql()
	if err != nil {
		return nil, dbErr(err, "build transaction query")
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbErr(err, "list transactions")
	}
	defer rows.Close()

	list := make([]model.Transaction, 0)
	ids := make([]string, 0)
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.CreatedAt, &t.CashierID, &t.CustomerID, &t.Status); err != nil {
			return nil, dbErr(err, "scan transaction")
		}
		list = append(list, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list transactions")
	}
	if len(ids) == 0 {
		return repository.NewPageResult(list, total), nil
	}

	items, err := loadItems(ctx, r.db, ids)
	if err != nil {
		return nil, dbErr(err, "transaction items")
	}
	for i := range list {
		list[i].Items = items[list[i].ID]
	}
	return repository.NewPageResult(list, total), nil
}

// Update stores the status and replaces the stored items. A missing row is model.ErrNotFound.
func (r *TransactionPostgres) Update(ctx context.Context, t *model.Transaction) (*model.Transaction, error) {
	const qStatus = `UPDATE transactions SET status = $1 WHERE id = $2`
	const qClear = `DELETE FROM transaction_items WHERE transaction_id = $1`
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, qStatus, t.Status, t.ID)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, qClear, t.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, t)
	})
	if err != nil {
		return nil, dbErr(err, "transaction "+t.ID)
	}
	out := t.Clone()
	return &out, nil
}

// Delete removes a transaction; its items go with it (ON DELETE CASCADE). Missing rows are not an error.
func (r *TransactionPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM transactions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return dbErr(err, "delete transaction")
	}
	return nil
}

func insertItems(ctx context.Context, tx queryer, t *model.Transaction) error {
	const q = `
		INSERT INTO transaction_items (transaction_id, position, product_id, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, li := range t.Items {
		if _, err := tx.ExecContext(ctx, q, t.ID, i, li.ProductID, li.ProductName, li.Quantity, li.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func loadItems(ctx context.Context, db queryer, ids []string) (map[string][]model.LineItem, error) {
	q, args, err := psql.
		Select("transaction_id", "product_id", "product_name", "quantity", "unit_price").
		From("transaction_items").
		Where(sq.Eq{"transaction_id": ids}).
		OrderBy("transaction_id", "position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.LineItem, len(ids))
	for rows.Next() {
		var txID string
		var li model.LineItem
		if err := rows.Scan(&txID, &li.ProductID, &li.ProductName, &li.Quantity, &li.UnitPrice); err != nil {
			return nil, err
		}
		out[txID] = append(out[txID], li)
	}
	return out, rows.Err()
}
