package postgres

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// PaymentPostgres is a PostgreSQL implementation of repository.PaymentRepository.
// Installments are append-only; Update inserts the ones not stored yet.
type PaymentPostgres struct {
	db *sql.DB
}

// NewPaymentPostgres creates a new PaymentPostgres.
func NewPaymentPostgres(db *sql.DB) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

var paymentColumns = map[string]string{
	"status":         "status",
	"method":         "method",
	"transaction_id": "transaction_id",
}

// Save inserts the payment and any initial installments in one database transaction.
func (r *PaymentPostgres) Save(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		INSERT INTO payments (id, transaction_id, amount, method, status, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, q, p.ID, p.TransactionID, p.Amount, p.Method, p.Status, nullTime(p), p.CreatedAt); err != nil {
			return err
		}
		return insertInstallments(ctx, tx, p.Installments)
	})
	if err != nil {
		return nil, dbErr(err, "save payment")
	}
	out := p.Clone()
	return &out, nil
}

// FindByID fetches a payment with its installments. It returns model.ErrNotFound if no row exists.
func (r *PaymentPostgres) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	const q = `
		SELECT id, transaction_id, amount, method, status, due_date, created_at
		FROM payments
		WHERE id = $1
	`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, dbErr(err, "payment "+id)
	}
	inst, err := loadInstallments(ctx, r.db, []string{id})
	if err != nil {
		return nil, dbErr(err, "installments")
	}
	p.Installments = installmentsOf(inst, id)
	return p, nil
}

// FindByTransactionID returns every payment of a transaction in creation order.
func (r *PaymentPostgres) FindByTransactionID(ctx context.Context, transactionID string) ([]model.Payment, error) {
	res, err := r.FindAll(ctx, map[string]string{"transaction_id": transactionID}, repository.PageQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// FindAll returns one page of payments in creation order and the total match count.
func (r *PaymentPostgres) FindAll(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	where := equals(filters, paymentColumns)
	total, err := countRows(ctx, r.db, "payments", where)
	if err != nil {
		return nil, dbErr(err, "count payments")
	}
	if total == 0 {
		return repository.NewPageResult[model.Payment](nil, 0), nil
	}

	cols := []string{"id", "transaction_id", "amount", "method", "status", "due_date", "created_at"}
	q, args, err := selectPage("payments", cols, where, page).ToSql()
	if err != nil {
		return nil, dbErr(err, "build payment query")
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbErr(err, "list payments")
	}
	defer rows.Close()

	list := make([]model.Payment, 0)
	ids := make([]string, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, dbErr(err, "scan payment")
		}
		list = append(list, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list payments")
	}
	if len(ids) == 0 {
		return repository.NewPageResult(list, total), nil
	}

	inst, err := loadInstallments(ctx, r.db, ids)
	if err != nil {
		return nil, dbErr(err, "installments")
	}
	for i := range list {
		list[i].Installments = installmentsOf(inst, list[i].ID)
	}
	return repository.NewPageResult(list, total), nil
}

// Update stores the status and inserts installments not stored yet. A missing row is model.ErrNotFound.
func (r *PaymentPostgres) Update(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `UPDATE payments SET status = $1 WHERE id = $2`
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, q, p.Status, p.ID)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		return insertInstallments(ctx, tx, p.Installments)
	})
	if err != nil {
		return nil, dbErr(err, "payment "+p.ID)
	}
	out := p.Clone()
	return &out, nil
}

// Delete removes a payment and its installments. Missing rows are not an error.
func (r *PaymentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM payments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, q, id); err != nil {
		return dbErr(err, "delete payment")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*model.Payment, error) {
	var p model.Payment
	var due sql.NullTime
	if err := row.Scan(&p.ID, &p.TransactionID, &p.Amount, &p.Method, &p.Status, &due, &p.CreatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		d := due.Time
		p.DueDate = &d
	}
	p.Installments = []model.Installment{}
	return &p, nil
}

// installmentsOf keeps payments without installments encoding as [] rather than null.
func installmentsOf(inst map[string][]model.Installment, paymentID string) []model.Installment {
	if list, ok := inst[paymentID]; ok {
		return list
	}
	return []model.Installment{}
}

func nullTime(p *model.Payment) sql.NullTime {
	if p.DueDate == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p.DueDate, Valid: true}
}

func insertInstallments(ctx context.Context, tx queryer, list []model.Installment) error {
	const q = `
		INSERT INTO installments (id, payment_id, amount, reference, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING
	`
	for _, in := range list {
		if _, err := tx.ExecContext(ctx, q, in.ID, in.PaymentID, in.Amount, in.Reference, in.RecordedAt); err != nil {
			return err
		}
	}
	return nil
}

func loadInstallments(ctx context.Context, db queryer, paymentIDs []string) (map[string][]model.Installment, error) {
	q, args, err := psql.
		Select("id", "payment_id", "amount", "reference", "recorded_at").
		From("installments").
		Where(sq.Eq{"payment_id": paymentIDs}).
		OrderBy("payment_id", "recorded_at", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]model.Installment, len(paymentIDs))
	for rows.Next() {
		var in model.Installment
		if err := rows.Scan(&in.ID, &in.PaymentID, &in.Amount, &in.Reference, &in.RecordedAt); err != nil {
			return nil, err
		}
		out[in.PaymentID] = append(out[in.PaymentID], in)
	}
	return out, rows.Err()
}
