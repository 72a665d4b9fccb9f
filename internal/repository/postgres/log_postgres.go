package postgres

import (
	"context"
	"database/sql"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// SupplierTransactionPostgres is a PostgreSQL implementation of repository.SupplierTransactionRepository.
type SupplierTransactionPostgres struct {
	db *sql.DB
}

// NewSupplierTransactionPostgres creates a new SupplierTransactionPostgres.
func NewSupplierTransactionPostgres(db *sql.DB) *SupplierTransactionPostgres {
	return &SupplierTransactionPostgres{db: db}
}

var _ repository.SupplierTransactionRepository = (*SupplierTransactionPostgres)(nil)

// Save inserts one supplier delivery record.
func (r *SupplierTransactionPostgres) Save(ctx context.Context, st *model.SupplierTransaction) (*model.SupplierTransaction, error) {
	const q = `
		INSERT INTO supplier_transactions (id, supplier_id, product_id, quantity, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, q, st.ID, st.SupplierID, st.ProductID, st.Quantity, st.RecordedAt); err != nil {
		return nil, dbErr(err, "save supplier transaction")
	}
	out := *st
	return &out, nil
}

// FindBySupplierID returns the deliveries of a supplier, oldest first.
func (r *SupplierTransactionPostgres) FindBySupplierID(ctx context.Context, supplierID string) ([]model.SupplierTransaction, error) {
	const q = `
		SELECT id, supplier_id, product_id, quantity, recorded_at
		FROM supplier_transactions
		WHERE supplier_id = $1
		ORDER BY recorded_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, supplierID)
	if err != nil {
		return nil, dbErr(err, "list supplier transactions")
	}
	defer rows.Close()

	list := make([]model.SupplierTransaction, 0)
	for rows.Next() {
		var st model.SupplierTransaction
		if err := rows.Scan(&st.ID, &st.SupplierID, &st.ProductID, &st.Quantity, &st.RecordedAt); err != nil {
			return nil, dbErr(err, "scan supplier transaction")
		}
		list = append(list, st)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list supplier transactions")
	}
	return list, nil
}

// AuditLogPostgres is a PostgreSQL implementation of repository.AuditLogRepository.
type AuditLogPostgres struct {
	db *sql.DB
}

// NewAuditLogPostgres creates a new AuditLogPostgres.
func NewAuditLogPostgres(db *sql.DB) *AuditLogPostgres {
	return &AuditLogPostgres{db: db}
}

var _ repository.AuditLogRepository = (*AuditLogPostgres)(nil)

var auditColumns = map[string]string{
	"action":    "action",
	"entity":    "entity",
	"entity_id": "entity_id",
}

// Save appends an audit entry.
func (r *AuditLogPostgres) Save(ctx context.Context, l *model.AuditLog) (*model.AuditLog, error) {
	const q = `
		INSERT INTO audit_logs (id, action, entity, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, q, l.ID, l.Action, l.Entity, l.EntityID, l.Detail, l.CreatedAt); err != nil {
		return nil, dbErr(err, "save audit log")
	}
	out := *l
	return &out, nil
}

// FindAll returns one page of audit entries in creation order and the total match count.
func (r *AuditLogPostgres) FindAll(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.AuditLog], error) {
	where := equals(filters, auditColumns)
	total, err := countRows(ctx, r.db, "audit_logs", where)
	if err != nil {
		return nil, dbErr(err, "count audit logs")
	}
	if total == 0 {
		return repository.NewPageResult[model.AuditLog](nil, 0), nil
	}

	q, args, err := selectPage("audit_logs", []string{"id", "action", "entity", "entity_id", "detail", "created_at"}, where, page).ToSql()
	if err != nil {
		return nil, dbErr(err, "build audit query")
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbErr(err, "list audit logs")
	}
	defer rows.Close()

	list := make([]model.AuditLog, 0)
	for rows.Next() {
		var l model.AuditLog
		if err := rows.Scan(&l.ID, &l.Action, &l.Entity, &l.EntityID, &l.Detail, &l.CreatedAt); err != nil {
			return nil, dbErr(err, "scan audit log")
		}
		list = append(list, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list audit logs")
	}
	return repository.NewPageResult(list, total), nil
}
