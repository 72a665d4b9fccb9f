package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	sq "github.com/Masterminds/squirrel"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// psql builds statements with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// dbErr maps driver errors onto the model error kinds. The driver message is kept.
func dbErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", model.ErrNotFound, what)
	}
	if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", model.ErrPersistence, what, err)
}

// inTx runs fn inside a database transaction, rolling back when fn fails.
func inTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// requireAffected turns a zero-row UPDATE into sql.ErrNoRows.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// equals builds one equality predicate per filter, in key order so generated SQL is stable.
func equals(filters map[string]string, columns map[string]string) []sq.Sqlizer {
	var where []sq.Sqlizer
	for _, k := range sortedKeys(filters) {
		col, ok := columns[k]
		if !ok {
			continue
		}
		where = append(where, sq.Eq{col: filters[k]})
	}
	return where
}

// countRows returns how many rows of table match where.
func countRows(ctx context.Context, db queryer, table string, where []sq.Sqlizer) (int, error) {
	b := psql.Select("COUNT(*)").From(table)
	for _, w := range where {
		b = b.Where(w)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// selectPage selects one page of table in creation order.
func selectPage(table string, columns []string, where []sq.Sqlizer, page repository.PageQuery) sq.SelectBuilder {
	b := psql.Select(columns...).From(table)
	for _, w := range where {
		b = b.Where(w)
	}
	b = b.OrderBy("created_at", "id")
	if page.Limit > 0 {
		b = b.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		b = b.Offset(uint64(page.Offset))
	}
	return b
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
