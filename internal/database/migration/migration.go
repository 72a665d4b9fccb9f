package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable marks an already migrated schema.
const sentinelTable = "public.transactions"

var steps = []migrationStep{
	{
		Name: "create_table_transactions",
		SQL: `CREATE TABLE IF NOT EXISTS transactions (
  id          TEXT        PRIMARY KEY,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  cashier_id  TEXT        NOT NULL,
  customer_id TEXT        NOT NULL,
  status      TEXT        NOT NULL CHECK (status IN ('MASIHDIPROSES', 'SELESAI', 'DIBATALKAN'))
);`,
	},
	{
		Name: "create_table_transaction_items",
		SQL: `CREATE TABLE IF NOT EXISTS transaction_items (
  transaction_id TEXT          NOT NULL REFERENCES transactions (id) ON DELETE CASCADE,
  position       INTEGER       NOT NULL,
  product_id     TEXT          NOT NULL,
  product_name   TEXT          NOT NULL,
  quantity       INTEGER       NOT NULL CHECK (quantity > 0),
  unit_price     NUMERIC(18,2) NOT NULL CHECK (unit_price >= 0),
  PRIMARY KEY (transaction_id, position)
);`,
	},
	{
		Name: "create_table_payments",
		SQL: `CREATE TABLE IF NOT EXISTS payments (
  id             TEXT          PRIMARY KEY,
  transaction_id TEXT          NOT NULL REFERENCES transactions (id),
  amount         NUMERIC(18,2) NOT NULL CHECK (amount > 0),
  method         TEXT          NOT NULL CHECK (method IN ('CASH', 'CREDIT_CARD', 'BANK_TRANSFER', 'E_WALLET')),
  status         TEXT          NOT NULL CHECK (status IN ('CICILAN', 'LUNAS')),
  due_date       TIMESTAMPTZ,
  created_at     TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_installments",
		SQL: `CREATE TABLE IF NOT EXISTS installments (
  id          TEXT          PRIMARY KEY,
  payment_id  TEXT          NOT NULL REFERENCES payments (id) ON DELETE CASCADE,
  amount      NUMERIC(18,2) NOT NULL CHECK (amount > 0),
  reference   TEXT          NOT NULL,
  recorded_at TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE IF NOT EXISTS products (
  id         TEXT          PRIMARY KEY,
  name       TEXT          NOT NULL,
  price      NUMERIC(18,2) NOT NULL CHECK (price >= 0),
  stock      INTEGER       NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_customers",
		SQL: `CREATE TABLE IF NOT EXISTS customers (
  id         TEXT        PRIMARY KEY,
  name       TEXT        NOT NULL,
  phone      TEXT        NOT NULL DEFAULT '',
  email      TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_suppliers",
		SQL: `CREATE TABLE IF NOT EXISTS suppliers (
  id         TEXT        PRIMARY KEY,
  name       TEXT        NOT NULL,
  contact    TEXT        NOT NULL DEFAULT '',
  product_id TEXT        NOT NULL,
  quantity   INTEGER     NOT NULL CHECK (quantity >= 0),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_supplier_transactions",
		SQL: `CREATE TABLE IF NOT EXISTS supplier_transactions (
  id          TEXT        PRIMARY KEY,
  supplier_id TEXT        NOT NULL REFERENCES suppliers (id),
  product_id  TEXT        NOT NULL,
  quantity    INTEGER     NOT NULL,
  recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_audit_logs",
		SQL: `CREATE TABLE IF NOT EXISTS audit_logs (
  id         TEXT        PRIMARY KEY,
  action     TEXT        NOT NULL,
  entity     TEXT        NOT NULL,
  entity_id  TEXT        NOT NULL,
  detail     TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_transactions_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions (status);`,
	},
	{
		Name: "create_index_transactions_cashier_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_transactions_cashier_id ON transactions (cashier_id);`,
	},
	{
		Name: "create_index_payments_transaction_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_payments_transaction_id ON payments (transaction_id);`,
	},
	{
		Name: "create_index_installments_payment_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_installments_payment_id ON installments (payment_id);`,
	},
	{
		Name: "create_index_supplier_transactions_supplier_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_supplier_transactions_supplier_id ON supplier_transactions (supplier_id);`,
	},
	{
		Name: "create_index_audit_logs_entity",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs (entity, entity_id);`,
	},
}

// EnsureMigrated checks if the 'transactions' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(zap.String("component", "database"), zap.String("db_host", dbHost))

	log.Info("db_migration_check", zap.String("status", "starting"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		log.Error("db_migration_failed",
			zap.String("status", "error"),
			zap.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			zap.String("status", "success"),
			zap.String("msg", "schema already exists, skipping migration"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.String("status", "in_progress"))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("status", "error"),
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Debug("db_migration_step",
			zap.String("status", "success"),
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		zap.String("status", "success"),
		zap.Int("steps", len(steps)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}
