package observer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"retailapi/internal/event"
	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// AuditLogger appends one audit row per event it observes.
type AuditLogger struct {
	repo repository.AuditLogRepository
	now  func() time.Time
}

// NewAuditLogger creates an AuditLogger stamping entries with the UTC wall clock.
func NewAuditLogger(repo repository.AuditLogRepository) *AuditLogger {
	return &AuditLogger{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

var (
	_ event.TransactionCompletedObserver = (*AuditLogger)(nil)
	_ event.TransactionCancelledObserver = (*AuditLogger)(nil)
	_ event.StockChangedObserver         = (*AuditLogger)(nil)
	_ event.SupplierSavedObserver        = (*AuditLogger)(nil)
	_ event.PaymentSettledObserver       = (*AuditLogger)(nil)
)

func (l *AuditLogger) OnTransactionCompleted(ctx context.Context, tx model.Transaction) error {
	return l.write(ctx, event.TransactionCompleted{}.Name(), "transaction", tx.ID,
		fmt.Sprintf("cashier=%s customer=%s items=%d total=%s", tx.CashierID, tx.CustomerID, len(tx.Items), tx.Total().StringFixed(2)))
}

func (l *AuditLogger) OnTransactionCancelled(ctx context.Context, tx model.Transaction) error {
	return l.write(ctx, event.TransactionCancelled{}.Name(), "transaction", tx.ID,
		fmt.Sprintf("cashier=%s customer=%s", tx.CashierID, tx.CustomerID))
}

func (l *AuditLogger) OnStockChanged(ctx context.Context, c model.StockChange) error {
	return l.write(ctx, event.StockChanged{}.Name(), "product", c.ProductID,
		fmt.Sprintf("delta=%d stock=%d reason=%s", c.Delta, c.Stock, c.Reason))
}

func (l *AuditLogger) OnSupplierSaved(ctx context.Context, s model.Supplier) error {
	return l.write(ctx, event.SupplierSaved{}.Name(), "supplier", s.ID,
		fmt.Sprintf("product=%s quantity=%d", s.ProductID, s.Quantity))
}

func (l *AuditLogger) OnPaymentSettled(ctx context.Context, p model.Payment) error {
	return l.write(ctx, event.PaymentSettled{}.Name(), "payment", p.ID,
		fmt.Sprintf("transaction=%s method=%s paid=%s installments=%d", p.TransactionID, p.Method, p.TotalPaid().StringFixed(2), len(p.Installments)))
}

func (l *AuditLogger) write(ctx context.Context, action, entity, entityID, detail string) error {
	_, err := l.repo.Save(ctx, &model.AuditLog{
		ID:        uuid.NewString(),
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Detail:    detail,
		CreatedAt: l.now(),
	})
	if err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}
