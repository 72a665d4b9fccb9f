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

// SupplierTransactionLogger records every supplier delivery.
type SupplierTransactionLogger struct {
	repo repository.SupplierTransactionRepository
}

// NewSupplierTransactionLogger creates a SupplierTransactionLogger.
func NewSupplierTransactionLogger(repo repository.SupplierTransactionRepository) *SupplierTransactionLogger {
	return &SupplierTransactionLogger{repo: repo}
}

var _ event.SupplierSavedObserver = (*SupplierTransactionLogger)(nil)

func (l *SupplierTransactionLogger) OnSupplierSaved(ctx context.Context, s model.Supplier) error {
	_, err := l.repo.Save(ctx, &model.SupplierTransaction{
		ID:         uuid.NewString(),
		SupplierID: s.ID,
		ProductID:  s.ProductID,
		Quantity:   s.Quantity,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("record supplier transaction: %w", err)
	}
	return nil
}
