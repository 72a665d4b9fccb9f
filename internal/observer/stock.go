package observer

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"retailapi/internal/event"
	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// StockAdjuster keeps product stock in line with sales and supplier deliveries.
// Every applied adjustment is announced as a StockChanged event.
type StockAdjuster struct {
	products repository.ProductRepository
	events   Notifier
}

// NewStockAdjuster creates a StockAdjuster. Applied adjustments are announced through events.
func NewStockAdjuster(products repository.ProductRepository, events Notifier) *StockAdjuster {
	return &StockAdjuster{products: products, events: events}
}

var (
	_ event.TransactionCompletedObserver = (*StockAdjuster)(nil)
	_ event.SupplierSavedObserver        = (*StockAdjuster)(nil)
)

// OnTransactionCompleted takes every sold quantity off the shelf. A failing line does not stop the others.
func (a *StockAdjuster) OnTransactionCompleted(ctx context.Context, tx model.Transaction) error {
	var errs error
	for _, li := range tx.Items {
		reason := "sale:" + tx.ID
		if err := a.adjust(ctx, li.ProductID, -int(li.Quantity), reason); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (a *StockAdjuster) OnSupplierSaved(ctx context.Context, s model.Supplier) error {
	if s.Quantity == 0 {
		return nil
	}
	return a.adjust(ctx, s.ProductID, int(s.Quantity), "supply:"+s.ID)
}

func (a *StockAdjuster) adjust(ctx context.Context, productID string, delta int, reason string) error {
	p, err := a.products.AdjustStock(ctx, productID, delta)
	if err != nil {
		return fmt.Errorf("adjust stock of %s by %d: %w", productID, delta, err)
	}
	if a.events != nil {
		a.events.Notify(ctx, event.StockChanged{Change: model.StockChange{
			ProductID: p.ID,
			Delta:     delta,
			Stock:     p.Stock,
			Reason:    reason,
		}})
	}
	return nil
}
