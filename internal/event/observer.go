package event

import (
	"context"

	"retailapi/internal/model"
)

// Observers implement only the capabilities they care about; Register rejects values implementing none.

// TransactionCompletedObserver receives the stored snapshot of every completed transaction.
type TransactionCompletedObserver interface {
	OnTransactionCompleted(ctx context.Context, tx model.Transaction) error
}

// TransactionCancelledObserver receives the stored snapshot of every cancelled transaction.
type TransactionCancelledObserver interface {
	OnTransactionCancelled(ctx context.Context, tx model.Transaction) error
}

// StockChangedObserver is told about each applied stock adjustment.
type StockChangedObserver interface {
	OnStockChanged(ctx context.Context, change model.StockChange) error
}

// SupplierSavedObserver receives every newly saved supplier.
type SupplierSavedObserver interface {
	OnSupplierSaved(ctx context.Context, supplier model.Supplier) error
}

// PaymentSettledObserver is called once per payment, when its installments first cover the amount.
type PaymentSettledObserver interface {
	OnPaymentSettled(ctx context.Context, payment model.Payment) error
}

// Event is one of the notifications below. The set is closed.
type Event interface {
	Name() string
	accepts(observer any) bool
	deliver(ctx context.Context, observer any) error
}

// TransactionCompleted is sent after a completed transaction has been persisted.
type TransactionCompleted struct{ Transaction model.Transaction }

func (TransactionCompleted) Name() string { return "transaction_completed" }

func (TransactionCompleted) accepts(o any) bool {
	_, ok := o.(TransactionCompletedObserver)
	return ok
}

func (e TransactionCompleted) deliver(ctx context.Context, o any) error {
	return o.(TransactionCompletedObserver).OnTransactionCompleted(ctx, e.Transaction.Clone())
}

// TransactionCancelled is sent after a cancelled transaction has been persisted.
type TransactionCancelled struct{ Transaction model.Transaction }

func (TransactionCancelled) Name() string { return "transaction_cancelled" }

func (TransactionCancelled) accepts(o any) bool {
	_, ok := o.(TransactionCancelledObserver)
	return ok
}

func (e TransactionCancelled) deliver(ctx context.Context, o any) error {
	return o.(TransactionCancelledObserver).OnTransactionCancelled(ctx, e.Transaction.Clone())
}

// StockChanged is sent after a product stock adjustment has been persisted.
type StockChanged struct{ Change model.StockChange }

func (StockChanged) Name() string { return "stock_changed" }

func (StockChanged) accepts(o any) bool {
	_, ok := o.(StockChangedObserver)
	return ok
}

func (e StockChanged) deliver(ctx context.Context, o any) error {
	return o.(StockChangedObserver).OnStockChanged(ctx, e.Change)
}

// SupplierSaved is sent after a supplier record has been persisted.
type SupplierSaved struct{ Supplier model.Supplier }

func (SupplierSaved) Name() string { return "supplier_saved" }

func (SupplierSaved) accepts(o any) bool {
	_, ok := o.(SupplierSavedObserver)
	return ok
}

func (e SupplierSaved) deliver(ctx context.Context, o any) error {
	return o.(SupplierSavedObserver).OnSupplierSaved(ctx, e.Supplier)
}

// PaymentSettled is sent once, when an installment moves a payment to LUNAS.
type PaymentSettled struct{ Payment model.Payment }

func (PaymentSettled) Name() string { return "payment_settled" }

func (PaymentSettled) accepts(o any) bool {
	_, ok := o.(PaymentSettledObserver)
	return ok
}

func (e PaymentSettled) deliver(ctx context.Context, o any) error {
	return o.(PaymentSettledObserver).OnPaymentSettled(ctx, e.Payment.Clone())
}

func implementsAny(o any) bool {
	switch o.(type) {
	case TransactionCompletedObserver, TransactionCancelledObserver, StockChangedObserver,
		SupplierSavedObserver, PaymentSettledObserver:
		return true
	default:
		return false
	}
}
