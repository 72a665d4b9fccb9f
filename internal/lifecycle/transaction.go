package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"retailapi/internal/model"
)

// TransactionStateMachine creates transactions and applies lifecycle operations to them.
type TransactionStateMachine struct {
	now   func() time.Time
	newID func() string
}

// NewTransactionStateMachine returns a machine stamping aggregates with now (UTC wall clock when nil).
func NewTransactionStateMachine(now func() time.Time) *TransactionStateMachine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &TransactionStateMachine{now: now, newID: uuid.NewString}
}

// Create builds a new in-progress transaction.
func (m *TransactionStateMachine) Create(cashierID, customerID string, items []model.LineItem) (*model.Transaction, error) {
	if strings.TrimSpace(cashierID) == "" {
		return nil, fmt.Errorf("%w: cashier id is required", model.ErrValidation)
	}
	if strings.TrimSpace(customerID) == "" {
		return nil, fmt.Errorf("%w: customer id is required", model.ErrValidation)
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	return &model.Transaction{
		ID:         m.newID(),
		CreatedAt:  m.now(),
		CashierID:  cashierID,
		CustomerID: customerID,
		Items:      append([]model.LineItem(nil), items...),
		Status:     model.StatusInProgress,
	}, nil
}

// ReplaceItems swaps the whole item list of an in-progress transaction.
func (m *TransactionStateMachine) ReplaceItems(tx *model.Transaction, items []model.LineItem) error {
	if err := requireInProgress(tx, "replace items"); err != nil {
		return err
	}
	if err := ValidateItems(items); err != nil {
		return err
	}
	tx.Items = append([]model.LineItem(nil), items...)
	return nil
}

// Complete finalizes the sale.
func (m *TransactionStateMachine) Complete(tx *model.Transaction) error {
	if err := requireInProgress(tx, "complete"); err != nil {
		return err
	}
	tx.Status = model.StatusCompleted
	return nil
}

// Cancel voids the whole transaction. There is no partial cancellation.
func (m *TransactionStateMachine) Cancel(tx *model.Transaction) error {
	if err := requireInProgress(tx, "cancel"); err != nil {
		return err
	}
	tx.Status = model.StatusCancelled
	return nil
}

// ValidateItems checks the line item invariants: at least one item, positive quantity, non-negative price.
func ValidateItems(items []model.LineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one item is required", model.ErrValidation)
	}
	for i, li := range items {
		if strings.TrimSpace(li.ProductID) == "" {
			return fmt.Errorf("%w: item %d: product id is required", model.ErrValidation, i)
		}
		if li.Quantity == 0 {
			return fmt.Errorf("%w: item %d: quantity must be greater than zero", model.ErrValidation, i)
		}
		if li.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: item %d: unit price must not be negative", model.ErrValidation, i)
		}
	}
	return nil
}

func requireInProgress(tx *model.Transaction, op string) error {
	if tx == nil {
		return fmt.Errorf("%w: transaction is nil", model.ErrValidation)
	}
	if tx.Status != model.StatusInProgress {
		return fmt.Errorf("%w: cannot %s transaction %s in status %s", model.ErrInvalidState, op, tx.ID, tx.Status)
	}
	return nil
}
