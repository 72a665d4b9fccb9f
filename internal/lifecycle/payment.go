package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailapi/internal/model"
)

// PaymentStateMachine creates payments and records installments against them.
type PaymentStateMachine struct {
	now          func() time.Time
	newID        func() string
	processorFor func(model.PaymentMethod) (PaymentProcessor, error)
}

// NewPaymentStateMachine creates a PaymentStateMachine. A nil now uses the UTC wall clock.
func NewPaymentStateMachine(now func() time.Time) *PaymentStateMachine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &PaymentStateMachine{now: now, newID: uuid.NewString, processorFor: ProcessorFor}
}

// NewPayment opens a payment in CICILAN for the given transaction.
func (m *PaymentStateMachine) NewPayment(transactionID string, amount decimal.Decimal, method model.PaymentMethod, dueDate *time.Time) (*model.Payment, error) {
	if strings.TrimSpace(transactionID) == "" {
		return nil, fmt.Errorf("%w: transaction id is required", model.ErrValidation)
	}
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}
	if _, err := m.processorFor(method); err != nil {
		return nil, err
	}
	return &model.Payment{
		ID:            m.newID(),
		TransactionID: transactionID,
		Amount:        amount,
		Method:        method,
		Status:        model.PaymentInstallment,
		Installments:  []model.Installment{},
		DueDate:       dueDate,
		CreatedAt:     m.now(),
	}, nil
}

// ProcessPayment records one installment of amount and settles the payment once the installments cover it.
// A paid payment rejects every call with model.ErrAlreadyPaid and is left untouched.
func (m *PaymentStateMachine) ProcessPayment(ctx context.Context, p *model.Payment, amount decimal.Decimal) (*model.Payment, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: payment is nil", model.ErrValidation)
	}
	if p.Status == model.PaymentPaid {
		return nil, fmt.Errorf("%w: payment %s", model.ErrAlreadyPaid, p.ID)
	}
	if p.Status != model.PaymentInstallment {
		return nil, fmt.Errorf("%w: payment %s has unknown status", model.ErrInvalidState, p.ID)
	}
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}

	proc, err := m.processorFor(p.Method)
	if err != nil {
		return nil, err
	}
	conf, err := proc.Process(ctx, amount, p.ID)
	if err != nil {
		return nil, fmt.Errorf("process %s payment: %w", p.Method, err)
	}

	p.Installments = append(p.Installments, model.Installment{
		ID:         m.newID(),
		PaymentID:  p.ID,
		Amount:     amount,
		Reference:  conf.Reference,
		RecordedAt: m.now(),
	})
	if p.TotalPaid().GreaterThanOrEqual(p.Amount) {
		p.Status = model.PaymentPaid
	}
	return p, nil
}

// CanDelete reports whether the payment record may be removed. Settled payments are kept.
func (m *PaymentStateMachine) CanDelete(p *model.Payment) bool {
	return p != nil && p.Status == model.PaymentInstallment
}
