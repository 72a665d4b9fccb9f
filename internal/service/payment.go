package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"retailapi/internal/event"
	"retailapi/internal/lifecycle"
	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// CreatePaymentInput opens a payment against an existing transaction.
type CreatePaymentInput struct {
	TransactionID string
	Amount        decimal.Decimal
	Method        model.PaymentMethod
	DueDate       *time.Time
}

// PaymentService defines the use cases for payments and their installments.
type PaymentService interface {
	Create(ctx context.Context, in CreatePaymentInput) (*model.Payment, error)
	Get(ctx context.Context, id string) (*model.Payment, error)
	GetByTransaction(ctx context.Context, transactionID string) ([]model.Payment, error)
	List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Payment], error)

	// RecordInstallment processes one installment through the payment method's processor.
	// Observers are notified once, on the call that settles the payment.
	RecordInstallment(ctx context.Context, paymentID string, amount decimal.Decimal) (*model.Payment, error)

	// Delete removes a payment that is still in installments.
	Delete(ctx context.Context, id string) error
}

type paymentService struct {
	machine      *lifecycle.PaymentStateMachine
	repo         repository.PaymentRepository
	transactions repository.TransactionRepository
	events       Notifier
}

// NewPaymentService constructs a new PaymentService. A nil machine uses the wall clock.
func NewPaymentService(
	machine *lifecycle.PaymentStateMachine,
	repo repository.PaymentRepository,
	transactions repository.TransactionRepository,
	events Notifier,
) PaymentService {
	if machine == nil {
		machine = lifecycle.NewPaymentStateMachine(nil)
	}
	return &paymentService{machine: machine, repo: repo, transactions: transactions, events: notifierOrNop(events)}
}

func (s *paymentService) Create(ctx context.Context, in CreatePaymentInput) (*model.Payment, error) {
	if in.TransactionID == "" {
		return nil, fmt.Errorf("%w: transaction id is required", model.ErrValidation)
	}
	tx, err := s.transactions.FindByID(ctx, in.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status == model.StatusCancelled {
		return nil, fmt.Errorf("%w: transaction %s is cancelled", model.ErrInvalidState, tx.ID)
	}

	p, err := s.machine.NewPayment(tx.ID, in.Amount, in.Method, in.DueDate)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}
	return saved, nil
}

func (s *paymentService) Get(ctx context.Context, id string) (*model.Payment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, id)
}

func (s *paymentService) GetByTransaction(ctx context.Context, transactionID string) ([]model.Payment, error) {
	if transactionID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.transactions.FindByID(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.repo.FindByTransactionID(ctx, transactionID)
}

func (s *paymentService) List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	f, err := repository.NormalizeFilters(filters, repository.PaymentFilterKeys, map[string]func(string) (string, bool){
		"status": repository.PaymentStatusFilter,
		"method": repository.PaymentMethodFilter,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, f, page.Bounded())
}

func (s *paymentService) RecordInstallment(ctx context.Context, paymentID string, amount decimal.Decimal) (*model.Payment, error) {
	p, err := s.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	wasPaid := p.Status == model.PaymentPaid

	updated, err := s.machine.ProcessPayment(ctx, p, amount)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Update(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("update payment: %w", err)
	}

	if !wasPaid && saved.Status == model.PaymentPaid {
		s.events.Notify(ctx, event.PaymentSettled{Payment: *saved})
	}
	return saved, nil
}

func (s *paymentService) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.machine.CanDelete(p) {
		return fmt.Errorf("%w: payment %s is %s and cannot be deleted", model.ErrInvalidState, id, p.Status)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
