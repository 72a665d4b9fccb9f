package service

import (
	"context"
	"errors"
	"fmt"

	"retailapi/internal/event"
	"retailapi/internal/lifecycle"
	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// LineItemInput is a requested purchase line. Name and unit price come from the product catalog.
type LineItemInput struct {
	ProductID string
	Quantity  uint
}

// TransactionService defines the use cases for sales transactions.
type TransactionService interface {
	Create(ctx context.Context, cashierID, customerID string, items []LineItemInput) (*model.Transaction, error)
	Get(ctx context.Context, id string) (*model.Transaction, error)
	List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Transaction], error)

	// Update replaces the item list of an in-progress transaction.
	Update(ctx context.Context, id string, items []LineItemInput) (*model.Transaction, error)

	// Complete and Cancel persist the transition first and then notify observers with the stored snapshot.
	Complete(ctx context.Context, id string) (*model.Transaction, error)
	Cancel(ctx context.Context, id string) (*model.Transaction, error)

	// Delete removes a transaction unless it is completed.
	Delete(ctx context.Context, id string) error
}

type transactionService struct {
	machine  *lifecycle.TransactionStateMachine
	repo     repository.TransactionRepository
	products repository.ProductRepository
	events   Notifier
}

// NewTransactionService constructs a new TransactionService. A nil machine uses the wall clock.
func NewTransactionService(
	machine *lifecycle.TransactionStateMachine,
	repo repository.TransactionRepository,
	products repository.ProductRepository,
	events Notifier,
) TransactionService {
	if machine == nil {
		machine = lifecycle.NewTransactionStateMachine(nil)
	}
	return &transactionService{machine: machine, repo: repo, products: products, events: notifierOrNop(events)}
}

func (s *transactionService) Create(ctx context.Context, cashierID, customerID string, items []LineItemInput) (*model.Transaction, error) {
	lines, err := s.resolveItems(ctx, items)
	if err != nil {
		return nil, err
	}
	tx, err := s.machine.Create(cashierID, customerID, lines)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}
	return saved, nil
}

func (s *transactionService) Get(ctx context.Context, id string) (*model.Transaction, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, id)
}

func (s *transactionService) List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Transaction], error) {
	f, err := repository.NormalizeFilters(filters, repository.TransactionFilterKeys, map[string]func(string) (string, bool){
		"status": repository.TransactionStatusFilter,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, f, page.Bounded())
}

func (s *transactionService) Update(ctx context.Context, id string, items []LineItemInput) (*model.Transaction, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// State is checked before the catalog lookup so a finished sale reports INVALID_STATE.
	if tx.Status.Terminal() {
		return nil, fmt.Errorf("%w: cannot replace items of transaction %s in status %s", model.ErrInvalidState, tx.ID, tx.Status)
	}
	lines, err := s.resolveItems(ctx, items)
	if err != nil {
		return nil, err
	}
	if err := s.machine.ReplaceItems(tx, lines); err != nil {
		return nil, err
	}
	saved, err := s.repo.Update(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return saved, nil
}

func (s *transactionService) Complete(ctx context.Context, id string) (*model.Transaction, error) {
	saved, err := s.transition(ctx, id, s.machine.Complete)
	if err != nil {
		return nil, err
	}
	s.events.Notify(ctx, event.TransactionCompleted{Transaction: *saved})
	return saved, nil
}

func (s *transactionService) Cancel(ctx context.Context, id string) (*model.Transaction, error) {
	saved, err := s.transition(ctx, id, s.machine.Cancel)
	if err != nil {
		return nil, err
	}
	s.events.Notify(ctx, event.TransactionCancelled{Transaction: *saved})
	return saved, nil
}

func (s *transactionService) Delete(ctx context.Context, id string) error {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if tx.Status == model.StatusCompleted {
		return fmt.Errorf("%w: completed transaction %s cannot be deleted", model.ErrInvalidState, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (s *transactionService) transition(ctx context.Context, id string, apply func(*model.Transaction) error) (*model.Transaction, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(tx); err != nil {
		return nil, err
	}
	saved, err := s.repo.Update(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return saved, nil
}

func (s *transactionService) resolveItems(ctx context.Context, items []LineItemInput) ([]model.LineItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", model.ErrValidation)
	}
	lines := make([]model.LineItem, 0, len(items))
	for i, in := range items {
		if in.ProductID == "" {
			return nil, fmt.Errorf("%w: item %d: product id is required", model.ErrValidation, i)
		}
		p, err := s.products.FindByID(ctx, in.ProductID)
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%w: item %d: unknown product %s", model.ErrValidation, i, in.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("lookup product: %w", err)
		}
		lines = append(lines, model.LineItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    in.Quantity,
			UnitPrice:   p.Price,
		})
	}
	return lines, nil
}
