package memory

import (
	"context"
	"fmt"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// TransactionRepository is the in-memory repository.TransactionRepository.
type TransactionRepository struct{ s *Store }

// NewTransactionRepository creates a TransactionRepository over s.
func NewTransactionRepository(s *Store) *TransactionRepository { return &TransactionRepository{s: s} }

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

func (r *TransactionRepository) Save(_ context.Context, tx *model.Transaction) (*model.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.transactions.has(tx.ID) {
		return nil, fmt.Errorf("%w: transaction %s already exists", model.ErrPersistence, tx.ID)
	}
	r.s.transactions.put(tx.ID, tx.Clone())
	out := tx.Clone()
	return &out, nil
}

func (r *TransactionRepository) FindByID(_ context.Context, id string) (*model.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tx, ok := r.s.transactions.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", model.ErrNotFound, id)
	}
	out := tx.Clone()
	return &out, nil
}

func (r *TransactionRepository) FindAll(_ context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Transaction], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.transactions.list(func(tx model.Transaction) bool {
		return matches(filters, func(key string) string {
			switch key {
			case "status":
				return tx.Status.String()
			case "cashier_id":
				return tx.CashierID
			case "customer_id":
				return tx.CustomerID
			}
			return ""
		})
	})
	res := paged(list, page)
	for i := range res.Items {
		res.Items[i] = res.Items[i].Clone()
	}
	return res, nil
}

func (r *TransactionRepository) Update(_ context.Context, tx *model.Transaction) (*model.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.transactions.has(tx.ID) {
		return nil, fmt.Errorf("%w: transaction %s", model.ErrNotFound, tx.ID)
	}
	r.s.transactions.put(tx.ID, tx.Clone())
	out := tx.Clone()
	return &out, nil
}

func (r *TransactionRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transactions.remove(id)
	return nil
}

// PaymentRepository is the in-memory repository.PaymentRepository.
type PaymentRepository struct{ s *Store }

// NewPaymentRepository creates a PaymentRepository over s.
func NewPaymentRepository(s *Store) *PaymentRepository { return &PaymentRepository{s: s} }

var _ repository.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) Save(_ context.Context, p *model.Payment) (*model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.payments.has(p.ID) {
		return nil, fmt.Errorf("%w: payment %s already exists", model.ErrPersistence, p.ID)
	}
	r.s.payments.put(p.ID, p.Clone())
	out := p.Clone()
	return &out, nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id string) (*model.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.payments.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: payment %s", model.ErrNotFound, id)
	}
	out := p.Clone()
	return &out, nil
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) ([]model.Payment, error) {
	res, err := r.FindAll(ctx, map[string]string{"transaction_id": transactionID}, repository.PageQuery{})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (r *PaymentRepository) FindAll(_ context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.s.payments.list(func(p model.Payment) bool {
		return matches(filters, func(key string) string {
			switch key {
			case "status":
				return p.Status.String()
			case "method":
				return p.Method.String()
			case "transaction_id":
				return p.TransactionID
			}
			return ""
		})
	})
	res := paged(list, page)
	for i := range res.Items {
		res.Items[i] = res.Items[i].Clone()
	}
	return res, nil
}

func (r *PaymentRepository) Update(_ context.Context, p *model.Payment) (*model.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.payments.has(p.ID) {
		return nil, fmt.Errorf("%w: payment %s", model.ErrNotFound, p.ID)
	}
	r.s.payments.put(p.ID, p.Clone())
	out := p.Clone()
	return &out, nil
}

func (r *PaymentRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.payments.remove(id)
	return nil
}
