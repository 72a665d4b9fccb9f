package memory

import (
	"context"
	"fmt"
	"strings"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

type ProductRepository struct{ s *Store }

// NewProductRepository creates a ProductRepository over s.
func NewProductRepository(s *Store) *ProductRepository { return &ProductRepository{s: s} }

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) Save(_ context.Context, p *model.Product) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.products.has(p.ID) {
		return nil, fmt.Errorf("%w: product %s already exists", model.ErrPersistence, p.ID)
	}
	r.s.products.put(p.ID, *p)
	out := *p
	return &out, nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: product %s", model.ErrNotFound, id)
	}
	return &p, nil
}

// FindAll matches "name" as a case-insensitive substring.
func (r *ProductRepository) FindAll(_ context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Product], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	name := strings.ToLower(filters["name"])
	return paged(r.s.products.list(func(p model.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), name)
	}), page), nil
}

func (r *ProductRepository) AdjustStock(_ context.Context, id string, delta int) (*model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: product %s", model.ErrNotFound, id)
	}
	p.Stock += delta
	r.s.products.put(id, p)
	return &p, nil
}

type CustomerRepository struct{ s *Store }

// NewCustomerRepository creates a CustomerRepository over s.
func NewCustomerRepository(s *Store) *CustomerRepository { return &CustomerRepository{s: s} }

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

func (r *CustomerRepository) Save(_ context.Context, c *model.Customer) (*model.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.customers.has(c.ID) {
		return nil, fmt.Errorf("%w: customer %s already exists", model.ErrPersistence, c.ID)
	}
	r.s.customers.put(c.ID, *c)
	out := *c
	return &out, nil
}

func (r *CustomerRepository) FindByID(_ context.Context, id string) (*model.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", model.ErrNotFound, id)
	}
	return &c, nil
}

func (r *CustomerRepository) FindAll(_ context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Customer], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	name := strings.ToLower(filters["name"])
	return paged(r.s.customers.list(func(c model.Customer) bool {
		if !strings.Contains(strings.ToLower(c.Name), name) {
			return false
		}
		if v, ok := filters["phone"]; ok && c.Phone != v {
			return false
		}
		if v, ok := filters["email"]; ok && !strings.EqualFold(c.Email, v) {
			return false
		}
		return true
	}), page), nil
}

type SupplierRepository struct{ s *Store }

// NewSupplierRepository creates a SupplierRepository over s.
func NewSupplierRepository(s *Store) *SupplierRepository { return &SupplierRepository{s: s} }

var _ repository.SupplierRepository = (*SupplierRepository)(nil)

func (r *SupplierRepository) Save(_ context.Context, sp *model.Supplier) (*model.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.suppliers.has(sp.ID) {
		return nil, fmt.Errorf("%w: supplier %s already exists", model.ErrPersistence, sp.ID)
	}
	r.s.suppliers.put(sp.ID, *sp)
	out := *sp
	return &out, nil
}

func (r *SupplierRepository) FindByID(_ context.Context, id string) (*model.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.suppliers.get(id)
	if !ok {
		return nil, fmt.Errorf("%w: supplier %s", model.ErrNotFound, id)
	}
	return &sp, nil
}

func (r *SupplierRepository) FindAll(_ context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Supplier], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	name := strings.ToLower(filters["name"])
	return paged(r.s.suppliers.list(func(sp model.Supplier) bool {
		if !strings.Contains(strings.ToLower(sp.Name), name) {
			return false
		}
		pid, ok := filters["product_id"]
		return !ok || sp.ProductID == pid
	}), page), nil
}

type SupplierTransactionRepository struct{ s *Store }

// NewSupplierTransactionRepository creates a SupplierTransactionRepository over s.
func NewSupplierTransactionRepository(s *Store) *SupplierTransactionRepository {
	return &SupplierTransactionRepository{s: s}
}

var _ repository.SupplierTransactionRepository = (*SupplierTransactionRepository)(nil)

func (r *SupplierTransactionRepository) Save(_ context.Context, st *model.SupplierTransaction) (*model.SupplierTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.supplierTxs.has(st.ID) {
		return nil, fmt.Errorf("%w: supplier transaction %s already exists", model.ErrPersistence, st.ID)
	}
	r.s.supplierTxs.put(st.ID, *st)
	out := *st
	return &out, nil
}

func (r *SupplierTransactionRepository) FindBySupplierID(_ context.Context, supplierID string) ([]model.SupplierTransaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.supplierTxs.list(func(st model.SupplierTransaction) bool {
		return st.SupplierID == supplierID
	}), nil
}

type AuditLogRepository struct{ s *Store }

// NewAuditLogRepository creates an AuditLogRepository over s.
func NewAuditLogRepository(s *Store) *AuditLogRepository { return &AuditLogRepository{s: s} }

var _ repository.AuditLogRepository = (*AuditLogRepository)(nil)

func (r *AuditLogRepository) Save(_ context.Context, entry *model.AuditLog) (*model.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.auditLogs.has(entry.ID) {
		return nil, fmt.Errorf("%w: audit log %s already exists", model.ErrPersistence, entry.ID)
	}
	r.s.auditLogs.put(entry.ID, *entry)
	out := *entry
	return &out, nil
}

func (r *AuditLogRepository) FindAll(_ context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.AuditLog], error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return paged(r.s.auditLogs.list(func(a model.AuditLog) bool {
		return matches(filters, func(key string) string {
			switch key {
			case "action":
				return a.Action
			case "entity":
				return a.Entity
			case "entity_id":
				return a.EntityID
			}
			return ""
		})
	}), page), nil
}
