package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"retailapi/internal/event"
	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// CreateProductInput carries the fields of a new catalog product. Stock may start negative or zero.
type CreateProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

// ProductService defines the use cases for the product catalog.
type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Product], error)
}

type productService struct {
	repo repository.ProductRepository
}

// NewProductService constructs a new ProductService.
func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", model.ErrValidation)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", model.ErrValidation)
	}
	p := &model.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     in.Price,
		Stock:     in.Stock,
		CreatedAt: time.Now().UTC(),
	}
	saved, err := s.repo.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return saved, nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, id)
}

func (s *productService) List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Product], error) {
	f, err := repository.NormalizeFilters(filters, repository.ProductFilterKeys, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, f, page.Bounded())
}

// CreateCustomerInput carries the fields of a new customer. Phone and email are optional.
type CreateCustomerInput struct {
	Name  string
	Phone string
	Email string
}

// CustomerService defines the use cases for customers.
type CustomerService interface {
	Create(ctx context.Context, in CreateCustomerInput) (*model.Customer, error)
	Get(ctx context.Context, id string) (*model.Customer, error)
	List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Customer], error)
}

type customerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService constructs a new CustomerService.
func NewCustomerService(repo repository.CustomerRepository) CustomerService {
	return &customerService{repo: repo}
}

func (s *customerService) Create(ctx context.Context, in CreateCustomerInput) (*model.Customer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", model.ErrValidation)
	}
	c := &model.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		CreatedAt: time.Now().UTC(),
	}
	saved, err := s.repo.Save(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	return saved, nil
}

func (s *customerService) Get(ctx context.Context, id string) (*model.Customer, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, id)
}

func (s *customerService) List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Customer], error) {
	f, err := repository.NormalizeFilters(filters, repository.CustomerFilterKeys, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, f, page.Bounded())
}

// CreateSupplierInput records a supplier delivery of Quantity units of one product.
type CreateSupplierInput struct {
	Name      string
	Contact   string
	ProductID string
	Quantity  uint
}

// SupplierService defines the use cases for suppliers and their delivery log.
type SupplierService interface {
	// Create stores the supplier and notifies observers, which restock the product and log the delivery.
	Create(ctx context.Context, in CreateSupplierInput) (*model.Supplier, error)
	Get(ctx context.Context, id string) (*model.Supplier, error)
	List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Supplier], error)
	Transactions(ctx context.Context, supplierID string) ([]model.SupplierTransaction, error)
}

type supplierService struct {
	repo     repository.SupplierRepository
	products repository.ProductRepository
	logs     repository.SupplierTransactionRepository
	events   Notifier
}

// NewSupplierService constructs a new SupplierService. Saved suppliers are announced through events.
func NewSupplierService(
	repo repository.SupplierRepository,
	products repository.ProductRepository,
	logs repository.SupplierTransactionRepository,
	events Notifier,
) SupplierService {
	return &supplierService{repo: repo, products: products, logs: logs, events: notifierOrNop(events)}
}

func (s *supplierService) Create(ctx context.Context, in CreateSupplierInput) (*model.Supplier, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: supplier name is required", model.ErrValidation)
	}
	if in.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", model.ErrValidation)
	}
	if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown product %s", model.ErrValidation, in.ProductID)
		}
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	sp := &model.Supplier{
		ID:        uuid.NewString(),
		Name:      name,
		Contact:   strings.TrimSpace(in.Contact),
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		CreatedAt: time.Now().UTC(),
	}
	saved, err := s.repo.Save(ctx, sp)
	if err != nil {
		return nil, fmt.Errorf("save supplier: %w", err)
	}
	s.events.Notify(ctx, event.SupplierSaved{Supplier: *saved})
	return saved, nil
}

func (s *supplierService) Get(ctx context.Context, id string) (*model.Supplier, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.FindByID(ctx, id)
}

func (s *supplierService) List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Supplier], error) {
	f, err := repository.NormalizeFilters(filters, repository.SupplierFilterKeys, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, f, page.Bounded())
}

func (s *supplierService) Transactions(ctx context.Context, supplierID string) ([]model.SupplierTransaction, error) {
	if _, err := s.Get(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.logs.FindBySupplierID(ctx, supplierID)
}

// AuditService lists the audit trail written by observers.
type AuditService interface {
	List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.AuditLog], error)
}

type auditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService constructs a new AuditService.
func NewAuditService(repo repository.AuditLogRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) List(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.AuditLog], error) {
	f, err := repository.NormalizeFilters(filters, repository.AuditLogFilterKeys, nil)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, f, page.Bounded())
}
