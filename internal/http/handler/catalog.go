package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"retailapi/internal/repository"
	"retailapi/internal/service"
)

func getByID[T any](get func(ctx context.Context, id string) (*T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		v, err := get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

type listFunc[T any] func(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[T], error)

func listAll[T any](list listFunc[T]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filters, page, err := listQuery(c)
		if err != nil {
			return writeServiceError(c, err)
		}
		res, err := list(c.UserContext(), filters, page)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newPage(res, page, same[T]))
	}
}

// CreateProduct
//
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param body body createProductRequest true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} errorPayload
// @Router /products [post]
func CreateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createProductRequest
		if msg, ok := bindBody(c, &req); !ok {
			return invalidBody(c, msg)
		}
		p, err := svc.Create(c.UserContext(), service.CreateProductInput{Name: req.Name, Price: req.Price, Stock: req.Stock})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ListProducts filters by name (substring).
//
// @Summary List products
// @Tags products
// @Produce json
// @Param name query string false "Name contains"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} pageResponse[model.Product]
// @Router /products [get]
func ListProducts(svc service.ProductService) fiber.Handler {
	return listAll(svc.List)
}

// GetProduct
//
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errorPayload
// @Router /products/{id} [get]
func GetProduct(svc service.ProductService) fiber.Handler {
	return getByID(svc.Get)
}

// CreateCustomer
//
// @Summary Create customer
// @Tags customers
// @Accept json
// @Produce json
// @Param body body createCustomerRequest true "Customer"
// @Success 201 {object} model.Customer
// @Failure 400 {object} errorPayload
// @Router /customers [post]
func CreateCustomer(svc service.CustomerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createCustomerRequest
		if msg, ok := bindBody(c, &req); !ok {
			return invalidBody(c, msg)
		}
		cu, err := svc.Create(c.UserContext(), service.CreateCustomerInput{Name: req.Name, Phone: req.Phone, Email: req.Email})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(cu)
	}
}

// ListCustomers filters by name, phone or email.
//
// @Summary List customers
// @Tags customers
// @Produce json
// @Param name query string false "Name contains"
// @Param phone query string false "Phone"
// @Param email query string false "Email contains"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} pageResponse[model.Customer]
// @Router /customers [get]
func ListCustomers(svc service.CustomerService) fiber.Handler {
	return listAll(svc.List)
}

// GetCustomer
//
// @Summary Get customer
// @Tags customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} model.Customer
// @Failure 404 {object} errorPayload
// @Router /customers/{id} [get]
func GetCustomer(svc service.CustomerService) fiber.Handler {
	return getByID(svc.Get)
}

// CreateSupplier records a supplier delivery; observers restock the product.
//
// @Summary Create supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Param body body createSupplierRequest true "Supplier"
// @Success 201 {object} model.Supplier
// @Failure 400 {object} errorPayload
// @Router /suppliers [post]
func CreateSupplier(svc service.SupplierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createSupplierRequest
		if msg, ok := bindBody(c, &req); !ok {
			return invalidBody(c, msg)
		}
		s, err := svc.Create(c.UserContext(), service.CreateSupplierInput{
			Name:      req.Name,
			Contact:   req.Contact,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(s)
	}
}

// ListSuppliers filters by name or product_id.
//
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Param name query string false "Name contains"
// @Param product_id query string false "Product"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} pageResponse[model.Supplier]
// @Router /suppliers [get]
func ListSuppliers(svc service.SupplierService) fiber.Handler {
	return listAll(svc.List)
}

// GetSupplier
//
// @Summary Get supplier
// @Tags suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} model.Supplier
// @Failure 404 {object} errorPayload
// @Router /suppliers/{id} [get]
func GetSupplier(svc service.SupplierService) fiber.Handler {
	return getByID(svc.Get)
}

// SupplierTransactions lists the delivery log of a supplier.
//
// @Summary Supplier deliveries
// @Tags suppliers
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {object} listResponse[model.SupplierTransaction]
// @Failure 404 {object} errorPayload
// @Router /suppliers/{id}/transactions [get]
func SupplierTransactions(svc service.SupplierService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := pathID(c)
		if !ok {
			return invalidID(c)
		}
		logs, err := svc.Transactions(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newList(logs))
	}
}

// ListAuditLogs filters by action, entity or entity_id.
//
// @Summary List audit logs
// @Tags audit
// @Produce json
// @Param action query string false "Action"
// @Param entity query string false "Entity"
// @Param entity_id query string false "Entity ID"
// @Param limit query int false "Page size (1-200, default 50)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} pageResponse[model.AuditLog]
// @Router /audit-logs [get]
func ListAuditLogs(svc service.AuditService) fiber.Handler {
	return listAll(svc.List)
}
