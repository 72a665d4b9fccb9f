package postgres

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// ProductPostgres is a PostgreSQL implementation of repository.ProductRepository.
type ProductPostgres struct {
	db *sql.DB
}

// NewProductPostgres creates a new ProductPostgres.
func NewProductPostgres(db *sql.DB) *ProductPostgres {
	return &ProductPostgres{db: db}
}

var _ repository.ProductRepository = (*ProductPostgres)(nil)

// Save inserts a product and returns the stored row.
func (r *ProductPostgres) Save(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products (id, name, price, stock, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, price, stock, created_at
	`
	out, err := scanProduct(r.db.QueryRowContext(ctx, q, p.ID, p.Name, p.Price, p.Stock, p.CreatedAt))
	if err != nil {
		return nil, dbErr(err, "save product")
	}
	return out, nil
}

// FindByID fetches a product. It returns model.ErrNotFound if no row exists.
func (r *ProductPostgres) FindByID(ctx context.Context, id string) (*model.Product, error) {
	const q = `SELECT id, name, price, stock, created_at FROM products WHERE id = $1`
	out, err := scanProduct(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, dbErr(err, "product "+id)
	}
	return out, nil
}

// FindAll returns one page of products in creation order and the total match count.
func (r *ProductPostgres) FindAll(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Product], error) {
	var where []sq.Sqlizer
	if v, ok := filters["name"]; ok {
		where = append(where, sq.ILike{"name": "%" + v + "%"})
	}
	total, err := countRows(ctx, r.db, "products", where)
	if err != nil {
		return nil, dbErr(err, "count products")
	}
	if total == 0 {
		return repository.NewPageResult[model.Product](nil, 0), nil
	}

	q, args, err := selectPage("products", []string{"id", "name", "price", "stock", "created_at"}, where, page).ToSql()
	if err != nil {
		return nil, dbErr(err, "build product query")
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbErr(err, "list products")
	}
	defer rows.Close()

	list := make([]model.Product, 0)
	for rows.Next() {
		item, err := scanProduct(rows)
		if err != nil {
			return nil, dbErr(err, "scan product")
		}
		list = append(list, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list products")
	}
	return repository.NewPageResult(list, total), nil
}

// AdjustStock adds delta to the product stock in one statement and returns the updated row.
func (r *ProductPostgres) AdjustStock(ctx context.Context, id string, delta int) (*model.Product, error) {
	const q = `
		UPDATE products SET stock = stock + $1
		WHERE id = $2
		RETURNING id, name, price, stock, created_at
	`
	out, err := scanProduct(r.db.QueryRowContext(ctx, q, delta, id))
	if err != nil {
		return nil, dbErr(err, "product "+id)
	}
	return out, nil
}

func scanProduct(row rowScanner) (*model.Product, error) {
	var p model.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CustomerPostgres is a PostgreSQL implementation of repository.CustomerRepository.
type CustomerPostgres struct {
	db *sql.DB
}

// NewCustomerPostgres creates a new CustomerPostgres.
func NewCustomerPostgres(db *sql.DB) *CustomerPostgres {
	return &CustomerPostgres{db: db}
}

var _ repository.CustomerRepository = (*CustomerPostgres)(nil)

// Save inserts a customer and returns the stored row.
func (r *CustomerPostgres) Save(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	const q = `
		INSERT INTO customers (id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, phone, email, created_at
	`
	out, err := scanCustomer(r.db.QueryRowContext(ctx, q, c.ID, c.Name, c.Phone, c.Email, c.CreatedAt))
	if err != nil {
		return nil, dbErr(err, "save customer")
	}
	return out, nil
}

// FindByID fetches a customer. It returns model.ErrNotFound if no row exists.
func (r *CustomerPostgres) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	const q = `SELECT id, name, phone, email, created_at FROM customers WHERE id = $1`
	out, err := scanCustomer(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, dbErr(err, "customer "+id)
	}
	return out, nil
}

// FindAll returns one page of customers in creation order and the total match count.
func (r *CustomerPostgres) FindAll(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Customer], error) {
	var where []sq.Sqlizer
	if v, ok := filters["name"]; ok {
		where = append(where, sq.ILike{"name": "%" + v + "%"})
	}
	if v, ok := filters["phone"]; ok {
		where = append(where, sq.Eq{"phone": v})
	}
	if v, ok := filters["email"]; ok {
		where = append(where, sq.ILike{"email": v})
	}
	total, err := countRows(ctx, r.db, "customers", where)
	if err != nil {
		return nil, dbErr(err, "count customers")
	}
	if total == 0 {
		return repository.NewPageResult[model.Customer](nil, 0), nil
	}

	q, args, err := selectPage("customers", []string{"id", "name", "phone", "email", "created_at"}, where, page).ToSql()
	if err != nil {
		return nil, dbErr(err, "build customer query")
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbErr(err, "list customers")
	}
	defer rows.Close()

	list := make([]model.Customer, 0)
	for rows.Next() {
		item, err := scanCustomer(rows)
		if err != nil {
			return nil, dbErr(err, "scan customer")
		}
		list = append(list, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list customers")
	}
	return repository.NewPageResult(list, total), nil
}

func scanCustomer(row rowScanner) (*model.Customer, error) {
	var c model.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// SupplierPostgres is a PostgreSQL implementation of repository.SupplierRepository.
type SupplierPostgres struct {
	db *sql.DB
}

// NewSupplierPostgres creates a new SupplierPostgres.
func NewSupplierPostgres(db *sql.DB) *SupplierPostgres {
	return &SupplierPostgres{db: db}
}

var _ repository.SupplierRepository = (*SupplierPostgres)(nil)

// Save inserts a supplier and returns the stored row.
func (r *SupplierPostgres) Save(ctx context.Context, s *model.Supplier) (*model.Supplier, error) {
	const q = `
		INSERT INTO suppliers (id, name, contact, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, contact, product_id, quantity, created_at
	`
	out, err := scanSupplier(r.db.QueryRowContext(ctx, q, s.ID, s.Name, s.Contact, s.ProductID, s.Quantity, s.CreatedAt))
	if err != nil {
		return nil, dbErr(err, "save supplier")
	}
	return out, nil
}

// FindByID fetches a supplier. It returns model.ErrNotFound if no row exists.
func (r *SupplierPostgres) FindByID(ctx context.Context, id string) (*model.Supplier, error) {
	const q = `SELECT id, name, contact, product_id, quantity, created_at FROM suppliers WHERE id = $1`
	out, err := scanSupplier(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, dbErr(err, "supplier "+id)
	}
	return out, nil
}

// FindAll returns one page of suppliers in creation order and the total match count.
func (r *SupplierPostgres) FindAll(ctx context.Context, filters map[string]string, page repository.PageQuery) (*repository.PageResult[model.Supplier], error) {
	var where []sq.Sqlizer
	if v, ok := filters["name"]; ok {
		where = append(where, sq.ILike{"name": "%" + v + "%"})
	}
	if v, ok := filters["product_id"]; ok {
		where = append(where, sq.Eq{"product_id": v})
	}
	total, err := countRows(ctx, r.db, "suppliers", where)
	if err != nil {
		return nil, dbErr(err, "count suppliers")
	}
	if total == 0 {
		return repository.NewPageResult[model.Supplier](nil, 0), nil
	}

	q, args, err := selectPage("suppliers", []string{"id", "name", "contact", "product_id", "quantity", "created_at"}, where, page).ToSql()
	if err != nil {
		return nil, dbErr(err, "build supplier query")
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, dbErr(err, "list suppliers")
	}
	defer rows.Close()

	list := make([]model.Supplier, 0)
	for rows.Next() {
		item, err := scanSupplier(rows)
		if err != nil {
			return nil, dbErr(err, "scan supplier")
		}
		list = append(list, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err, "list suppliers")
	}
	return repository.NewPageResult(list, total), nil
}

func scanSupplier(row rowScanner) (*model.Supplier, error) {
	var s model.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.ProductID, &s.Quantity, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
