package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an item the store sells. Stock may go negative when a sale outruns recorded deliveries.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	CreatedAt time.Time       `json:"created_at"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Supplier is an upstream goods provider together with the quantity of the product it delivers.
type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	ProductID string    `json:"product_id"`
	Quantity  uint      `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// SupplierTransaction is the log entry written whenever a supplier delivery is saved.
type SupplierTransaction struct {
	ID         string    `json:"id"`
	SupplierID string    `json:"supplier_id"`
	ProductID  string    `json:"product_id"`
	Quantity   uint      `json:"quantity"`
	RecordedAt time.Time `json:"recorded_at"`
}

type AuditLog struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entity_id"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// StockChange describes one stock adjustment of a product.
type StockChange struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Stock     int    `json:"stock"`
	Reason    string `json:"reason"`
}
