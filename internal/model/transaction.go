package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a sales transaction recorded by a cashier for a customer.
// It carries no persistence tags and is shared by all layers.
type Transaction struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	CashierID  string            `json:"cashier_id"`
	CustomerID string            `json:"customer_id"`
	Items      []LineItem        `json:"items"`
	Status     TransactionStatus `json:"status"`
}

// LineItem is one product line. ProductName is copied from the product when the line is created.
type LineItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    uint            `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Subtotal is quantity times unit price.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Total is recomputed from the items on every call.
func (t Transaction) Total() decimal.Decimal {
	total := decimal.Zero
	for _, li := range t.Items {
		total = total.Add(li.Subtotal())
	}
	return total
}

// Clone returns a deep copy so observers and stores never share the items slice.
func (t Transaction) Clone() Transaction {
	out := t
	out.Items = append(make([]LineItem, 0, len(t.Items)), t.Items...)
	return out
}
