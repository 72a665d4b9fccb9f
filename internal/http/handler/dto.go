package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"retailapi/internal/model"
	"retailapi/internal/repository"
	"retailapi/internal/service"
)

type lineItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  uint   `json:"quantity" validate:"required,gt=0"`
}

type createTransactionRequest struct {
	CashierID  string            `json:"cashier_id" validate:"required,max=64"`
	CustomerID string            `json:"customer_id" validate:"required,max=64"`
	Items      []lineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type updateTransactionRequest struct {
	Items []lineItemRequest `json:"items" validate:"required,min=1,dive"`
}

func toLineItems(in []lineItemRequest) []service.LineItemInput {
	out := make([]service.LineItemInput, 0, len(in))
	for _, li := range in {
		out = append(out, service.LineItemInput{ProductID: li.ProductID, Quantity: li.Quantity})
	}
	return out
}

type createPaymentRequest struct {
	TransactionID string          `json:"transaction_id" validate:"required,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method" validate:"required"`
	DueDate       *time.Time      `json:"due_date"`
}

type installmentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type createProductRequest struct {
	Name  string          `json:"name" validate:"required,max=200"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock" validate:"gte=0"`
}

type createCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
	Email string `json:"email" validate:"omitempty,email"`
}

type createSupplierRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Contact   string `json:"contact" validate:"omitempty,max=200"`
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  uint   `json:"quantity" validate:"required,gt=0"`
}

// transactionResponse adds the computed amounts to a transaction.
type transactionResponse struct {
	model.Transaction
	Total decimal.Decimal `json:"total"`
}

func newTransactionResponse(tx model.Transaction) transactionResponse {
	return transactionResponse{Transaction: tx, Total: tx.Total()}
}

type paymentResponse struct {
	model.Payment
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

func newPaymentResponse(p model.Payment) paymentResponse {
	return paymentResponse{Payment: p, TotalPaid: p.TotalPaid(), Outstanding: p.Outstanding()}
}

// listResponse is the envelope of every collection endpoint.
type listResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Data: items, Total: len(items)}
}

// pageResponse is the envelope of paginated collection endpoints. Total counts every match.
type pageResponse[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func newPage[S, T any](res *repository.PageResult[S], page repository.PageQuery, f func(S) T) pageResponse[T] {
	page = page.Bounded()
	out := make([]T, 0, len(res.Items))
	for _, it := range res.Items {
		out = append(out, f(it))
	}
	return pageResponse[T]{Data: out, Total: res.Total, Limit: page.Limit, Offset: page.Offset}
}

func same[T any](v T) T { return v }

func mapList[S, T any](items []S, f func(S) T) listResponse[T] {
	out := make([]T, 0, len(items))
	for _, it := range items {
		out = append(out, f(it))
	}
	return newList(out)
}
