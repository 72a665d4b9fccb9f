package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment tracks what is owed for a transaction and the installments received so far.
type Payment struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"method"`
	Status        PaymentStatus   `json:"status"`
	Installments  []Installment   `json:"installments"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Installment is a single recorded amount paid towards a payment.
type Installment struct {
	ID         string          `json:"id"`
	PaymentID  string          `json:"payment_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reference  string          `json:"reference"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// TotalPaid sums the recorded installments.
func (p Payment) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, in := range p.Installments {
		total = total.Add(in.Amount)
	}
	return total
}

// Outstanding is the amount still owed, never negative.
func (p Payment) Outstanding() decimal.Decimal {
	rest := p.Amount.Sub(p.TotalPaid())
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// Clone returns a deep copy. Installments is never nil, so a payment without installments encodes as [].
func (p Payment) Clone() Payment {
	out := p
	out.Installments = append(make([]Installment, 0, len(p.Installments)), p.Installments...)
	if p.DueDate != nil {
		d := *p.DueDate
		out.DueDate = &d
	}
	return out
}
