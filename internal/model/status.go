package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// TransactionStatus is the lifecycle state of a sales transaction.
// The zero value is not a valid status.
type TransactionStatus int

const (
	StatusInProgress TransactionStatus = iota + 1
	StatusCompleted
	StatusCancelled
)

var transactionStatusTokens = map[TransactionStatus]string{
	StatusInProgress: "MASIHDIPROSES",
	StatusCompleted:  "SELESAI",
	StatusCancelled:  "DIBATALKAN",
}

// ParseTransactionStatus maps a wire token to a status, ignoring case.
// Unknown tokens report false.
func ParseTransactionStatus(s string) (TransactionStatus, bool) {
	return parseToken(transactionStatusTokens, s)
}

// String returns the canonical wire token, or "" for an unknown status.
func (s TransactionStatus) String() string { return transactionStatusTokens[s] }

// Terminal reports whether no further transitions are allowed.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s TransactionStatus) MarshalText() ([]byte, error) {
	return marshalToken(transactionStatusTokens, s, "transaction status")
}

func (s *TransactionStatus) UnmarshalText(b []byte) error {
	return unmarshalToken(transactionStatusTokens, s, b, "transaction status")
}

func (s TransactionStatus) Value() (driver.Value, error) {
	b, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *TransactionStatus) Scan(src any) error {
	return scanToken(transactionStatusTokens, s, src, "transaction status")
}

// PaymentStatus is the reconciliation state of a payment.
type PaymentStatus int

const (
	PaymentInstallment PaymentStatus = iota + 1
	PaymentPaid
)

var paymentStatusTokens = map[PaymentStatus]string{
	PaymentInstallment: "CICILAN",
	PaymentPaid:        "LUNAS",
}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	return parseToken(paymentStatusTokens, s)
}

func (s PaymentStatus) String() string { return paymentStatusTokens[s] }

func (s PaymentStatus) MarshalText() ([]byte, error) {
	return marshalToken(paymentStatusTokens, s, "payment status")
}

func (s *PaymentStatus) UnmarshalText(b []byte) error {
	return unmarshalToken(paymentStatusTokens, s, b, "payment status")
}

func (s PaymentStatus) Value() (driver.Value, error) {
	b, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *PaymentStatus) Scan(src any) error {
	return scanToken(paymentStatusTokens, s, src, "payment status")
}

// PaymentMethod is how a payment is settled. It is fixed when the payment is created.
type PaymentMethod int

const (
	MethodCash PaymentMethod = iota + 1
	MethodCreditCard
	MethodBankTransfer
	MethodEWallet
)

var paymentMethodTokens = map[PaymentMethod]string{
	MethodCash:         "CASH",
	MethodCreditCard:   "CREDIT_CARD",
	MethodBankTransfer: "BANK_TRANSFER",
	MethodEWallet:      "E_WALLET",
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	return parseToken(paymentMethodTokens, s)
}

func (m PaymentMethod) String() string { return paymentMethodTokens[m] }

func (m PaymentMethod) MarshalText() ([]byte, error) {
	return marshalToken(paymentMethodTokens, m, "payment method")
}

func (m *PaymentMethod) UnmarshalText(b []byte) error {
	return unmarshalToken(paymentMethodTokens, m, b, "payment method")
}

func (m PaymentMethod) Value() (driver.Value, error) {
	b, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *PaymentMethod) Scan(src any) error {
	return scanToken(paymentMethodTokens, m, src, "payment method")
}

func parseToken[E comparable](table map[E]string, s string) (E, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for v, token := range table {
		if token == s {
			return v, true
		}
	}
	var zero E
	return zero, false
}

func marshalToken[E comparable](table map[E]string, v E, kind string) ([]byte, error) {
	token, ok := table[v]
	if !ok {
		return nil, fmt.Errorf("%w: unknown %s %v", ErrValidation, kind, v)
	}
	return []byte(token), nil
}

func unmarshalToken[E comparable](table map[E]string, dst *E, b []byte, kind string) error {
	v, ok := parseToken(table, string(b))
	if !ok {
		return fmt.Errorf("%w: unknown %s %q", ErrValidation, kind, string(b))
	}
	*dst = v
	return nil
}

func scanToken[E comparable](table map[E]string, dst *E, src any, kind string) error {
	switch v := src.(type) {
	case string:
		return unmarshalToken(table, dst, []byte(v), kind)
	case []byte:
		return unmarshalToken(table, dst, v, kind)
	default:
		return fmt.Errorf("%w: cannot scan %T into %s", ErrPersistence, src, kind)
	}
}
