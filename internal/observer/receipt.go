package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"retailapi/internal/event"
	"retailapi/internal/model"
	"retailapi/internal/storage"
)

const receiptPrefix = "receipts/"

// Receipt is the archived JSON document of a completed sale.
type Receipt struct {
	TransactionID string           `json:"transaction_id"`
	CashierID     string           `json:"cashier_id"`
	CustomerID    string           `json:"customer_id"`
	CreatedAt     time.Time        `json:"created_at"`
	ArchivedAt    time.Time        `json:"archived_at"`
	Items         []model.LineItem `json:"items"`
	Total         decimal.Decimal  `json:"total"`
}

// ReceiptArchiver stores a receipt for every completed transaction in object storage.
type ReceiptArchiver struct {
	store storage.Storage
	now   func() time.Time
}

// NewReceiptArchiver creates a ReceiptArchiver writing into store.
func NewReceiptArchiver(store storage.Storage) *ReceiptArchiver {
	return &ReceiptArchiver{store: store, now: func() time.Time { return time.Now().UTC() }}
}

var _ event.TransactionCompletedObserver = (*ReceiptArchiver)(nil)

// ReceiptKey is the object key of a transaction's receipt.
func ReceiptKey(transactionID string) string {
	return receiptPrefix + transactionID + ".json"
}

func (a *ReceiptArchiver) OnTransactionCompleted(ctx context.Context, tx model.Transaction) error {
	body, err := json.Marshal(Receipt{
		TransactionID: tx.ID,
		CashierID:     tx.CashierID,
		CustomerID:    tx.CustomerID,
		CreatedAt:     tx.CreatedAt,
		ArchivedAt:    a.now(),
		Items:         tx.Items,
		Total:         tx.Total(),
	})
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	_, err = a.store.Put(ctx, ReceiptKey(tx.ID), bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata:    map[string]string{"transaction-id": tx.ID},
	})
	if err != nil {
		return fmt.Errorf("archive receipt: %w", err)
	}
	return nil
}

// ReceiptURL presigns a download link for an archived receipt.
// A transaction without a receipt yields model.ErrNotFound.
func (a *ReceiptArchiver) ReceiptURL(ctx context.Context, transactionID string, expiry time.Duration) (string, error) {
	key := ReceiptKey(transactionID)
	if _, err := a.store.Stat(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", fmt.Errorf("%w: receipt for transaction %s", model.ErrNotFound, transactionID)
		}
		return "", err
	}
	return a.store.PresignGet(ctx, key, expiry)
}
