package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailapi/internal/model"
)

func TestNormalizeFilters(t *testing.T) {
	enums := map[string]func(string) (string, bool){"status": TransactionStatusFilter}

	t.Run("canonicalizes status and drops empty values", func(t *testing.T) {
		got, err := NormalizeFilters(map[string]string{
			"Status":      "selesai",
			"cashier_id":  " k1 ",
			"customer_id": "",
		}, TransactionFilterKeys, enums)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"status": "SELESAI", "cashier_id": "k1"}, got)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := NormalizeFilters(map[string]string{"total": "1"}, TransactionFilterKeys, enums)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("unknown status token", func(t *testing.T) {
		_, err := NormalizeFilters(map[string]string{"status": "done"}, TransactionFilterKeys, enums)
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("nil filters", func(t *testing.T) {
		got, err := NormalizeFilters(nil, TransactionFilterKeys, enums)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestEnumFilters(t *testing.T) {
	v, ok := PaymentStatusFilter("lunas")
	assert.True(t, ok)
	assert.Equal(t, "LUNAS", v)

	v, ok = PaymentMethodFilter("bank_transfer")
	assert.True(t, ok)
	assert.Equal(t, "BANK_TRANSFER", v)

	_, ok = PaymentMethodFilter("gold")
	assert.False(t, ok)
}
