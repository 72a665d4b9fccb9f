package repository

import (
	"fmt"
	"sort"
	"strings"

	"retailapi/internal/model"
)

// Filter keys accepted by FindAll, per entity.
var (
	TransactionFilterKeys = []string{"status", "cashier_id", "customer_id"}
	PaymentFilterKeys     = []string{"status", "method", "transaction_id"}
	ProductFilterKeys     = []string{"name"}
	CustomerFilterKeys    = []string{"name", "phone", "email"}
	SupplierFilterKeys    = []string{"name", "product_id"}
	AuditLogFilterKeys    = []string{"action", "entity", "entity_id"}
)

// NormalizeFilters trims values, drops empty ones and rejects keys outside allowed.
// Enum-valued keys ("status", "method") are rewritten to their canonical token.
func NormalizeFilters(filters map[string]string, allowed []string, enums map[string]func(string) (string, bool)) (map[string]string, error) {
	out := make(map[string]string, len(filters))
	for k, v := range filters {
		key := strings.ToLower(strings.TrimSpace(k))
		if !contains(allowed, key) {
			return nil, fmt.Errorf("%w: unknown filter %q (allowed: %s)", model.ErrValidation, k, strings.Join(sorted(allowed), ", "))
		}
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if parse, ok := enums[key]; ok {
			canonical, ok := parse(v)
			if !ok {
				return nil, fmt.Errorf("%w: invalid %s %q", model.ErrValidation, key, v)
			}
			v = canonical
		}
		out[key] = v
	}
	return out, nil
}

// TransactionStatusFilter canonicalizes a transaction status filter value.
func TransactionStatusFilter(s string) (string, bool) {
	st, ok := model.ParseTransactionStatus(s)
	return st.String(), ok
}

func PaymentStatusFilter(s string) (string, bool) {
	st, ok := model.ParsePaymentStatus(s)
	return st.String(), ok
}

func PaymentMethodFilter(s string) (string, bool) {
	m, ok := model.ParsePaymentMethod(s)
	return m.String(), ok
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sorted(list []string) []string {
	out := append([]string(nil), list...)
	sort.Strings(out)
	return out
}
