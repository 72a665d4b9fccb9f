// Package memory implements the repository ports over an in-process Store.
//
// A Store is an arena of entities keyed by id. It is created by the composition root and handed to each
// repository explicitly; there is no package-level state. All repositories created from one Store share its
// lock, so a single Store behaves like one small database.
package memory

import (
	"sync"

	"retailapi/internal/model"
	"retailapi/internal/repository"
)

// Store holds every entity kind in insertion order.
type Store struct {
	mu sync.RWMutex

	transactions arena[model.Transaction]
	payments     arena[model.Payment]
	products     arena[model.Product]
	customers    arena[model.Customer]
	suppliers    arena[model.Supplier]
	supplierTxs  arena[model.SupplierTransaction]
	auditLogs    arena[model.AuditLog]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		transactions: newArena[model.Transaction](),
		payments:     newArena[model.Payment](),
		products:     newArena[model.Product](),
		customers:    newArena[model.Customer](),
		suppliers:    newArena[model.Supplier](),
		supplierTxs:  newArena[model.SupplierTransaction](),
		auditLogs:    newArena[model.AuditLog](),
	}
}

type arena[T any] struct {
	items map[string]T
	order []string
}

func newArena[T any]() arena[T] {
	return arena[T]{items: make(map[string]T)}
}

func (a *arena[T]) has(id string) bool {
	_, ok := a.items[id]
	return ok
}

func (a *arena[T]) put(id string, v T) {
	if !a.has(id) {
		a.order = append(a.order, id)
	}
	a.items[id] = v
}

func (a *arena[T]) get(id string) (T, bool) {
	v, ok := a.items[id]
	return v, ok
}

func (a *arena[T]) remove(id string) {
	if !a.has(id) {
		return
	}
	delete(a.items, id)
	for i, v := range a.order {
		if v == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

func (a *arena[T]) list(match func(T) bool) []T {
	out := make([]T, 0, len(a.order))
	for _, id := range a.order {
		v := a.items[id]
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

// matches reports whether every filter equals the value returned by field for its key.
func matches(filters map[string]string, field func(key string) string) bool {
	for k, want := range filters {
		if field(k) != want {
			return false
		}
	}
	return true
}

// paged cuts one page out of matches. Total is the size of matches.
func paged[T any](matches []T, pq repository.PageQuery) *repository.PageResult[T] {
	start, end := pq.Window(len(matches))
	return repository.NewPageResult(append([]T(nil), matches[start:end]...), len(matches))
}
