// Package query implements the generic filter/order/paginate pipeline used by
// the list endpoints. It operates on in-memory slices already scoped to the
// requesting user; it knows nothing about ordering invariants or balances.
package query

// Predicate reports whether an item matches one populated filter field.
type Predicate[T any] func(T) bool

// Filter applies the OR/AND combination rule: every populated field predicate
// is unioned, then the union is intersected with the base set. With no
// predicates the base set passes through unchanged.
func Filter[T any](items []T, predicates []Predicate[T]) []T {
	if len(predicates) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, p := range predicates {
			if p(item) {
				out = append(out, item)
				break
			}
		}
	}

	return out
}
