package query

import "sort"

// Compare orders two items: negative if a sorts before b, zero if equal.
type Compare[T any] func(a, b T) int

// Descending inverts a comparison.
func Descending[T any](cmp Compare[T]) Compare[T] {
	return func(a, b T) int {
		return -cmp(a, b)
	}
}

// Order stably sorts items by an explicit key list: earlier keys dominate,
// later keys break ties. An empty key list leaves the input order intact.
func Order[T any](items []T, keys []Compare[T]) {
	if len(keys) == 0 {
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		for _, key := range keys {
			switch c := key(items[i], items[j]); {
			case c < 0:
				return true
			case c > 0:
				return false
			}
		}
		return false
	})
}
