package domain

import "strings"

// Currency is a user-defined unit of account. The (user, abbreviation) pair
// is unique; abbreviations are lowercased on write.
type Currency struct {
	ID           int64
	UserID       int64
	Abbreviation string
	Symbol       string
	Name         string
}

// NormalizeAbbreviation lowercases a currency abbreviation the way the store
// persists it.
func NormalizeAbbreviation(abbreviation string) string {
	return strings.ToLower(strings.TrimSpace(abbreviation))
}
