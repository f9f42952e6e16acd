package domain

import "strings"

// User owns currencies (and, through them, accounts and transactions).
type User struct {
	ID             int64
	Email          string
	GivenName      string
	MiddleName     string
	FamilyName     string
	Suffix         string
	HashedPassword string
	Admin          bool
}

// FullName joins the user's name parts, skipping empty ones.
func (u *User) FullName() string {
	names := make([]string, 0, 4)
	names = append(names, u.GivenName)
	if u.MiddleName != "" {
		names = append(names, u.MiddleName)
	}
	names = append(names, u.FamilyName)
	if u.Suffix != "" {
		names = append(names, u.Suffix)
	}
	return strings.Join(names, " ")
}
