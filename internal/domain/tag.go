package domain

// Tag is a user-scoped label attachable to any number of transactions.
// The (user, name) pair is unique.
type Tag struct {
	ID     int64
	UserID int64
	Name   string
}
