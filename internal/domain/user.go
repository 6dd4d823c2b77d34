package domain

import "time"

// User is the principal that authenticates against the API. Users are not
// employees; they only exist to hold credentials.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
