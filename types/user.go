package types

import "time"

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user, generated at creation
	// and immutable afterwards.
	ID string `json:"id" db:"id"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// Email is the user's email address, unique across all accounts.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Sanitized returns a copy of the user with the password hash dropped,
// safe to hand to clients or attach to a request context.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}
