package user

import "errors"

// MinimumAge is the youngest age accepted at registration.
const MinimumAge = 18

// ErrEmailTaken is returned by repositories when the email unique index rejects an insert.
var ErrEmailTaken = errors.New("email already registered")

// User represents a registered portal user.
type User struct {
	ID           int64  // ID is generated by the store
	Name         string // Name is the full name of the user
	MobileNumber string // MobileNumber is kept as entered
	Age          int    // Age at registration, at least MinimumAge
	Email        string // Email is unique across users
	PasswordHash string // PasswordHash is an opaque salted hash, never the plaintext
}

// IsAdult reports whether age satisfies the registration minimum.
func IsAdult(age int) bool {
	return age >= MinimumAge
}
