// ABOUTME: Store interface and data types for focusflow persistence
// ABOUTME: Defines the User struct and the user/kv operations backed by SQLite

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that already exists
var ErrDuplicateEmail = errors.New("email already used")

// PublicOwner is the sentinel user id that owns kv rows written before the
// store had per-user namespacing. The legacy migration files all pre-auth
// rows under this owner.
const PublicOwner = "public"

// User represents a registered account. Rows are created once at
// registration and never updated or deleted.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Store defines the interface for user and kv persistence
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CountUsers(ctx context.Context) (int, error)

	// Key/value, namespaced per user. Values are opaque serialized JSON;
	// interpretation lives in the records package.
	GetValue(ctx context.Context, userID, key string) (string, error)
	PutValue(ctx context.Context, userID, key, value string) error

	// Close releases any resources held by the store
	Close() error
}
