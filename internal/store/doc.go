// Package store provides persistent storage for focusflow using SQLite.
//
// # Architecture
//
// The package exposes a single Store interface covering the two concerns
// the backend has:
//
//   - User accounts: creation, lookup by email, and a count used by the
//     single-admin registration guard
//   - Key-value records: per-user JSON documents addressed by (user, key)
//
// SQLiteStore implements the interface on a single database file using the
// pure-Go modernc.org/sqlite driver, so no cgo is required.
//
// # Data Model
//
// Two tables:
//
//	users  (id, email UNIQUE, password_hash, created_at)
//	kv     (user_id, key, value, PRIMARY KEY (user_id, key))
//
// Record values are opaque JSON strings; the store never inspects them.
// Typed access lives in the records package.
//
// # Legacy Migration
//
// Earlier deployments used a single-user kv table keyed only by record
// name. Opening such a database rewrites every row under the sentinel
// owner "public" inside one transaction, before the current schema is
// applied. The migration runs at most once; databases already in the
// current shape are left untouched.
//
// # Error Handling
//
// Lookups that find nothing return ErrNotFound. Creating a user with an
// email that already exists returns ErrDuplicateEmail. All other errors
// are wrapped with context about the failing operation.
package store
