// Package records defines the typed record set stored per user.
//
// # Record Keys
//
// Six fixed keys cover everything the client persists:
//
//   - tasks, tags, sessions: JSON arrays, replaced wholesale on write
//   - settings, challenge, draft: single JSON objects
//
// There is no partial update; a write replaces the entire record.
//
// # Typed Access
//
// Get and Put are generic over the record's Go type. Get never fails from
// the caller's perspective: an absent row, unreadable JSON, or a value of
// the wrong shape all yield the caller's default. This keeps the read
// path total even when the stored state predates a schema change.
//
// # Provisioning
//
// Provisioner seeds a fresh user with starter records: default timer
// settings, three starter tags, an unenrolled monthly challenge spanning
// the current calendar month, an empty session draft, and empty task and
// session lists.
package records
