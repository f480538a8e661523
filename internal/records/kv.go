// ABOUTME: Generic typed get/put over the raw per-user kv store
// ABOUTME: Reads degrade to the caller default on absence or corruption

package records

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/focusflow/focusflow/internal/store"
)

// Get reads the value stored under (userID, key) and parses it into T.
// It never fails outward: an absent row or a value that does not parse as
// T both yield the caller-supplied default. Unreadable stored state must
// not block readers; it degrades to "missing".
func Get[T any](ctx context.Context, s store.Store, userID string, key Key, def T) T {
	raw, err := s.GetValue(ctx, userID, string(key))
	if err != nil {
		return def
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return def
	}
	return value
}

// Put serializes value and upserts it under (userID, key). The previous
// value is replaced whole; concurrent writers race under last-write-wins.
func Put[T any](ctx context.Context, s store.Store, userID string, key Key, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serializing %s: %w", key, err)
	}

	if err := s.PutValue(ctx, userID, string(key), string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
