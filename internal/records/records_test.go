// ABOUTME: Tests for typed kv access, default provisioning and tag removal
// ABOUTME: Round-trips values through a real SQLite store

package records

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusflow/focusflow/internal/store"
)

func setupTestStore(t *testing.T) store.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestGet_ReturnsDefaultWhenNeverWritten(t *testing.T) {
	s := setupTestStore(t)

	tasks := Get(context.Background(), s, "user-1", KeyTasks, []Task{})
	assert.Empty(t, tasks)

	settings := Get(context.Background(), s, "user-1", KeySettings, DefaultSettings())
	assert.Equal(t, DefaultSettings(), settings)
}

func TestGet_ReturnsDefaultOnCorruptValue(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutValue(ctx, "user-1", string(KeySessions), `{not json`))

	sessions := Get(ctx, s, "user-1", KeySessions, []SessionRecord{})
	assert.Empty(t, sessions)
}

func TestGet_ReturnsDefaultOnWrongShape(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// Valid JSON, but an object where a list is expected.
	require.NoError(t, s.PutValue(ctx, "user-1", string(KeyTasks), `{"id":"t1"}`))

	tasks := Get(ctx, s, "user-1", KeyTasks, []Task{})
	assert.Empty(t, tasks)
}

func TestPutThenGet_RoundTrips(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tagID := "tag-deep"
	sessions := []SessionRecord{
		{ID: "s1", Date: "2026-08-27", Minutes: 25, TagID: &tagID, Title: "morning block"},
		{ID: "s2", Date: "2026-08-28", Minutes: 50, TagID: nil, TaskID: nil},
	}

	require.NoError(t, Put(ctx, s, "user-1", KeySessions, sessions))

	got := Get(ctx, s, "user-1", KeySessions, []SessionRecord{})
	assert.Equal(t, sessions, got)
}

func TestPut_ReplacesWhole(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, Put(ctx, s, "user-1", KeyTasks, []Task{{ID: "t1", Title: "one"}}))
	require.NoError(t, Put(ctx, s, "user-1", KeyTasks, []Task{{ID: "t2", Title: "two"}}))

	got := Get(ctx, s, "user-1", KeyTasks, []Task{})
	require.Len(t, got, 1)
	assert.Equal(t, "t2", got[0].ID)
}

func TestProvision_SeedsAllSixRecords(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := NewProvisioner(s)
	p.now = func() time.Time { return time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, p.Provision(ctx, "user-1"))

	for _, key := range append(append([]Key{}, ListKeys...), ObjectKeys...) {
		_, err := s.GetValue(ctx, "user-1", string(key))
		assert.NoError(t, err, "key %s should be provisioned", key)
	}

	tags := Get(ctx, s, "user-1", KeyTags, []Tag{})
	require.Len(t, tags, 3)
	assert.Equal(t, "Deep Work", tags[0].Name)

	challenge := Get(ctx, s, "user-1", KeyChallenge, Challenge{})
	assert.Equal(t, 8, challenge.Month)
	assert.Equal(t, 2026, challenge.Year)
	assert.Equal(t, 25, challenge.GoalMinutes)
	assert.False(t, challenge.Enrolled)
	assert.Equal(t, "2026-08-01T00:00:00Z", challenge.Start)
	assert.Equal(t, "2026-08-31T00:00:00Z", challenge.End)
}

func TestDefaultChallenge_MonthBounds(t *testing.T) {
	// February in a leap year.
	c := DefaultChallenge(time.Date(2028, time.February, 10, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2028-02-01T00:00:00Z", c.Start)
	assert.Equal(t, "2028-02-29T00:00:00Z", c.End)
}

func TestRemoveTag_NullsReferences(t *testing.T) {
	deep := "tag-deep"
	study := "tag-study"
	tags := DefaultTags()
	sessions := []SessionRecord{
		{ID: "s1", Date: "2026-08-27", Minutes: 25, TagID: &deep},
		{ID: "s2", Date: "2026-08-28", Minutes: 30, TagID: &study},
		{ID: "s3", Date: "2026-08-28", Minutes: 10, TagID: nil},
	}

	keptTags, rewritten := RemoveTag(tags, sessions, "tag-deep")

	require.Len(t, keptTags, 2)
	for _, tag := range keptTags {
		assert.NotEqual(t, "tag-deep", tag.ID)
	}

	require.Len(t, rewritten, 3)
	assert.Nil(t, rewritten[0].TagID)
	require.NotNil(t, rewritten[1].TagID)
	assert.Equal(t, "tag-study", *rewritten[1].TagID)
	assert.Nil(t, rewritten[2].TagID)
}

func TestRemoveTag_UnknownTagLeavesEverything(t *testing.T) {
	deep := "tag-deep"
	tags := DefaultTags()
	sessions := []SessionRecord{{ID: "s1", Date: "2026-08-27", Minutes: 25, TagID: &deep}}

	keptTags, rewritten := RemoveTag(tags, sessions, "tag-nope")

	assert.Len(t, keptTags, 3)
	require.NotNil(t, rewritten[0].TagID)
	assert.Equal(t, "tag-deep", *rewritten[0].TagID)
}
