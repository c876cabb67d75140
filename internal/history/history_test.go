package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "segcraft.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	entries := []Entry{
		{
			RequestID:  "req-1",
			Mode:       "mock",
			FormatID:   "yadirect_text",
			Segments:   []string{"busy_pros", "students"},
			Variants:   2,
			Outcome:    "ok",
			DurationMs: 12,
		},
		{
			RequestID:  "req-2",
			Mode:       "live",
			Provider:   "openai",
			Model:      "gpt-4o-mini",
			FormatID:   "tg_post",
			Variants:   3,
			Outcome:    "schema_violation",
			DurationMs: 2140,
			CreatedAt:  time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(e))
	}

	got, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "req-2", got[0].RequestID)
	assert.Equal(t, "schema_violation", got[0].Outcome)
	assert.Equal(t, "openai", got[0].Provider)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), got[0].CreatedAt)

	assert.Equal(t, "req-1", got[1].RequestID)
	assert.Equal(t, []string{"busy_pros", "students"}, got[1].Segments)
	assert.False(t, got[1].CreatedAt.IsZero(), "zero CreatedAt is stamped on insert")
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(Entry{
			RequestID: "req", Mode: "mock", FormatID: "tg_post", Variants: 1, Outcome: "ok",
		}))
	}

	got, err := store.Recent(3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRecentEmptyStore(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Recent(10)
	require.NoError(t, err)
	assert.Empty(t, got)
}
