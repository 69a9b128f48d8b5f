package store

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertAnalysis_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.UpsertAnalysis(ctx, "https://example.com", "page content", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	a, err := s.GetAnalysis(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, id, a.ID)
	assert.Equal(t, "https://example.com", a.URL)
	assert.Equal(t, "page content", a.RawContent)
	assert.Nil(t, a.Insights)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestUpsertAnalysis_UpdateKeepsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.UpsertAnalysis(ctx, "https://example.com", "v1", nil)
	require.NoError(t, err)

	insights := json.RawMessage(`{"industry":"Technology"}`)
	second, err := s.UpsertAnalysis(ctx, "https://example.com", "v2", insights)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	a, err := s.GetAnalysis(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "v2", a.RawContent)
	assert.JSONEq(t, `{"industry":"Technology"}`, string(a.Insights))

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestUpsertAnalysis_ConcurrentFirstWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 10
	ids := make([]string, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = s.UpsertAnalysis(ctx, "https://example.com", "content", nil)
		}(i)
	}
	wg.Wait()

	for i := range writers {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i], "all writers must observe the same row id")
	}

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM analyses`).Scan(&count))
	assert.Equal(t, 1, count, "concurrent first analyses must not duplicate rows")
}

func TestGetAnalysis_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetAnalysis(context.Background(), "https://unknown.example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversations_AppendAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, q := range []string{"first", "second", "third"} {
		_, err := s.AppendConversation(ctx, "https://example.com", q, "answer")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	_, err := s.AppendConversation(ctx, "https://other.example.com", "elsewhere", "answer")
	require.NoError(t, err)

	turns, err := s.RecentConversations(ctx, "https://example.com", 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)

	// Most recent first.
	assert.Equal(t, "third", turns[0].Query)
	assert.Equal(t, "second", turns[1].Query)
	assert.Equal(t, "first", turns[2].Query)

	limited, err := s.RecentConversations(ctx, "https://example.com", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "third", limited[0].Query)
}

func TestRecentConversations_Empty(t *testing.T) {
	s := newTestStore(t)

	turns, err := s.RecentConversations(context.Background(), "https://example.com", 10)
	require.NoError(t, err)
	assert.NotNil(t, turns)
	assert.Empty(t, turns)
}
