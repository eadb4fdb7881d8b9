package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Query(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, d := range []Document{
		{ID: "1", Text: "def Fibonacci(n): pass"},
		{ID: "2", Text: "console.log('hi')"},
		{ID: "3", Text: "fibonacci in go"},
		{ID: "4", Text: "memoized FIBONACCI"},
		{ID: "5", Text: "fibonacci again"},
	} {
		require.NoError(t, s.Add(ctx, d))
	}

	got, err := s.Query(ctx, "fibonacci", 0)
	require.NoError(t, err)
	require.Len(t, got, DefaultK)
	assert.Equal(t, []string{"1", "3", "4"}, []string{got[0].ID, got[1].ID, got[2].ID})

	got, err = s.Query(ctx, "rust", 3)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryStore_AddReplacesSameID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Add(ctx, Document{ID: "a", Text: "old"}))
	require.NoError(t, s.Add(ctx, Document{ID: "a", Text: "new"}))

	assert.Equal(t, 1, s.Len())
	got, _ := s.Query(ctx, "new", 3)
	require.Len(t, got, 1)
}
