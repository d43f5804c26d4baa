package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relmap/internal/ir"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedNetwork creates sites 1 and 2 with a product, a post and terms on each.
//
//	site 1: post 10 (product, _sku=ABC), post 12 (post), term 8 category/news
//	site 2: post 55 (product, _sku=ABC), post 99 (post), term 30 category/news
//	crosspost: 12@1 -> 99@2
func seedNetwork(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.AddSite(ctx, 1, "main"))
	require.NoError(t, s.AddSite(ctx, 2, "shop"))

	require.NoError(t, s.AddPost(ctx, 1, ir.IntID(10), "product"))
	require.NoError(t, s.SetPostMeta(ctx, 1, ir.IntID(10), "_sku", "ABC"))
	require.NoError(t, s.AddPost(ctx, 1, ir.IntID(12), "post"))
	require.NoError(t, s.AddTerm(ctx, 1, ir.TermDescriptor{ID: ir.IntID(8), Taxonomy: "category", Slug: "news"}))

	require.NoError(t, s.AddPost(ctx, 2, ir.IntID(55), "product"))
	require.NoError(t, s.SetPostMeta(ctx, 2, ir.IntID(55), "_sku", "ABC"))
	require.NoError(t, s.AddPost(ctx, 2, ir.IntID(99), "post"))
	require.NoError(t, s.AddTerm(ctx, 2, ir.TermDescriptor{ID: ir.IntID(30), Taxonomy: "category", Slug: "news"}))

	require.NoError(t, s.LinkCrosspost(ctx, 1, ir.IntID(12), 2, ir.IntID(99)))
}
