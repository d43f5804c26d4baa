package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchema(t *testing.T) {
	s := createTestStore(t)

	tables := []string{"sites", "posts", "post_meta", "terms", "crossposts"}
	for _, table := range tables {
		t.Run(table, func(t *testing.T) {
			var name string
			err := s.DB().QueryRow(
				`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
			).Scan(&name)
			require.NoError(t, err)
			assert.Equal(t, table, name)
		})
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1")) // NORMAL
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
}

func TestOpenSetsSchemaVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	require.NoError(t, s.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)

	var idx string
	err := s.DB().QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_post_meta_value'`,
	).Scan(&idx)
	require.NoError(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relmap.db")

	s1, err := Open(path)
	require.NoError(t, err)
	seedNetwork(t, s1)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var n int
	require.NoError(t, s2.DB().QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&n))
	assert.Equal(t, 4, n, "reopening must keep existing data")
}

func TestCloseNilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}
