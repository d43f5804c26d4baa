package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/relmap/internal/harness"
	"github.com/roach88/relmap/internal/store"
)

const (
	testScenariosDir = "../harness/testdata/scenarios"
	testGoldenDir    = "../harness/testdata/golden"
)

const testConfig = `
relationships: {
	post: ["related_posts"]
	term: ["topics"]
}
secondary_keys: product: "_sku"
`

// setupNetwork seeds the crosspost-network scenario into a temp database
// and writes a matching config. Returns the database and config paths.
func setupNetwork(t *testing.T) (dbPath, configPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "network.db")
	configPath = filepath.Join(dir, "relmap.cue")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644))

	scenario, err := harness.LoadScenario(filepath.Join(testScenariosDir, "crosspost_network.yaml"))
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, harness.SeedNetwork(context.Background(), st, scenario.Network))

	return dbPath, configPath
}
