package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relmap/internal/harness"
	"github.com/roach88/relmap/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Database string
}

// SeedSummary counts what a seed wrote.
type SeedSummary struct {
	Database   string `json:"database"`
	Sites      int    `json:"sites"`
	Posts      int    `json:"posts"`
	Terms      int    `json:"terms"`
	Crossposts int    `json:"crossposts"`
}

func (s SeedSummary) String() string {
	return fmt.Sprintf("Seeded %s: %d site(s), %d post(s), %d term(s), %d crosspost(s)",
		s.Database, s.Sites, s.Posts, s.Terms, s.Crossposts)
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <scenario.yaml>",
		Short: "Load a scenario's network into a database",
		Long: `Load the network block of a scenario file (sites, posts with meta,
terms, crossposts) into a SQLite database, creating it if needed.
Seeding is idempotent: existing rows are updated in place.

Example:
  relmap seed --db ./network.db ./scenarios/crosspost_network.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(opts *SeedOptions, scenarioFile string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeNotFound, "failed to load scenario", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := harness.SeedNetwork(ctx, st, scenario.Network); err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to seed network", err)
	}

	summary := SeedSummary{
		Database:   opts.Database,
		Sites:      len(scenario.Network.Sites),
		Crossposts: len(scenario.Network.Crossposts),
	}
	for _, site := range scenario.Network.Sites {
		summary.Posts += len(site.Posts)
		summary.Terms += len(site.Terms)
	}
	return formatter.Success(summary)
}
