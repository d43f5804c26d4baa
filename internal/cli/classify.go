package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/relmap/internal/config"
	"github.com/roach88/relmap/internal/resolver"
)

// ClassifyOptions holds flags for the classify command.
type ClassifyOptions struct {
	*RootOptions
	Config string
}

// ClassifyEntry is the classification of one meta key.
type ClassifyEntry struct {
	Key            string `json:"key"`
	Classification string `json:"classification"`
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClassifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "classify <key>...",
		Short: "Show how meta keys are classified",
		Long: `Show whether each meta key is a post relationship, a term relationship,
or neither under the given config. Stored keys may carry the "_pods_"
prefix; it is ignored when matching.

Examples:
  relmap classify --config ./relmap.cue related_posts _pods_topics price`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "", "path to CUE config file or directory (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func runClassify(opts *ClassifyOptions, keys []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.OutOrStdout(),
		Verbose: opts.Verbose,
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fail(formatter, ExitCommandError, errorCode(err), "failed to load config", err)
	}

	classifier := resolver.NewClassifier(cfg.RegisteredPostRelationshipKeys(), cfg.RegisteredTermRelationshipKeys())
	entries := make([]ClassifyEntry, len(keys))
	for i, key := range keys {
		entries[i] = ClassifyEntry{Key: key, Classification: classifier.Classify(key).String()}
	}

	if opts.Format == "json" {
		return formatter.Success(entries)
	}
	w := cmd.OutOrStdout()
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Classification)
	}
	return nil
}
