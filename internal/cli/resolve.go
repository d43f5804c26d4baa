package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/relmap/internal/config"
	"github.com/roach88/relmap/internal/ir"
	"github.com/roach88/relmap/internal/resolver"
	"github.com/roach88/relmap/internal/store"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	Database string
	Config   string
	Source   int64
	Target   int64
	Key      string
	Value    string
	Object   string

	// RequestIDs allows overriding the request ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RequestIDs resolver.RequestIDGenerator
}

// ResolveData is the JSON payload of a resolve.
type ResolveData struct {
	Key            string `json:"key"`
	Classification string `json:"classification"`
	Input          string `json:"input"`
	Output         string `json:"output"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Remap one field value to a target site",
		Long: `Remap one relationship field value from a source site to a target site.

The value is read the way it is stored (a single ID, a comma-separated
list, a JSON array or a PHP serialized array) and written back in the
same form. IDs without a match on the target are dropped. Fields not
registered in the config are printed unchanged.

Exit codes:
  0 - Value printed
  1 - Registry switch failed; the input value is printed unchanged
  2 - Command error (config, database, unknown site)

Examples:
  relmap resolve --db ./network.db --config ./relmap.cue \
    --source 1 --target 2 --key related_posts --value "12,45"
  relmap resolve --db ./network.db --config ./relmap.cue \
    --source 1 --target 2 --key topics --value '["8"]' --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to CUE config file or directory (required)")
	cmd.Flags().Int64Var(&opts.Source, "source", 0, "source site ID (required)")
	cmd.Flags().Int64Var(&opts.Target, "target", 0, "target site ID (required)")
	cmd.Flags().StringVar(&opts.Key, "key", "", "meta key of the field (required)")
	cmd.Flags().StringVar(&opts.Value, "value", "", "stored field value")
	cmd.Flags().StringVar(&opts.Object, "object", "0", "ID of the object the field belongs to")
	for _, name := range []string{"db", "config", "source", "target", "key"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runResolve(opts *ResolveOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	// Use command's context if available (for testing), otherwise create one
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fail(formatter, ExitCommandError, errorCode(err), "failed to load config", err)
	}

	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return fail(formatter, ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", opts.Database), nil)
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	// The state a crossposting request is in: source pushed, then target.
	net := store.NewNetwork(st, cfg.SecondaryKeys)
	for _, site := range []ir.RegistryHandle{ir.RegistryHandle(opts.Source), ir.RegistryHandle(opts.Target)} {
		if err := net.SwitchRegistry(ctx, site); err != nil {
			return fail(formatter, ExitCommandError, ErrCodeUnknownSite, fmt.Sprintf("cannot activate site %s", site), err)
		}
	}
	formatter.VerboseLog("resolving %s on site %d for site %d", opts.Key, opts.Source, opts.Target)

	r, err := resolver.New(resolver.Collaborators{
		Registry: net,
		CrossRef: net,
		Entities: net,
		Products: net,
		Terms:    net,
		Keys:     cfg,
	}, resolver.WithLogger(logger), resolver.WithRequestIDs(opts.RequestIDs))
	if err != nil {
		return fail(formatter, ExitCommandError, ErrCodeGeneric, "failed to create resolver", err)
	}

	res, err := r.Transform(ctx, opts.Key, opts.Value, ir.ParseID(opts.Object))
	if err != nil {
		_ = formatter.Error(ErrCodeRegistry, "field left unchanged", map[string]string{
			"output": res.Output,
			"error":  err.Error(),
		})
		return WrapExitError(ExitFailure, "field left unchanged", err)
	}

	if opts.Format == "json" {
		return formatter.SuccessWithTrace(ResolveData{
			Key:            res.FieldKey,
			Classification: res.Classification.String(),
			Input:          opts.Value,
			Output:         res.Output,
		}, res.RequestID)
	}
	return formatter.Success(res.Output)
}
