package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/relmap/internal/config"
	"github.com/roach88/relmap/internal/ir"
	"github.com/roach88/relmap/internal/resolver"
	"github.com/roach88/relmap/internal/store"
	"github.com/roach88/relmap/internal/testutil"
)

// Harness is the scenario execution engine.
// It runs transforms with a fixed request ID and a sequence counter so
// traces are byte-identical between runs.
type Harness struct {
	store  *store.Store
	cfg    *config.Config
	ids    *testutil.FixedRequestIDs
	logger *slog.Logger
	seq    int64
}

// Option configures a Harness run.
type Option func(*Harness)

// WithLogger sets the logger handed to the resolver. Logs are discarded
// by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Load configuration and seed the network
// 3. Run each transform against a fresh registry stack
// 4. Check expectations and evaluate assertions
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	cfg := scenario.Config.Build()
	if scenario.ConfigFile != "" {
		cfg, err = config.Load(scenario.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	h := &Harness{
		store:  st,
		cfg:    cfg,
		ids:    testutil.NewFixedRequestIDs(""),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}

	ctx := context.Background()
	if err := SeedNetwork(ctx, st, scenario.Network); err != nil {
		return nil, fmt.Errorf("failed to seed network: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Transforms {
		if err := h.executeTransform(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("transform %d: %w", i, err)
		}
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// SeedNetwork writes a network fixture into st.
func SeedNetwork(ctx context.Context, st *store.Store, n NetworkFixture) error {
	for _, site := range n.Sites {
		if err := st.AddSite(ctx, site.ID, site.Name); err != nil {
			return err
		}
		for _, post := range site.Posts {
			if err := st.AddPost(ctx, site.ID, post.ID.ID(), ir.TypeTag(post.Type)); err != nil {
				return err
			}
			for key, value := range post.Meta {
				if err := st.SetPostMeta(ctx, site.ID, post.ID.ID(), key, string(value)); err != nil {
					return err
				}
			}
		}
		for _, term := range site.Terms {
			desc := ir.TermDescriptor{ID: term.ID.ID(), Taxonomy: term.Taxonomy, Slug: term.Slug}
			if err := st.AddTerm(ctx, site.ID, desc); err != nil {
				return err
			}
		}
	}
	for _, cp := range n.Crossposts {
		if err := st.LinkCrosspost(ctx, cp.Source, cp.SourceID.ID(), cp.Target, cp.TargetID.ID()); err != nil {
			return err
		}
	}
	return nil
}

func (h *Harness) nextSeq() int64 {
	h.seq++
	return h.seq
}

// executeTransform runs one transform the way a crossposting request does:
// source pushed, target pushed, then the field filter fires.
func (h *Harness) executeTransform(ctx context.Context, index int, step TransformStep, result *Result) error {
	net := store.NewNetwork(h.store, h.cfg.SecondaryKeys)
	if err := net.SwitchRegistry(ctx, step.Source); err != nil {
		return err
	}
	if err := net.SwitchRegistry(ctx, step.Target); err != nil {
		return err
	}

	rec := &recorder{net: net, h: h, out: result}
	c := resolver.Collaborators{
		Registry: rec,
		Entities: rec,
		Products: rec,
		Keys:     h.cfg,
	}
	if !step.Unavailable {
		c.CrossRef = rec
		c.Terms = rec
	}
	r, err := resolver.New(c, resolver.WithLogger(h.logger), resolver.WithRequestIDs(h.ids))
	if err != nil {
		return err
	}

	res, transformErr := r.Transform(ctx, step.Key, string(step.Value), step.Object.ID())

	event := TraceEvent{
		Seq:            h.nextSeq(),
		Type:           EventTransform,
		Key:            step.Key,
		Classification: res.Classification.String(),
		Input:          string(step.Value),
		Output:         res.Output,
	}
	if transformErr != nil {
		event.Error = transformErr.Error()
	}
	result.Trace = append(result.Trace, event)

	h.checkExpect(index, step, res, transformErr, result)
	return nil
}

func (h *Harness) checkExpect(index int, step TransformStep, res *resolver.Result, err error, result *Result) {
	exp := step.Expect
	prefix := fmt.Sprintf("transforms[%d] %s=%q", index, step.Key, string(step.Value))

	switch {
	case exp.Error && err == nil:
		result.AddError(fmt.Sprintf("%s: expected registry error, got none", prefix))
	case !exp.Error && err != nil:
		result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, err))
	}

	if exp.Output != nil && string(*exp.Output) != res.Output {
		result.AddError(fmt.Sprintf("%s: output = %q, expected %q", prefix, res.Output, string(*exp.Output)))
	}
	if exp.Classification != "" && exp.Classification != res.Classification.String() {
		result.AddError(fmt.Sprintf("%s: classification = %s, expected %s", prefix, res.Classification, exp.Classification))
	}

	h.logger.Info("transform completed",
		"step", index,
		"key", step.Key,
		"output", res.Output,
		"pass", result.Pass,
	)
}
