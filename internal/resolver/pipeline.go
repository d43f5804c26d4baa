package resolver

import (
	"context"
	"log/slog"

	"github.com/roach88/relmap/internal/ir"
)

// pipeline is one resolution strategy split at the registry switch.
//
// collect runs while the source registry is active; resolve runs after the
// single switch to the target registry. Implementations must not touch the
// registry pointer themselves.
type pipeline interface {
	collect(ctx context.Context, tokens []ir.Identifier, rc ir.RegistryContext)
	resolve(ctx context.Context, rc ir.RegistryContext) []ir.Identifier
}

// runTwoPhase executes p across the registry switch.
//
// On entry the target registry is active with the source one level below
// it. The source is restored, every source-side read runs, then the target
// is switched back in exactly once, regardless of the number of tokens.
// If that switch fails the source is left active.
func runTwoPhase(ctx context.Context, reg RegistrySwitcher, p pipeline, tokens []ir.Identifier) ([]ir.Identifier, ir.RegistryContext, error) {
	target := reg.ActiveRegistry(ctx)
	if err := reg.RestorePreviousRegistry(ctx); err != nil {
		return nil, ir.RegistryContext{Target: target}, &RegistryError{Op: "restore", Registry: target, Err: err}
	}
	rc := ir.RegistryContext{Source: reg.ActiveRegistry(ctx), Target: target}

	p.collect(ctx, tokens, rc)

	if err := reg.SwitchRegistry(ctx, target); err != nil {
		return nil, rc, &RegistryError{Op: "switch", Registry: target, Err: err}
	}
	return p.resolve(ctx, rc), rc, nil
}

// results accumulates resolved identifiers in arrival order, skipping
// identifiers already present.
type results struct {
	ids  []ir.Identifier
	seen map[string]struct{}
}

func (r *results) add(id ir.Identifier) {
	if r.seen == nil {
		r.seen = make(map[string]struct{})
	}
	if _, dup := r.seen[id.Key()]; dup {
		return
	}
	r.seen[id.Key()] = struct{}{}
	r.ids = append(r.ids, id)
}

// list returns the accumulated identifiers, never nil.
func (r *results) list() []ir.Identifier {
	if r.ids == nil {
		return []ir.Identifier{}
	}
	return r.ids
}

// Drop reasons attached to debug records.
const (
	dropEmpty           = "empty token"
	dropMissingSource   = "entity missing on source"
	dropNoCorrelate     = "no correlate on target"
	dropNoSecondaryKey  = "no secondary key on source"
	dropNoSecondaryHit  = "secondary key not found on target"
	dropNoNaturalKeyHit = "natural key not found on target"
)

func logDrop(ctx context.Context, log *slog.Logger, token string, reason string) {
	log.DebugContext(ctx, "token dropped", "token", token, "reason", reason)
}

func logLookupFailure(ctx context.Context, log *slog.Logger, op, token string, err error) {
	log.WarnContext(ctx, "lookup failed, token dropped", "op", op, "token", token, "error", err)
}
