package resolver

import (
	"context"
	"log/slog"

	"github.com/roach88/relmap/internal/ir"
)

// termPipeline resolves taxonomy terms by natural key.
//
// Numeric term IDs differ between registries, so each term is described by
// (taxonomy, slug) on the source and re-found by that pair on the target.
type termPipeline struct {
	terms Terms
	log   *slog.Logger

	descriptors []ir.TermDescriptor
}

func (p *termPipeline) collect(ctx context.Context, tokens []ir.Identifier, _ ir.RegistryContext) {
	for _, tok := range tokens {
		if tok.IsEmpty() {
			logDrop(ctx, p.log, tok.String(), dropEmpty)
			continue
		}
		desc, ok, err := p.terms.GetTerm(ctx, tok)
		switch {
		case err != nil:
			logLookupFailure(ctx, p.log, "get_term", tok.String(), err)
		case !ok:
			logDrop(ctx, p.log, tok.String(), dropMissingSource)
		default:
			p.descriptors = append(p.descriptors, desc)
		}
	}
}

func (p *termPipeline) resolve(ctx context.Context, _ ir.RegistryContext) []ir.Identifier {
	var out results
	for _, desc := range p.descriptors {
		id, ok, err := p.terms.FindTermByNaturalKey(ctx, desc.Taxonomy, desc.Slug)
		switch {
		case err != nil:
			logLookupFailure(ctx, p.log, "find_term_by_natural_key", desc.ID.String(), err)
		case !ok:
			p.log.DebugContext(ctx, "token dropped",
				"token", desc.ID.String(),
				"taxonomy", desc.Taxonomy,
				"slug", desc.Slug,
				"reason", dropNoNaturalKeyHit,
			)
		default:
			out.add(id)
		}
	}
	return out.list()
}
