package resolver

import (
	"context"
	"log/slog"

	"github.com/roach88/relmap/internal/ir"
)

// postPipeline resolves post-like entities.
//
// Most entities resolve through the crosspost map during the source pass.
// Entity types that correlate by secondary key are queued with their key
// and looked up on the target after the switch. Output is the direct hits
// in token order followed by the secondary-key hits in queue order.
type postPipeline struct {
	crossRef CrossReference
	entities EntityCatalog
	products SecondaryKeys
	log      *slog.Logger

	out        results
	candidates []ir.SecondaryKeyCandidate
}

func (p *postPipeline) collect(ctx context.Context, tokens []ir.Identifier, rc ir.RegistryContext) {
	for _, tok := range tokens {
		if tok.IsEmpty() {
			logDrop(ctx, p.log, tok.String(), dropEmpty)
			continue
		}

		if p.secondaryKeyed(ctx, tok) {
			p.queueSecondaryKey(ctx, tok)
			continue
		}

		id, ok, err := p.crossRef.LookupCorrelate(ctx, tok, rc.Target)
		switch {
		case err != nil:
			logLookupFailure(ctx, p.log, "lookup_correlate", tok.String(), err)
		case !ok:
			logDrop(ctx, p.log, tok.String(), dropNoCorrelate)
		default:
			p.out.add(id)
		}
	}
}

// secondaryKeyed reports whether tok's type correlates by secondary key.
// Unknown entities and failed type lookups take the crosspost map path.
func (p *postPipeline) secondaryKeyed(ctx context.Context, tok ir.Identifier) bool {
	if p.products == nil || p.entities == nil {
		return false
	}
	tag, ok, err := p.entities.EntityType(ctx, tok)
	if err != nil {
		p.log.WarnContext(ctx, "entity type lookup failed", "token", tok.String(), "error", err)
		return false
	}
	return ok && p.products.SecondaryKeyMode(tag)
}

func (p *postPipeline) queueSecondaryKey(ctx context.Context, tok ir.Identifier) {
	key, ok, err := p.products.SecondaryKeyOf(ctx, tok)
	switch {
	case err != nil:
		logLookupFailure(ctx, p.log, "secondary_key_of", tok.String(), err)
	case !ok || key == "":
		logDrop(ctx, p.log, tok.String(), dropNoSecondaryKey)
	default:
		p.candidates = append(p.candidates, ir.SecondaryKeyCandidate{Source: tok, Key: key})
	}
}

func (p *postPipeline) resolve(ctx context.Context, _ ir.RegistryContext) []ir.Identifier {
	for _, cand := range p.candidates {
		id, ok, err := p.products.FindBySecondaryKey(ctx, cand.Key)
		switch {
		case err != nil:
			logLookupFailure(ctx, p.log, "find_by_secondary_key", cand.Source.String(), err)
		case !ok:
			p.log.DebugContext(ctx, "token dropped", "token", cand.Source.String(), "key", cand.Key, "reason", dropNoSecondaryHit)
		default:
			p.out.add(id)
		}
	}
	return p.out.list()
}
