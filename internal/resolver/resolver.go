package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/relmap/internal/codec"
	"github.com/roach88/relmap/internal/ir"
)

// Resolver remaps relationship field values from a source registry to the
// registry being crossposted to.
//
// Thread-safety: a Resolver holds no per-call state, but each call drives
// the shared registry pointer, so calls against the same RegistrySwitcher
// must not overlap.
type Resolver struct {
	c      Collaborators
	logger *slog.Logger
	ids    RequestIDGenerator
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRequestIDs sets the request ID generator. Defaults to UUIDv7Generator.
func WithRequestIDs(g RequestIDGenerator) Option {
	return func(r *Resolver) {
		if g != nil {
			r.ids = g
		}
	}
}

// New creates a Resolver.
//
// Registry and Keys are always required. When CrossRef is present Terms is
// required too, and Products requires Entities to classify tokens.
func New(c Collaborators, opts ...Option) (*Resolver, error) {
	switch {
	case c.Registry == nil:
		return nil, fmt.Errorf("%w: registry switcher", ErrMissingCollaborator)
	case c.Keys == nil:
		return nil, fmt.Errorf("%w: key registry", ErrMissingCollaborator)
	case c.CrossRef != nil && c.Terms == nil:
		return nil, fmt.Errorf("%w: terms", ErrMissingCollaborator)
	case c.Products != nil && c.Entities == nil:
		return nil, fmt.Errorf("%w: entity catalog (required by secondary keys)", ErrMissingCollaborator)
	}

	r := &Resolver{
		c:      c,
		logger: slog.Default(),
		ids:    UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Available reports whether crossposting correlation is present.
// Without it every field passes through unchanged.
func (r *Resolver) Available() bool {
	return r.c.CrossRef != nil
}

// Classify returns the relationship kind of fieldKey against the currently
// registered key sets.
func (r *Resolver) Classify(fieldKey string) ir.Classification {
	return NewClassifier(
		r.c.Keys.RegisteredPostRelationshipKeys(),
		r.c.Keys.RegisteredTermRelationshipKeys(),
	).Classify(fieldKey)
}

// Result describes one field transform.
type Result struct {
	RequestID      string
	FieldKey       string
	Classification ir.Classification
	Input          ir.RelationshipValue
	Resolved       []ir.Identifier
	Registries     ir.RegistryContext
	Output         string

	// Passthrough is true when the value was returned without resolution.
	Passthrough bool
}

// Transform resolves one field value and reports how it was handled.
//
// On a registry switch failure the returned Result carries the raw value
// as Output alongside the error.
func (r *Resolver) Transform(ctx context.Context, fieldKey, raw string, objectID ir.Identifier) (*Result, error) {
	res := &Result{
		RequestID:   r.ids.Generate(),
		FieldKey:    fieldKey,
		Output:      raw,
		Passthrough: true,
	}
	log := r.logger.With("request_id", res.RequestID, "field", fieldKey, "object", objectID.String())

	if !r.Available() {
		log.DebugContext(ctx, "crossposting unavailable, field passed through")
		return res, nil
	}

	res.Classification = r.Classify(fieldKey)
	var p pipeline
	switch res.Classification {
	case ir.PostRelationship:
		p = &postPipeline{
			crossRef: r.c.CrossRef,
			entities: r.c.Entities,
			products: r.c.Products,
			log:      log,
		}
	case ir.TermRelationship:
		p = &termPipeline{terms: r.c.Terms, log: log}
	default:
		return res, nil
	}

	res.Input = codec.Decode(raw)
	resolved, rc, err := runTwoPhase(ctx, r.c.Registry, p, res.Input.Tokens)
	res.Registries = rc
	if err != nil {
		log.ErrorContext(ctx, "field left unchanged", "error", err)
		return res, err
	}

	res.Resolved = resolved
	res.Output = codec.Encode(res.Input.WithTokens(resolved))
	res.Passthrough = false

	log.InfoContext(ctx, "field remapped",
		"kind", res.Classification.String(),
		"shape", res.Input.Shape.String(),
		"source", rc.Source.String(),
		"target", rc.Target.String(),
		"tokens", len(res.Input.Tokens),
		"resolved", len(resolved),
	)
	return res, nil
}

// TransformFieldValue returns rawValue remapped to the target registry.
//
// Unregistered fields, and every field when crossposting is unavailable,
// come back unchanged. Tokens without a correlate are dropped. The only
// error is a failed registry switch, in which case rawValue is returned.
// A *RegistryError with Op "switch" means the source registry is still
// active; re-switch to the target before storing the value.
func (r *Resolver) TransformFieldValue(ctx context.Context, fieldKey, rawValue string, objectID ir.Identifier) (string, error) {
	res, err := r.Transform(ctx, fieldKey, rawValue, objectID)
	if err != nil {
		return rawValue, err
	}
	return res.Output, nil
}
