package resolver

import (
	"context"

	"github.com/roach88/relmap/internal/ir"
)

// RegistrySwitcher changes which registry subsequent reads observe.
//
// The crossposting pipeline calls the resolver with the target registry
// already active and one previous registry (the source) on the stack.
type RegistrySwitcher interface {
	ActiveRegistry(ctx context.Context) ir.RegistryHandle
	SwitchRegistry(ctx context.Context, target ir.RegistryHandle) error
	RestorePreviousRegistry(ctx context.Context) error
}

// CrossReference answers whether a source entity has a known correlate on a
// target registry. Its presence is what enables the whole transform.
type CrossReference interface {
	LookupCorrelate(ctx context.Context, entity ir.Identifier, target ir.RegistryHandle) (ir.Identifier, bool, error)
}

// EntityCatalog reports entity types on the active registry.
// ok is false when the entity does not exist.
type EntityCatalog interface {
	EntityType(ctx context.Context, entity ir.Identifier) (ir.TypeTag, bool, error)
}

// SecondaryKeys correlates entity types that are crossposted by a business
// key such as a SKU. It is optional.
type SecondaryKeys interface {
	// SecondaryKeyMode reports whether entities of this type correlate by secondary key.
	SecondaryKeyMode(tag ir.TypeTag) bool
	// SecondaryKeyOf reads an entity's key on the active registry.
	SecondaryKeyOf(ctx context.Context, entity ir.Identifier) (string, bool, error)
	// FindBySecondaryKey finds an entity by key on the active registry.
	FindBySecondaryKey(ctx context.Context, key string) (ir.Identifier, bool, error)
}

// Terms reads taxonomy terms on the active registry.
type Terms interface {
	GetTerm(ctx context.Context, id ir.Identifier) (ir.TermDescriptor, bool, error)
	FindTermByNaturalKey(ctx context.Context, taxonomy, slug string) (ir.Identifier, bool, error)
}

// KeyRegistry supplies the field keys registered as relationships.
type KeyRegistry interface {
	RegisteredPostRelationshipKeys() []string
	RegisteredTermRelationshipKeys() []string
}

// Collaborators bundles the services the resolver reads through.
//
// CrossRef is the capability check: when it is nil crossposting is not
// available and every field passes through unchanged. Products may be nil,
// in which case no entity type correlates by secondary key.
type Collaborators struct {
	Registry RegistrySwitcher
	CrossRef CrossReference
	Entities EntityCatalog
	Products SecondaryKeys
	Terms    Terms
	Keys     KeyRegistry
}
