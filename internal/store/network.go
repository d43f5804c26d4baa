package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/relmap/internal/ir"
)

// ErrNoActiveRegistry is returned when a read or restore needs an active
// site and the registry stack is empty.
var ErrNoActiveRegistry = errors.New("no active registry")

// Network is a view of a Store through a stack of active sites.
//
// SwitchRegistry pushes a site and RestorePreviousRegistry pops it, the
// same model as switch_to_blog/restore_current_blog. Every read observes
// the site on top of the stack, except LookupCorrelate, which is keyed by
// the active site and an explicit target.
//
// Thread-safety: a Network is not safe for concurrent use. Give each
// crossposting request its own Network over the shared Store.
type Network struct {
	store *Store
	stack []ir.RegistryHandle

	// secondaryKeys maps entity type -> meta key holding its secondary key.
	secondaryKeys map[ir.TypeTag]string
	// keyTypes is secondaryKeys' type list in sorted order.
	keyTypes []ir.TypeTag
}

// NewNetwork creates a Network with an empty registry stack.
//
// secondaryKeys lists the entity types correlated by secondary key and the
// meta key that holds it, e.g. {"product": "_sku"}. It may be nil.
func NewNetwork(st *Store, secondaryKeys map[ir.TypeTag]string) *Network {
	n := &Network{
		store:         st,
		secondaryKeys: make(map[ir.TypeTag]string, len(secondaryKeys)),
	}
	for tag, key := range secondaryKeys {
		n.secondaryKeys[tag] = key
		n.keyTypes = append(n.keyTypes, tag)
	}
	slices.Sort(n.keyTypes)
	return n
}

// Depth returns the number of sites on the registry stack.
func (n *Network) Depth() int {
	return len(n.stack)
}

// ActiveRegistry returns the site on top of the stack, or 0 when empty.
func (n *Network) ActiveRegistry(context.Context) ir.RegistryHandle {
	if len(n.stack) == 0 {
		return 0
	}
	return n.stack[len(n.stack)-1]
}

// SwitchRegistry makes target the active site. The site must exist.
func (n *Network) SwitchRegistry(ctx context.Context, target ir.RegistryHandle) error {
	ok, err := n.store.SiteExists(ctx, target)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("switch to site %s: site does not exist", target)
	}
	n.stack = append(n.stack, target)
	return nil
}

// RestorePreviousRegistry pops the active site. It fails when no previous
// site would remain active.
func (n *Network) RestorePreviousRegistry(context.Context) error {
	if len(n.stack) < 2 {
		return fmt.Errorf("restore previous site: %w", ErrNoActiveRegistry)
	}
	n.stack = n.stack[:len(n.stack)-1]
	return nil
}

func (n *Network) active() (ir.RegistryHandle, error) {
	if len(n.stack) == 0 {
		return 0, ErrNoActiveRegistry
	}
	return n.stack[len(n.stack)-1], nil
}

// LookupCorrelate returns the copy of entity (a post on the active site)
// on target.
func (n *Network) LookupCorrelate(ctx context.Context, entity ir.Identifier, target ir.RegistryHandle) (ir.Identifier, bool, error) {
	site, err := n.active()
	if err != nil {
		return ir.Identifier{}, false, err
	}
	return n.store.Correlate(ctx, site, entity, target)
}

// EntityType returns the post type of entity on the active site.
func (n *Network) EntityType(ctx context.Context, entity ir.Identifier) (ir.TypeTag, bool, error) {
	site, err := n.active()
	if err != nil {
		return "", false, err
	}
	return n.store.PostType(ctx, site, entity)
}

// SecondaryKeyMode reports whether tag is configured with a secondary key.
func (n *Network) SecondaryKeyMode(tag ir.TypeTag) bool {
	_, ok := n.secondaryKeys[tag]
	return ok
}

// SecondaryKeyOf reads entity's secondary key on the active site.
// ok is false for entities whose type has no secondary key configured.
func (n *Network) SecondaryKeyOf(ctx context.Context, entity ir.Identifier) (string, bool, error) {
	site, err := n.active()
	if err != nil {
		return "", false, err
	}
	tag, ok, err := n.store.PostType(ctx, site, entity)
	if err != nil || !ok {
		return "", false, err
	}
	metaKey, ok := n.secondaryKeys[tag]
	if !ok {
		return "", false, nil
	}
	return n.store.PostMeta(ctx, site, entity, metaKey)
}

// FindBySecondaryKey finds an entity on the active site by secondary key.
// Configured types are searched in name order; the first hit wins.
func (n *Network) FindBySecondaryKey(ctx context.Context, key string) (ir.Identifier, bool, error) {
	site, err := n.active()
	if err != nil {
		return ir.Identifier{}, false, err
	}
	for _, tag := range n.keyTypes {
		id, ok, err := n.store.FindPostByMeta(ctx, site, tag, n.secondaryKeys[tag], key)
		if err != nil || ok {
			return id, ok, err
		}
	}
	return ir.Identifier{}, false, nil
}

// GetTerm returns a term on the active site.
func (n *Network) GetTerm(ctx context.Context, id ir.Identifier) (ir.TermDescriptor, bool, error) {
	site, err := n.active()
	if err != nil {
		return ir.TermDescriptor{}, false, err
	}
	return n.store.Term(ctx, site, id)
}

// FindTermByNaturalKey finds a term on the active site by taxonomy and slug.
func (n *Network) FindTermByNaturalKey(ctx context.Context, taxonomy, slug string) (ir.Identifier, bool, error) {
	site, err := n.active()
	if err != nil {
		return ir.Identifier{}, false, err
	}
	return n.store.TermByNaturalKey(ctx, site, taxonomy, slug)
}
