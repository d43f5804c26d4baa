package testutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/relmap/internal/ir"
)

// FakePost is an entity on a FakeSite.
type FakePost struct {
	ID   ir.Identifier
	Type ir.TypeTag
	SKU  string
}

// FakeSite holds one registry's entities and terms in insertion order.
type FakeSite struct {
	Posts []FakePost
	Terms []ir.TermDescriptor
}

// AddPost adds an entity. sku may be empty.
func (s *FakeSite) AddPost(id int64, postType, sku string) *FakeSite {
	s.Posts = append(s.Posts, FakePost{ID: ir.IntID(id), Type: ir.TypeTag(postType), SKU: sku})
	return s
}

// AddTerm adds a taxonomy term.
func (s *FakeSite) AddTerm(id int64, taxonomy, slug string) *FakeSite {
	s.Terms = append(s.Terms, ir.TermDescriptor{ID: ir.IntID(id), Taxonomy: taxonomy, Slug: slug})
	return s
}

func (s *FakeSite) post(id ir.Identifier) (FakePost, bool) {
	for _, p := range s.Posts {
		if p.ID.Equal(id) {
			return p, true
		}
	}
	return FakePost{}, false
}

type crosspostKey struct {
	site   ir.RegistryHandle
	id     string
	target ir.RegistryHandle
}

// FakeNetwork is an in-memory multisite network that implements every
// resolver collaborator and records each call in Events.
//
// Reads observe the site on top of the registry stack, exactly like the
// real switch-to-blog model, so tests can catch reads issued on the wrong
// side of the registry switch.
type FakeNetwork struct {
	Sites map[ir.RegistryHandle]*FakeSite

	// SecondaryKeyTypes lists entity types correlated by SKU.
	SecondaryKeyTypes map[ir.TypeTag]bool

	PostKeys []string
	TermKeys []string

	// Events is the ordered call log, e.g. "restore", "switch 2",
	// "entity_type@1 12", "lookup_correlate@1 12->2".
	Events []string

	// Injected failures.
	RestoreErr error
	SwitchErr  error
	LookupErr  error

	stack      []ir.RegistryHandle
	crossposts map[crosspostKey]ir.Identifier
}

// NewFakeNetwork creates a network positioned the way the crossposting
// pipeline calls the resolver: target active, source one level below.
func NewFakeNetwork(source, target ir.RegistryHandle) *FakeNetwork {
	return &FakeNetwork{
		Sites:             make(map[ir.RegistryHandle]*FakeSite),
		SecondaryKeyTypes: make(map[ir.TypeTag]bool),
		stack:             []ir.RegistryHandle{source, target},
		crossposts:        make(map[crosspostKey]ir.Identifier),
	}
}

// Site returns the site for h, creating it on first use.
func (n *FakeNetwork) Site(h ir.RegistryHandle) *FakeSite {
	s, ok := n.Sites[h]
	if !ok {
		s = &FakeSite{}
		n.Sites[h] = s
	}
	return s
}

// Link records that sourceID on source was crossposted to target as targetID.
func (n *FakeNetwork) Link(source ir.RegistryHandle, sourceID int64, target ir.RegistryHandle, targetID int64) *FakeNetwork {
	key := crosspostKey{site: source, id: ir.IntID(sourceID).Key(), target: target}
	n.crossposts[key] = ir.IntID(targetID)
	return n
}

// Reset clears the event log and repositions the registry stack.
func (n *FakeNetwork) Reset(source, target ir.RegistryHandle) {
	n.Events = nil
	n.stack = []ir.RegistryHandle{source, target}
}

func (n *FakeNetwork) record(format string, args ...any) {
	n.Events = append(n.Events, fmt.Sprintf(format, args...))
}

func (n *FakeNetwork) active() ir.RegistryHandle {
	return n.stack[len(n.stack)-1]
}

func (n *FakeNetwork) activeSite() *FakeSite {
	return n.Site(n.active())
}

// ActiveRegistry implements resolver.RegistrySwitcher.
func (n *FakeNetwork) ActiveRegistry(context.Context) ir.RegistryHandle {
	return n.active()
}

// SwitchRegistry implements resolver.RegistrySwitcher.
func (n *FakeNetwork) SwitchRegistry(_ context.Context, target ir.RegistryHandle) error {
	n.record("switch %s", target)
	if n.SwitchErr != nil {
		return n.SwitchErr
	}
	n.stack = append(n.stack, target)
	return nil
}

// RestorePreviousRegistry implements resolver.RegistrySwitcher.
func (n *FakeNetwork) RestorePreviousRegistry(context.Context) error {
	n.record("restore")
	if n.RestoreErr != nil {
		return n.RestoreErr
	}
	if len(n.stack) < 2 {
		return errors.New("no previous registry")
	}
	n.stack = n.stack[:len(n.stack)-1]
	return nil
}

// LookupCorrelate implements resolver.CrossReference.
func (n *FakeNetwork) LookupCorrelate(_ context.Context, entity ir.Identifier, target ir.RegistryHandle) (ir.Identifier, bool, error) {
	n.record("lookup_correlate@%s %s->%s", n.active(), entity, target)
	if n.LookupErr != nil {
		return ir.Identifier{}, false, n.LookupErr
	}
	id, ok := n.crossposts[crosspostKey{site: n.active(), id: entity.Key(), target: target}]
	return id, ok, nil
}

// EntityType implements resolver.EntityCatalog.
func (n *FakeNetwork) EntityType(_ context.Context, entity ir.Identifier) (ir.TypeTag, bool, error) {
	n.record("entity_type@%s %s", n.active(), entity)
	p, ok := n.activeSite().post(entity)
	return p.Type, ok, nil
}

// SecondaryKeyMode implements resolver.SecondaryKeys.
func (n *FakeNetwork) SecondaryKeyMode(tag ir.TypeTag) bool {
	return n.SecondaryKeyTypes[tag]
}

// SecondaryKeyOf implements resolver.SecondaryKeys.
func (n *FakeNetwork) SecondaryKeyOf(_ context.Context, entity ir.Identifier) (string, bool, error) {
	n.record("secondary_key_of@%s %s", n.active(), entity)
	p, ok := n.activeSite().post(entity)
	if !ok || p.SKU == "" {
		return "", false, nil
	}
	return p.SKU, true, nil
}

// FindBySecondaryKey implements resolver.SecondaryKeys.
func (n *FakeNetwork) FindBySecondaryKey(_ context.Context, key string) (ir.Identifier, bool, error) {
	n.record("find_by_secondary_key@%s %s", n.active(), key)
	for _, p := range n.activeSite().Posts {
		if p.SKU == key && n.SecondaryKeyTypes[p.Type] {
			return p.ID, true, nil
		}
	}
	return ir.Identifier{}, false, nil
}

// GetTerm implements resolver.Terms.
func (n *FakeNetwork) GetTerm(_ context.Context, id ir.Identifier) (ir.TermDescriptor, bool, error) {
	n.record("get_term@%s %s", n.active(), id)
	for _, t := range n.activeSite().Terms {
		if t.ID.Equal(id) {
			return t, true, nil
		}
	}
	return ir.TermDescriptor{}, false, nil
}

// FindTermByNaturalKey implements resolver.Terms.
func (n *FakeNetwork) FindTermByNaturalKey(_ context.Context, taxonomy, slug string) (ir.Identifier, bool, error) {
	n.record("find_term@%s %s/%s", n.active(), taxonomy, slug)
	for _, t := range n.activeSite().Terms {
		if t.Taxonomy == taxonomy && t.Slug == slug {
			return t.ID, true, nil
		}
	}
	return ir.Identifier{}, false, nil
}

// RegisteredPostRelationshipKeys implements resolver.KeyRegistry.
func (n *FakeNetwork) RegisteredPostRelationshipKeys() []string {
	return n.PostKeys
}

// RegisteredTermRelationshipKeys implements resolver.KeyRegistry.
func (n *FakeNetwork) RegisteredTermRelationshipKeys() []string {
	return n.TermKeys
}
