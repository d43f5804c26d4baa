package harness

import (
	"context"

	"github.com/roach88/relmap/internal/ir"
	"github.com/roach88/relmap/internal/store"
)

// Call operation names as they appear in traces.
const (
	OpSwitch               = "switch_registry"
	OpRestore              = "restore_previous_registry"
	OpLookupCorrelate      = "lookup_correlate"
	OpEntityType           = "entity_type"
	OpSecondaryKeyOf       = "secondary_key_of"
	OpFindBySecondaryKey   = "find_by_secondary_key"
	OpGetTerm              = "get_term"
	OpFindTermByNaturalKey = "find_term_by_natural_key"
)

// recorder wraps a Network and appends every call to the harness trace.
// ActiveRegistry and SecondaryKeyMode are not recorded; they read no site
// data.
type recorder struct {
	net *store.Network
	h   *Harness
	out *Result
}

func (r *recorder) record(active ir.RegistryHandle, op string, args []string, found string, err error) {
	event := TraceEvent{
		Seq:      r.h.nextSeq(),
		Type:     EventCall,
		Op:       op,
		Registry: active,
		Args:     args,
		Found:    found,
	}
	if err != nil {
		event.Error = err.Error()
	}
	r.out.Trace = append(r.out.Trace, event)
}

func (r *recorder) ActiveRegistry(ctx context.Context) ir.RegistryHandle {
	return r.net.ActiveRegistry(ctx)
}

func (r *recorder) SwitchRegistry(ctx context.Context, target ir.RegistryHandle) error {
	active := r.net.ActiveRegistry(ctx)
	err := r.net.SwitchRegistry(ctx, target)
	r.record(active, OpSwitch, []string{target.String()}, "", err)
	return err
}

func (r *recorder) RestorePreviousRegistry(ctx context.Context) error {
	active := r.net.ActiveRegistry(ctx)
	err := r.net.RestorePreviousRegistry(ctx)
	r.record(active, OpRestore, nil, "", err)
	return err
}

func (r *recorder) LookupCorrelate(ctx context.Context, entity ir.Identifier, target ir.RegistryHandle) (ir.Identifier, bool, error) {
	id, ok, err := r.net.LookupCorrelate(ctx, entity, target)
	r.record(r.net.ActiveRegistry(ctx), OpLookupCorrelate, []string{entity.String(), target.String()}, foundID(id, ok), err)
	return id, ok, err
}

func (r *recorder) EntityType(ctx context.Context, entity ir.Identifier) (ir.TypeTag, bool, error) {
	tag, ok, err := r.net.EntityType(ctx, entity)
	r.record(r.net.ActiveRegistry(ctx), OpEntityType, []string{entity.String()}, string(tag), err)
	return tag, ok, err
}

func (r *recorder) SecondaryKeyMode(tag ir.TypeTag) bool {
	return r.net.SecondaryKeyMode(tag)
}

func (r *recorder) SecondaryKeyOf(ctx context.Context, entity ir.Identifier) (string, bool, error) {
	key, ok, err := r.net.SecondaryKeyOf(ctx, entity)
	r.record(r.net.ActiveRegistry(ctx), OpSecondaryKeyOf, []string{entity.String()}, key, err)
	return key, ok, err
}

func (r *recorder) FindBySecondaryKey(ctx context.Context, key string) (ir.Identifier, bool, error) {
	id, ok, err := r.net.FindBySecondaryKey(ctx, key)
	r.record(r.net.ActiveRegistry(ctx), OpFindBySecondaryKey, []string{key}, foundID(id, ok), err)
	return id, ok, err
}

func (r *recorder) GetTerm(ctx context.Context, id ir.Identifier) (ir.TermDescriptor, bool, error) {
	term, ok, err := r.net.GetTerm(ctx, id)
	found := ""
	if ok {
		found = term.Taxonomy + "/" + term.Slug
	}
	r.record(r.net.ActiveRegistry(ctx), OpGetTerm, []string{id.String()}, found, err)
	return term, ok, err
}

func (r *recorder) FindTermByNaturalKey(ctx context.Context, taxonomy, slug string) (ir.Identifier, bool, error) {
	id, ok, err := r.net.FindTermByNaturalKey(ctx, taxonomy, slug)
	r.record(r.net.ActiveRegistry(ctx), OpFindTermByNaturalKey, []string{taxonomy, slug}, foundID(id, ok), err)
	return id, ok, err
}

func foundID(id ir.Identifier, ok bool) string {
	if !ok {
		return ""
	}
	return id.String()
}
