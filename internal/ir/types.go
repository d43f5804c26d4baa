package ir

import "strconv"

// RegistryHandle identifies one site in a multisite network.
type RegistryHandle int64

// String returns the handle as decimal text.
func (h RegistryHandle) String() string {
	return strconv.FormatInt(int64(h), 10)
}

// RegistryContext is the pair of registries in effect for one resolution call.
//
// Source is the registry the field value was read from; Target is the
// registry being crossposted to. All source-side reads run while Source is
// active and all target-side reads run after a single switch to Target.
type RegistryContext struct {
	Source RegistryHandle `json:"source"`
	Target RegistryHandle `json:"target"`
}

// TypeTag is an entity type name such as "post", "page" or "product".
type TypeTag string

// TermDescriptor captures a source-registry term so it can be re-found on
// the target registry by its natural key (Taxonomy, Slug).
type TermDescriptor struct {
	ID       Identifier
	Slug     string
	Taxonomy string
}

// SecondaryKeyCandidate is a source entity queued for correlation by a
// business key (a product SKU) instead of the crosspost map.
type SecondaryKeyCandidate struct {
	Source Identifier
	Key    string
}

// Classification is the outcome of matching a field key against the
// registered relationship key sets.
type Classification int

const (
	// Unclassified fields pass through unchanged.
	Unclassified Classification = iota
	// PostRelationship fields hold post/entity identifiers.
	PostRelationship
	// TermRelationship fields hold taxonomy term identifiers.
	TermRelationship
)

// String returns the classification name used in logs and CLI output.
func (c Classification) String() string {
	switch c {
	case PostRelationship:
		return "post"
	case TermRelationship:
		return "term"
	default:
		return "none"
	}
}
