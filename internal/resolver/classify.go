package resolver

import (
	"strings"

	"github.com/roach88/relmap/internal/ir"
)

// StoragePrefix is prepended to field keys by a third-party field-storage
// plugin. A prefixed key classifies like its unprefixed base key.
const StoragePrefix = "_pods_"

// KeySet is a set of registered field keys.
type KeySet map[string]struct{}

// NewKeySet builds a set from keys. Empty keys are ignored.
func NewKeySet(keys ...string) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		if k != "" {
			s[k] = struct{}{}
		}
	}
	return s
}

// Has reports whether key is registered.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// matches reports an exact hit or a hit on the prefix-stripped key.
func (s KeySet) matches(fieldKey string) bool {
	if s.Has(fieldKey) {
		return true
	}
	base, ok := strings.CutPrefix(fieldKey, StoragePrefix)
	return ok && s.Has(base)
}

// Classifier maps field keys to relationship kinds.
type Classifier struct {
	post KeySet
	term KeySet
}

// NewClassifier creates a classifier over the registered key lists.
func NewClassifier(postKeys, termKeys []string) *Classifier {
	return &Classifier{post: NewKeySet(postKeys...), term: NewKeySet(termKeys...)}
}

// Classify returns the relationship kind for fieldKey.
//
// Post keys win over term keys, so a key registered in both sets is a post
// relationship. Within each set an exact match and a StoragePrefix match
// are equivalent.
func (c *Classifier) Classify(fieldKey string) ir.Classification {
	switch {
	case c.post.matches(fieldKey):
		return ir.PostRelationship
	case c.term.matches(fieldKey):
		return ir.TermRelationship
	default:
		return ir.Unclassified
	}
}
