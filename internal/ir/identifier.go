package ir

import (
	"strconv"
	"strings"
)

// Identifier is an opaque token naming an entity in one registry.
//
// The token text is kept verbatim. Numeric reports whether the token was
// read (or produced) as an integer rather than a string, so encoders can
// write it back in the same form: 12 stays 12, "12" stays "12".
type Identifier struct {
	text    string
	numeric bool
}

// ZeroID is the identifier written when a scalar or comma field resolves to nothing.
var ZeroID = IntID(0)

// IntID creates a numeric identifier.
func IntID(n int64) Identifier {
	return Identifier{text: strconv.FormatInt(n, 10), numeric: true}
}

// StringID creates a string-valued identifier. The text is never reinterpreted.
func StringID(s string) Identifier {
	return Identifier{text: s}
}

// ParseID classifies bare token text (a scalar field or a comma-list entry).
// Text that is a canonical base-10 integer of any magnitude becomes numeric;
// anything else, including "007", "-0" and " 7", stays a string. The text is
// preserved either way.
func ParseID(text string) Identifier {
	if isCanonicalInt(text) {
		return Identifier{text: text, numeric: true}
	}
	return Identifier{text: text}
}

// isCanonicalInt reports whether s is an integer written without sign
// noise or leading zeros. Magnitude is not limited: unsigned 64-bit
// database IDs are valid identifiers.
func isCanonicalInt(s string) bool {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || (digits[0] == '0' && (len(digits) > 1 || s[0] == '-')) {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// String returns the token text exactly as read.
func (id Identifier) String() string {
	return id.text
}

// Numeric reports whether the identifier is integer-valued.
func (id Identifier) Numeric() bool {
	return id.numeric
}

// Int64 returns the integer value of the identifier.
// ok is false for identifiers that do not hold a canonical integer and for
// integers outside the int64 range.
func (id Identifier) Int64() (n int64, ok bool) {
	if !id.numeric && !isCanonicalInt(id.text) {
		return 0, false
	}
	n, err := strconv.ParseInt(id.text, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsEmpty reports whether the token carries no text at all
// (an empty comma-list entry or an empty scalar field).
func (id Identifier) IsEmpty() bool {
	return strings.TrimSpace(id.text) == ""
}

// Key returns the lookup key used by storage backends: the token text
// with surrounding whitespace removed. "12" and 12 share a key.
func (id Identifier) Key() string {
	return strings.TrimSpace(id.text)
}

// Equal reports whether two identifiers name the same entity.
// The numeric/string form does not participate.
func (id Identifier) Equal(other Identifier) bool {
	return id.Key() == other.Key()
}
