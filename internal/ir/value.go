package ir

import "strings"

// Shape records which of the three field encodings a value arrived in.
// Encoders always write the same shape back.
type Shape int

const (
	// ShapeScalar is a single bare token ("10").
	ShapeScalar Shape = iota
	// ShapeList is a serialized container (see Dialect).
	ShapeList
	// ShapeCommaList is a comma-delimited string ("12,45,7").
	ShapeCommaList
)

// String returns the shape name used in logs and CLI output.
func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeList:
		return "list"
	case ShapeCommaList:
		return "comma_list"
	default:
		return "unknown"
	}
}

// Dialect identifies the serialization used by a ShapeList value.
// It is meaningless for the other shapes.
type Dialect int

const (
	// DialectNone is used by scalar and comma-list values.
	DialectNone Dialect = iota
	// DialectJSON is a JSON array: [3,4] or ["a","b"].
	DialectJSON
	// DialectPHP is a PHP serialize() array: a:2:{i:0;i:3;i:1;i:4;}.
	DialectPHP
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectJSON:
		return "json"
	case DialectPHP:
		return "php"
	default:
		return "none"
	}
}

// RelationshipValue is a decoded field value.
//
// Tokens are in field order. Shape, Dialect and Layout remember the encoding
// so the resolved identifiers can be written back without changing the
// field's format.
type RelationshipValue struct {
	Shape   Shape
	Dialect Dialect
	Tokens  []Identifier

	// Layout is only set for DialectJSON lists.
	Layout ListLayout
}

// WithTokens returns a value with the same encoding holding ids instead.
func (v RelationshipValue) WithTokens(ids []Identifier) RelationshipValue {
	return RelationshipValue{Shape: v.Shape, Dialect: v.Dialect, Tokens: ids, Layout: v.Layout}
}

// ListLayout is the insignificant text of a JSON list: the whitespace
// around its brackets and elements, and string elements spelled with
// escapes. The zero value is the compact layout, [3,4].
type ListLayout struct {
	Lead  string // before '['
	Open  string // between '[' and the first element
	Close string // between the last element and ']'
	Trail string // after ']'
	Blank string // between '[' and ']' of an empty list

	// Seps[i] is the text between elements i and i+1, comma included.
	Seps []string

	// Quoted maps a string element to its original JSON literal when that
	// literal differs from the plain quoting, e.g. "caf\u00e9".
	Quoted map[string]string
}

// Separator returns the text written between elements i and i+1.
// Lists longer than the one read reuse its last separator; a list read
// with a single element is separated like it was indented.
func (l ListLayout) Separator(i int) string {
	switch {
	case i < len(l.Seps):
		return l.Seps[i]
	case len(l.Seps) > 0:
		return l.Seps[len(l.Seps)-1]
	case strings.Contains(l.Open, "\n"):
		return "," + l.Open
	default:
		return ","
	}
}
