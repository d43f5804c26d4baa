// Package codec converts raw relationship field values to and from
// ordered identifier sequences.
//
// A field value arrives in one of three encodings and is decoded once at
// the boundary:
//
//   - a serialized container (JSON array or PHP serialize() array) -> ShapeList
//   - a string containing a comma ("12, 45,7")                     -> ShapeCommaList
//   - anything else, taken verbatim as one token                    -> ShapeScalar
//
// Encode writes resolved identifiers back in the shape (and container
// dialect and JSON whitespace) the value was read in, so stored fields
// never change format.
// Decoding never fails: input that is not a well-formed container falls
// through to the comma and scalar rules.
package codec

import (
	"strings"

	"github.com/roach88/relmap/internal/ir"
)

// Decode parses a raw field value into tokens, remembering its encoding.
func Decode(raw string) ir.RelationshipValue {
	if tokens, layout, ok := decodeJSONList(raw); ok {
		return ir.RelationshipValue{Shape: ir.ShapeList, Dialect: ir.DialectJSON, Tokens: tokens, Layout: layout}
	}
	if tokens, ok := decodePHPArray(raw); ok {
		return ir.RelationshipValue{Shape: ir.ShapeList, Dialect: ir.DialectPHP, Tokens: tokens}
	}
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		tokens := make([]ir.Identifier, len(parts))
		for i, part := range parts {
			tokens[i] = ir.ParseID(strings.TrimSpace(part))
		}
		return ir.RelationshipValue{Shape: ir.ShapeCommaList, Tokens: tokens}
	}
	return ir.RelationshipValue{Shape: ir.ShapeScalar, Tokens: []ir.Identifier{ir.ParseID(raw)}}
}

// Encode writes v.Tokens in v's shape.
//
// An empty list encodes as an empty container ("[]" or "a:0:{}").
// An empty comma list or scalar encodes as "0", never "".
// A scalar with several tokens keeps only the first.
func Encode(v ir.RelationshipValue) string {
	switch v.Shape {
	case ir.ShapeList:
		if v.Dialect == ir.DialectPHP {
			return encodePHPArray(v.Tokens)
		}
		return encodeJSONList(v.Tokens, v.Layout)
	case ir.ShapeCommaList:
		if len(v.Tokens) == 0 {
			return ir.ZeroID.String()
		}
		parts := make([]string, len(v.Tokens))
		for i, id := range v.Tokens {
			parts[i] = id.String()
		}
		return strings.Join(parts, ",")
	default:
		if len(v.Tokens) == 0 {
			return ir.ZeroID.String()
		}
		return v.Tokens[0].String()
	}
}
