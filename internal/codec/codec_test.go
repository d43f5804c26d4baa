package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/relmap/internal/ir"
)

func texts(ids []ir.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func TestDecodeShapes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		shape   ir.Shape
		dialect ir.Dialect
		tokens  []string
	}{
		{"json ints", "[3,4]", ir.ShapeList, ir.DialectJSON, []string{"3", "4"}},
		{"json strings", `["3","abc"]`, ir.ShapeList, ir.DialectJSON, []string{"3", "abc"}},
		{"json empty", "[]", ir.ShapeList, ir.DialectJSON, []string{}},
		{"php ints", "a:2:{i:0;i:3;i:1;i:4;}", ir.ShapeList, ir.DialectPHP, []string{"3", "4"}},
		{"php strings", `a:2:{i:0;s:2:"12";i:1;s:3:"abc";}`, ir.ShapeList, ir.DialectPHP, []string{"12", "abc"}},
		{"php empty", "a:0:{}", ir.ShapeList, ir.DialectPHP, []string{}},
		{"comma", "12,45,7", ir.ShapeCommaList, ir.DialectNone, []string{"12", "45", "7"}},
		{"comma spaces trimmed", " 12 , 45,7 ", ir.ShapeCommaList, ir.DialectNone, []string{"12", "45", "7"}},
		{"comma empty entries kept", "12,,7", ir.ShapeCommaList, ir.DialectNone, []string{"12", "", "7"}},
		{"scalar", "10", ir.ShapeScalar, ir.DialectNone, []string{"10"}},
		{"scalar empty", "", ir.ShapeScalar, ir.DialectNone, []string{""}},
		{"scalar text", "abc", ir.ShapeScalar, ir.DialectNone, []string{"abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Decode(tt.raw)
			assert.Equal(t, tt.shape, v.Shape)
			assert.Equal(t, tt.dialect, v.Dialect)
			assert.Equal(t, tt.tokens, texts(v.Tokens))
		})
	}
}

func TestDecodeMalformedContainersFallThrough(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		shape ir.Shape
	}{
		{"json float", "[1.5,2]", ir.ShapeCommaList},
		{"json nested", "[[1],2]", ir.ShapeCommaList},
		{"json null", "[null]", ir.ShapeScalar},
		{"json trailing data", "[1] [2]", ir.ShapeScalar},
		{"json unterminated", "[1,2", ir.ShapeCommaList},
		{"php count mismatch", "a:3:{i:0;i:3;i:1;i:4;}", ir.ShapeScalar},
		{"php bool value", "a:1:{i:0;b:1;}", ir.ShapeScalar},
		{"php short string", `a:1:{i:0;s:9:"ab";}`, ir.ShapeScalar},
		{"php huge count", "a:99999999999:{}", ir.ShapeScalar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Decode(tt.raw)
			assert.Equal(t, tt.shape, v.Shape)
		})
	}
}

func TestRoundTripIsByteIdentical(t *testing.T) {
	inputs := []string{
		"[3,4]",
		"[3, 4]",
		"[\n  3,\n  4\n]",
		"[ 3 ,4,  5 ]",
		" [ ] ",
		"[\t]",
		`["caf\u00e9","a\/b","q\"x"]`,
		"[18446744073709551615,5]",
		`["3","abc"]`,
		`[12,"x/y","<b>"]`,
		"[]",
		"a:2:{i:0;i:3;i:1;i:4;}",
		`a:2:{i:0;s:2:"12";i:1;s:3:"abc";}`,
		`a:1:{i:0;s:6:"héllo";}`,
		"a:0:{}",
		"12,45,7",
		"10",
		"abc",
		"007",
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, raw, Encode(Decode(raw)))
		})
	}
}

func TestEncodeEmptyResults(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"[3,4]", "[]"},
		{"[\n  3,\n  4\n]", "[]"},
		{"a:2:{i:0;i:3;i:1;i:4;}", "a:0:{}"},
		{"12,45,7", "0"},
		{"10", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := Decode(tt.raw).WithTokens(nil)
			assert.Equal(t, tt.want, Encode(v))
		})
	}
}

func TestEncodeResolvedIdentifiers(t *testing.T) {
	resolved := []ir.Identifier{ir.IntID(99), ir.IntID(100)}

	assert.Equal(t, "[99,100]", Encode(Decode("[1,2]").WithTokens(resolved)))
	assert.Equal(t, "a:2:{i:0;i:99;i:1;i:100;}", Encode(Decode("a:1:{i:5;i:1;}").WithTokens(resolved)))
	assert.Equal(t, "99,100", Encode(Decode("1, 2").WithTokens(resolved)))
	assert.Equal(t, "99", Encode(Decode("1").WithTokens(resolved)), "scalar keeps the first identifier")
}

func TestEncodeKeepsJSONLayout(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ids  []ir.Identifier
		want string
	}{
		{"spaced fewer", "[3, 4, 5]", []ir.Identifier{ir.IntID(99), ir.IntID(100)}, "[99, 100]"},
		{"spaced more", "[3, 4]", []ir.Identifier{ir.IntID(1), ir.IntID(2), ir.IntID(3)}, "[1, 2, 3]"},
		{"indented", "[\n  3,\n  4\n]", []ir.Identifier{ir.IntID(99), ir.IntID(100), ir.IntID(101)}, "[\n  99,\n  100,\n  101\n]"},
		{"indented single", "[\n  3\n]", []ir.Identifier{ir.IntID(99), ir.IntID(100)}, "[\n  99,\n  100\n]"},
		{"escaped string kept", `["caf\u00e9"]`, []ir.Identifier{ir.StringID("café"), ir.IntID(7)}, `["caf\u00e9",7]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(Decode(tt.raw).WithTokens(tt.ids)))
		})
	}
}

func TestPHPKeysAreDiscarded(t *testing.T) {
	v := Decode(`a:2:{i:7;i:3;s:1:"k";i:4;}`)
	require.Equal(t, ir.ShapeList, v.Shape)
	assert.Equal(t, []string{"3", "4"}, texts(v.Tokens))
	assert.Equal(t, "a:2:{i:0;i:3;i:1;i:4;}", Encode(v))
}

func TestPHPStringLengthIsBytes(t *testing.T) {
	got := Encode(ir.RelationshipValue{
		Shape:   ir.ShapeList,
		Dialect: ir.DialectPHP,
		Tokens:  []ir.Identifier{ir.StringID("é")},
	})
	assert.Equal(t, `a:1:{i:0;s:2:"é";}`, got)
}

func TestLargeIdentifiersSurvive(t *testing.T) {
	raw := "[9223372036854775807]"
	v := Decode(raw)
	require.Len(t, v.Tokens, 1)
	assert.True(t, v.Tokens[0].Numeric())
	assert.Equal(t, raw, Encode(v))
}

func TestUnsignedIdentifiersStayInTheirList(t *testing.T) {
	tests := []struct {
		raw     string
		dialect ir.Dialect
	}{
		{"[18446744073709551615,5]", ir.DialectJSON},
		{"a:2:{i:0;i:18446744073709551615;i:1;i:5;}", ir.DialectPHP},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v := Decode(tt.raw)
			require.Equal(t, ir.ShapeList, v.Shape)
			assert.Equal(t, tt.dialect, v.Dialect)
			assert.Equal(t, []string{"18446744073709551615", "5"}, texts(v.Tokens))
			assert.True(t, v.Tokens[0].Numeric())
			assert.Equal(t, tt.raw, Encode(v))
		})
	}

	assert.Equal(t, ir.ShapeCommaList, Decode("[1e3,5]").Shape, "exponents are not identifiers")
}
