package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDNumeric(t *testing.T) {
	tests := []struct {
		text    string
		numeric bool
	}{
		{"12", true},
		{"0", true},
		{"-3", true},
		{"9223372036854775807", true},
		{"9223372036854775808", true},
		{"18446744073709551615", true},
		{"-0", false},
		{"1e3", false},
		{"1.5", false},
		{"-", false},
		{"007", false},
		{" 7", false},
		{"abc", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			id := ParseID(tt.text)
			assert.Equal(t, tt.numeric, id.Numeric())
			assert.Equal(t, tt.text, id.String(), "text must be preserved")
		})
	}
}

func TestIdentifierInt64(t *testing.T) {
	n, ok := IntID(42).Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	n, ok = StringID("42").Int64()
	assert.True(t, ok, "string form of a canonical integer still has an int value")
	assert.Equal(t, int64(42), n)

	_, ok = StringID("sku-42").Int64()
	assert.False(t, ok)

	big := ParseID("18446744073709551615")
	require.True(t, big.Numeric())
	_, ok = big.Int64()
	assert.False(t, ok, "beyond int64")
}

func TestListLayoutSeparator(t *testing.T) {
	assert.Equal(t, ",", ListLayout{}.Separator(0))
	assert.Equal(t, ",\n  ", ListLayout{Open: "\n  "}.Separator(0))

	l := ListLayout{Seps: []string{", ", " ,"}}
	assert.Equal(t, ", ", l.Separator(0))
	assert.Equal(t, " ,", l.Separator(1))
	assert.Equal(t, " ,", l.Separator(5))
}

func TestIdentifierEqualIgnoresForm(t *testing.T) {
	assert.True(t, IntID(12).Equal(StringID("12")))
	assert.True(t, ParseID(" 12").Equal(IntID(12)))
	assert.False(t, IntID(12).Equal(IntID(13)))
}

func TestIdentifierIsEmpty(t *testing.T) {
	assert.True(t, StringID("").IsEmpty())
	assert.True(t, StringID("  ").IsEmpty())
	assert.False(t, ZeroID.IsEmpty())
}

func TestStringIDNeverNumeric(t *testing.T) {
	id := StringID("12")
	assert.False(t, id.Numeric())
	assert.Equal(t, "12", id.Key())
}
