package codec

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/roach88/relmap/internal/ir"
)

// decodeJSONList decodes a JSON array of integers and strings.
// ok is false for anything else, including arrays holding fractions,
// exponents, booleans, null or nested values, and input with trailing data.
// Integers may exceed 64 bits; their text is kept as written.
func decodeJSONList(raw string) (tokens []ir.Identifier, layout ir.ListLayout, ok bool) {
	if !strings.HasPrefix(strings.TrimSpace(raw), "[") {
		return nil, layout, false
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, layout, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, layout, false
	}

	tokens = make([]ir.Identifier, 0, len(items))
	for _, item := range items {
		switch val := item.(type) {
		case string:
			tokens = append(tokens, ir.StringID(val))
		case json.Number:
			id := ir.ParseID(val.String())
			if !id.Numeric() {
				return nil, layout, false
			}
			tokens = append(tokens, id)
		default:
			return nil, layout, false
		}
	}
	return tokens, scanJSONLayout(raw), true
}

// scanJSONLayout records the insignificant text of raw, which must already
// have decoded as a flat list of numbers and strings.
func scanJSONLayout(raw string) ir.ListLayout {
	var l ir.ListLayout

	i := skipJSONSpace(raw, 0)
	l.Lead = raw[:i]
	i++ // '['

	j := skipJSONSpace(raw, i)
	if raw[j] == ']' {
		l.Blank = raw[i:j]
		l.Trail = raw[j+1:]
		return l
	}
	l.Open = raw[i:j]

	i = j
	for {
		end := skipJSONElement(raw, i)
		if raw[i] == '"' {
			literal := raw[i:end]
			var s string
			if err := json.Unmarshal([]byte(literal), &s); err == nil && quoteJSON(s) != literal {
				if l.Quoted == nil {
					l.Quoted = make(map[string]string)
				}
				l.Quoted[s] = literal
			}
		}

		j = skipJSONSpace(raw, end)
		if raw[j] == ']' {
			l.Close = raw[end:j]
			l.Trail = raw[j+1:]
			return l
		}
		// raw[j] is the comma
		next := skipJSONSpace(raw, j+1)
		l.Seps = append(l.Seps, raw[end:next])
		i = next
	}
}

func skipJSONSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// skipJSONElement returns the end of the string or number starting at i.
func skipJSONElement(s string, i int) int {
	if s[i] == '"' {
		for i++; i < len(s); i++ {
			switch s[i] {
			case '\\':
				i++
			case '"':
				return i + 1
			}
		}
		return len(s)
	}
	for i < len(s) && strings.IndexByte("-+.eE0123456789", s[i]) >= 0 {
		i++
	}
	return i
}

// encodeJSONList writes ids as a JSON array laid out like the list they
// were read from. HTML characters are not escaped.
func encodeJSONList(ids []ir.Identifier, l ir.ListLayout) string {
	var buf bytes.Buffer
	buf.WriteString(l.Lead)
	buf.WriteByte('[')
	if len(ids) == 0 {
		buf.WriteString(l.Blank)
	} else {
		buf.WriteString(l.Open)
		for i, id := range ids {
			if i > 0 {
				buf.WriteString(l.Separator(i - 1))
			}
			switch literal, ok := l.Quoted[id.String()]; {
			case id.Numeric():
				buf.WriteString(id.String())
			case ok:
				buf.WriteString(literal)
			default:
				buf.WriteString(quoteJSON(id.String()))
			}
		}
		buf.WriteString(l.Close)
	}
	buf.WriteByte(']')
	buf.WriteString(l.Trail)
	return buf.String()
}

func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
