package codec

import (
	"strconv"
	"strings"

	"github.com/roach88/relmap/internal/ir"
)

// decodePHPArray decodes a PHP serialize() array whose values are integers
// or strings, e.g. a:2:{i:0;i:3;i:1;s:2:"45";}. Keys are discarded and
// values kept in serialized order. ok is false for any other input.
func decodePHPArray(raw string) (tokens []ir.Identifier, ok bool) {
	if !strings.HasPrefix(raw, "a:") {
		return nil, false
	}

	p := &phpReader{src: raw, pos: 2}
	count, ok := p.readInt(':')
	// a count larger than the input itself cannot be satisfied
	if !ok || count < 0 || count > int64(len(raw)) || !p.expect('{') {
		return nil, false
	}

	tokens = make([]ir.Identifier, 0, count)
	for i := int64(0); i < count; i++ {
		if _, ok := p.readScalar(); !ok {
			return nil, false
		}
		val, ok := p.readScalar()
		if !ok {
			return nil, false
		}
		tokens = append(tokens, val)
	}

	if !p.expect('}') || p.pos != len(p.src) {
		return nil, false
	}
	return tokens, true
}

// encodePHPArray writes ids as a PHP serialize() list keyed 0..n-1.
// String lengths are byte counts, as PHP expects.
func encodePHPArray(ids []ir.Identifier) string {
	var b strings.Builder
	b.WriteString("a:")
	b.WriteString(strconv.Itoa(len(ids)))
	b.WriteString(":{")
	for i, id := range ids {
		b.WriteString("i:")
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(';')
		if id.Numeric() {
			b.WriteString("i:")
			b.WriteString(id.String())
			b.WriteByte(';')
			continue
		}
		b.WriteString("s:")
		b.WriteString(strconv.Itoa(len(id.String())))
		b.WriteString(`:"`)
		b.WriteString(id.String())
		b.WriteString(`";`)
	}
	b.WriteByte('}')
	return b.String()
}

// phpReader is a cursor over serialized PHP text.
type phpReader struct {
	src string
	pos int
}

func (p *phpReader) expect(c byte) bool {
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return false
	}
	p.pos++
	return true
}

// readInt reads a base-10 integer terminated by term and consumes term.
func (p *phpReader) readInt(term byte) (int64, bool) {
	end := strings.IndexByte(p.src[p.pos:], term)
	if end <= 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(p.src[p.pos:p.pos+end], 10, 64)
	if err != nil {
		return 0, false
	}
	p.pos += end + 1
	return n, true
}

// readScalar reads an i:N; or s:LEN:"..."; element.
func (p *phpReader) readScalar() (ir.Identifier, bool) {
	if p.pos+2 > len(p.src) || p.src[p.pos+1] != ':' {
		return ir.Identifier{}, false
	}
	kind := p.src[p.pos]
	p.pos += 2

	switch kind {
	case 'i':
		end := strings.IndexByte(p.src[p.pos:], ';')
		if end <= 0 {
			return ir.Identifier{}, false
		}
		id := ir.ParseID(p.src[p.pos : p.pos+end])
		if !id.Numeric() {
			return ir.Identifier{}, false
		}
		p.pos += end + 1
		return id, true

	case 's':
		n, ok := p.readInt(':')
		if !ok || n < 0 || !p.expect('"') {
			return ir.Identifier{}, false
		}
		end := p.pos + int(n)
		if end > len(p.src) {
			return ir.Identifier{}, false
		}
		s := p.src[p.pos:end]
		p.pos = end
		if !p.expect('"') || !p.expect(';') {
			return ir.Identifier{}, false
		}
		return ir.StringID(s), true

	default:
		return ir.Identifier{}, false
	}
}
