// Custom JSON parse/stringify (spec component I), deliberately not built
// on encoding/json: Astra values have no direct JSON counterpart for
// Option/Result/Variant, so this hand-rolled codec follows
// original_source/src/interpreter/json.rs's exact shapes --
// `Some(x)`/`Ok(x)` stringify as their inner value alone (None as null),
// `Err(e)` stringifies as `{"error": <e>}`, Variants as
// `{"variant": name, "data": <payload>}` when a payload is present and
// the bare name string (`"Name"`) otherwise, and Closure/Future/
// VariantConstructor as null since they have no data representation --
// and its canonical stringify sorts object keys for deterministic
// output.
package interp

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/astra-lang/astra/internal/object"
)

func jsonStringify(v object.Value) string {
	var b strings.Builder
	writeJSON(&b, v)
	return b.String()
}

func writeJSON(b *strings.Builder, v object.Value) {
	switch x := v.(type) {
	case object.Int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case object.Float:
		writeJSONFloat(b, float64(x))
	case object.Bool:
		b.WriteString(strconv.FormatBool(bool(x)))
	case object.Unit:
		b.WriteString("null")
	case object.Text:
		writeJSONString(b, string(x))
	case *object.List:
		b.WriteByte('[')
		for i, e := range x.Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, e)
		}
		b.WriteByte(']')
	case *object.Tuple:
		b.WriteByte('[')
		for i, e := range x.Elems {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, e)
		}
		b.WriteByte(']')
	case *object.Map:
		b.WriteByte('{')
		entries := x.Entries()
		keys := make([]string, len(entries))
		byKey := make(map[string]object.Value, len(entries))
		for i, e := range entries {
			k := jsonMapKey(e[0])
			keys[i] = k
			byKey[k] = e[1]
		}
		sort.Strings(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, k)
			b.WriteByte(':')
			writeJSON(b, byKey[k])
		}
		b.WriteByte('}')
	case *object.Set:
		b.WriteByte('[')
		for i, e := range x.Elems() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSON(b, e)
		}
		b.WriteByte(']')
	case *object.Option:
		if !x.IsSome() {
			b.WriteString("null")
			return
		}
		writeJSON(b, x.Value)
	case *object.Result:
		if x.IsOk() {
			writeJSON(b, x.OkVal)
		} else {
			b.WriteString(`{"error":`)
			writeJSON(b, x.ErrVal)
			b.WriteByte('}')
		}
	case *object.Record:
		b.WriteByte('{')
		names := append([]string(nil), x.Order...)
		sort.Strings(names)
		for i, name := range names {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, name)
			b.WriteByte(':')
			writeJSON(b, x.Fields[name])
		}
		b.WriteByte('}')
	case *object.Variant:
		if len(x.Fields) == 0 {
			writeJSONString(b, x.Name)
			return
		}
		b.WriteString(`{"variant":`)
		writeJSONString(b, x.Name)
		b.WriteString(`,"data":`)
		if len(x.Fields) == 1 {
			writeJSON(b, x.Fields[0])
		} else {
			// original_source's Variant carries a single optional data
			// value; Astra's variants can take several positional
			// fields, so multiple fields collapse into one data array
			// the way a Tuple already stringifies.
			b.WriteByte('[')
			for i, f := range x.Fields {
				if i > 0 {
					b.WriteByte(',')
				}
				writeJSON(b, f)
			}
			b.WriteByte(']')
		}
		b.WriteByte('}')
	default:
		b.WriteString("null") // Closure, Future, VariantConstructor
	}
}

// jsonMapKey renders a Map key as an object property name: Text keys
// pass through verbatim, everything else (Astra permits Int/Bool/Tuple
// keys) falls back to its display form, matching how the original
// serializer stringifies non-Text map keys.
func jsonMapKey(v object.Value) string {
	if t, ok := v.(object.Text); ok {
		return string(t)
	}
	return DisplayString(v)
}

// writeJSONFloat mirrors original_source/src/interpreter/json.rs's
// Float arm: non-finite values stringify as null, and any value lacking
// a fractional part or exponent gets an explicit ".0" appended so
// `json_parse(json_stringify(Float(2)))` round-trips to a Float, not an
// Int.
func writeJSONFloat(b *strings.Builder, f float64) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		b.WriteString("null")
		return
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	b.WriteString(s)
}

func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

// jsonParse parses raw JSON text into a Result[Value, Text]: a
// structural Int/Float/Bool/Unit/Text/List/Map tree on success (objects
// become Map with Text keys), or Err(message) on malformed input.
func jsonParse(s string) (object.Value, error) {
	p := &jsonParser{s: s}
	p.skipWS()
	v, err := p.parseValue()
	if err != nil {
		return object.Err(object.Text(err.Error())), nil
	}
	p.skipWS()
	if p.pos != len(p.s) {
		return object.Err(object.Text("unexpected trailing input")), nil
	}
	return object.Ok(v), nil
}

type jsonParser struct {
	s   string
	pos int
}

func (p *jsonParser) skipWS() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *jsonParser) parseValue() (object.Value, error) {
	p.skipWS()
	if p.pos >= len(p.s) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch c := p.s[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		str, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return object.Text(str), nil
	case c == 't':
		return p.parseLit("true", object.Bool(true))
	case c == 'f':
		return p.parseLit("false", object.Bool(false))
	case c == 'n':
		return p.parseLit("null", object.Unit{})
	default:
		return p.parseNumber()
	}
}

func (p *jsonParser) parseLit(lit string, v object.Value) (object.Value, error) {
	if p.pos+len(lit) > len(p.s) || p.s[p.pos:p.pos+len(lit)] != lit {
		return nil, fmt.Errorf("invalid literal at position %d", p.pos)
	}
	p.pos += len(lit)
	return v, nil
}

func (p *jsonParser) parseNumber() (object.Value, error) {
	start := p.pos
	isFloat := false
	if p.pos < len(p.s) && p.s[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos < len(p.s) && p.s[p.pos] == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
	}
	if p.pos < len(p.s) && (p.s[p.pos] == 'e' || p.s[p.pos] == 'E') {
		isFloat = true
		p.pos++
		if p.pos < len(p.s) && (p.s[p.pos] == '+' || p.s[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
			p.pos++
		}
	}
	if start == p.pos {
		return nil, fmt.Errorf("invalid number at position %d", start)
	}
	lit := p.s[start:p.pos]
	if isFloat {
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, err
		}
		return object.Float(v), nil
	}
	v, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, err
	}
	return object.Int(v), nil
}

func (p *jsonParser) parseString() (string, error) {
	if p.s[p.pos] != '"' {
		return "", fmt.Errorf("expected string at position %d", p.pos)
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.s) {
				return "", fmt.Errorf("unterminated escape")
			}
			switch p.s[p.pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if p.pos+4 >= len(p.s) {
					return "", fmt.Errorf("invalid \\u escape")
				}
				hi, err := strconv.ParseUint(p.s[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return "", err
				}
				p.pos += 4
				r := rune(hi)
				if utf16.IsSurrogate(r) && p.pos+6 < len(p.s) && p.s[p.pos+1] == '\\' && p.s[p.pos+2] == 'u' {
					lo, err := strconv.ParseUint(p.s[p.pos+3:p.pos+7], 16, 32)
					if err == nil {
						dec := utf16.DecodeRune(r, rune(lo))
						if dec != utf8.RuneError {
							b.WriteRune(dec)
							p.pos += 6
							p.pos++
							continue
						}
					}
				}
				b.WriteRune(r)
			default:
				return "", fmt.Errorf("invalid escape \\%c", p.s[p.pos])
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("unterminated string")
}

func (p *jsonParser) parseArray() (object.Value, error) {
	p.pos++ // '['
	var elems []object.Value
	p.skipWS()
	if p.pos < len(p.s) && p.s[p.pos] == ']' {
		p.pos++
		return object.NewList(elems), nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
		p.skipWS()
		if p.pos >= len(p.s) {
			return nil, fmt.Errorf("unterminated array")
		}
		if p.s[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.s[p.pos] == ']' {
			p.pos++
			return object.NewList(elems), nil
		}
		return nil, fmt.Errorf("expected ',' or ']' at position %d", p.pos)
	}
}

func (p *jsonParser) parseObject() (object.Value, error) {
	p.pos++ // '{'
	m := object.NewMap()
	p.skipWS()
	if p.pos < len(p.s) && p.s[p.pos] == '}' {
		p.pos++
		return m, nil
	}
	for {
		p.skipWS()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if p.pos >= len(p.s) || p.s[p.pos] != ':' {
			return nil, fmt.Errorf("expected ':' at position %d", p.pos)
		}
		p.pos++
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		m.Set(object.Text(key), v)
		p.skipWS()
		if p.pos >= len(p.s) {
			return nil, fmt.Errorf("unterminated object")
		}
		if p.s[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.s[p.pos] == '}' {
			p.pos++
			return m, nil
		}
		return nil, fmt.Errorf("expected ',' or '}' at position %d", p.pos)
	}
}
