package starknet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// pythonJSON encodes v the way Python's json.dumps(v, sort_keys=True) does:
// ", " and ": " separators, sorted keys and ASCII-only output. v must come
// from a decoder using UseNumber.
func pythonJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writePythonJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePythonJSON(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(val.String())
	case string:
		writePythonString(buf, val)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writePythonJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if err := writePythonMember(buf, i, k, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case *orderedmap.OrderedMap[string, any]:
		// insertion order is kept
		buf.WriteByte('{')
		i := 0
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			if err := writePythonMember(buf, i, pair.Key, pair.Value); err != nil {
				return err
			}
			i++
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported JSON value of type %T", v)
	}
	return nil
}

func writePythonMember(buf *bytes.Buffer, i int, key string, value any) error {
	if i > 0 {
		buf.WriteString(", ")
	}
	writePythonString(buf, key)
	buf.WriteString(": ")
	return writePythonJSON(buf, value)
}

// writePythonString escapes like Python with ensure_ascii: everything
// outside printable ASCII becomes \uXXXX, with surrogate pairs above the BMP
func writePythonString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf.WriteRune(r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(buf, `\u%04x\u%04x`, r1, r2)
			default:
				fmt.Fprintf(buf, `\u%04x`, r)
			}
		}
	}
	buf.WriteByte('"')
}
