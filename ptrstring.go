package jsoncore

import (
	"strconv"
	"unicode/utf8"
)

// PtrString is a borrowed view into a lazy buffer between the opening
// and closing quote of a JSON string, exclusive. It never escapes the
// call in which it was produced; callers that need an owned string
// call Decode.
type PtrString struct {
	buf        []byte
	start, end int
	escaped    bool
}

// Len returns the length of the raw (still-escaped) span.
func (p PtrString) Len() int { return p.end - p.start }

// Raw returns the bytes between the quotes, unescaped if the source
// never needed an escape decoding pass.
func (p PtrString) Raw() []byte { return p.buf[p.start:p.end] }

// Escaped reports whether the span contains a backslash escape and
// therefore needs decoding before use.
func (p PtrString) Escaped() bool { return p.escaped }

// Decode returns the owned, fully-unescaped Go string. If the source
// contained no escapes, this is just a string conversion of Raw.
func (p PtrString) Decode() (string, error) {
	if !p.escaped {
		return string(p.Raw()), nil
	}
	return unescapeJSONString(p.Raw())
}

// unescapeJSONString expands the standard JSON escape set, including
// \uXXXX and surrogate-pair joining, into owned UTF-8.
func unescapeJSONString(raw []byte) (string, error) {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		i++
		if i >= len(raw) {
			return "", newError(ErrorInvalidChar, i, "escape sequence")
		}
		switch raw[i] {
		case '"':
			out = append(out, '"')
		case '\\':
			out = append(out, '\\')
		case '/':
			out = append(out, '/')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			r, consumed, err := decodeUnicodeEscape(raw, i+1)
			if err != nil {
				return "", err
			}
			out = appendRune(out, r)
			i += consumed
		default:
			return "", newError(ErrorInvalidChar, i, "escape sequence")
		}
	}
	return string(out), nil
}

// decodeUnicodeEscape reads a \uXXXX escape starting at pos (just
// past the 'u'), joining a following low surrogate if present.
// Returns the decoded rune and how many extra bytes past pos it
// consumed.
func decodeUnicodeEscape(raw []byte, pos int) (rune, int, error) {
	if pos+4 > len(raw) {
		return 0, 0, newError(ErrorInvalidChar, pos, "\\u escape")
	}
	hi, err := strconv.ParseUint(string(raw[pos:pos+4]), 16, 32)
	if err != nil {
		return 0, 0, newError(ErrorInvalidChar, pos, "\\u escape")
	}
	r := rune(hi)
	consumed := 4
	if r >= 0xD800 && r <= 0xDBFF && pos+4+6 <= len(raw) && raw[pos+4] == '\\' && raw[pos+5] == 'u' {
		lo, err := strconv.ParseUint(string(raw[pos+6:pos+10]), 16, 32)
		if err == nil && lo >= 0xDC00 && lo <= 0xDFFF {
			r = ((r - 0xD800) << 10) + (rune(lo) - 0xDC00) + 0x10000
			consumed += 6
		}
	}
	return r, consumed, nil
}

func appendRune(buf []byte, r rune) []byte {
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	return append(buf, tmp[:n]...)
}
