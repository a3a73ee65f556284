package jsoncore

// Grammar primitives shared by the lazy scanner (lazy.go) and the
// binary writer (binary.go). Kept free of any LazyValue/BinaryValue
// state so both can call them without cross-importing each other's
// types. The state names echoed in comments below trace back to the
// teacher's table-driven PDA (sr/ob/ke/co/st/mi/ze/in/fr/fs/e1/e2/e3);
// this scanner collapses that full transition table into ordinary
// Go control flow since a lazy view needs to pause and resume, not
// run to completion in one pass.

// maxNestingDepth is the teacher's pushdown stack depth. No scanner in
// this package checks it: object/array nesting depth is not bounded.
const maxNestingDepth = 1024

func isWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// skipWhitespace advances pos past any run of ASCII whitespace.
func skipWhitespace(buf []byte, pos int) int {
	for pos < len(buf) && isWhitespace(buf[pos]) {
		pos++
	}
	return pos
}

// skipInlineWhitespace advances pos past spaces/tabs only, stopping at
// a newline. Used by the JSON-Lines delimiter, which treats \n/\r as
// the separator and space/tab as mere padding around it.
func skipInlineWhitespace(buf []byte, pos int) int {
	for pos < len(buf) && (buf[pos] == ' ' || buf[pos] == '\t') {
		pos++
	}
	return pos
}

// consumeNewline advances past exactly one line terminator (\n, \r,
// or \r\n) at pos, reporting whether one was present.
func consumeNewline(buf []byte, pos int) (newPos int, ok bool) {
	if pos >= len(buf) {
		return pos, false
	}
	switch buf[pos] {
	case '\r':
		pos++
		if pos < len(buf) && buf[pos] == '\n' {
			pos++
		}
		return pos, true
	case '\n':
		return pos + 1, true
	default:
		return pos, false
	}
}

// matchLiteral reports whether buf[pos:] begins with lit.
func matchLiteral(buf []byte, pos int, lit string) bool {
	if pos+len(lit) > len(buf) {
		return false
	}
	for i := 0; i < len(lit); i++ {
		if buf[pos+i] != lit[i] {
			return false
		}
	}
	return true
}

// scanKeyword fully verifies a null/true/false literal at pos,
// mirroring the teacher's n1/n2/n3, t1/t2/t3, f1/f2/f3/f4 states
// collapsed into one check (kind inference must fully verify these
// three per spec §4.1, unlike objects/arrays/strings/numbers).
func scanKeyword(buf []byte, pos int, lit string) (newPos int, err error) {
	if !matchLiteral(buf, pos, lit) {
		return pos, newError(ErrorInvalidJSON, pos, lit)
	}
	return pos + len(lit), nil
}

// inferKindAt maps the byte at pos (after whitespace) to a Kind,
// fully verifying null/true/false but only sniffing everything else.
func inferKindAt(buf []byte, pos int, opts Options) (Kind, error) {
	if pos >= len(buf) {
		return 0, newError(ErrorUnexpectedEOF, pos, "value")
	}
	b := buf[pos]
	switch {
	case b == '{':
		return KindObject, nil
	case b == '[':
		return KindArray, nil
	case b == '"':
		return KindString, nil
	case b == 'n':
		if _, err := scanKeyword(buf, pos, "null"); err != nil {
			return 0, err
		}
		return KindNull, nil
	case b == 't':
		if _, err := scanKeyword(buf, pos, "true"); err != nil {
			return 0, err
		}
		return KindTrue, nil
	case b == 'f':
		if _, err := scanKeyword(buf, pos, "false"); err != nil {
			return 0, err
		}
		return KindFalse, nil
	case b == '-' || isDigit(b):
		return KindNumber, nil
	case opts.Float64 && (b == 'N' || b == 'I' || b == '+'):
		return KindNumber, nil
	default:
		return 0, newError(ErrorInvalidJSON, pos, "value")
	}
}

// scanString requires a '"' at pos and scans to the matching closing
// quote, honoring '\' as a two-byte escape without interpreting it
// (escapes are decoded later, lazily, by PtrString.Decode).
func scanString(buf []byte, pos int) (start, end, newPos int, escaped bool, err error) {
	if pos >= len(buf) || buf[pos] != '"' {
		return 0, 0, 0, false, newError(ErrorExpectedOpeningQuoteChar, pos, "string")
	}
	i := pos + 1
	start = i
	for {
		if i >= len(buf) {
			return 0, 0, 0, false, newError(ErrorUnexpectedEOF, i, "string")
		}
		switch buf[i] {
		case '"':
			return start, i, i + 1, escaped, nil
		case '\\':
			escaped = true
			i += 2 // consume the backslash and the next byte unconditionally
		default:
			i++
		}
	}
}

// scanNumberSpan delimits a number token without producing a value;
// ParseNumber (numeric.go) classifies the span afterward. Mirrors the
// teacher's mi/ze/in/fr/fs/e1/e2/e3 states as a linear scan.
func scanNumberSpan(buf []byte, pos int, opts Options) (start, end, newPos int, err error) {
	if opts.Float64 {
		for _, lit := range []string{"NaN", "+Inf", "-Inf", "Inf"} {
			if matchLiteral(buf, pos, lit) {
				return pos, pos + len(lit), pos + len(lit), nil
			}
		}
	}
	i := pos
	if i < len(buf) && (buf[i] == '-' || (opts.Float64 && buf[i] == '+')) {
		i++
	}
	digitsStart := i
	for i < len(buf) && isDigit(buf[i]) {
		i++
	}
	if i == digitsStart {
		return 0, 0, 0, newError(ErrorInvalidNumber, pos, "number")
	}
	if i < len(buf) && buf[i] == '.' {
		i++
		fracStart := i
		for i < len(buf) && isDigit(buf[i]) {
			i++
		}
		if i == fracStart {
			return 0, 0, 0, newError(ErrorInvalidNumber, pos, "number")
		}
	}
	if i < len(buf) && (buf[i] == 'e' || buf[i] == 'E') {
		i++
		if i < len(buf) && (buf[i] == '+' || buf[i] == '-') {
			i++
		}
		expStart := i
		for i < len(buf) && isDigit(buf[i]) {
			i++
		}
		if i == expStart {
			return 0, 0, 0, newError(ErrorInvalidNumber, pos, "number")
		}
	}
	return pos, i, i, nil
}

// validateTrailing is invoked on a top-level lazy value once fully
// skipped: only whitespace may remain, per spec §4.1.
func validateTrailing(buf []byte, pos int) error {
	pos = skipWhitespace(buf, pos)
	if pos != len(buf) {
		return newError(ErrorInvalidChar, pos, "end of input")
	}
	return nil
}
