package jsoncore

// Signal is the tagged return value threaded through apply-object,
// apply-array, and apply-each callbacks (and their drivers). Continue
// carries either an advance offset (next > 0, "I already consumed the
// child, resume from here") or zero ("skip the child for me"). Stop
// carries a caller payload and short-circuits the traversal all the
// way up to the original caller.
type Signal struct {
	next    int
	done    bool
	Payload any
}

// Cont builds a Continue signal. next == 0 means "please skip the
// child"; next > 0 means "I already advanced to this position".
func Cont(next int) Signal { return Signal{next: next} }

// Stop builds a short-circuit signal carrying payload back to
// whichever caller initiated the apply-object/apply-array/apply-each
// traversal.
func Stop(payload any) Signal { return Signal{done: true, Payload: payload} }

// Done reports whether this is a short-circuit Stop signal.
func (s Signal) Done() bool { return s.done }

// Next returns the Continue offset (only meaningful when !Done()).
func (s Signal) Next() int { return s.next }

// LazyValue is a cursor over the original textual input: it performs
// validation and sub-parsing only on demand. It borrows buf and must
// not outlive it.
type LazyValue struct {
	buf   []byte
	pos   int
	kind  Kind
	opts  Options
	lines bool // true only for the JSON-Lines top-level array
	top   bool // true only for the value handed back by Lazy itself
}

// Lazy returns a LazyValue positioned at the first non-whitespace
// byte of buf, with its top-level kind inferred. Under JSONLines the
// top-level kind is unconditionally ARRAY; each line is independently
// delimited by applyArrayLines, so there is no single terminal
// position to validate trailing bytes against.
func Lazy(buf []byte, opts Options) (LazyValue, error) {
	pos := skipWhitespace(buf, 0)
	if opts.JSONLines {
		return LazyValue{buf: buf, pos: pos, kind: KindArray, opts: opts, lines: true}, nil
	}
	kind, err := inferKindAt(buf, pos, opts)
	if err != nil {
		return LazyValue{}, err
	}
	return LazyValue{buf: buf, pos: pos, kind: kind, opts: opts, top: true}, nil
}

// validateTopLevelTrailing enforces spec §4.1's top-level rule: once a
// value produced by Lazy has been fully consumed, only whitespace may
// remain in its buffer. No-op for children and for JSON-Lines values,
// neither of which have a single terminal position to check.
func validateTopLevelTrailing(v LazyValue, terminalPos int) error {
	if !v.top {
		return nil
	}
	return validateTrailing(v.buf, terminalPos)
}

// Kind reports the value's top-level kind.
func (v LazyValue) Kind() Kind { return v.kind }

// Pos reports the value's starting byte offset into its buffer.
func (v LazyValue) Pos() int { return v.pos }

// Options returns the options carried by this value.
func (v LazyValue) Options() Options { return v.opts }

func (v LazyValue) child(pos int, kind Kind) LazyValue {
	return LazyValue{buf: v.buf, pos: pos, kind: kind, opts: v.opts}
}

// ApplyObject iterates the members of an object one at a time. f
// returns a Signal: Cont(0) asks the driver to skip the child,
// Cont(n) says the callback already advanced to byte n, Stop(x)
// short-circuits and is returned to ApplyObject's own caller. When
// the loop completes normally, ApplyObject itself returns
// Cont(posAfterClosingBrace).
func ApplyObject(v LazyValue, f func(key PtrString, child LazyValue) (Signal, error)) (Signal, error) {
	if v.kind != KindObject {
		return Signal{}, newError(ErrorExpectedOpeningObjectChar, v.pos, "object")
	}
	buf := v.buf
	pos := v.pos
	if pos >= len(buf) || buf[pos] != '{' {
		return Signal{}, newError(ErrorExpectedOpeningObjectChar, pos, "object")
	}
	pos++
	pos = skipWhitespace(buf, pos)
	if pos < len(buf) && buf[pos] == '}' {
		return Cont(pos + 1), nil
	}
	for {
		pos = skipWhitespace(buf, pos)
		if pos >= len(buf) || buf[pos] != '"' {
			return Signal{}, newError(ErrorExpectedOpeningQuoteChar, pos, "object key")
		}
		kstart, kend, afterKey, escaped, err := scanString(buf, pos)
		if err != nil {
			return Signal{}, wrapf(err, "while parsing object key at byte %d", pos)
		}
		key := PtrString{buf: buf, start: kstart, end: kend, escaped: escaped}

		pos = skipWhitespace(buf, afterKey)
		if pos >= len(buf) || buf[pos] != ':' {
			return Signal{}, newError(ErrorExpectedColon, pos, "object")
		}
		pos++
		pos = skipWhitespace(buf, pos)

		childKind, err := inferKindAt(buf, pos, v.opts)
		if err != nil {
			return Signal{}, err
		}
		child := v.child(pos, childKind)

		sig, err := f(key, child)
		if err != nil {
			return Signal{}, err
		}
		if sig.done {
			return sig, nil
		}
		if sig.next == 0 {
			newPos, err := Skip(child)
			if err != nil {
				return Signal{}, err
			}
			pos = newPos
		} else {
			pos = sig.next
		}

		pos = skipWhitespace(buf, pos)
		if pos >= len(buf) {
			return Signal{}, newError(ErrorUnexpectedEOF, pos, "object")
		}
		switch buf[pos] {
		case ',':
			pos++
		case '}':
			return Cont(pos + 1), nil
		default:
			return Signal{}, newError(ErrorExpectedComma, pos, "object")
		}
	}
}

// ApplyArray iterates the elements of an array, or of a JSON-Lines
// top-level pseudo-array (no brackets; elements delimited by \n, \r,
// or \r\n with optional surrounding spaces/tabs; EOF terminates
// cleanly). Children always lose the JSON-Lines flag.
func ApplyArray(v LazyValue, f func(index int, child LazyValue) (Signal, error)) (Signal, error) {
	if v.kind != KindArray {
		return Signal{}, newError(ErrorExpectedOpeningArrayChar, v.pos, "array")
	}
	if v.lines {
		return applyArrayLines(v, f)
	}

	buf := v.buf
	pos := v.pos
	if pos >= len(buf) || buf[pos] != '[' {
		return Signal{}, newError(ErrorExpectedOpeningArrayChar, pos, "array")
	}
	pos++
	pos = skipWhitespace(buf, pos)
	if pos < len(buf) && buf[pos] == ']' {
		return Cont(pos + 1), nil
	}
	index := 0
	for {
		pos = skipWhitespace(buf, pos)
		childKind, err := inferKindAt(buf, pos, v.opts)
		if err != nil {
			return Signal{}, err
		}
		child := v.child(pos, childKind)

		sig, err := f(index, child)
		if err != nil {
			return Signal{}, err
		}
		if sig.done {
			return sig, nil
		}
		if sig.next == 0 {
			newPos, err := Skip(child)
			if err != nil {
				return Signal{}, err
			}
			pos = newPos
		} else {
			pos = sig.next
		}
		index++

		pos = skipWhitespace(buf, pos)
		if pos >= len(buf) {
			return Signal{}, newError(ErrorUnexpectedEOF, pos, "array")
		}
		switch buf[pos] {
		case ',':
			pos++
		case ']':
			return Cont(pos + 1), nil
		default:
			return Signal{}, newError(ErrorExpectedComma, pos, "array")
		}
	}
}

func applyArrayLines(v LazyValue, f func(index int, child LazyValue) (Signal, error)) (Signal, error) {
	buf := v.buf
	pos := skipWhitespace(buf, v.pos)
	index := 0
	for pos < len(buf) {
		childKind, err := inferKindAt(buf, pos, v.opts)
		if err != nil {
			return Signal{}, err
		}
		child := v.child(pos, childKind)

		sig, err := f(index, child)
		if err != nil {
			return Signal{}, err
		}
		if sig.done {
			return sig, nil
		}
		if sig.next == 0 {
			newPos, err := Skip(child)
			if err != nil {
				return Signal{}, err
			}
			pos = newPos
		} else {
			pos = sig.next
		}
		index++

		pos = skipInlineWhitespace(buf, pos)
		if pos >= len(buf) {
			break
		}
		newPos, ok := consumeNewline(buf, pos)
		if !ok {
			return Signal{}, newError(ErrorExpectedNewline, pos, "newline")
		}
		pos = skipWhitespace(buf, newPos)
	}
	return Cont(pos), nil
}

// ApplyString requires a string value and delivers its PtrString to
// f. A Stop or Cont(n > 0) from f is returned as is; Cont(0) becomes
// Cont(posAfterClosingQuote).
func ApplyString(v LazyValue, f func(PtrString) (Signal, error)) (Signal, error) {
	ps, newPos, err := stringValue(v)
	if err != nil {
		return Signal{}, err
	}
	sig, err := f(ps)
	if err != nil {
		return Signal{}, err
	}
	if sig.done {
		return sig, nil
	}
	if sig.next == 0 {
		return Cont(newPos), nil
	}
	return sig, nil
}

// StringValue scans a string value without invoking a callback.
func StringValue(v LazyValue) (PtrString, error) {
	ps, _, err := stringValue(v)
	return ps, err
}

func stringValue(v LazyValue) (PtrString, int, error) {
	if v.kind != KindString {
		return PtrString{}, 0, newError(ErrorTypeMismatch, v.pos, "string")
	}
	start, end, newPos, escaped, err := scanString(v.buf, v.pos)
	if err != nil {
		return PtrString{}, 0, err
	}
	return PtrString{buf: v.buf, start: start, end: end, escaped: escaped}, newPos, nil
}

// ApplyNumber delegates to the numeric ladder and delivers the result
// to f.
func ApplyNumber(v LazyValue, f func(NumberValue) (Signal, error)) (Signal, error) {
	n, newPos, err := numberValueAt(v)
	if err != nil {
		return Signal{}, err
	}
	sig, err := f(n)
	if err != nil {
		return Signal{}, err
	}
	if sig.done {
		return sig, nil
	}
	if sig.next == 0 {
		return Cont(newPos), nil
	}
	return sig, nil
}

// NumberValueOf scans a number value without invoking a callback.
func NumberValueOf(v LazyValue) (NumberValue, error) {
	n, _, err := numberValueAt(v)
	return n, err
}

func numberValueAt(v LazyValue) (NumberValue, int, error) {
	if v.kind != KindNumber {
		return NumberValue{}, 0, newError(ErrorTypeMismatch, v.pos, "number")
	}
	start, end, newPos, err := scanNumberSpan(v.buf, v.pos, v.opts)
	if err != nil {
		return NumberValue{}, 0, err
	}
	n, err := ParseNumber(v.buf[start:end], v.opts)
	if err != nil {
		return NumberValue{}, 0, err
	}
	return n, newPos, nil
}

// Skip advances past v without materializing it, dispatching on kind.
// Keywords advance by their fixed length; strings/numbers run the
// scanner and discard; composites recurse with a no-op callback.
func Skip(v LazyValue) (int, error) {
	switch v.kind {
	case KindNull:
		return v.pos + len("null"), nil
	case KindTrue:
		return v.pos + len("true"), nil
	case KindFalse:
		return v.pos + len("false"), nil
	case KindString:
		_, _, newPos, _, err := scanString(v.buf, v.pos)
		return newPos, err
	case KindNumber:
		_, _, newPos, err := scanNumberSpan(v.buf, v.pos, v.opts)
		return newPos, err
	case KindObject:
		sig, err := ApplyObject(v, func(PtrString, LazyValue) (Signal, error) { return Cont(0), nil })
		if err != nil {
			return 0, err
		}
		return sig.next, nil
	case KindArray:
		sig, err := ApplyArray(v, func(int, LazyValue) (Signal, error) { return Cont(0), nil })
		if err != nil {
			return 0, err
		}
		return sig.next, nil
	default:
		return 0, newError(ErrorInvalidJSON, v.pos, "value")
	}
}

// LazyObject is a counting/iterating projection of an object-kind
// LazyValue. Len and Each both re-parse on every call, same as the
// teacher's fluent accessors did.
type LazyObject struct{ v LazyValue }

// AsLazyObject requires v to be an object and wraps it.
func (v LazyValue) AsLazyObject() (LazyObject, error) {
	if v.kind != KindObject {
		return LazyObject{}, newError(ErrorTypeMismatch, v.pos, "object")
	}
	return LazyObject{v: v}, nil
}

// Len counts the members of the object by a dedicated pass.
func (o LazyObject) Len() (int, error) {
	n := 0
	_, err := ApplyObject(o.v, func(PtrString, LazyValue) (Signal, error) {
		n++
		return Cont(0), nil
	})
	return n, err
}

// Each iterates the object's members in input order.
func (o LazyObject) Each(f func(key PtrString, child LazyValue) (Signal, error)) (Signal, error) {
	return ApplyObject(o.v, f)
}

// LazyArray is a counting/iterating projection of an array-kind
// LazyValue.
type LazyArray struct{ v LazyValue }

// AsLazyArray requires v to be an array and wraps it.
func (v LazyValue) AsLazyArray() (LazyArray, error) {
	if v.kind != KindArray {
		return LazyArray{}, newError(ErrorTypeMismatch, v.pos, "array")
	}
	return LazyArray{v: v}, nil
}

// Len counts the elements of the array by a dedicated pass.
func (a LazyArray) Len() (int, error) {
	n := 0
	_, err := ApplyArray(a.v, func(int, LazyValue) (Signal, error) {
		n++
		return Cont(0), nil
	})
	return n, err
}

// Each iterates the array's elements in positional order.
func (a LazyArray) Each(f func(index int, child LazyValue) (Signal, error)) (Signal, error) {
	return ApplyArray(a.v, f)
}
