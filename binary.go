package jsoncore

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
)

// Wire format (spec §4.2): every value begins with a one-byte tag.
// The low 4 bits hold the Kind; for INT/FLOAT the high 4 bits select
// an inline size class. Size class 0xF is the escape hatch to a
// length-prefixed bigint/bigfloat payload.
const (
	sizeInt8  = 0
	sizeInt16 = 1
	sizeInt32 = 2
	sizeInt64 = 3
	sizeBig   = 0xF

	sizeFloat32 = 0
	sizeFloat64 = 1
	sizeBigF    = 0xF
)

func makeTag(kind Kind, sizeClass byte) byte {
	return byte(kind) | (sizeClass << 4)
}

func tagKind(tag byte) Kind      { return Kind(tag & 0x0F) }
func tagSizeClass(tag byte) byte { return (tag >> 4) & 0x0F }

// BinaryValue is a cursor into an owned, self-describing binary tape.
// Unlike LazyValue it owns its backing bytes.
type BinaryValue struct {
	tape []byte
	pos  int
	kind Kind
	opts Options
}

// Binary writes input (a LazyValue or raw JSON bytes) into the binary
// format and returns a BinaryValue positioned at its start.
func Binary(input any, opts Options) (BinaryValue, error) {
	var lv LazyValue
	switch t := input.(type) {
	case LazyValue:
		lv = t
	case []byte:
		v, err := Lazy(t, opts)
		if err != nil {
			return BinaryValue{}, err
		}
		lv = v
	case string:
		v, err := Lazy([]byte(t), opts)
		if err != nil {
			return BinaryValue{}, err
		}
		lv = v
	default:
		return BinaryValue{}, newError(ErrorTypeMismatch, 0, "LazyValue or []byte")
	}

	var buf bytes.Buffer
	if err := writeValue(&buf, lv, opts.Trace); err != nil {
		return BinaryValue{}, err
	}
	tape := buf.Bytes()
	return BinaryValue{tape: tape, pos: 0, kind: tagKind(tape[0]), opts: opts}, nil
}

// Kind reports the value's kind.
func (v BinaryValue) Kind() Kind { return v.kind }

// Tape returns the raw bytes backing this value, starting at its tag.
func (v BinaryValue) Tape() []byte { return v.tape[v.pos:] }

func (v BinaryValue) child(pos int) BinaryValue {
	return BinaryValue{tape: v.tape, pos: pos, kind: tagKind(v.tape[pos]), opts: v.opts}
}

// --- writer ---

func writeValue(buf *bytes.Buffer, v LazyValue, trace *TraceLogger) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteByte(makeTag(KindNull, 0))
		return nil
	case KindTrue:
		buf.WriteByte(makeTag(KindTrue, 0))
		return nil
	case KindFalse:
		buf.WriteByte(makeTag(KindFalse, 0))
		return nil
	case KindString:
		return writeString(buf, v)
	case KindNumber:
		return writeNumber(buf, v)
	case KindObject:
		return writeObject(buf, v, trace)
	case KindArray:
		return writeArray(buf, v, trace)
	default:
		return newError(ErrorInvalidJSON, v.Pos(), "value")
	}
}

func writeString(buf *bytes.Buffer, v LazyValue) error {
	_, err := ApplyString(v, func(ps PtrString) (Signal, error) {
		s, err := ps.Decode()
		if err != nil {
			return Signal{}, err
		}
		writeRawString(buf, s)
		return Cont(0), nil
	})
	return err
}

func writeRawString(buf *bytes.Buffer, s string) {
	buf.WriteByte(makeTag(KindString, 0))
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
	buf.Write(lenBuf[:])
	buf.WriteString(s)
}

func writeNumber(buf *bytes.Buffer, v LazyValue) error {
	_, err := ApplyNumber(v, func(n NumberValue) (Signal, error) {
		writeNumberValue(buf, n)
		return Cont(0), nil
	})
	return err
}

func writeNumberValue(buf *bytes.Buffer, n NumberValue) {
	switch n.kind {
	case NumberInt64, NumberBigInt:
		writeIntValue(buf, n)
	default:
		writeFloatValue(buf, n)
	}
}

func writeIntValue(buf *bytes.Buffer, n NumberValue) {
	if n.kind == NumberBigInt {
		writeBigInt(buf, n.big)
		return
	}
	x := n.i64
	switch {
	case x >= -128 && x <= 127:
		buf.WriteByte(makeTag(KindInt, sizeInt8))
		buf.WriteByte(byte(int8(x)))
	case x >= -32768 && x <= 32767:
		buf.WriteByte(makeTag(KindInt, sizeInt16))
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(int16(x)))
		buf.Write(b[:])
	case x >= -2147483648 && x <= 2147483647:
		buf.WriteByte(makeTag(KindInt, sizeInt32))
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(int32(x)))
		buf.Write(b[:])
	default:
		buf.WriteByte(makeTag(KindInt, sizeInt64))
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(x))
		buf.Write(b[:])
	}
}

func writeBigInt(buf *bytes.Buffer, bi *big.Int) {
	buf.WriteByte(makeTag(KindInt, sizeBig))
	sign := byte(0)
	if bi.Sign() < 0 {
		sign = 1
	}
	mag := new(big.Int).Abs(bi).Bytes()
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(mag)))
	buf.Write(lenBuf[:])
	buf.Write(mag)
	buf.WriteByte(sign)
}

func writeFloatValue(buf *bytes.Buffer, n NumberValue) {
	if n.kind == NumberBigFloat {
		s := n.bigf.Text('g', -1)
		buf.WriteByte(makeTag(KindFloat, sizeBigF))
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
		buf.Write(lenBuf[:])
		buf.WriteString(s)
		return
	}
	buf.WriteByte(makeTag(KindFloat, sizeFloat64))
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(n.f64))
	buf.Write(b[:])
}

func writeObject(buf *bytes.Buffer, v LazyValue, trace *TraceLogger) error {
	tagPos := buf.Len()
	buf.WriteByte(makeTag(KindObject, 0))
	lenPos := buf.Len()
	buf.Write(make([]byte, 4))
	countPos := buf.Len()
	buf.Write(make([]byte, 4))

	count := 0
	_, err := ApplyObject(v, func(key PtrString, child LazyValue) (Signal, error) {
		count++
		s, err := key.Decode()
		if err != nil {
			return Signal{}, err
		}
		writeRawString(buf, s)
		if err := writeValue(buf, child, trace); err != nil {
			return Signal{}, err
		}
		return Cont(0), nil
	})
	if err != nil {
		return err
	}
	total := buf.Len() - tagPos
	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[lenPos:], uint32(total))
	binary.LittleEndian.PutUint32(out[countPos:], uint32(count))
	trace.debugf("binary: object kind=%s bytes=%d members=%d", KindObject, total, count)
	return nil
}

func writeArray(buf *bytes.Buffer, v LazyValue, trace *TraceLogger) error {
	tagPos := buf.Len()
	buf.WriteByte(makeTag(KindArray, 0))
	lenPos := buf.Len()
	buf.Write(make([]byte, 4))
	countPos := buf.Len()
	buf.Write(make([]byte, 4))

	count := 0
	_, err := ApplyArray(v, func(index int, child LazyValue) (Signal, error) {
		count++
		if err := writeValue(buf, child, trace); err != nil {
			return Signal{}, err
		}
		return Cont(0), nil
	})
	if err != nil {
		return err
	}
	total := buf.Len() - tagPos
	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[lenPos:], uint32(total))
	binary.LittleEndian.PutUint32(out[countPos:], uint32(count))
	trace.debugf("binary: array kind=%s bytes=%d members=%d", KindArray, total, count)
	return nil
}

// --- reader ---

// ApplyObjectBinary mirrors ApplyObject over a binary tape.
func ApplyObjectBinary(v BinaryValue, f func(key string, child BinaryValue) (Signal, error)) (Signal, error) {
	if v.kind != KindObject {
		return Signal{}, newError(ErrorExpectedOpeningObjectChar, v.pos, "object")
	}
	total := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
	count := int(binary.LittleEndian.Uint32(v.tape[v.pos+5:]))
	cursor := v.pos + 9
	for i := 0; i < count; i++ {
		keyLen := int(binary.LittleEndian.Uint32(v.tape[cursor+1:]))
		keyStart := cursor + 5
		key := string(v.tape[keyStart : keyStart+keyLen])
		childPos := keyStart + keyLen
		child := v.child(childPos)

		sig, err := f(key, child)
		if err != nil {
			return Signal{}, err
		}
		if sig.done {
			return sig, nil
		}
		var nextPos int
		if sig.next == 0 {
			nextPos, err = SkipBinary(child)
			if err != nil {
				return Signal{}, err
			}
		} else {
			nextPos = sig.next
		}
		cursor = nextPos
	}
	return Cont(v.pos + total), nil
}

// ApplyArrayBinary mirrors ApplyArray over a binary tape.
func ApplyArrayBinary(v BinaryValue, f func(index int, child BinaryValue) (Signal, error)) (Signal, error) {
	if v.kind != KindArray {
		return Signal{}, newError(ErrorExpectedOpeningArrayChar, v.pos, "array")
	}
	total := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
	count := int(binary.LittleEndian.Uint32(v.tape[v.pos+5:]))
	cursor := v.pos + 9
	for i := 0; i < count; i++ {
		child := v.child(cursor)
		sig, err := f(i, child)
		if err != nil {
			return Signal{}, err
		}
		if sig.done {
			return sig, nil
		}
		var nextPos int
		if sig.next == 0 {
			nextPos, err = SkipBinary(child)
			if err != nil {
				return Signal{}, err
			}
		} else {
			nextPos = sig.next
		}
		cursor = nextPos
	}
	return Cont(v.pos + total), nil
}

// ApplyStringBinary decodes a string leaf.
func ApplyStringBinary(v BinaryValue, f func(string) (Signal, error)) (Signal, error) {
	s, newPos, err := stringValueBinary(v)
	if err != nil {
		return Signal{}, err
	}
	sig, err := f(s)
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

func stringValueBinary(v BinaryValue) (string, int, error) {
	if v.kind != KindString {
		return "", 0, newError(ErrorTypeMismatch, v.pos, "string")
	}
	strLen := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
	start := v.pos + 5
	return string(v.tape[start : start+strLen]), start + strLen, nil
}

// ApplyNumberBinary decodes an INT or FLOAT leaf into a NumberValue.
func ApplyNumberBinary(v BinaryValue, f func(NumberValue) (Signal, error)) (Signal, error) {
	n, newPos, err := numberValueAtBinary(v)
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

func numberValueAtBinary(v BinaryValue) (NumberValue, int, error) {
	tag := v.tape[v.pos]
	sizeClass := tagSizeClass(tag)
	switch tagKind(tag) {
	case KindInt:
		if sizeClass == sizeBig {
			bigLen := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
			magStart := v.pos + 5
			mag := v.tape[magStart : magStart+bigLen]
			signByte := v.tape[magStart+bigLen]
			bi := new(big.Int).SetBytes(mag)
			if signByte == 1 {
				bi.Neg(bi)
			}
			return NumberValue{kind: NumberBigInt, big: bi}, magStart + bigLen + 1, nil
		}
		width := 1 << sizeClass
		start := v.pos + 1
		var x int64
		switch sizeClass {
		case sizeInt8:
			x = int64(int8(v.tape[start]))
		case sizeInt16:
			x = int64(int16(binary.LittleEndian.Uint16(v.tape[start:])))
		case sizeInt32:
			x = int64(int32(binary.LittleEndian.Uint32(v.tape[start:])))
		case sizeInt64:
			x = int64(binary.LittleEndian.Uint64(v.tape[start:]))
		}
		return NumberValue{kind: NumberInt64, i64: x}, start + width, nil
	case KindFloat:
		if sizeClass == sizeBigF {
			strLen := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
			start := v.pos + 5
			s := string(v.tape[start : start+strLen])
			bf, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
			if err != nil {
				return NumberValue{}, 0, newError(ErrorInvalidNumber, v.pos, "bigfloat")
			}
			return NumberValue{kind: NumberBigFloat, bigf: bf}, start + strLen, nil
		}
		start := v.pos + 1
		if sizeClass == sizeFloat32 {
			bits := binary.LittleEndian.Uint32(v.tape[start:])
			return NumberValue{kind: NumberFloat64, f64: float64(math.Float32frombits(bits))}, start + 4, nil
		}
		bits := binary.LittleEndian.Uint64(v.tape[start:])
		return NumberValue{kind: NumberFloat64, f64: math.Float64frombits(bits)}, start + 8, nil
	default:
		return NumberValue{}, 0, newError(ErrorTypeMismatch, v.pos, "number")
	}
}

// SkipBinary advances past v in O(1) for composites (via the stored
// total-byte-length) and by fixed/length-prefixed width for scalars.
func SkipBinary(v BinaryValue) (int, error) {
	tag := v.tape[v.pos]
	switch tagKind(tag) {
	case KindNull, KindTrue, KindFalse:
		return v.pos + 1, nil
	case KindInt:
		sizeClass := tagSizeClass(tag)
		if sizeClass == sizeBig {
			bigLen := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
			return v.pos + 1 + 4 + bigLen + 1, nil
		}
		return v.pos + 1 + (1 << sizeClass), nil
	case KindFloat:
		sizeClass := tagSizeClass(tag)
		if sizeClass == sizeBigF {
			strLen := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
			return v.pos + 1 + 4 + strLen, nil
		}
		if sizeClass == sizeFloat32 {
			return v.pos + 1 + 4, nil
		}
		return v.pos + 1 + 8, nil
	case KindString:
		strLen := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
		return v.pos + 1 + 4 + strLen, nil
	case KindObject, KindArray:
		total := int(binary.LittleEndian.Uint32(v.tape[v.pos+1:]))
		return v.pos + total, nil
	default:
		return 0, newError(ErrorInvalidBinaryTag, v.pos, "binary tag")
	}
}
