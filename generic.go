package jsoncore

import (
	"math/big"

	"github.com/pkg/errors"
)

// Materialize builds a generic value (Map/Sequence/string/number/bool
// or Absent) from either a LazyValue or a BinaryValue, using Types to
// pick the concrete containers. A zero Types{} produces Map,
// *Sequence, and plain Go strings.
func Materialize(v any, opts Options, types Types) (any, error) {
	switch t := v.(type) {
	case LazyValue:
		val, newPos, err := materializeLazy(t, opts, types)
		if err != nil {
			return nil, err
		}
		if err := validateTopLevelTrailing(t, newPos); err != nil {
			return nil, err
		}
		return val, nil
	case BinaryValue:
		val, _, err := materializeBinary(t, opts, types)
		return val, err
	default:
		return nil, newError(ErrorTypeMismatch, 0, "LazyValue or BinaryValue")
	}
}

func materializeLazy(v LazyValue, opts Options, types Types) (any, int, error) {
	switch v.Kind() {
	case KindNull:
		return Null, v.Pos() + len("null"), nil
	case KindTrue:
		return true, v.Pos() + len("true"), nil
	case KindFalse:
		return false, v.Pos() + len("false"), nil
	case KindString:
		ps, newPos, err := stringValue(v)
		if err != nil {
			return nil, 0, err
		}
		s, err := ps.Decode()
		if err != nil {
			return nil, 0, err
		}
		return types.newString(s), newPos, nil
	case KindNumber:
		n, newPos, err := numberValueAt(v)
		if err != nil {
			return nil, 0, err
		}
		return n.Any(), newPos, nil
	case KindObject:
		obj := types.newObject()
		sig, err := ApplyObject(v, func(key PtrString, child LazyValue) (Signal, error) {
			k, err := key.Decode()
			if err != nil {
				return Signal{}, err
			}
			val, newPos, err := materializeLazy(child, opts, types)
			if err != nil {
				return Signal{}, errors.Wrapf(err, "object key %q", k)
			}
			obj.Set(k, val) // last-write-wins on duplicate keys, per spec §4.4
			return Cont(newPos), nil
		})
		if err != nil {
			return nil, 0, err
		}
		return obj, sig.next, nil
	case KindArray:
		seq := types.newSequence()
		idx := 0
		sig, err := ApplyArray(v, func(index int, child LazyValue) (Signal, error) {
			val, newPos, err := materializeLazy(child, opts, types)
			if err != nil {
				return Signal{}, errors.Wrapf(err, "index %d", index)
			}
			seq.Push(val)
			idx++
			return Cont(newPos), nil
		})
		if err != nil {
			return nil, 0, err
		}
		return seq, sig.next, nil
	default:
		return nil, 0, newError(ErrorInvalidJSON, v.Pos(), "value")
	}
}

func materializeBinary(v BinaryValue, opts Options, types Types) (any, int, error) {
	switch v.Kind() {
	case KindNull:
		return Null, 0, nil
	case KindTrue:
		return true, 0, nil
	case KindFalse:
		return false, 0, nil
	case KindString:
		s, newPos, err := stringValueBinary(v)
		if err != nil {
			return nil, 0, err
		}
		return types.newString(s), newPos, nil
	case KindInt, KindFloat:
		n, newPos, err := numberValueAtBinary(v)
		if err != nil {
			return nil, 0, err
		}
		return n.Any(), newPos, nil
	case KindObject:
		obj := types.newObject()
		sig, err := ApplyObjectBinary(v, func(key string, child BinaryValue) (Signal, error) {
			val, newPos, err := materializeBinary(child, opts, types)
			if err != nil {
				return Signal{}, errors.Wrapf(err, "object key %q", key)
			}
			obj.Set(key, val)
			return Cont(newPos), nil
		})
		if err != nil {
			return nil, 0, err
		}
		return obj, sig.next, nil
	case KindArray:
		seq := types.newSequence()
		sig, err := ApplyArrayBinary(v, func(index int, child BinaryValue) (Signal, error) {
			val, newPos, err := materializeBinary(child, opts, types)
			if err != nil {
				return Signal{}, errors.Wrapf(err, "index %d", index)
			}
			seq.Push(val)
			return Cont(newPos), nil
		})
		if err != nil {
			return nil, 0, err
		}
		return seq, sig.next, nil
	default:
		return nil, 0, newError(ErrorInvalidBinaryTag, v.pos, "binary tag")
	}
}

// Matrix materializes v (expected to be a rectangular array of
// arrays of float64) into a row-major rectangular matrix, per spec
// §4.4's two-pass special case: pass one measures the first row's
// length and short-circuits; pass two appends each inner array as one
// row.
func Matrix(v any) ([][]float64, error) {
	lv, ok := v.(LazyValue)
	if !ok {
		return nil, newError(ErrorTypeMismatch, 0, "matrix requires a lazy array of arrays")
	}
	if lv.Kind() != KindArray {
		return nil, newError(ErrorTypeMismatch, lv.Pos(), "array of arrays")
	}

	// Pass one: measure the first row's length, then stop. The rest of
	// the rows are only checked against this length in pass two, since
	// counting them here would mean visiting every row twice anyway.
	rowLen := -1
	sig1, err := ApplyArray(lv, func(index int, row LazyValue) (Signal, error) {
		if index != 0 {
			return Cont(0), nil
		}
		if row.Kind() != KindArray {
			return Signal{}, newError(ErrorTypeMismatch, row.Pos(), "array row")
		}
		n, err := (LazyArray{v: row}).Len()
		if err != nil {
			return Signal{}, err
		}
		rowLen = n
		return Stop(nil), nil
	})
	if err != nil {
		return nil, err
	}
	if rowLen < 0 {
		// The array was empty: pass one ran to completion (Cont, not
		// Stop), so sig1.next is already the terminal position.
		if err := validateTopLevelTrailing(lv, sig1.Next()); err != nil {
			return nil, err
		}
		return [][]float64{}, nil
	}

	// Pass two: re-traverse and fill row by row.
	matrix := make([][]float64, 0, rowLen)
	sig, err := ApplyArray(lv, func(rowIndex int, row LazyValue) (Signal, error) {
		if row.Kind() != KindArray {
			return Signal{}, newError(ErrorTypeMismatch, row.Pos(), "array row")
		}
		cols := make([]float64, 0, rowLen)
		_, err := ApplyArray(row, func(colIndex int, cell LazyValue) (Signal, error) {
			n, err := numberValueAt2(cell)
			if err != nil {
				return Signal{}, err
			}
			cols = append(cols, n)
			return Cont(0), nil
		})
		if err != nil {
			return Signal{}, err
		}
		if len(cols) != rowLen {
			return Signal{}, newError(ErrorTypeMismatch, row.Pos(), "rectangular row length")
		}
		matrix = append(matrix, cols)
		return Cont(0), nil
	})
	if err != nil {
		return nil, err
	}
	if err := validateTopLevelTrailing(lv, sig.next); err != nil {
		return nil, err
	}
	return matrix, nil
}

func numberValueAt2(v LazyValue) (float64, error) {
	n, err := NumberValueOf(v)
	if err != nil {
		return 0, err
	}
	switch n.Kind() {
	case NumberInt64:
		return float64(n.i64), nil
	case NumberFloat64:
		return n.f64, nil
	case NumberBigInt:
		f := new(big.Float).SetInt(n.big)
		out, _ := f.Float64()
		return out, nil
	default:
		out, _ := n.bigf.Float64()
		return out, nil
	}
}
