package jsoncore

// Selectable is the single traversal primitive unifying lazy and
// binary views (spec §4.3): apply-each delivers (string key, child)
// pairs for objects and (int index, child) pairs for arrays, and
// fails on scalars. It is implemented by both LazyValue and
// BinaryValue, letting materializers, counters, and selectors share
// one traversal code path without allocation.
type Selectable interface {
	Kind() Kind
	ApplyEach(f func(key any, child Selectable) (Signal, error)) (Signal, error)
}

// ApplyEach implements Selectable for LazyValue.
func (v LazyValue) ApplyEach(f func(key any, child Selectable) (Signal, error)) (Signal, error) {
	switch v.kind {
	case KindObject:
		return ApplyObject(v, func(key PtrString, child LazyValue) (Signal, error) {
			ks, err := key.Decode()
			if err != nil {
				return Signal{}, err
			}
			return f(ks, child)
		})
	case KindArray:
		return ApplyArray(v, func(index int, child LazyValue) (Signal, error) {
			return f(index, child)
		})
	default:
		return Signal{}, newError(ErrorTypeMismatch, v.pos, "object or array")
	}
}

// ApplyEach implements Selectable for BinaryValue.
func (v BinaryValue) ApplyEach(f func(key any, child Selectable) (Signal, error)) (Signal, error) {
	switch v.kind {
	case KindObject:
		return ApplyObjectBinary(v, func(key string, child BinaryValue) (Signal, error) {
			return f(key, child)
		})
	case KindArray:
		return ApplyArrayBinary(v, func(index int, child BinaryValue) (Signal, error) {
			return f(index, child)
		})
	default:
		return Signal{}, newError(ErrorTypeMismatch, v.pos, "object or array")
	}
}

// Path walks steps (string object keys or int array indices) from v,
// returning the first matching descendant. It is a thin convention
// over ApplyEach, grounded on the teacher's fluent .Key()/.Index()
// accessors but generalized to both views and to error-returning
// form (the fluent teacher API swallowed misses; selection here
// cannot, per spec §7).
func Path(v Selectable, steps ...any) (Selectable, error) {
	cur := v
	for _, step := range steps {
		sig, err := cur.ApplyEach(func(key any, child Selectable) (Signal, error) {
			if matchesStep(key, step) {
				return Stop(child), nil
			}
			return Cont(0), nil
		})
		if err != nil {
			return nil, err
		}
		if !sig.done {
			return nil, newError(ErrorTypeMismatch, 0, "selector step")
		}
		cur = sig.Payload.(Selectable)
	}
	return cur, nil
}

func matchesStep(key any, step any) bool {
	switch s := step.(type) {
	case string:
		ks, ok := key.(string)
		return ok && ks == s
	case int:
		ki, ok := key.(int)
		return ok && ki == s
	default:
		return false
	}
}

// Predicate is the callback PathAll uses to test each direct child.
type Predicate func(key any, child Selectable) bool

// PathAll collects every direct child of v for which pred holds, in
// input order.
func PathAll(v Selectable, pred Predicate) ([]Selectable, error) {
	var out []Selectable
	_, err := v.ApplyEach(func(key any, child Selectable) (Signal, error) {
		if pred(key, child) {
			out = append(out, child)
		}
		return Cont(0), nil
	})
	return out, err
}
