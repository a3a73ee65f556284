package jsoncore

import (
	"math/big"
	"reflect"
	"strings"
	"sync"

	"github.com/modern-go/reflect2"
)

// Strategy is one of the three ways the record materializer builds an
// instance of a user type, declared per type at registration time
// (spec §4.5).
type Strategy int

// Construction strategies.
const (
	StrategyPositional Strategy = iota
	StrategyKeyword
	StrategyMutable
)

// FieldSpec is how a caller declares one field of a record type at
// registration time. JSONKey defaults to Name when empty.
type FieldSpec struct {
	Name          string
	JSONKey       string
	GoType        reflect2.Type
	Default       any
	HasDefault    bool
	AdmitsMissing bool
	AdmitsNull    bool
}

// UnionVariant is one branch of a scalar union type (spec §4.5): the
// first variant whose Kind accepts the incoming JSON kind wins, with
// a Null-admitting variant tried first when the JSON kind is NULL.
type UnionVariant struct {
	Kind  Kind
	Build func(v Selectable, opts Options) (any, error)
}

type typeDescriptor struct {
	strategy        Strategy
	index           *FieldIndex
	structType      reflect2.StructType
	positionalCtor  func([]any) (any, error)
	keywordCtor     func(map[string]any) (any, error)
	isEnum          bool
	enumTable       map[string]any
	isUnion         bool
	unionVariants   []UnionVariant
	isDiscriminated bool
	discriminate    func(Selectable) (reflect.Type, error)
}

var registry sync.Map // reflect.Type -> *typeDescriptor

func buildFieldDescriptors(fields []FieldSpec) []FieldDescriptor {
	out := make([]FieldDescriptor, len(fields))
	for i, f := range fields {
		key := f.JSONKey
		if key == "" {
			key = f.Name
		}
		out[i] = FieldDescriptor{
			GoIndex:       i,
			FieldName:     f.Name,
			JSONKey:       key,
			FieldType:     f.GoType,
			Default:       f.Default,
			HasDefault:    f.HasDefault,
			AdmitsMissing: f.AdmitsMissing,
			AdmitsNull:    f.AdmitsNull,
		}
	}
	return out
}

// RegisterPositional declares sample's type to use the POSITIONAL
// strategy: an untyped slot vector is filled by matching JSON member
// keys against fields in declaration order, then ctor assembles the
// instance from the slots.
func RegisterPositional(sample any, fields []FieldSpec, ctor func([]any) (any, error)) {
	registry.Store(derefType(reflect.TypeOf(sample)), &typeDescriptor{
		strategy:       StrategyPositional,
		index:          BuildFieldIndex(buildFieldDescriptors(fields)),
		positionalCtor: ctor,
	})
}

// RegisterKeyword declares sample's type to use the KEYWORD strategy:
// (field_name, value) pairs accumulate as they arrive, then ctor is
// called once with the full map.
func RegisterKeyword(sample any, fields []FieldSpec, ctor func(map[string]any) (any, error)) {
	registry.Store(derefType(reflect.TypeOf(sample)), &typeDescriptor{
		strategy:    StrategyKeyword,
		index:       BuildFieldIndex(buildFieldDescriptors(fields)),
		keywordCtor: ctor,
	})
}

// RegisterMutable declares sample's type (a pointer to a struct) to
// use the MUTABLE strategy: a zero instance is constructed first,
// then each member sets a field directly through reflect2.
func RegisterMutable(sample any, fields []FieldSpec) {
	registry.Store(derefType(reflect.TypeOf(sample)), &typeDescriptor{
		strategy:   StrategyMutable,
		index:      BuildFieldIndex(buildFieldDescriptors(fields)),
		structType: structTypeOf(sample),
	})
}

// RegisterEnum declares sample's type as an enumeration: JSON strings
// match variant names case-insensitively.
func RegisterEnum(sample any, variants map[string]any) {
	table := make(map[string]any, len(variants))
	for name, val := range variants {
		table[strings.ToLower(name)] = val
	}
	registry.Store(derefType(reflect.TypeOf(sample)), &typeDescriptor{isEnum: true, enumTable: table})
}

// RegisterUnion declares sample's type as a scalar union: variants
// are tried in declaration order by JSON kind.
func RegisterUnion(sample any, variants []UnionVariant) {
	registry.Store(derefType(reflect.TypeOf(sample)), &typeDescriptor{isUnion: true, unionVariants: variants})
}

// RegisterDiscriminator declares sample's type as polymorphic: pick
// sniffs the lazy/binary view to choose a concrete registered type
// before materialization proceeds (spec §4.5, §9).
func RegisterDiscriminator(sample any, pick func(v Selectable) (reflect.Type, error)) {
	registry.Store(derefType(reflect.TypeOf(sample)), &typeDescriptor{isDiscriminated: true, discriminate: pick})
}

func loadDescriptor(t reflect.Type) (*typeDescriptor, bool) {
	v, ok := registry.Load(t)
	if !ok {
		return nil, false
	}
	return v.(*typeDescriptor), true
}

func derefType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

func structTypeOf(sample any) reflect2.StructType {
	t2 := reflect2.TypeOf(sample)
	if ptrType, ok := t2.(reflect2.PtrType); ok {
		t2 = ptrType.Elem()
	}
	return t2.(reflect2.StructType)
}

// MaterializeInto builds an instance of target's type (a sample value
// or pointer) from v, dispatching through whichever strategy target
// was registered with — the single entry point spec §6 calls
// materialize(view, T).
func MaterializeInto(v any, target any, opts Options) (any, error) {
	sel, ok := v.(Selectable)
	if !ok {
		return nil, newError(ErrorTypeMismatch, 0, "LazyValue or BinaryValue")
	}
	result, err := materializeRecord(sel, derefType(reflect.TypeOf(target)), opts)
	if err != nil {
		return nil, err
	}
	if lv, ok := v.(LazyValue); ok && lv.top {
		terminalPos, err := Skip(lv)
		if err != nil {
			return nil, err
		}
		if err := validateTopLevelTrailing(lv, terminalPos); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func materializeRecord(v Selectable, t reflect.Type, opts Options) (any, error) {
	td, ok := loadDescriptor(t)
	if !ok {
		return coerceGeneric(v, t, opts)
	}
	switch {
	case td.isDiscriminated:
		opts.Trace.debugf("record: type=%s strategy=discriminated", t)
		concrete, err := td.discriminate(v)
		if err != nil {
			return nil, err
		}
		return materializeRecord(v, derefType(concrete), opts)
	case td.isUnion:
		opts.Trace.debugf("record: type=%s strategy=union", t)
		return materializeUnion(v, td, opts)
	case td.isEnum:
		opts.Trace.debugf("record: type=%s strategy=enum", t)
		return materializeEnum(v, td)
	default:
		switch td.strategy {
		case StrategyPositional:
			opts.Trace.debugf("record: type=%s strategy=positional", t)
			return materializePositional(v, td, opts)
		case StrategyKeyword:
			opts.Trace.debugf("record: type=%s strategy=keyword", t)
			return materializeKeyword(v, td, opts)
		default:
			opts.Trace.debugf("record: type=%s strategy=mutable", t)
			return materializeMutable(v, td, opts)
		}
	}
}

func materializePositional(v Selectable, td *typeDescriptor, opts Options) (any, error) {
	n := td.index.Len()
	slots := make([]any, n)
	set := make([]bool, n)
	_, err := v.ApplyEach(func(key any, child Selectable) (Signal, error) {
		ks, _ := key.(string)
		fd, found := td.index.Lookup(ks)
		if !found {
			return Cont(0), nil // unknown keys are skipped, per spec §4.6
		}
		val, err := materializeField(child, fd, opts)
		if err != nil {
			return Signal{}, wrapf(err, "field %q", fd.FieldName)
		}
		slots[fd.GoIndex] = val
		set[fd.GoIndex] = true
		return Cont(0), nil
	})
	if err != nil {
		return nil, err
	}
	for _, fd := range td.index.Fields() {
		if !set[fd.GoIndex] {
			slots[fd.GoIndex] = defaultFor(fd)
		}
	}
	return td.positionalCtor(slots)
}

func materializeKeyword(v Selectable, td *typeDescriptor, opts Options) (any, error) {
	values := make(map[string]any, td.index.Len())
	set := make(map[string]bool, td.index.Len())
	_, err := v.ApplyEach(func(key any, child Selectable) (Signal, error) {
		ks, _ := key.(string)
		fd, found := td.index.Lookup(ks)
		if !found {
			return Cont(0), nil
		}
		val, err := materializeField(child, fd, opts)
		if err != nil {
			return Signal{}, wrapf(err, "field %q", fd.FieldName)
		}
		values[fd.FieldName] = val
		set[fd.FieldName] = true
		return Cont(0), nil
	})
	if err != nil {
		return nil, err
	}
	for _, fd := range td.index.Fields() {
		if !set[fd.FieldName] {
			values[fd.FieldName] = defaultFor(fd)
		}
	}
	return td.keywordCtor(values)
}

func materializeMutable(v Selectable, td *typeDescriptor, opts Options) (any, error) {
	instance := td.structType.New()
	_, err := v.ApplyEach(func(key any, child Selectable) (Signal, error) {
		ks, _ := key.(string)
		fd, found := td.index.Lookup(ks)
		if !found {
			return Cont(0), nil
		}
		val, err := materializeField(child, fd, opts)
		if err != nil {
			return Signal{}, wrapf(err, "field %q", fd.FieldName)
		}
		// reflect2's StructField.Set takes a pointer to the new value.
		field := td.structType.Field(fd.GoIndex)
		ptr := reflect.New(field.Type().Type1())
		ptr.Elem().Set(reflect.ValueOf(val))
		field.Set(instance, ptr.Interface())
		return Cont(0), nil
	})
	if err != nil {
		return nil, err
	}
	// Fields never set are left at their zero value; reading them is
	// a caller concern, per spec §4.5.
	return instance, nil
}

func defaultFor(fd FieldDescriptor) any {
	if fd.HasDefault {
		return fd.Default
	}
	return Missing
}

// materializeField resolves the open question in spec §9: JSON null
// maps to Missing when the field admits it, else to Null. Anything
// else recurses into a typed materialization of the field's declared
// static type.
func materializeField(child Selectable, fd *FieldDescriptor, opts Options) (any, error) {
	if child.Kind() == KindNull {
		if fd.AdmitsMissing {
			return Missing, nil
		}
		return Null, nil
	}
	return materializeTyped(child, fd.FieldType.Type1(), opts)
}

func materializeEnum(v Selectable, td *typeDescriptor) (any, error) {
	s, err := stringOf(v)
	if err != nil {
		return nil, err
	}
	val, ok := td.enumTable[strings.ToLower(s)]
	if !ok {
		return nil, newError(ErrorTypeMismatch, 0, "enum variant "+s)
	}
	return val, nil
}

func materializeUnion(v Selectable, td *typeDescriptor, opts Options) (any, error) {
	kind := v.Kind()
	if kind == KindNull {
		for _, variant := range td.unionVariants {
			if variant.Kind == KindNull {
				return variant.Build(v, opts)
			}
		}
	}
	for _, variant := range td.unionVariants {
		if variant.Kind == kind {
			return variant.Build(v, opts)
		}
	}
	return nil, newError(ErrorTypeMismatch, 0, "union variant for "+kind.String())
}

// materializeTyped builds a value of Go static type t from v,
// recursing into the record materializer for registered struct types
// and falling back to generic-container coercion otherwise.
func materializeTyped(v Selectable, t reflect.Type, opts Options) (any, error) {
	if t.Kind() == reflect.Struct {
		if _, ok := loadDescriptor(t); ok {
			return materializeRecord(v, t, opts)
		}
	}
	return coerceGeneric(v, t, opts)
}

func coerceGeneric(v Selectable, t reflect.Type, opts Options) (any, error) {
	switch t.Kind() {
	case reflect.Ptr:
		if v.Kind() == KindNull {
			return reflect.Zero(t).Interface(), nil
		}
		inner, err := materializeTyped(v, t.Elem(), opts)
		if err != nil {
			return nil, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(reflect.ValueOf(inner))
		return p.Interface(), nil
	case reflect.Interface:
		return Materialize(v, opts, Types{})
	case reflect.Slice:
		if v.Kind() != KindArray {
			return nil, newError(ErrorTypeMismatch, 0, "array")
		}
		result := reflect.MakeSlice(t, 0, 0)
		_, err := v.ApplyEach(func(key any, child Selectable) (Signal, error) {
			elemVal, err := materializeTyped(child, t.Elem(), opts)
			if err != nil {
				return Signal{}, err
			}
			result = reflect.Append(result, reflect.ValueOf(elemVal))
			return Cont(0), nil
		})
		if err != nil {
			return nil, err
		}
		return result.Interface(), nil
	case reflect.Map:
		if v.Kind() != KindObject {
			return nil, newError(ErrorTypeMismatch, 0, "object")
		}
		result := reflect.MakeMap(t)
		_, err := v.ApplyEach(func(key any, child Selectable) (Signal, error) {
			ks, _ := key.(string)
			valVal, err := materializeTyped(child, t.Elem(), opts)
			if err != nil {
				return Signal{}, err
			}
			result.SetMapIndex(reflect.ValueOf(ks).Convert(t.Key()), reflect.ValueOf(valVal))
			return Cont(0), nil
		})
		if err != nil {
			return nil, err
		}
		return result.Interface(), nil
	default:
		return materializeScalar(v, t)
	}
}

func materializeScalar(v Selectable, t reflect.Type) (any, error) {
	switch v.Kind() {
	case KindString:
		s, err := stringOf(v)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(s).Convert(t).Interface(), nil
	case KindNumber, KindInt, KindFloat:
		n, err := numberOf(v)
		if err != nil {
			return nil, err
		}
		return coerceNumber(n, t)
	case KindTrue:
		return true, nil
	case KindFalse:
		return false, nil
	default:
		return nil, newError(ErrorTypeMismatch, 0, t.String())
	}
}

func coerceNumber(n NumberValue, t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(numberAsFloat64(n)).Convert(t).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.ValueOf(numberAsInt64(n)).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.ValueOf(uint64(numberAsInt64(n))).Convert(t).Interface(), nil
	default:
		return nil, newError(ErrorTypeMismatch, 0, t.String())
	}
}

func numberAsInt64(n NumberValue) int64 {
	switch n.Kind() {
	case NumberInt64:
		return n.i64
	case NumberFloat64:
		return int64(n.f64)
	case NumberBigInt:
		return n.big.Int64()
	default:
		i, _ := n.bigf.Int64()
		return i
	}
}

func numberAsFloat64(n NumberValue) float64 {
	switch n.Kind() {
	case NumberInt64:
		return float64(n.i64)
	case NumberFloat64:
		return n.f64
	case NumberBigInt:
		f := new(big.Float).SetInt(n.big)
		out, _ := f.Float64()
		return out
	default:
		out, _ := n.bigf.Float64()
		return out
	}
}

func stringOf(v Selectable) (string, error) {
	switch t := v.(type) {
	case LazyValue:
		ps, err := StringValue(t)
		if err != nil {
			return "", err
		}
		return ps.Decode()
	case BinaryValue:
		s, _, err := stringValueBinary(t)
		return s, err
	default:
		return "", newError(ErrorTypeMismatch, 0, "string")
	}
}

func numberOf(v Selectable) (NumberValue, error) {
	switch t := v.(type) {
	case LazyValue:
		return NumberValueOf(t)
	case BinaryValue:
		n, _, err := numberValueAtBinary(t)
		return n, err
	default:
		return NumberValue{}, newError(ErrorTypeMismatch, 0, "number")
	}
}
