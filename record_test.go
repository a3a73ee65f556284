package jsoncore

import (
	"testing"

	"github.com/modern-go/reflect2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordTestPoint struct{ X, Y float64 }

func newRecordTestPoint(slots []any) (any, error) {
	x, err := recordTestFloatOrZero(slots[0])
	if err != nil {
		return nil, err
	}
	y, err := recordTestFloatOrZero(slots[1])
	if err != nil {
		return nil, err
	}
	return recordTestPoint{X: x, Y: y}, nil
}

func recordTestFloatOrZero(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case Absent:
		return 0, nil
	default:
		return 0, newError(ErrorTypeMismatch, 0, "float64")
	}
}

type recordTestRect struct{ W, H float64 }

func newRecordTestRect(values map[string]any) (any, error) {
	return recordTestRect{W: values["W"].(float64), H: values["H"].(float64)}, nil
}

type recordTestConfig struct {
	Name  string
	Count int
}

type recordTestWrapper struct {
	P recordTestPoint
}

type recordTestColor int

const (
	recordTestRed recordTestColor = iota
	recordTestGreen
	recordTestBlue
)

type recordTestIntOrString struct{}

func init() {
	RegisterPositional(recordTestPoint{}, []FieldSpec{
		{Name: "X", JSONKey: "x", GoType: reflect2.TypeOf(float64(0)), AdmitsMissing: true},
		{Name: "Y", JSONKey: "y", GoType: reflect2.TypeOf(float64(0)), AdmitsMissing: true},
	}, newRecordTestPoint)

	RegisterKeyword(recordTestRect{}, []FieldSpec{
		{Name: "W", JSONKey: "w", GoType: reflect2.TypeOf(float64(0)), AdmitsMissing: true},
		{Name: "H", JSONKey: "h", GoType: reflect2.TypeOf(float64(0)), AdmitsMissing: true},
	}, newRecordTestRect)

	RegisterMutable(&recordTestConfig{}, []FieldSpec{
		{Name: "Name", JSONKey: "name", GoType: reflect2.TypeOf("")},
		{Name: "Count", JSONKey: "count", GoType: reflect2.TypeOf(int(0))},
	})

	RegisterMutable(&recordTestWrapper{}, []FieldSpec{
		{Name: "P", JSONKey: "p", GoType: reflect2.TypeOf(recordTestPoint{})},
	})

	RegisterEnum(recordTestColor(0), map[string]any{
		"red":   recordTestRed,
		"green": recordTestGreen,
		"blue":  recordTestBlue,
	})

	RegisterUnion(recordTestIntOrString{}, []UnionVariant{
		{Kind: KindNumber, Build: func(v Selectable, opts Options) (any, error) {
			n, err := numberOf(v)
			if err != nil {
				return nil, err
			}
			return numberAsInt64(n), nil
		}},
		{Kind: KindString, Build: func(v Selectable, opts Options) (any, error) {
			return stringOf(v)
		}},
	})
}

func TestMaterializeIntoPositional(t *testing.T) {
	v, err := Lazy([]byte(`{"x":1,"y":2}`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(v, recordTestPoint{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, recordTestPoint{X: 1, Y: 2}, res)
}

func TestMaterializeIntoPositionalMissingFieldDefaultsToMissing(t *testing.T) {
	v, err := Lazy([]byte(`{"x":1}`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(v, recordTestPoint{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, recordTestPoint{X: 1, Y: 0}, res)
}

func TestMaterializeIntoKeyword(t *testing.T) {
	v, err := Lazy([]byte(`{"w":3,"h":4}`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(v, recordTestRect{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, recordTestRect{W: 3, H: 4}, res)
}

func TestMaterializeIntoKeywordIgnoresUnknownKeys(t *testing.T) {
	v, err := Lazy([]byte(`{"w":3,"h":4,"extra":true}`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(v, recordTestRect{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, recordTestRect{W: 3, H: 4}, res)
}

func TestMaterializeIntoMutable(t *testing.T) {
	v, err := Lazy([]byte(`{"name":"hi","count":5}`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(v, &recordTestConfig{}, Options{})
	require.NoError(t, err)
	cfg := res.(*recordTestConfig)
	assert.Equal(t, "hi", cfg.Name)
	assert.Equal(t, 5, cfg.Count)
}

func TestMaterializeIntoMutableLeavesMissingFieldsZero(t *testing.T) {
	v, err := Lazy([]byte(`{"name":"solo"}`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(v, &recordTestConfig{}, Options{})
	require.NoError(t, err)
	cfg := res.(*recordTestConfig)
	assert.Equal(t, "solo", cfg.Name)
	assert.Equal(t, 0, cfg.Count)
}

func TestMaterializeIntoNestedRecord(t *testing.T) {
	v, err := Lazy([]byte(`{"p":{"x":5,"y":6}}`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(v, &recordTestWrapper{}, Options{})
	require.NoError(t, err)
	w := res.(*recordTestWrapper)
	assert.Equal(t, recordTestPoint{X: 5, Y: 6}, w.P)
}

func TestMaterializeIntoEnumCaseInsensitive(t *testing.T) {
	v, err := Lazy([]byte(`"Green"`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(v, recordTestColor(0), Options{})
	require.NoError(t, err)
	assert.Equal(t, recordTestGreen, res)
}

func TestMaterializeIntoEnumUnknownVariantErrors(t *testing.T) {
	v, err := Lazy([]byte(`"purple"`), Options{})
	require.NoError(t, err)
	_, err = MaterializeInto(v, recordTestColor(0), Options{})
	assert.Error(t, err)
}

func TestMaterializeIntoRejectsTrailingGarbage(t *testing.T) {
	v, err := Lazy([]byte(`{"x":1,"y":2}garbage`), Options{})
	require.NoError(t, err)
	_, err = MaterializeInto(v, recordTestPoint{}, Options{})
	assert.Error(t, err)
}

func TestMaterializeIntoUnionDispatchesByKind(t *testing.T) {
	vStr, err := Lazy([]byte(`"hey"`), Options{})
	require.NoError(t, err)
	res, err := MaterializeInto(vStr, recordTestIntOrString{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "hey", res)

	vNum, err := Lazy([]byte(`42`), Options{})
	require.NoError(t, err)
	res, err = MaterializeInto(vNum, recordTestIntOrString{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res)
}
