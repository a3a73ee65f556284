package jsoncore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathLazy(t *testing.T) {
	v, err := Lazy([]byte(`{"a":{"b":[10,20,30]}}`), Options{})
	require.NoError(t, err)

	got, err := Path(v, "a", "b", 1)
	require.NoError(t, err)
	lv := got.(LazyValue)
	n, err := NumberValueOf(lv)
	require.NoError(t, err)
	assert.Equal(t, int64(20), n.i64)
}

func TestPathMissingStepErrors(t *testing.T) {
	v, err := Lazy([]byte(`{"a":1}`), Options{})
	require.NoError(t, err)
	_, err = Path(v, "nope")
	assert.Error(t, err)
}

func TestPathBinary(t *testing.T) {
	bv, err := Binary([]byte(`{"a":{"b":[10,20,30]}}`), Options{})
	require.NoError(t, err)

	got, err := Path(bv, "a", "b", 2)
	require.NoError(t, err)
	n, _, err := numberValueAtBinary(got.(BinaryValue))
	require.NoError(t, err)
	assert.Equal(t, int64(30), n.i64)
}

func TestPathAllCollectsMatches(t *testing.T) {
	v, err := Lazy([]byte(`[1,"x",2,"y",3]`), Options{})
	require.NoError(t, err)

	matches, err := PathAll(v, func(key any, child Selectable) bool {
		return child.Kind() == KindNumber
	})
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestApplyEachScalarErrors(t *testing.T) {
	v, err := Lazy([]byte(`"scalar"`), Options{})
	require.NoError(t, err)
	_, err = v.ApplyEach(func(key any, child Selectable) (Signal, error) { return Cont(0), nil })
	assert.Error(t, err)
}
