package jsoncore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryRoundTripsScalars(t *testing.T) {
	bv, err := Binary([]byte(`42`), Options{})
	require.NoError(t, err)
	assert.Equal(t, KindInt, bv.Kind())
	n, _, err := numberValueAtBinary(bv)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.i64)
}

func TestBinaryRoundTripsString(t *testing.T) {
	bv, err := Binary([]byte(`"hello"`), Options{})
	require.NoError(t, err)
	assert.Equal(t, KindString, bv.Kind())
	s, _, err := stringValueBinary(bv)
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
}

func TestBinaryRoundTripsObject(t *testing.T) {
	bv, err := Binary([]byte(`{"a":1,"b":"two"}`), Options{})
	require.NoError(t, err)
	assert.Equal(t, KindObject, bv.Kind())

	var keys []string
	sig, err := ApplyObjectBinary(bv, func(key string, child BinaryValue) (Signal, error) {
		keys = append(keys, key)
		return Cont(0), nil
	})
	require.NoError(t, err)
	assert.False(t, sig.Done())
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestBinaryRoundTripsArray(t *testing.T) {
	bv, err := Binary([]byte(`[1,2,3]`), Options{})
	require.NoError(t, err)

	var sum int64
	_, err = ApplyArrayBinary(bv, func(index int, child BinaryValue) (Signal, error) {
		n, _, err := numberValueAtBinary(child)
		require.NoError(t, err)
		sum += n.i64
		return Cont(0), nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), sum)
}

func TestBinarySkipIsConstantTimeViaStoredLength(t *testing.T) {
	bv, err := Binary([]byte(`{"skip":[1,2,3,4,5],"keep":7}`), Options{})
	require.NoError(t, err)

	var seen []string
	_, err = ApplyObjectBinary(bv, func(key string, child BinaryValue) (Signal, error) {
		seen = append(seen, key)
		return Cont(0), nil // every member skipped via SkipBinary's O(1) length jump
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"skip", "keep"}, seen)
}

func TestBinaryPromotesBigIntOnWire(t *testing.T) {
	bv, err := Binary([]byte(`9223372036854775808`), Options{})
	require.NoError(t, err)
	n, _, err := numberValueAtBinary(bv)
	require.NoError(t, err)
	assert.Equal(t, NumberBigInt, n.Kind())
}

func TestBinaryNestedContainersSkipInO1(t *testing.T) {
	bv, err := Binary([]byte(`[{"a":[1,2,3]},{"b":4}]`), Options{})
	require.NoError(t, err)

	count := 0
	_, err = ApplyArrayBinary(bv, func(index int, child BinaryValue) (Signal, error) {
		count++
		return Cont(0), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
