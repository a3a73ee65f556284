package jsoncore

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeRejectsTrailingGarbageAfterTopLevelValue(t *testing.T) {
	cases := []string{
		`{"a":1}garbage`,
		`truefoo`,
		`5 6`,
	}
	for _, src := range cases {
		v, err := Lazy([]byte(src), Options{})
		require.NoError(t, err, src)
		_, err = Materialize(v, Options{}, Types{})
		assert.Error(t, err, src)
	}
}

func TestMaterializeAllowsTrailingWhitespaceAfterTopLevelValue(t *testing.T) {
	v, err := Lazy([]byte("  {\"a\":1}  \n"), Options{})
	require.NoError(t, err)
	_, err = Materialize(v, Options{}, Types{})
	assert.NoError(t, err)
}

func TestMaterializeLazyObjectAndArray(t *testing.T) {
	v, err := Lazy([]byte(`{"a":1,"b":[true,false,null],"c":"x"}`), Options{})
	require.NoError(t, err)

	val, err := Materialize(v, Options{}, Types{})
	require.NoError(t, err)

	m, ok := val.(Map)
	require.True(t, ok)
	assert.Equal(t, int64(1), m["a"])
	assert.Equal(t, "x", m["c"])

	seq, ok := m["b"].(*Sequence)
	require.True(t, ok)
	assert.Equal(t, []any{true, false, Null}, seq.Items)
}

func TestMaterializeBinaryMatchesLazy(t *testing.T) {
	raw := []byte(`{"a":1,"b":[2,3],"c":"x"}`)
	lv, err := Lazy(raw, Options{})
	require.NoError(t, err)
	lazyVal, err := Materialize(lv, Options{}, Types{})
	require.NoError(t, err)

	bv, err := Binary(raw, Options{})
	require.NoError(t, err)
	binVal, err := Materialize(bv, Options{}, Types{})
	require.NoError(t, err)

	lazyMap := lazyVal.(Map)
	binMap := binVal.(Map)
	assert.Equal(t, lazyMap["a"], binMap["a"])
	assert.Equal(t, lazyMap["c"], binMap["c"])

	lazySeq := lazyMap["b"].(*Sequence).Items
	binSeq := binMap["b"].(*Sequence).Items
	if diff := cmp.Diff(lazySeq, binSeq); diff != "" {
		t.Errorf("lazy/binary materialization diverged (-lazy +binary):\n%s", diff)
	}
}

func TestMaterializeDuplicateKeyLastWriteWins(t *testing.T) {
	v, err := Lazy([]byte(`{"a":1,"a":2}`), Options{})
	require.NoError(t, err)
	val, err := Materialize(v, Options{}, Types{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), val.(Map)["a"])
}

func TestMatrixMeasuresThenFills(t *testing.T) {
	v, err := Lazy([]byte(`[[1,2,3],[4,5,6]]`), Options{})
	require.NoError(t, err)
	m, err := Matrix(v)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3}, {4, 5, 6}}, m)
}

func TestMatrixRejectsRaggedRows(t *testing.T) {
	v, err := Lazy([]byte(`[[1,2],[3]]`), Options{})
	require.NoError(t, err)
	_, err = Matrix(v)
	assert.Error(t, err)
}

func TestMatrixEmpty(t *testing.T) {
	v, err := Lazy([]byte(`[]`), Options{})
	require.NoError(t, err)
	m, err := Matrix(v)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{}, m)
}

func TestMatrixRejectsTrailingGarbageAfterEmptyArray(t *testing.T) {
	v, err := Lazy([]byte(`[]xyz`), Options{})
	require.NoError(t, err)
	_, err = Matrix(v)
	assert.Error(t, err)
}

func TestMatrixRejectsTrailingGarbageAfterRows(t *testing.T) {
	v, err := Lazy([]byte(`[[1,2],[3,4]]xyz`), Options{})
	require.NoError(t, err)
	_, err = Matrix(v)
	assert.Error(t, err)
}
