package jsoncore

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumberInt64(t *testing.T) {
	n, err := ParseNumber([]byte("42"), Options{})
	require.NoError(t, err)
	assert.Equal(t, NumberInt64, n.Kind())
	assert.Equal(t, int64(42), n.i64)
}

func TestParseNumberPromotesToBigIntOnOverflow(t *testing.T) {
	// One past math.MaxInt64.
	n, err := ParseNumber([]byte("9223372036854775808"), Options{})
	require.NoError(t, err)
	assert.Equal(t, NumberBigInt, n.Kind())
	want, _ := new(big.Int).SetString("9223372036854775808", 10)
	assert.Equal(t, 0, n.big.Cmp(want))
}

func TestParseNumberBoundary(t *testing.T) {
	// Invariant 5's boundary: 2^63-1 stays Int64, 2^63 promotes.
	n1, err := ParseNumber([]byte("9223372036854775807"), Options{})
	require.NoError(t, err)
	assert.Equal(t, NumberInt64, n1.Kind())

	n2, err := ParseNumber([]byte("9223372036854775808"), Options{})
	require.NoError(t, err)
	assert.Equal(t, NumberBigInt, n2.Kind())
}

func TestParseNumberFloat(t *testing.T) {
	n, err := ParseNumber([]byte("3.5"), Options{})
	require.NoError(t, err)
	assert.Equal(t, NumberFloat64, n.Kind())
	assert.Equal(t, 3.5, n.f64)
}

func TestParseNumberPromotesToBigFloatWhenFloat64LosesPrecision(t *testing.T) {
	n, err := ParseNumber([]byte("0.12345678901234567890123"), Options{})
	require.NoError(t, err)
	assert.Equal(t, NumberBigFloat, n.Kind())
}

func TestParseNumberKeepsFloat64WhenLiteralMatchesCanonicalForm(t *testing.T) {
	n, err := ParseNumber([]byte("3.14"), Options{})
	require.NoError(t, err)
	assert.Equal(t, NumberFloat64, n.Kind())
	assert.Equal(t, 3.14, n.f64)
}

func TestParseNumberFloat64OptionForcesFloat(t *testing.T) {
	n, err := ParseNumber([]byte("42"), Options{Float64: true})
	require.NoError(t, err)
	assert.Equal(t, NumberFloat64, n.Kind())
	assert.Equal(t, 42.0, n.f64)
}

func TestParseNumberFloat64OptionAcceptsSpecials(t *testing.T) {
	cases := map[string]float64{
		"NaN":  math.NaN(),
		"Inf":  math.Inf(1),
		"+Inf": math.Inf(1),
		"-Inf": math.Inf(-1),
	}
	for s, want := range cases {
		n, err := ParseNumber([]byte(s), Options{Float64: true})
		require.NoError(t, err, s)
		assert.Equal(t, NumberFloat64, n.Kind())
		if math.IsNaN(want) {
			assert.True(t, math.IsNaN(n.f64))
		} else {
			assert.Equal(t, want, n.f64)
		}
	}
}

func TestParseNumberRejectsSpecialsWithoutFloat64(t *testing.T) {
	_, err := ParseNumber([]byte("NaN"), Options{})
	assert.Error(t, err)
}

func TestNumberValueAny(t *testing.T) {
	n, err := ParseNumber([]byte("7"), Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), n.Any())
}

func TestNumberValueKindKeepsInt128Range(t *testing.T) {
	n, err := ParseNumber([]byte("42"), Options{})
	require.NoError(t, err)
	assert.True(t, n.KindKeepsInt128Range())

	huge, err := ParseNumber([]byte("99999999999999999999999999999999999999999999"), Options{})
	require.NoError(t, err)
	assert.Equal(t, NumberBigInt, huge.Kind())
	assert.False(t, huge.KindKeepsInt128Range())
}
