package jsoncore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPtrStringDecodeNoEscape(t *testing.T) {
	p := PtrString{buf: []byte(`hello`), start: 0, end: 5}
	s, err := p.Decode()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)
	assert.Equal(t, 5, p.Len())
}

func TestPtrStringDecodeBasicEscapes(t *testing.T) {
	raw := "a\\tb\\nc"
	p := PtrString{buf: []byte(raw), start: 0, end: len(raw), escaped: true}
	s, err := p.Decode()
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc", s)
}

func TestPtrStringDecodeUnicodeEscape(t *testing.T) {
	raw := "caf\\u00e9"
	p := PtrString{buf: []byte(raw), start: 0, end: len(raw), escaped: true}
	s, err := p.Decode()
	require.NoError(t, err)
	assert.Equal(t, "café", s)
}

func TestPtrStringDecodeSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, as a UTF-16 surrogate pair escape.
	raw := "\\ud83d\\ude00"
	p := PtrString{buf: []byte(raw), start: 0, end: len(raw), escaped: true}
	s, err := p.Decode()
	require.NoError(t, err)
	assert.Equal(t, "😀", s)
}

func TestPtrStringDecodeInvalidEscape(t *testing.T) {
	raw := "\\q"
	p := PtrString{buf: []byte(raw), start: 0, end: len(raw), escaped: true}
	_, err := p.Decode()
	assert.Error(t, err)
}
