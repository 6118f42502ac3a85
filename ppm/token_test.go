package ppm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSpace(t *testing.T) {
	for _, b := range []byte{' ', '\t', '\n', '\r'} {
		assert.True(t, isSpace(b))
	}
	for _, b := range []byte{'0', 'P', '#', 0, 0xff} {
		assert.False(t, isSpace(b))
	}
}

func TestFindIndex(t *testing.T) {
	digit := func(b byte) bool { return b >= '0' && b <= '9' }

	assert.Equal(t, 2, findIndex([]byte("ab1cd"), 0, digit))
	assert.Equal(t, 2, findIndex([]byte("ab1cd"), 2, digit))
	assert.Equal(t, -1, findIndex([]byte("ab1cd"), 3, digit))
	assert.Equal(t, -1, findIndex(nil, 0, digit))
}

func TestContentStart(t *testing.T) {
	assert.Equal(t, 0, contentStart([]byte("P6"), 0))
	assert.Equal(t, 3, contentStart([]byte("   P6"), 0))
	assert.Equal(t, -1, contentStart([]byte("    "), 0))
	assert.Equal(t, -1, contentStart(nil, 0))

	// Comment runs are skipped, however many in a row
	assert.Equal(t, 7, contentStart([]byte("# hey\n 42"), 0))
	assert.Equal(t, 13, contentStart([]byte("# a\n# b\n\t\r\n  42"), 0))
	assert.Equal(t, -1, contentStart([]byte("# unterminated"), 0))
	assert.Equal(t, -1, contentStart([]byte("# a\n   "), 0))
}

func TestContentEnd(t *testing.T) {
	assert.Equal(t, 2, contentEnd([]byte("P6 4"), 0))
	assert.Equal(t, 3, contentEnd([]byte("255#c"), 0))
	assert.Equal(t, -1, contentEnd([]byte("255"), 0))
}
