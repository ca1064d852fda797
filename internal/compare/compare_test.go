package compare_test

import (
	"testing"

	"github.com/proglv/evalworker/internal/compare"
	"github.com/stretchr/testify/assert"
)

func TestNormalise_CRLF(t *testing.T) {
	assert.Equal(t, "a\nb", compare.Normalise("a\r\nb"))
}

func TestNormalise_TrailingLineWhitespace(t *testing.T) {
	assert.Equal(t, "42", compare.Normalise("42   \t"))
}

func TestNormalise_TrailingLFRuns(t *testing.T) {
	assert.Equal(t, "42", compare.Normalise("42\n\n\n"))
}

func TestNormalise_Idempotent(t *testing.T) {
	inputs := []string{"42\n", "a\r\nb  \n\n", "", "  \n\n  \n"}
	for _, in := range inputs {
		once := compare.Normalise(in)
		twice := compare.Normalise(once)
		assert.Equal(t, once, twice, "normalise must be idempotent for %q", in)
	}
}

func TestEqual_Reflexive(t *testing.T) {
	for _, s := range []string{"42\n", "hello world", ""} {
		assert.True(t, compare.Equal(s, s))
	}
}

func TestEqual_EmptyEqualsWhitespaceOnly(t *testing.T) {
	assert.True(t, compare.Equal("", "   \n\t\n"))
}

func TestEqual_TrailingWhitespaceDoesNotChangeVerdict(t *testing.T) {
	assert.True(t, compare.Equal("42\n", "42   \n"))
}

func TestEqual_LFvsCRLF(t *testing.T) {
	assert.True(t, compare.Equal("a\nb\n", "a\r\nb\r\n"))
}

func TestEqual_TrailingNewlineOptional(t *testing.T) {
	assert.True(t, compare.Equal("42\n", "42"))
}

func TestEqual_Mismatch(t *testing.T) {
	assert.False(t, compare.Equal("42\n", "43\n"))
}
