package regexfe

import (
	"math/big"
	"testing"

	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Literal(t *testing.T) {
	d, err := Compile("ab", 4, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("ab"))
	require.NoError(t, err)

	_, err = d.Rank([]byte("ac"))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)
}

func TestCompile_Alternation(t *testing.T) {
	d, err := Compile("cat|dog", 4, Options{})
	require.NoError(t, err)

	n, err := d.NumWordsInLanguage(0, 4)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), n)

	for _, w := range []string{"cat", "dog"} {
		_, err := d.Rank([]byte(w))
		require.NoError(t, err)
	}
}

func TestCompile_Star(t *testing.T) {
	d, err := Compile("a*", 3, Options{})
	require.NoError(t, err)

	n, err := d.NumWordsInLanguage(0, 3)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(4), n) // "", "a", "aa", "aaa"
}

func TestCompile_Plus(t *testing.T) {
	d, err := Compile("a+", 3, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte(""))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)

	_, err = d.Rank([]byte("a"))
	require.NoError(t, err)
}

func TestCompile_Optional(t *testing.T) {
	d, err := Compile("colou?r", 10, Options{})
	require.NoError(t, err)

	for _, w := range []string{"color", "colour"} {
		_, err := d.Rank([]byte(w))
		require.NoError(t, err)
	}
}

func TestCompile_BoundedRepetition(t *testing.T) {
	d, err := Compile("a{2,3}", 5, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("a"))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)

	_, err = d.Rank([]byte("aa"))
	require.NoError(t, err)

	_, err = d.Rank([]byte("aaa"))
	require.NoError(t, err)

	_, err = d.Rank([]byte("aaaa"))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)
}

func TestCompile_ExactRepetition(t *testing.T) {
	d, err := Compile("a{3}", 5, Options{})
	require.NoError(t, err)

	n, err := d.NumWordsInLanguage(0, 5)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), n)
}

func TestCompile_UnboundedMin(t *testing.T) {
	d, err := Compile("a{2,}", 4, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("a"))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)

	_, err = d.Rank([]byte("aaaa"))
	require.NoError(t, err)
}

func TestCompile_CharClass(t *testing.T) {
	d, err := Compile("[a-c]", 1, Options{})
	require.NoError(t, err)

	n, err := d.NumWordsInLanguage(0, 1)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), n)

	_, err = d.Rank([]byte("d"))
	assert.ErrorIs(t, err, dfaerr.ErrSymbolOutOfAlphabet)
}

func TestCompile_NegatedCharClass(t *testing.T) {
	d, err := Compile("[^a]", 1, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("a"))
	assert.Error(t, err)

	_, err = d.Rank([]byte("b"))
	require.NoError(t, err)
}

func TestCompile_DigitShorthand(t *testing.T) {
	d, err := Compile(`\d{3}`, 3, Options{})
	require.NoError(t, err)

	n, err := d.NumWordsInLanguage(3, 3)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), n)
}

func TestCompile_AnchorsAreNoOps(t *testing.T) {
	anchored, err := Compile("^ab$", 4, Options{})
	require.NoError(t, err)
	bare, err := Compile("ab", 4, Options{})
	require.NoError(t, err)

	n1, err := anchored.NumWordsInLanguage(0, 4)
	require.NoError(t, err)
	n2, err := bare.NumWordsInLanguage(0, 4)
	require.NoError(t, err)
	assert.Equal(t, n2, n1)
}

func TestCompile_EmptyPattern(t *testing.T) {
	d, err := Compile("", 2, Options{})
	require.NoError(t, err)

	r, err := d.Rank([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), r)

	_, err = d.Rank([]byte("a"))
	assert.Error(t, err)
}

func TestCompile_InvalidSyntax(t *testing.T) {
	_, err := Compile("a(b", 4, Options{})
	assert.ErrorIs(t, err, dfaerr.ErrRegexCompile)
}

func TestCompile_StateCeiling(t *testing.T) {
	_, err := Compile("a{1,1000}", 1000, Options{MaxStates: 5})
	assert.ErrorIs(t, err, dfaerr.ErrRegexCompile)
}

func TestCompile_Grouping(t *testing.T) {
	d, err := Compile("(ab)+", 6, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("abab"))
	require.NoError(t, err)

	_, err = d.Rank([]byte("aba"))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)
}

func TestCompile_WordBoundary(t *testing.T) {
	// "foo" and "bar" are both all-word bytes, so there is never a
	// boundary between them: the language is empty.
	d, err := Compile(`foo\bbar`, 10, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("foobar"))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)

	n, err := d.NumWordsInLanguage(0, 10)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), n)
}

func TestCompile_WordBoundaryAtEdges(t *testing.T) {
	// \b at the very start/end holds iff the adjacent byte is a word byte,
	// which "foo" satisfies on both ends.
	d, err := Compile(`\bfoo\b`, 3, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("foo"))
	require.NoError(t, err)
}

func TestCompile_NonWordBoundary(t *testing.T) {
	// \B requires the absence of a boundary: 'a' and 'b' are both word
	// bytes, so there is no boundary between them and \B holds.
	d, err := Compile(`a\Bb`, 2, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("ab"))
	require.NoError(t, err)
}

func TestCompile_WordBoundaryBeforeSpace(t *testing.T) {
	// A boundary does hold between a word byte and a space, so \b matches
	// here but \B does not.
	withBoundary, err := Compile(`a\b `, 2, Options{})
	require.NoError(t, err)
	_, err = withBoundary.Rank([]byte("a "))
	require.NoError(t, err)

	withoutBoundary, err := Compile(`a\B `, 2, Options{})
	require.NoError(t, err)
	_, err = withoutBoundary.Rank([]byte("a "))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)
}

func TestCompile_DotMatchesNewline(t *testing.T) {
	// Single-line mode (spec §4.6's configured ClassNL behavior): "."
	// includes '\n'.
	d, err := Compile("a.b", 3, Options{})
	require.NoError(t, err)

	_, err = d.Rank([]byte("a\nb"))
	require.NoError(t, err)
}
