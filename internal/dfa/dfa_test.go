package dfa

import (
	"math/big"
	"testing"

	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// att2 is the AT&T listing for the language of strings matching ^(a|b){2}$,
// i.e. exactly two characters from {a, b}. Symbol codes are 1-based byte+1:
// 'a' = 0x61 -> code 98, 'b' = 0x62 -> code 99.
const att2 = "0\t1\t98\t98\n" +
	"0\t1\t99\t99\n" +
	"1\t2\t98\t98\n" +
	"1\t2\t99\t99\n" +
	"2\t3\t98\t98\n" +
	"2\t3\t99\t99\n" +
	"3\t3\t98\t98\n" +
	"3\t3\t99\t99\n" +
	"2\n"

// attAStar is the AT&T listing for ^a*$.
const attAStar = "0\t0\t98\t98\n" +
	"0\n"

func mustNew(t *testing.T, att string, maxLen uint) *DFA {
	t.Helper()
	d, err := New(att, maxLen)
	require.NoError(t, err)
	return d
}

func TestSpecScenario_ExactlyTwo(t *testing.T) {
	d := mustNew(t, att2, 3)

	n, err := d.NumWordsInLanguage(0, 3)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(4), n)

	cases := []struct {
		c    int64
		want string
	}{
		{0, "aa"},
		{1, "ab"},
		{2, "ba"},
		{3, "bb"},
	}
	for _, tc := range cases {
		got, err := d.Unrank(big.NewInt(tc.c))
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(got))
	}

	r, err := d.Rank([]byte("bb"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), r)

	r, err = d.Rank([]byte("ba"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2), r)

	_, err = d.Rank([]byte("b"))
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)

	_, err = d.Unrank(big.NewInt(4))
	assert.ErrorIs(t, err, dfaerr.ErrRankOutOfRange)
}

func TestSpecScenario_AStar(t *testing.T) {
	d := mustNew(t, attAStar, 4)

	n, err := d.NumWordsInLanguage(0, 4)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), n)

	got, err := d.Unrank(big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, "", string(got))

	got, err = d.Unrank(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))

	got, err = d.Unrank(big.NewInt(4))
	require.NoError(t, err)
	assert.Equal(t, "aaaa", string(got))

	r, err := d.Rank([]byte("aaa"))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(3), r)
}

func TestRoundTrip_WordToRankToWord(t *testing.T) {
	d := mustNew(t, att2, 3)
	for _, w := range []string{"aa", "ab", "ba", "bb"} {
		r, err := d.Rank([]byte(w))
		require.NoError(t, err)
		back, err := d.Unrank(r)
		require.NoError(t, err)
		assert.Equal(t, w, string(back))
	}
}

func TestRoundTrip_RankToWordToRank(t *testing.T) {
	d := mustNew(t, attAStar, 4)
	total, err := d.NumWordsInLanguage(0, 4)
	require.NoError(t, err)

	for i := int64(0); i < total.Int64(); i++ {
		w, err := d.Unrank(big.NewInt(i))
		require.NoError(t, err)
		r, err := d.Rank(w)
		require.NoError(t, err)
		assert.Equal(t, i, r.Int64())
	}
}

func TestLengthStratification(t *testing.T) {
	d := mustNew(t, attAStar, 4)
	// length-n words occupy the contiguous interval [sum_{k<n} T[k], sum_{k<=n} T[k]).
	// For a*, T[k] = 1 for all k in [0,4], so length n occupies [n, n+1).
	for n := 0; n <= 4; n++ {
		w := make([]byte, n)
		for i := range w {
			w[i] = 'a'
		}
		r, err := d.Rank(w)
		require.NoError(t, err)
		assert.Equal(t, int64(n), r.Int64())
	}
}

func TestSymbolOutOfAlphabet(t *testing.T) {
	d := mustNew(t, att2, 3)
	_, err := d.Rank([]byte("ac"))
	assert.ErrorIs(t, err, dfaerr.ErrSymbolOutOfAlphabet)
}

func TestLengthExceeded(t *testing.T) {
	d := mustNew(t, att2, 3)
	_, err := d.Rank([]byte("aaaa"))
	assert.ErrorIs(t, err, dfaerr.ErrLengthExceeded)
}

func TestEmptyWordRankZeroIffStartAccepting(t *testing.T) {
	accepting := mustNew(t, attAStar, 4)
	r, err := accepting.Rank(nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), r)

	nonAccepting := mustNew(t, att2, 3)
	_, err = nonAccepting.Rank(nil)
	assert.ErrorIs(t, err, dfaerr.ErrNotInLanguage)
}

func TestNumWordsInLanguageWindow(t *testing.T) {
	d := mustNew(t, attAStar, 4)
	n, err := d.NumWordsInLanguage(2, 2)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), n)
}

func TestDeterminism(t *testing.T) {
	d := mustNew(t, att2, 3)
	r1, err := d.Rank([]byte("ba"))
	require.NoError(t, err)
	r2, err := d.Rank([]byte("ba"))
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}

func TestDigestStable(t *testing.T) {
	d1 := mustNew(t, att2, 3)
	d2 := mustNew(t, att2, 3)
	assert.Equal(t, d1.Digest(), d2.Digest())

	d3 := mustNew(t, att2, 4)
	assert.NotEqual(t, d1.Digest(), d3.Digest())
}
