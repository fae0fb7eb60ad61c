package dfa

import (
	"testing"

	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BlankLinesTolerated(t *testing.T) {
	att := "\n" + att2 + "\n\n"
	_, err := New(att, 3)
	require.NoError(t, err)
}

func TestParse_MalformedLineIsError(t *testing.T) {
	_, err := New("0\t1\t98\n", 3)
	assert.ErrorIs(t, err, dfaerr.ErrParse)
}

func TestParse_AcceptingStateOutOfRangeIsError(t *testing.T) {
	att := "0\t0\t98\t98\n99\n"
	_, err := New(att, 3)
	assert.ErrorIs(t, err, dfaerr.ErrParse)
}

func TestParse_NonContiguousStatesNormalized(t *testing.T) {
	// raw state ids 5 and 9 are not contiguous from 0; the parser must
	// still normalize them into a dense, valid table.
	att := "5\t9\t98\t98\n" +
		"9\t9\t98\t98\n" +
		"9\n"
	d, err := New(att, 2)
	require.NoError(t, err)

	r, err := d.Rank([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.Int64())
}

func TestParse_DuplicateTransitionLastWins(t *testing.T) {
	att := "0\t0\t98\t98\n" +
		"0\t1\t98\t98\n" + // overwrites the first
		"1\n"
	d, err := New(att, 1)
	require.NoError(t, err)

	r, err := d.Rank([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.Int64())
}
