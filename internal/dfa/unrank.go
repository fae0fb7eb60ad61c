package dfa

import (
	"fmt"
	"math/big"

	"github.com/dekarrin/fterank/internal/dfaerr"
)

// Unrank is the inverse of Rank: given c in [0, Σ_k T[q₀][k]) for k up to
// max_len, it returns the word at position c in the length-first,
// symbol-index-lexicographic ordering of the DFA's language (spec §4.4).
//
// Unrank fails with dfaerr.ErrRankOutOfRange if c is at or beyond the
// cumulative word count for max_len.
func (d *DFA) Unrank(c *big.Int) ([]byte, error) {
	if c.Sign() < 0 {
		return nil, dfaerr.New(fmt.Sprintf("rank %s is negative", c.String()), dfaerr.ErrRankOutOfRange)
	}

	remaining := new(big.Int).Set(c)

	// n starts at 0, not 1: the length-0 bucket T[q0][0] must be considered
	// before any longer length, so that a rank that falls in it (only
	// possible when q0 is accepting) resolves to the empty word. Starting
	// at 1 here would skip that bucket and misrank c=0 as a length-1 word
	// whenever q0 ∈ F, which would break both unrank(0) == "" for an
	// accepting start state and the inverse round-trip with Rank.
	n := 0
	for remaining.Cmp(d.table.at(d.start, n)) >= 0 {
		remaining.Sub(remaining, d.table.at(d.start, n))
		n++
		if n > d.maxLen {
			return nil, dfaerr.Wrap(fmt.Sprintf("rank %s exceeds the cumulative word count for max_len %d", c.String(), d.maxLen), dfaerr.ErrRankOutOfRange)
		}
	}

	q := d.start
	out := make([]byte, 0, n)
	sigmaSize := d.alphabet.size()

	for i := 1; i <= n; i++ {
		charsLeft := n - i
		a := 0
		next := d.delta[q][0]
		for remaining.Cmp(d.table.at(next, charsLeft)) >= 0 {
			remaining.Sub(remaining, d.table.at(next, charsLeft))
			a++
			if a >= sigmaSize {
				// Every valid c is strictly less than the sum over all
				// symbols (spec §4.4 termination argument); reaching this
				// means the caller's rank was out of range after all.
				return nil, dfaerr.Wrap(fmt.Sprintf("rank %s exceeds the cumulative word count for max_len %d", c.String(), d.maxLen), dfaerr.ErrRankOutOfRange)
			}
			next = d.delta[q][a]
		}
		out = append(out, d.alphabet.byteAt(a))
		q = next
	}

	if !d.accept[q] {
		// Defensive check only (spec §4.4): cannot happen for a valid c
		// produced by the above walk.
		return nil, dfaerr.New("internal error: unrank walk did not terminate in an accepting state", dfaerr.ErrNotInLanguage)
	}

	return out, nil
}
