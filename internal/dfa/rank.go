package dfa

import (
	"fmt"
	"math/big"

	"github.com/dekarrin/fterank/internal/dfaerr"
)

// Rank maps w to the unique nonnegative integer identifying its position in
// the length-first, symbol-index-lexicographic ordering of the DFA's
// language (spec §4.3). It is the inverse of Unrank.
//
// Rank fails with dfaerr.ErrLengthExceeded if len(w) > max_len,
// dfaerr.ErrSymbolOutOfAlphabet if w contains a byte outside Σ, and
// dfaerr.ErrNotInLanguage if w is not accepted.
func (d *DFA) Rank(w []byte) (*big.Int, error) {
	n := len(w)
	if n > d.maxLen {
		return nil, dfaerr.Wrap(fmt.Sprintf("word has length %d, max_len is %d", n, d.maxLen), dfaerr.ErrLengthExceeded)
	}

	x := make([]int, n)
	for i, b := range w {
		idx, ok := d.alphabet.indexOf(b)
		if !ok {
			return nil, dfaerr.Wrap(fmt.Sprintf("byte %#x at position %d is not in the DFA's alphabet", b, i), dfaerr.ErrSymbolOutOfAlphabet)
		}
		x[i] = idx
	}

	q := d.start
	c := new(big.Int)
	for i := 1; i <= n; i++ {
		remaining := n - i
		for j := 1; j <= x[i-1]; j++ {
			c.Add(c, d.table.at(d.delta[q][j-1], remaining))
		}
		q = d.delta[q][x[i-1]]
	}

	if !d.accept[q] {
		return nil, dfaerr.New(fmt.Sprintf("word %q ends in a non-accepting state", string(w)), dfaerr.ErrNotInLanguage)
	}

	for i := 0; i < n; i++ {
		c.Add(c, d.table.at(d.start, i))
	}

	return c, nil
}
