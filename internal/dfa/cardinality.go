package dfa

import (
	"fmt"
	"math/big"

	"github.com/dekarrin/fterank/internal/dfaerr"
)

// NumWordsInLanguage returns the number of words of length in
// [minLen, maxLenQuery] accepted by the DFA (spec §4.5). maxLenQuery must
// not exceed the DFA's max_len.
func (d *DFA) NumWordsInLanguage(minLen, maxLenQuery uint) (*big.Int, error) {
	if int(maxLenQuery) > d.maxLen {
		return nil, dfaerr.Wrap(fmt.Sprintf("requested max length %d exceeds the DFA's max_len %d", maxLenQuery, d.maxLen), dfaerr.ErrLengthExceeded)
	}

	total := new(big.Int)
	for k := minLen; k <= maxLenQuery; k++ {
		total.Add(total, d.table.at(d.start, int(k)))
	}
	return total, nil
}
