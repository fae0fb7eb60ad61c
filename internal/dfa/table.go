package dfa

import (
	"fmt"
	"math/big"
)

// countingTable holds T[state][length], the number of words of length
// exactly `length` accepted starting from `state` (spec §3, §4.2). Values
// grow as fast as |Σ|^length, so arbitrary-precision integers are mandatory
// (spec §9); only addition, subtraction, and comparison are required on the
// rank/unrank path.
type countingTable struct {
	rows [][]*big.Int // rows[state][length]
}

// buildTable runs the dynamic program of spec §4.2 in length order:
//
//	T[q][0] = 1 if q is accepting, else 0
//	T[q][k] = Σ_a T[δ(q,a)][k-1]           for k >= 1
//
// This is O(N · |Σ| · max_len) big-integer additions.
func buildTable(d *DFA, maxLen int) *countingTable {
	n := d.numStates()
	rows := make([][]*big.Int, n)
	for q := 0; q < n; q++ {
		rows[q] = make([]*big.Int, maxLen+1)
	}

	for q := 0; q < n; q++ {
		if d.accept[q] {
			rows[q][0] = big.NewInt(1)
		} else {
			rows[q][0] = big.NewInt(0)
		}
	}

	sigmaSize := d.alphabet.size()
	for k := 1; k <= maxLen; k++ {
		for q := 0; q < n; q++ {
			sum := new(big.Int)
			row := d.delta[q]
			for a := 0; a < sigmaSize; a++ {
				sum.Add(sum, rows[row[a]][k-1])
			}
			rows[q][k] = sum
		}
	}

	return &countingTable{rows: rows}
}

// at returns T[state][length] as a read-only value. Callers must not mutate
// the returned *big.Int.
func (t *countingTable) at(state, length int) *big.Int {
	return t.rows[state][length]
}

// dump renders the table as decimal strings, for internal/dfacache to
// persist without taking a dependency on math/big's binary encoding.
func (t *countingTable) dump() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		strs := make([]string, len(row))
		for j, v := range row {
			strs[j] = v.Text(10)
		}
		out[i] = strs
	}
	return out
}

// loadTable is dump's inverse.
func loadTable(dump [][]string) (*countingTable, error) {
	rows := make([][]*big.Int, len(dump))
	for i, strs := range dump {
		row := make([]*big.Int, len(strs))
		for j, s := range strs {
			n, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, fmt.Errorf("dfa: cached table entry [%d][%d]=%q is not a base-10 integer", i, j, s)
			}
			row[j] = n
		}
		rows[i] = row
	}
	return &countingTable{rows: rows}, nil
}
