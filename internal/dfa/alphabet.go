package dfa

// alphabet is the bijection between the symbol indices used internally by a
// DFA's transition table and the byte values that callers rank and unrank
// in words. Both directions are total over the |Σ| symbols the DFA was
// built with.
//
// The AT&T format this is parsed from uses 1-based symbol codes: the
// external DFA generator (or, for regex-compiled DFAs, this module's own
// front end) reserves code 0, so the byte a code represents is
// code-1. Symbol indices are assigned in order of first appearance of a
// distinct code in the transition listing; this ordering is part of the
// ranking contract (spec §4.3, §9) and must be preserved exactly.
type alphabet struct {
	sigma        []byte       // symbol index -> byte
	sigmaReverse map[byte]int // byte -> symbol index
}

func newAlphabet() *alphabet {
	return &alphabet{sigmaReverse: map[byte]int{}}
}

// size returns |Σ|.
func (a *alphabet) size() int {
	return len(a.sigma)
}

// add registers attCode (the raw, 1-based code straight out of an AT&T
// transition record) if it has not been seen before, assigning it the next
// symbol index in first-appearance order. It is a no-op if the code is
// already known.
func (a *alphabet) add(attCode int) {
	b := byte(attCode - 1)
	if _, ok := a.sigmaReverse[b]; ok {
		return
	}
	idx := len(a.sigma)
	a.sigma = append(a.sigma, b)
	a.sigmaReverse[b] = idx
}

// indexOf returns the symbol index for byte b and whether b is in Σ.
func (a *alphabet) indexOf(b byte) (int, bool) {
	idx, ok := a.sigmaReverse[b]
	return idx, ok
}

// byteAt returns the byte represented by symbol index idx. idx must be in
// [0, size()); callers that hold a valid DFA only ever pass such indices.
func (a *alphabet) byteAt(idx int) byte {
	return a.sigma[idx]
}
