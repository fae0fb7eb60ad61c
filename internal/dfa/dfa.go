// Package dfa implements the ranking core of fterank: a dense,
// integer-indexed deterministic finite automaton with a precomputed
// arbitrary-precision counting table, supporting O(n·|Σ|) rank and unrank
// over the length-stratified, lexicographically-ordered language it
// accepts.
//
// A DFA is built once from an AT&T-format transition listing (see Parse)
// and a max_len bound, then used read-only. There is no mutation path after
// construction, so concurrent callers may share one freely.
package dfa

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/fterank/internal/dfaerr"
)

// stateIndexer assigns contiguous, first-appearance-ordered normalized
// indices to the (possibly non-contiguous) raw state identifiers found in
// an AT&T listing. Spec §9 flags this normalization as required because the
// reference implementation assumed contiguity starting from 0; this module
// does not make that assumption.
type stateIndexer struct {
	order []int
	index map[int]int
}

func newStateIndexer() *stateIndexer {
	return &stateIndexer{index: map[int]int{}}
}

func (s *stateIndexer) get(raw int) int {
	if idx, ok := s.index[raw]; ok {
		return idx
	}
	idx := len(s.order)
	s.order = append(s.order, raw)
	s.index[raw] = idx
	return idx
}

func (s *stateIndexer) lookup(raw int) (int, bool) {
	idx, ok := s.index[raw]
	return idx, ok
}

func (s *stateIndexer) count() int {
	return len(s.order)
}

// DFA is a deterministic finite automaton over a byte alphabet, represented
// as a dense transition table with a synthesized dead (sink) state and a
// precomputed counting table. See the package doc and spec §3/§4 for the
// invariants this type maintains.
type DFA struct {
	alphabet *alphabet
	delta    [][]int // delta[state][symbolIndex] -> state
	accept   []bool  // accept[state]
	start    int
	dead     int // == numStates-1
	maxLen   int
	table    *countingTable

	// attText is retained only so Digest can be computed lazily and so that
	// diagnostics can quote the source listing; it plays no role in
	// rank/unrank/count.
	attText string
}

// numStates returns N, the number of states including the synthesized dead
// state.
func (d *DFA) numStates() int {
	return len(d.delta)
}

// MaxLen returns the max_len bound this DFA's counting table was built for.
func (d *DFA) MaxLen() int {
	return d.maxLen
}

// New parses attText as an AT&T-format transition listing (§6.1), builds the
// dense transition table with a synthesized dead state (§4.1), and
// precomputes the counting table up to maxLen (§4.2). The returned DFA is
// immutable and safe for concurrent rank/unrank/count calls.
func New(attText string, maxLen uint) (*DFA, error) {
	d, err := parseATT(attText, int(maxLen))
	if err != nil {
		return nil, err
	}
	d.table = buildTable(d, int(maxLen))
	return d, nil
}

type transitionRecord struct {
	src, dst, symbolCode int
}

// parseATT runs the two-pass construction described in spec §4.1: a first
// pass discovers states (by first appearance across transition records,
// source field before destination field) and the alphabet (by first
// appearance of distinct symbol codes), then a dead state is synthesized;
// a second pass fills in the dense transition table.
func parseATT(attText string, maxLen int) (*DFA, error) {
	states := newStateIndexer()
	alpha := newAlphabet()

	var transitions []transitionRecord
	var acceptRaw []int
	startSet := false
	start := 0

	scanner := bufio.NewScanner(strings.NewReader(attText))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			// Blank lines are tolerated wherever they occur (spec §4.1,
			// §6.1): they carry no record and do not end parsing.
			continue
		}

		fields := strings.Split(line, "\t")
		switch len(fields) {
		case 4:
			src, err := strconv.Atoi(strings.TrimSpace(fields[0]))
			if err != nil {
				return nil, dfaerr.Wrap(fmt.Sprintf("transition src state %q is not an integer", fields[0]), dfaerr.ErrParse)
			}
			dst, err := strconv.Atoi(strings.TrimSpace(fields[1]))
			if err != nil {
				return nil, dfaerr.Wrap(fmt.Sprintf("transition dst state %q is not an integer", fields[1]), dfaerr.ErrParse)
			}
			sym, err := strconv.Atoi(strings.TrimSpace(fields[2]))
			if err != nil {
				return nil, dfaerr.Wrap(fmt.Sprintf("transition symbol code %q is not an integer", fields[2]), dfaerr.ErrParse)
			}
			if sym < 1 {
				return nil, dfaerr.Wrap(fmt.Sprintf("transition symbol code %d is out of range (codes are 1-based)", sym), dfaerr.ErrParse)
			}

			srcIdx := states.get(src)
			states.get(dst)
			alpha.add(sym)

			if !startSet {
				start = srcIdx
				startSet = true
			}

			transitions = append(transitions, transitionRecord{src: src, dst: dst, symbolCode: sym})
		case 1:
			raw, err := strconv.Atoi(strings.TrimSpace(fields[0]))
			if err != nil {
				return nil, dfaerr.Wrap(fmt.Sprintf("accepting-state record %q is not an integer", fields[0]), dfaerr.ErrParse)
			}
			acceptRaw = append(acceptRaw, raw)
		default:
			return nil, dfaerr.Wrap(fmt.Sprintf("line has %d tab-separated fields, want 1 or 4: %q", len(fields), line), dfaerr.ErrParse)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, dfaerr.Wrap("reading AT&T listing", err)
	}

	if !startSet {
		return nil, dfaerr.New("AT&T listing has no transition records; cannot determine a start state", dfaerr.ErrParse)
	}

	numReal := states.count()
	dead := numReal // dead state is synthesized one past the last discovered state
	numStates := numReal + 1

	delta := make([][]int, numStates)
	for q := range delta {
		row := make([]int, alpha.size())
		for a := range row {
			row[a] = dead
		}
		delta[q] = row
	}
	// The dead state loops back to itself on every symbol and accepts
	// nothing (spec §3).
	for a := 0; a < alpha.size(); a++ {
		delta[dead][a] = dead
	}

	for _, t := range transitions {
		srcIdx, _ := states.lookup(t.src)
		dstIdx, _ := states.lookup(t.dst)
		symIdx, _ := alpha.indexOf(byte(t.symbolCode - 1))
		// last transition listed for a given (state, symbol) wins (spec §4.1)
		delta[srcIdx][symIdx] = dstIdx
	}

	accept := make([]bool, numStates)
	for _, raw := range acceptRaw {
		idx, ok := states.lookup(raw)
		if !ok || idx >= numReal {
			return nil, dfaerr.Wrap(fmt.Sprintf("accepting-state record references unknown state %d", raw), dfaerr.ErrParse)
		}
		accept[idx] = true
	}

	return &DFA{
		alphabet: alpha,
		delta:    delta,
		accept:   accept,
		start:    start,
		dead:     dead,
		maxLen:   maxLen,
		attText:  attText,
	}, nil
}

// ATTText returns the AT&T-format transition listing this DFA was built
// from, for callers (internal/dfacache) that need to persist it alongside
// the exported counting table.
func (d *DFA) ATTText() string {
	return d.attText
}

// ExportTable serializes the precomputed counting table as decimal strings
// so internal/dfacache can persist it. A later NewFromTable call with the
// same (attText, maxLen) and this dump skips buildTable's O(N·|Σ|·max_len)
// big-integer work entirely.
func (d *DFA) ExportTable() [][]string {
	return d.table.dump()
}

// NewFromTable reconstructs a DFA from attText, maxLen, and a table
// previously produced by ExportTable, skipping buildTable. The caller is
// responsible for table having come from an identical (attText, maxLen)
// pair; a mismatched state count is caught, but a table built for a
// different automaton with the same state count would not be.
func NewFromTable(attText string, maxLen uint, table [][]string) (*DFA, error) {
	d, err := parseATT(attText, int(maxLen))
	if err != nil {
		return nil, err
	}
	t, err := loadTable(table)
	if err != nil {
		return nil, dfaerr.Wrap("loading cached counting table", err)
	}
	if len(t.rows) != d.numStates() {
		return nil, dfaerr.New(fmt.Sprintf("cached table has %d states, parsed listing has %d", len(t.rows), d.numStates()), dfaerr.ErrParse)
	}
	d.table = t
	return d, nil
}

// Digest returns a stable, content-addressed identifier for this DFA,
// derived from its source AT&T text and max_len. It is used by
// internal/dfacache as a cache key and has no bearing on rank/unrank/count
// semantics.
func (d *DFA) Digest() string {
	h := sha256.New()
	h.Write([]byte(d.attText))
	fmt.Fprintf(h, "\x00maxlen=%d", d.maxLen)
	return hex.EncodeToString(h.Sum(nil))
}
