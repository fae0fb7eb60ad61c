package regexfe

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/dekarrin/fterank/internal/ictiobus/automaton"
	"github.com/dekarrin/fterank/internal/util"
)

// toATT determinizes nfa (via subset construction) and serializes the
// result as an AT&T transition listing in the format internal/dfa.New
// expects: one "src\tdst\tsymCode\tsymCode" line per transition followed
// by one "state" line per accepting state, symbol codes 1-based (code =
// byte value + 1, reserving code 0 for internal/dfa's own bookkeeping).
//
// Per state, transitions are emitted in ascending byte order. Since
// internal/dfa's alphabet assigns symbol indices by first appearance
// across the listing, and states are visited here in ascending numeric
// order starting from the (renumbered) start state 0, this makes
// "first appearance order" coincide with byte-ascending order for every
// regex-compiled DFA - a deliberate, documented resolution of the open
// question of what alphabet order a generated (rather than hand-written)
// listing should use.
func toATT(nfa automaton.NFA[string], alphabet map[byte]bool) (string, error) {
	det := nfa.ToDFA()
	flat := automaton.TransformDFA(det, func(old util.SVSet[string]) struct{} { return struct{}{} })
	flat.NumberStates()

	bytes := make([]byte, 0, len(alphabet))
	for b := range alphabet {
		bytes = append(bytes, b)
	}
	sort.Slice(bytes, func(i, j int) bool { return bytes[i] < bytes[j] })
	if len(bytes) == 0 {
		// A pattern that references no literal byte at all (e.g. "", or
		// "()") compiles to a one-or-two-state automaton with zero real
		// transitions. internal/dfa's AT&T grammar has no way to name a
		// start state other than as the src of its first transition
		// record, so such a listing needs a harmless placeholder symbol
		// to hang that record off of.
		bytes = []byte{0}
	}

	stateNames := flat.States().Elements()
	ids := make([]int, 0, len(stateNames))
	for _, name := range stateNames {
		id, err := strconv.Atoi(name)
		if err != nil {
			return "", dfaerr.New(fmt.Sprintf("internal error: renumbered state name %q is not an integer", name), dfaerr.ErrRegexCompile)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	hasTransitionFromStart := false
	for _, by := range bytes {
		if flat.Next("0", string([]byte{by})) != "" {
			hasTransitionFromStart = true
			break
		}
	}

	var buf strings.Builder
	if !hasTransitionFromStart && len(bytes) > 0 {
		// internal/dfa.New infers the start state from the src field of
		// the first transition record in the listing; a start state with
		// no outgoing transitions of its own (the compiled pattern
		// matches only the empty string, or nothing past state 0) would
		// leave that inference with nothing to anchor to. Anchor it
		// explicitly with a harmless edge to a fresh non-accepting sink
		// state that nothing else points to.
		sink := len(ids)
		code := int(bytes[0]) + 1
		fmt.Fprintf(&buf, "0\t%d\t%d\t%d\n", sink, code, code)
	}

	for _, id := range ids {
		src := strconv.Itoa(id)
		for _, by := range bytes {
			dst := flat.Next(src, string([]byte{by}))
			if dst == "" {
				continue
			}
			code := int(by) + 1
			fmt.Fprintf(&buf, "%s\t%s\t%d\t%d\n", src, dst, code, code)
		}
	}

	for _, id := range ids {
		name := strconv.Itoa(id)
		if flat.IsAccepting(name) {
			fmt.Fprintf(&buf, "%s\n", name)
		}
	}

	return buf.String(), nil
}
