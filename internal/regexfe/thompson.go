package regexfe

import (
	"fmt"

	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/dekarrin/fterank/internal/ictiobus/automaton"
)

// builder assembles an automaton.NFA[string] from a regex AST using the
// McNaughton-Yamada-Thompson construction (algorithm 3.23 in the dragon
// book), the same construction internal/ictiobus/lex/regex.go sketched
// out (createSingleSymbolFA, createJuxtapositionFA, createKleeneStarFA,
// createAlternationFA) but never finished wiring up. This fills that in,
// generalized to byte classes and bounded repetition, and corrects two
// bugs in the sketch: Join takes its other argument by value, not by
// pointer, and a fragment's own entry/exit states must exist before
// Join's link list references them.
type builder struct {
	nfa       automaton.NFA[string]
	n         int
	maxStates int
	alphabet  map[byte]bool
}

func newBuilder(maxStates int) *builder {
	b := &builder{maxStates: maxStates, alphabet: map[byte]bool{}}
	b.nfa = automaton.NFA[string]{}
	return b
}

// fragment is an NFA sub-graph with exactly one entry and one (initially
// non-accepting) exit state, the invariant every Thompson constructor
// below both expects of its inputs and preserves in its output.
type fragment struct {
	start, accept string
}

func (b *builder) newState(accepting bool) (string, error) {
	if b.maxStates > 0 && b.n >= b.maxStates {
		return "", dfaerr.Wrap(fmt.Sprintf("pattern requires more than %d NFA states", b.maxStates), dfaerr.ErrRegexCompile)
	}
	name := fmt.Sprintf("s%d", b.n)
	b.n++
	b.nfa.AddState(name, accepting)
	return name, nil
}

// for any subexpression r in sigma, or a byte class.
func (b *builder) classFragment(set [256]bool) (fragment, error) {
	start, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	accept, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	any := false
	for c := 0; c < 256; c++ {
		if !set[c] {
			continue
		}
		any = true
		label := string([]byte{byte(c)})
		b.alphabet[byte(c)] = true
		b.nfa.AddTransition(start, label, accept)
	}
	if !any {
		return fragment{}, dfaerr.Wrap("character class matches no byte", dfaerr.ErrRegexCompile)
	}
	return fragment{start: start, accept: accept}, nil
}

// emptyFragment matches only the empty string.
func (b *builder) emptyFragment() (fragment, error) {
	start, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	accept, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	b.nfa.AddTransition(start, "", accept)
	return fragment{start: start, accept: accept}, nil
}

// wordBoundaryFragment matches the empty string, but only at a \b (negate
// false) or \B (negate true) position. It is built the same way
// emptyFragment is, except the connecting edge is marked with
// boundaryLabel/nonBoundaryLabel instead of the epsilon label "" -
// resolveWordBoundaries (wordboundary.go) later expands every such edge
// into a product construction over the word-classness of the bytes
// immediately before and after it, once the whole NFA is built.
func (b *builder) wordBoundaryFragment(negate bool) (fragment, error) {
	start, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	accept, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	label := boundaryLabel
	if negate {
		label = nonBoundaryLabel
	}
	b.nfa.AddTransition(start, label, accept)
	return fragment{start: start, accept: accept}, nil
}

// for any expression st.
func (b *builder) concatFragment(left, right fragment) fragment {
	b.nfa.AddTransition(left.accept, "", right.start)
	return fragment{start: left.start, accept: right.accept}
}

// for any expression s|t.
func (b *builder) altFragment(left, right fragment) (fragment, error) {
	start, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	accept, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	b.nfa.AddTransition(start, "", left.start)
	b.nfa.AddTransition(start, "", right.start)
	b.nfa.AddTransition(left.accept, "", accept)
	b.nfa.AddTransition(right.accept, "", accept)
	return fragment{start: start, accept: accept}, nil
}

// for any expression r*.
func (b *builder) starFragment(inner fragment) (fragment, error) {
	start, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	accept, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	b.nfa.AddTransition(start, "", inner.start)
	b.nfa.AddTransition(start, "", accept)
	b.nfa.AddTransition(inner.accept, "", inner.start)
	b.nfa.AddTransition(inner.accept, "", accept)
	return fragment{start: start, accept: accept}, nil
}

// for any expression r+.
func (b *builder) plusFragment(inner fragment) (fragment, error) {
	accept, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	b.nfa.AddTransition(inner.accept, "", inner.start)
	b.nfa.AddTransition(inner.accept, "", accept)
	return fragment{start: inner.start, accept: accept}, nil
}

// for any expression r?.
func (b *builder) optFragment(inner fragment) (fragment, error) {
	start, err := b.newState(false)
	if err != nil {
		return fragment{}, err
	}
	b.nfa.AddTransition(start, "", inner.start)
	b.nfa.AddTransition(start, "", inner.accept)
	return fragment{start: start, accept: inner.accept}, nil
}

func (b *builder) build(n node) (fragment, error) {
	switch v := n.(type) {
	case emptyNode:
		return b.emptyFragment()
	case wordBoundaryNode:
		return b.wordBoundaryFragment(v.negate)
	case literalNode:
		if len(v.by) == 0 {
			return b.emptyFragment()
		}
		frag, err := b.classFragment(singletonSet(v.by[0]))
		if err != nil {
			return fragment{}, err
		}
		for _, by := range v.by[1:] {
			next, err := b.classFragment(singletonSet(by))
			if err != nil {
				return fragment{}, err
			}
			frag = b.concatFragment(frag, next)
		}
		return frag, nil
	case classNode:
		return b.classFragment(v.set)
	case concatNode:
		frag, err := b.build(v.parts[0])
		if err != nil {
			return fragment{}, err
		}
		for _, part := range v.parts[1:] {
			next, err := b.build(part)
			if err != nil {
				return fragment{}, err
			}
			frag = b.concatFragment(frag, next)
		}
		return frag, nil
	case altNode:
		frag, err := b.build(v.branches[0])
		if err != nil {
			return fragment{}, err
		}
		for _, branch := range v.branches[1:] {
			next, err := b.build(branch)
			if err != nil {
				return fragment{}, err
			}
			frag, err = b.altFragment(frag, next)
			if err != nil {
				return fragment{}, err
			}
		}
		return frag, nil
	case starNode:
		inner, err := b.build(v.sub)
		if err != nil {
			return fragment{}, err
		}
		return b.starFragment(inner)
	case plusNode:
		inner, err := b.build(v.sub)
		if err != nil {
			return fragment{}, err
		}
		return b.plusFragment(inner)
	case optNode:
		inner, err := b.build(v.sub)
		if err != nil {
			return fragment{}, err
		}
		return b.optFragment(inner)
	case repeatNode:
		return b.buildRepeat(v)
	default:
		return fragment{}, dfaerr.Wrap(fmt.Sprintf("internal error: unhandled AST node %T", n), dfaerr.ErrRegexCompile)
	}
}

// buildRepeat expands {min,max} into min mandatory copies of sub followed
// by either (max-min) optional copies, if max is bounded, or one trailing
// Kleene star copy if max is unbounded ({min,} form). Each copy is built
// by a fresh call to build, so every copy gets its own states; there is no
// fragment aliasing to guard against.
func (b *builder) buildRepeat(r repeatNode) (fragment, error) {
	if r.min == 0 && r.max == 0 {
		return b.emptyFragment()
	}

	var frag fragment
	built := false

	for i := 0; i < r.min; i++ {
		next, err := b.build(r.sub)
		if err != nil {
			return fragment{}, err
		}
		if !built {
			frag, built = next, true
		} else {
			frag = b.concatFragment(frag, next)
		}
	}

	if r.max == -1 {
		tail, err := b.build(r.sub)
		if err != nil {
			return fragment{}, err
		}
		tail, err = b.starFragment(tail)
		if err != nil {
			return fragment{}, err
		}
		if !built {
			return tail, nil
		}
		return b.concatFragment(frag, tail), nil
	}

	for i := r.min; i < r.max; i++ {
		next, err := b.build(r.sub)
		if err != nil {
			return fragment{}, err
		}
		next, err = b.optFragment(next)
		if err != nil {
			return fragment{}, err
		}
		if !built {
			frag, built = next, true
		} else {
			frag = b.concatFragment(frag, next)
		}
	}

	if !built {
		return b.emptyFragment()
	}
	return frag, nil
}

func singletonSet(by byte) [256]bool {
	var set [256]bool
	set[by] = true
	return set
}

// compileToNFA parses pattern and builds the corresponding NFA, returning
// the finished automaton together with the byte alphabet it transitions
// on (serialize.go needs the latter since automaton.DFA exposes no way to
// enumerate the symbols a state transitions on other than probing Next
// with known labels).
func compileToNFA(pattern string, maxStates int) (automaton.NFA[string], map[byte]bool, error) {
	ast, err := parsePattern(pattern)
	if err != nil {
		return automaton.NFA[string]{}, nil, err
	}

	b := newBuilder(maxStates)
	frag, err := b.build(ast)
	if err != nil {
		return automaton.NFA[string]{}, nil, err
	}

	trueAccept, err := b.newState(true)
	if err != nil {
		return automaton.NFA[string]{}, nil, err
	}
	b.nfa.AddTransition(frag.accept, "", trueAccept)
	b.nfa.Start = frag.start

	resolved, err := resolveWordBoundaries(b.nfa, maxStates)
	if err != nil {
		return automaton.NFA[string]{}, nil, err
	}

	return resolved, b.alphabet, nil
}
