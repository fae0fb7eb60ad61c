package regexfe

import (
	"fmt"

	"github.com/dekarrin/fterank/internal/dfa"
	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/dlclark/regexp2"
)

// Options configures a regex compile.
type Options struct {
	// MaxStates caps the number of NFA states the Thompson construction is
	// allowed to allocate before giving up. Zero means unbounded. Bounded
	// repetitions ({m,n}) are the usual way a pattern blows this budget,
	// since each copy is unrolled into its own states.
	MaxStates int
}

// CompileATT parses pattern as a byte-oriented Perl-flavored regular
// expression and returns it as an AT&T-format transition listing suitable
// for dfa.New. The listing describes the DFA for full matches of pattern
// only: rank/unrank semantics are defined over entire words, so there is
// no notion of a partial or leftmost match here.
//
// pattern is first validated against github.com/dlclark/regexp2's Perl
// engine, configured per spec §4.6 as closely as a rune-oriented engine
// can get (RE2 syntax mode plus Singleline so "." is newline-permissive,
// matching the ClassNL behavior the spec's original RE2-based adapter
// configures); this catches ordinary syntax mistakes (unbalanced groups,
// bad escapes) with familiar error text before fterank's own byte-level
// parser and Thompson construction run. regexp2 does not drive that parse
// itself: it has no Latin-1/byte-oriented mode and exposes no AST a
// finite-automaton construction could walk, so the validation pass is as
// far as it goes - fterank's own parser (parse.go) implements the actual
// §4.6 semantics (Perl classes, \b/\B word boundaries, single-line ".")
// over the byte alphabet. regexp2's match engine is not used at all
// beyond Compile's parse check - fterank needs a DFA, not a Perl
// backtracking matcher, and regexp2's backreferences, lookaround, and
// atomic groups have no finite-automaton equivalent anyway.
func CompileATT(pattern string, opts Options) (string, error) {
	if _, err := regexp2.Compile(pattern, regexp2.RE2|regexp2.Singleline); err != nil {
		return "", dfaerr.New(fmt.Sprintf("pattern %q is not a valid regular expression", pattern), dfaerr.ErrRegexCompile, err)
	}

	nfa, alphabet, err := compileToNFA(pattern, opts.MaxStates)
	if err != nil {
		return "", err
	}

	attText, err := toATT(nfa, alphabet)
	if err != nil {
		return "", dfaerr.New("serializing compiled pattern", dfaerr.ErrRegexCompile, err)
	}
	return attText, nil
}

// Compile parses pattern and builds a ready-to-use *dfa.DFA for it, bound
// to maxLen. It is CompileATT followed by dfa.New, provided as a
// convenience for callers (internal/hostint, server/api, cmd/fterank) that
// want a DFA directly rather than its AT&T source text.
func Compile(pattern string, maxLen uint, opts Options) (*dfa.DFA, error) {
	attText, err := CompileATT(pattern, opts)
	if err != nil {
		return nil, err
	}
	return dfa.New(attText, maxLen)
}
