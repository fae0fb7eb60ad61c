// Package fterank is the facade a simple Go program uses to compile, build,
// rank, unrank, and count against a DFA without reaching into
// internal/dfa, internal/regexfe, or internal/minimize directly.
package fterank

import (
	"context"
	"math/big"

	"github.com/dekarrin/fterank/internal/dfa"
	"github.com/dekarrin/fterank/internal/minimize"
	"github.com/dekarrin/fterank/internal/regexfe"
)

// DFA is a ready-to-use, compiled automaton. It wraps internal/dfa.DFA so
// callers outside this module never need to import an internal package.
type DFA struct {
	d *dfa.DFA
}

// New builds a DFA from an AT&T-format transition listing, bound to maxLen.
func New(attText string, maxLen uint) (DFA, error) {
	d, err := dfa.New(attText, maxLen)
	if err != nil {
		return DFA{}, err
	}
	return DFA{d: d}, nil
}

// CompilePattern parses pattern as a byte-oriented regular expression and
// builds a DFA for it, bound to maxLen. maxStates, if nonzero, caps the size
// of the intermediate NFA.
func CompilePattern(pattern string, maxLen uint, maxStates int) (DFA, error) {
	d, err := regexfe.Compile(pattern, maxLen, regexfe.Options{MaxStates: maxStates})
	if err != nil {
		return DFA{}, err
	}
	return DFA{d: d}, nil
}

// CompilePatternToATT parses pattern and returns its AT&T transition
// listing without binding it to a max_len or building a counting table,
// useful for feeding into Minimize first.
func CompilePatternToATT(pattern string, maxStates int) (string, error) {
	return regexfe.CompileATT(pattern, regexfe.Options{MaxStates: maxStates})
}

// Minimize runs attText through the OpenFst minimization pipeline
// (fstcompile | fstminimize | fstprint) and returns the minimized listing.
// tools names the three binaries to invoke; its zero value resolves them
// via PATH under their conventional names. dir is where intermediate FST
// files are written; empty uses the system temp directory.
func Minimize(ctx context.Context, attText, dir string, tools minimize.Tools) (string, error) {
	return minimize.Minimize(ctx, attText, dir, tools)
}

// ATTText returns the AT&T transition listing d was built from.
func (d DFA) ATTText() string { return d.d.ATTText() }

// MaxLen returns the max_len bound d's counting table was built for.
func (d DFA) MaxLen() uint { return uint(d.d.MaxLen()) }

// Digest returns a stable, content-addressed identifier for d.
func (d DFA) Digest() string { return d.d.Digest() }

// Rank returns w's position in the length-first, lexicographic ordering of
// d's language.
func (d DFA) Rank(w []byte) (*big.Int, error) { return d.d.Rank(w) }

// Unrank returns the word at position c in d's language.
func (d DFA) Unrank(c *big.Int) ([]byte, error) { return d.d.Unrank(c) }

// Count returns the number of words of length in [minLen, maxLen] accepted
// by d.
func (d DFA) Count(minLen, maxLen uint) (*big.Int, error) {
	return d.d.NumWordsInLanguage(minLen, maxLen)
}
