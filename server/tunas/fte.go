package tunas

import (
	"context"
	"math/big"

	"github.com/dekarrin/fterank/internal/dfa"
	"github.com/dekarrin/fterank/internal/dfacache"
	"github.com/dekarrin/fterank/internal/minimize"
	"github.com/dekarrin/fterank/internal/regexfe"
)

// FTE adds fterank's own domain operations to Service: compiling patterns,
// minimizing AT&T listings, and ranking/unranking/counting against DFAs
// registered in a shared cache. The zero-value Cache is not usable; a
// Service intending to call these methods must have one assigned.
type FTE struct {
	// Cache holds compiled DFAs keyed by digest so repeated requests against
	// the same automaton skip buildTable's big-integer cost.
	Cache *dfacache.Cache

	// MinimizeTools names the OpenFst binaries Minimize shells out to.
	MinimizeTools minimize.Tools

	// TempDir is where Minimize writes its intermediate FST files. Empty
	// means os.TempDir().
	TempDir string

	// DefaultMaxLen is used by RegisterPattern/RegisterDFA when the caller
	// passes a maxLen of 0.
	DefaultMaxLen uint

	// DefaultMaxStates is used by CompilePattern/RegisterPattern when the
	// caller passes a maxStates of 0.
	DefaultMaxStates int
}

// CompilePattern compiles pattern into an AT&T transition listing without
// registering it anywhere. maxStates, if nonzero, caps the NFA the Thompson
// construction is allowed to build; if zero, f.DefaultMaxStates is used.
func (f FTE) CompilePattern(pattern string, maxStates int) (string, error) {
	if maxStates == 0 {
		maxStates = f.DefaultMaxStates
	}
	return regexfe.CompileATT(pattern, regexfe.Options{MaxStates: maxStates})
}

// MinimizeATT runs attText through the OpenFst minimization pipeline and
// returns the minimized listing.
func (f FTE) MinimizeATT(ctx context.Context, attText string) (string, error) {
	return minimize.Minimize(ctx, attText, f.TempDir, f.MinimizeTools)
}

// RegisterDFA builds a DFA from attText and maxLen, stores it in the cache,
// and returns its content-addressed digest. Registering the same
// (attText, maxLen) pair twice overwrites the cached copy rather than
// erroring: the two builds are equivalent by construction.
func (f FTE) RegisterDFA(ctx context.Context, attText string, maxLen uint) (string, error) {
	if maxLen == 0 {
		maxLen = f.DefaultMaxLen
	}
	d, err := dfa.New(attText, maxLen)
	if err != nil {
		return "", err
	}
	if err := f.Cache.Put(ctx, d); err != nil {
		return "", err
	}
	return d.Digest(), nil
}

// RegisterPattern compiles pattern, optionally minimizes it, and registers
// the result the same way RegisterDFA does.
func (f FTE) RegisterPattern(ctx context.Context, pattern string, maxLen uint, maxStates int, minify bool) (string, error) {
	attText, err := f.CompilePattern(pattern, maxStates)
	if err != nil {
		return "", err
	}
	if minify {
		attText, err = f.MinimizeATT(ctx, attText)
		if err != nil {
			return "", err
		}
	}
	return f.RegisterDFA(ctx, attText, maxLen)
}

// dfaByDigest fetches a previously registered DFA from the cache.
func (f FTE) dfaByDigest(ctx context.Context, digest string) (*dfa.DFA, error) {
	return f.Cache.Get(ctx, digest)
}

// Rank looks up the DFA named by digest and returns w's rank.
func (f FTE) Rank(ctx context.Context, digest string, w []byte) (*big.Int, error) {
	d, err := f.dfaByDigest(ctx, digest)
	if err != nil {
		return nil, err
	}
	return d.Rank(w)
}

// Unrank looks up the DFA named by digest and returns the word at rank c.
func (f FTE) Unrank(ctx context.Context, digest string, c *big.Int) ([]byte, error) {
	d, err := f.dfaByDigest(ctx, digest)
	if err != nil {
		return nil, err
	}
	return d.Unrank(c)
}

// Count looks up the DFA named by digest and returns the number of words
// of length in [minLen, maxLen] it accepts.
func (f FTE) Count(ctx context.Context, digest string, minLen, maxLen uint) (*big.Int, error) {
	d, err := f.dfaByDigest(ctx, digest)
	if err != nil {
		return nil, err
	}
	return d.NumWordsInLanguage(minLen, maxLen)
}
