// Package regexfe is the regular-expression front end for fterank. It takes
// a Perl-flavored pattern, parses it into a small regular-expression AST,
// compiles that AST to an NFA via the McNaughton-Yamada-Thompson
// construction, determinizes it with internal/ictiobus/automaton's subset
// construction, and serializes the result as an AT&T transition listing
// that internal/dfa.New can consume directly.
//
// Matching is always full-string (the compiled language is exactly the set
// of whole strings the pattern matches, as if anchored with ^ and $), which
// is what a length-stratified ranker over the language requires.
package regexfe

// node is a regular-expression AST node. Concrete types below implement it.
type node interface {
	isNode()
}

// literalNode matches exactly the bytes in by, in sequence.
type literalNode struct {
	by []byte
}

func (literalNode) isNode() {}

// classNode matches exactly one byte that is a member of set (or, if
// negate is true, exactly one byte that is not a member of set).
type classNode struct {
	set    [256]bool
	negate bool
}

func (classNode) isNode() {}

// concatNode matches its children in sequence.
type concatNode struct {
	parts []node
}

func (concatNode) isNode() {}

// altNode matches any one of its children.
type altNode struct {
	branches []node
}

func (altNode) isNode() {}

// starNode matches zero or more repetitions of sub.
type starNode struct {
	sub node
}

func (starNode) isNode() {}

// plusNode matches one or more repetitions of sub.
type plusNode struct {
	sub node
}

func (plusNode) isNode() {}

// optNode matches zero or one repetition of sub.
type optNode struct {
	sub node
}

func (optNode) isNode() {}

// repeatNode matches between min and max (inclusive) repetitions of sub.
// max == -1 means unbounded (the {m,} form).
type repeatNode struct {
	sub      node
	min, max int
}

func (repeatNode) isNode() {}

// emptyNode matches only the empty string. It is the AST for "", and is
// also what anchors (^, $) reduce to, since matching is always full-string.
type emptyNode struct{}

func (emptyNode) isNode() {}

// wordBoundaryNode is a zero-width Perl word-boundary assertion: \b when
// negate is false, \B when negate is true. Unlike emptyNode, it is not a
// no-op - whether it is satisfied depends on the word-classness of the
// byte consumed immediately before it and the byte consumed immediately
// after, so thompson.go compiles it to a marked assertion edge that
// resolveWordBoundaries later expands into a product construction over
// that context rather than a plain epsilon move.
type wordBoundaryNode struct {
	negate bool
}

func (wordBoundaryNode) isNode() {}
