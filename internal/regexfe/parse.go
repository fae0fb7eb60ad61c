package regexfe

import (
	"fmt"
	"strconv"

	"github.com/dekarrin/fterank/internal/dfaerr"
)

// parser is a recursive-descent parser over a byte-oriented regular
// expression grammar:
//
//	Alt      := Concat ('|' Concat)*
//	Concat   := Repeat*
//	Repeat   := Atom ('*' | '+' | '?' | '{' Bound '}')?
//	Bound    := digits | digits ',' | digits ',' digits
//	Atom     := Literal | '.' | Class | '(' Alt ')' | Anchor | Escape
//	Class    := '[' '^'? ClassItem* ']'
//	ClassItem:= byte ('-' byte)? | EscapeClass
//
// The grammar operates on raw bytes (Latin-1 style, one byte per
// character), not decoded runes, matching the byte-oriented alphabet the
// rest of fterank works over.
type parser struct {
	src []byte
	pos int
}

func parsePattern(pattern string) (node, error) {
	p := &parser{src: []byte(pattern)}
	n, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, dfaerr.Wrap(fmt.Sprintf("unexpected %q at offset %d", p.peek(), p.pos), dfaerr.ErrRegexCompile)
	}
	return n, nil
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() byte {
	b := p.src[p.pos]
	p.pos++
	return b
}

func (p *parser) parseAlt() (node, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	branches := []node{first}
	for !p.atEnd() && p.peek() == '|' {
		p.advance()
		next, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return altNode{branches: branches}, nil
}

func (p *parser) parseConcat() (node, error) {
	var parts []node
	for !p.atEnd() && p.peek() != '|' && p.peek() != ')' {
		part, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	switch len(parts) {
	case 0:
		return emptyNode{}, nil
	case 1:
		return parts[0], nil
	default:
		return concatNode{parts: parts}, nil
	}
}

func (p *parser) parseRepeat() (node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.atEnd() {
		return atom, nil
	}
	switch p.peek() {
	case '*':
		p.advance()
		return starNode{sub: atom}, nil
	case '+':
		p.advance()
		return plusNode{sub: atom}, nil
	case '?':
		p.advance()
		return optNode{sub: atom}, nil
	case '{':
		return p.parseBound(atom)
	default:
		return atom, nil
	}
}

func (p *parser) parseBound(atom node) (node, error) {
	start := p.pos
	p.advance() // '{'
	min, minDigits := p.readDigits()
	if minDigits == 0 {
		// not actually a repetition bound (e.g. a literal "{"); backtrack
		// and treat '{' as a literal byte.
		p.pos = start
		p.advance()
		return literalNode{by: []byte{'{'}}, nil
	}
	max := min
	if !p.atEnd() && p.peek() == ',' {
		p.advance()
		n, digits := p.readDigits()
		if digits == 0 {
			max = -1 // "{m,}" - unbounded
		} else {
			max = n
		}
	}
	if p.atEnd() || p.peek() != '}' {
		return nil, dfaerr.Wrap(fmt.Sprintf("unterminated repetition bound starting at offset %d", start), dfaerr.ErrRegexCompile)
	}
	p.advance() // '}'

	if max != -1 && max < min {
		return nil, dfaerr.Wrap(fmt.Sprintf("repetition bound {%d,%d} has max < min", min, max), dfaerr.ErrRegexCompile)
	}
	const maxBound = 1024
	if min > maxBound || max > maxBound {
		return nil, dfaerr.Wrap(fmt.Sprintf("repetition bound exceeds %d, which fterank's compiler refuses to expand", maxBound), dfaerr.ErrRegexCompile)
	}
	return repeatNode{sub: atom, min: min, max: max}, nil
}

func (p *parser) readDigits() (int, int) {
	start := p.pos
	for !p.atEnd() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}
	if p.pos == start {
		return 0, 0
	}
	n, err := strconv.Atoi(string(p.src[start:p.pos]))
	if err != nil {
		return 0, 0
	}
	return n, p.pos - start
}

func (p *parser) parseAtom() (node, error) {
	if p.atEnd() {
		return nil, dfaerr.Wrap("unexpected end of pattern", dfaerr.ErrRegexCompile)
	}
	switch b := p.peek(); b {
	case '(':
		p.advance()
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.peek() != ')' {
			return nil, dfaerr.Wrap("unclosed group", dfaerr.ErrRegexCompile)
		}
		p.advance()
		return inner, nil
	case '.':
		p.advance()
		// Single-line mode (the spec's configured ClassNL/newline-permissive
		// behavior): . matches every byte, newline included.
		var set [256]bool
		for i := range set {
			set[i] = true
		}
		return classNode{set: set}, nil
	case '[':
		return p.parseClass()
	case '^', '$':
		p.advance()
		// Full-string matching is always implied, so an anchor at the
		// edge of the pattern is a no-op; ^ is checked to be the first
		// byte of the pattern and $ the last below, in parsePattern's
		// caller via position, but since both reduce to the same
		// no-op here we simply accept them anywhere a no-op is sound:
		// they match the empty string.
		return emptyNode{}, nil
	case '\\':
		return p.parseEscape()
	case '*', '+', '?', ')', '|':
		return nil, dfaerr.Wrap(fmt.Sprintf("unexpected metacharacter %q at offset %d", b, p.pos), dfaerr.ErrRegexCompile)
	default:
		p.advance()
		return literalNode{by: []byte{b}}, nil
	}
}

// parseEscape handles a top-level '\' escape outside a character class:
// shorthand classes (\d \D \w \W \s \S) become a classNode, word-boundary
// assertions (\b \B) become a wordBoundaryNode (resolved to a real
// zero-width assertion by thompson.go/wordboundary.go), and everything
// else is a single literal byte.
func (p *parser) parseEscape() (node, error) {
	p.advance() // '\'
	if p.atEnd() {
		return nil, dfaerr.Wrap("dangling escape at end of pattern", dfaerr.ErrRegexCompile)
	}
	e := p.advance()
	if set, ok := shorthandClass(e); ok {
		return classNode{set: set}, nil
	}
	if e == 'b' || e == 'B' {
		return wordBoundaryNode{negate: e == 'B'}, nil
	}
	b, err := unescapeLiteral(p, e)
	if err != nil {
		return nil, err
	}
	return literalNode{by: []byte{b}}, nil
}

func (p *parser) parseClass() (node, error) {
	start := p.pos
	p.advance() // '['
	var set [256]bool
	negate := false
	if !p.atEnd() && p.peek() == '^' {
		negate = true
		p.advance()
	}
	first := true
	for {
		if p.atEnd() {
			return nil, dfaerr.Wrap(fmt.Sprintf("unclosed character class starting at offset %d", start), dfaerr.ErrRegexCompile)
		}
		if p.peek() == ']' && !first {
			p.advance()
			break
		}
		first = false

		lo, err := p.parseClassByte()
		if err != nil {
			return nil, err
		}
		if lo.isShorthand {
			for i := range lo.shorthand {
				if lo.shorthand[i] {
					set[i] = true
				}
			}
			continue
		}
		if !p.atEnd() && p.peek() == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.advance() // '-'
			hi, err := p.parseClassByte()
			if err != nil {
				return nil, err
			}
			if hi.isShorthand || hi.b < lo.b {
				return nil, dfaerr.Wrap(fmt.Sprintf("invalid character range ending at offset %d", p.pos), dfaerr.ErrRegexCompile)
			}
			for c := int(lo.b); c <= int(hi.b); c++ {
				set[c] = true
			}
			continue
		}
		set[lo.b] = true
	}

	if negate {
		var inverted [256]bool
		for i := range set {
			inverted[i] = !set[i]
		}
		set = inverted
		negate = false
	}
	return classNode{set: set}, nil
}

type classByte struct {
	b           byte
	isShorthand bool
	shorthand   [256]bool
}

func (p *parser) parseClassByte() (classByte, error) {
	if p.peek() == '\\' {
		p.advance()
		if p.atEnd() {
			return classByte{}, dfaerr.Wrap("dangling escape in character class", dfaerr.ErrRegexCompile)
		}
		e := p.advance()
		if set, ok := shorthandClass(e); ok {
			return classByte{isShorthand: true, shorthand: set}, nil
		}
		b, err := unescapeLiteral(p, e)
		if err != nil {
			return classByte{}, err
		}
		return classByte{b: b}, nil
	}
	return classByte{b: p.advance()}, nil
}

// isWordByte reports whether b is a Perl "word" byte (\w): ASCII letters,
// digits, and underscore. \b and \B (see wordboundary.go) are defined in
// terms of this same class, so the two always agree with each other.
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_':
		return true
	default:
		return false
	}
}

// shorthandClass returns the byte set a \d \D \w \W \s \S shorthand
// expands to, and whether e was one of those letters.
func shorthandClass(e byte) ([256]bool, bool) {
	var set [256]bool
	switch e {
	case 'd':
		for c := '0'; c <= '9'; c++ {
			set[c] = true
		}
	case 'D':
		for i := range set {
			set[i] = true
		}
		for c := '0'; c <= '9'; c++ {
			set[c] = false
		}
	case 'w':
		for c := 0; c < 256; c++ {
			set[c] = isWordByte(byte(c))
		}
	case 'W':
		for c := 0; c < 256; c++ {
			set[c] = !isWordByte(byte(c))
		}
	case 's':
		for _, c := range []byte{' ', '\t', '\n', '\r', '\f', '\v'} {
			set[c] = true
		}
	case 'S':
		spaceSet, _ := shorthandClass('s')
		for i := range set {
			set[i] = !spaceSet[i]
		}
	default:
		return set, false
	}
	return set, true
}

// unescapeLiteral resolves the byte a single-character escape \e denotes,
// for escapes that are not class shorthands: metacharacter escapes (\. \*
// and so on), control escapes (\n \t \r \f \v \0), and \xHH hex escapes.
func unescapeLiteral(p *parser, e byte) (byte, error) {
	switch e {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case '0':
		return 0, nil
	case 'x':
		if p.pos+1 >= len(p.src) {
			return 0, dfaerr.Wrap("incomplete \\x escape", dfaerr.ErrRegexCompile)
		}
		hex := string(p.src[p.pos : p.pos+2])
		n, err := strconv.ParseUint(hex, 16, 8)
		if err != nil {
			return 0, dfaerr.Wrap(fmt.Sprintf("invalid \\x escape %q", hex), dfaerr.ErrRegexCompile)
		}
		p.pos += 2
		return byte(n), nil
	default:
		// Any other escaped byte (including all regex metacharacters) is
		// taken literally, Perl-style.
		return e, nil
	}
}
