package regexfe

import (
	"fmt"

	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/dekarrin/fterank/internal/ictiobus/automaton"
	"github.com/dekarrin/fterank/internal/util"
)

// boundaryLabel and nonBoundaryLabel mark a \b or \B assertion edge in the
// NFA thompson.go builds. Both are two bytes long, so neither can ever
// collide with a real byte transition (always exactly one byte long) or
// an epsilon transition (the empty string): resolveWordBoundaries is what
// expands these marked edges away before the NFA is handed to subset
// construction.
const (
	boundaryLabel    = "\x00b"
	nonBoundaryLabel = "\x00B"
)

// wbTag is the extra context resolveWordBoundaries' product construction
// attaches to every state of the raw NFA: the word-classness of the most
// recently consumed byte (false also covers "no byte consumed yet", which
// Perl treats as non-word for boundary purposes), and any \b/\B assertion
// crossed since that byte which is still waiting to be checked against
// whichever byte gets consumed next.
type wbTag struct {
	prevWord bool
	pending  byte // 0, 'b' (next byte's class must differ from prevWord), or 'B' (must match it)
}

func (t wbTag) key() string {
	p := "n"
	if t.prevWord {
		p = "w"
	}
	return fmt.Sprintf("%s%c", p, t.pending)
}

type wbQueueItem struct {
	orig string
	tag  wbTag
}

// resolveWordBoundaries expands every \b/\B assertion edge in raw into a
// product construction over (state, preceding byte's word-classness,
// pending assertion) triples, discharging each pending assertion against
// the class of whichever byte is actually consumed next - or, for a
// pending assertion still unresolved at one of raw's accepting states,
// against the implicit non-word class past the end of the string, same
// as Perl treats string boundaries for \b/\B purposes.
//
// Patterns with no \b/\B compile to no marked edges at all; this detects
// that case and returns raw unchanged, so the common case pays no cost
// for a feature it doesn't use.
func resolveWordBoundaries(raw automaton.NFA[string], maxStates int) (automaton.NFA[string], error) {
	syms := raw.InputSymbols()
	if !syms.Has(boundaryLabel) && !syms.Has(nonBoundaryLabel) {
		return raw, nil
	}

	accepting := raw.AcceptingStates()

	out := automaton.NFA[string]{}
	made := map[string]bool{}
	var queue []wbQueueItem
	count := 0

	stateName := func(item wbQueueItem) string {
		return item.orig + "|" + item.tag.key()
	}

	ensure := func(orig string, t wbTag) (string, error) {
		item := wbQueueItem{orig: orig, tag: t}
		name := stateName(item)
		if made[name] {
			return name, nil
		}
		if maxStates > 0 && count >= maxStates {
			return "", dfaerr.Wrap(fmt.Sprintf("pattern requires more than %d NFA states once word-boundary assertions are resolved", maxStates), dfaerr.ErrRegexCompile)
		}
		count++
		made[name] = true

		acc := accepting.Has(orig)
		switch t.pending {
		case 'b':
			acc = acc && t.prevWord
		case 'B':
			acc = acc && !t.prevWord
		}
		out.AddState(name, acc)
		queue = append(queue, item)
		return name, nil
	}

	startName, err := ensure(raw.Start, wbTag{prevWord: false, pending: 0})
	if err != nil {
		return automaton.NFA[string]{}, err
	}
	out.Start = startName

	for i := 0; i < len(queue); i++ {
		orig, t := queue[i].orig, queue[i].tag
		from := stateName(queue[i])
		origSet := util.StringSetOf([]string{orig})

		// plain epsilon moves: tag passes through unchanged.
		for _, dest := range raw.MOVE(origSet, "").Elements() {
			to, err := ensure(dest, t)
			if err != nil {
				return automaton.NFA[string]{}, err
			}
			out.AddTransition(from, "", to)
		}

		// \b: contradictory (and so dropped) if a \B is already pending,
		// since the two can never both hold at the same position.
		if t.pending != 'B' {
			nt := wbTag{prevWord: t.prevWord, pending: 'b'}
			for _, dest := range raw.MOVE(origSet, boundaryLabel).Elements() {
				to, err := ensure(dest, nt)
				if err != nil {
					return automaton.NFA[string]{}, err
				}
				out.AddTransition(from, "", to)
			}
		}

		// \B: symmetric with \b above.
		if t.pending != 'b' {
			nt := wbTag{prevWord: t.prevWord, pending: 'B'}
			for _, dest := range raw.MOVE(origSet, nonBoundaryLabel).Elements() {
				to, err := ensure(dest, nt)
				if err != nil {
					return automaton.NFA[string]{}, err
				}
				out.AddTransition(from, "", to)
			}
		}

		// real byte transitions: discharge any pending assertion against
		// the class of the byte being consumed, then reset pending to 0.
		for c := 0; c < 256; c++ {
			label := string([]byte{byte(c)})
			dests := raw.MOVE(origSet, label)
			if dests.Empty() {
				continue
			}
			wc := isWordByte(byte(c))
			switch t.pending {
			case 'b':
				if wc == t.prevWord {
					continue
				}
			case 'B':
				if wc != t.prevWord {
					continue
				}
			}
			nt := wbTag{prevWord: wc, pending: 0}
			for _, dest := range dests.Elements() {
				to, err := ensure(dest, nt)
				if err != nil {
					return automaton.NFA[string]{}, err
				}
				out.AddTransition(from, label, to)
			}
		}
	}

	return out, nil
}
