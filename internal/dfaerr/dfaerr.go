// Package dfaerr holds the error taxonomy shared by fterank's DFA, regex,
// and minimization front ends. It follows the same shape as server/serr:
// a set of sentinel errors usable with errors.Is, plus an Error type that
// can carry one or more causes and keeps an explicit Is method so that
// errors.Is works on Go 1.19, not just 1.20's multi-error Unwrap.
package dfaerr

import "errors"

var (
	// ErrParse indicates the AT&T DFA listing contained a malformed record or
	// an out-of-range state index.
	ErrParse = errors.New("malformed AT&T DFA listing")

	// ErrLengthExceeded indicates a word longer than max_len was given to
	// rank, or a length query longer than max_len was given to a cardinality
	// function.
	ErrLengthExceeded = errors.New("length exceeds the DFA's configured max_len")

	// ErrSymbolOutOfAlphabet indicates a byte in a rank input is not a member
	// of the DFA's alphabet.
	ErrSymbolOutOfAlphabet = errors.New("byte is not in the DFA's alphabet")

	// ErrNotInLanguage indicates a rank walk ended in a non-accepting state.
	ErrNotInLanguage = errors.New("word is not accepted by the DFA")

	// ErrRankOutOfRange indicates an unrank input is at or beyond the
	// cumulative word count for the DFA's max_len.
	ErrRankOutOfRange = errors.New("rank is out of range for the DFA's max_len")

	// ErrRegexCompile indicates the regex front end failed to parse or
	// compile a pattern, or that compiling it would exceed the configured
	// state-count ceiling.
	ErrRegexCompile = errors.New("regex could not be compiled to a DFA")

	// ErrMinimization indicates the external FST minimization pipeline
	// failed: a missing binary, a nonzero exit status, or a missing output
	// file.
	ErrMinimization = errors.New("AT&T DFA minimization failed")
)

// Error is a message paired with one or more causes. Calling errors.Is on an
// Error with any of its causes (including causes of causes) returns true,
// same as server/serr.Error.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with the given message and, optionally, one or more
// causes. If msg is empty and there is at least one cause, Error() defers
// entirely to the first cause's message.
func New(msg string, cause ...error) error {
	return &Error{msg: msg, cause: cause}
}

// Wrap is shorthand for New("", cause) and New(msg, cause...) when a single
// formatted message around a single cause is wanted.
func Wrap(msg string, cause error) error {
	return New(msg, cause)
}

func (e *Error) Error() string {
	if e.msg == "" && len(e.cause) > 0 {
		return e.cause[0].Error()
	}
	if len(e.cause) > 0 {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of e so that errors.Is and errors.As can examine
// them.
//
// This is for interaction with the errors API in Go 1.20 and later; the
// module targets 1.19, where errors.Is does not walk a multi-error Unwrap,
// so Is below is what actually makes errors.Is(err, dfaerr.ErrX) work.
// Returns nil if e has no causes.
func (e *Error) Unwrap() []error {
	if len(e.cause) == 0 {
		return nil
	}
	return e.cause
}

// Is returns whether e either is itself the given target error, or one of
// its causes is. errors.Is calls this directly (it checks for an Is method
// before attempting to Unwrap), so this is what makes errors.Is(err,
// dfaerr.ErrLengthExceeded) and similar checks work regardless of Go
// version.
func (e *Error) Is(target error) bool {
	if errTarget, ok := target.(*Error); ok {
		if e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
			allCausesEqual := true
			for i := range e.cause {
				if e.cause[i] != errTarget.cause[i] {
					allCausesEqual = false
					break
				}
			}
			if allCausesEqual {
				return true
			}
		}
	}

	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}
