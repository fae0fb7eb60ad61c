// Package grammar holds the symbols the subset-construction algorithm in
// internal/ictiobus/automaton shares with a would-be LR item representation.
// Only the epsilon marker survives from the original grammar/parse-table
// machinery; see DESIGN.md for why the rest was dropped.
package grammar

// Epsilon is the epsilon-transition symbol. automaton.NFA stores an
// epsilon move under the empty-string input key, so Epsilon[0] is "".
var Epsilon = []string{""}
