// Package version contains information on the current version of the program.
// It is split from the main program for easy use.
package version

// Current is the string representing the current version of fterank.
const Current = "0.1.0"

// ServerCurrent is the string representing the current version of fterankd,
// versioned separately from the library since the server can gain
// protocol-level changes the core ranker does not.
const ServerCurrent = "fterankd/0.1.0"
