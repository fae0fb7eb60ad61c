/*
Fterank compiles, minimizes, builds, ranks, unranks, and counts words of a
DFA-recognized language from the command line.

Usage:

	fterank compile PATTERN [flags]
	fterank minimize [flags]
	fterank build [flags]
	fterank rank WORD [flags]
	fterank unrank N [flags]
	fterank count [flags]
	fterank repl [flags]

The subcommands are:

	compile PATTERN
		Parse PATTERN as a byte-oriented regular expression and print its
		AT&T-format transition listing to stdout.

	minimize
		Read an AT&T-format transition listing from stdin (or --att-file)
		and print its Hopcroft-minimized form, via the external fstcompile
		/ fstminimize / fstprint pipeline.

	build
		Read an AT&T-format transition listing from stdin (or --att-file),
		build its counting table up to --max-len, and print the resulting
		digest along with the serialized table.

	rank WORD
		Read an AT&T-format transition listing from stdin (or --att-file),
		build it up to --max-len, and print WORD's rank.

	unrank N
		Read an AT&T-format transition listing from stdin (or --att-file),
		build it up to --max-len, and print the word at rank N.

	count
		Read an AT&T-format transition listing from stdin (or --att-file),
		build it up to --max-len, and print the number of words accepted
		with length in [--min-len, --max-len].

	repl
		Start an interactive session: compile a pattern once, then
		repeatedly rank, unrank, or count against it.

The flags are:

	-v, --version
		Give the current version of fterank and then exit.

	-l, --max-len N
		Bound the counting table (and any rank/unrank/count query) to
		words of length at most N. Defaults to 64.

	-m, --max-states N
		Cap the number of NFA states the regex front end may allocate
		before giving up. 0 (the default) means unbounded.

	-f, --att-file FILE
		Read the AT&T-format transition listing from FILE instead of
		stdin.

	--min-len N
		Lower bound for the count subcommand. Defaults to 0.
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/fterank"
	"github.com/dekarrin/fterank/internal/hostint"
	"github.com/dekarrin/fterank/internal/input"
	"github.com/dekarrin/fterank/internal/minimize"
	"github.com/dekarrin/fterank/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad arguments or flags were given.
	ExitUsageError

	// ExitOpError indicates the requested operation failed (a parse error,
	// a word not in the language, a rank out of range, and so on).
	ExitOpError
)

const consoleOutputWidth = 80

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Give the current version of fterank and then exit.")
	flagMaxLen  *uint   = pflag.UintP("max-len", "l", 64, "Bound the counting table to words of at most this length.")
	flagMaxStat *int    = pflag.IntP("max-states", "m", 0, "Cap the number of NFA states the regex front end may allocate. 0 means unbounded.")
	flagATTFile *string = pflag.StringP("att-file", "f", "", "Read the AT&T transition listing from this file instead of stdin.")
	flagMinLen  *uint   = pflag.Uint("min-len", 0, "Lower bound on word length for the count subcommand.")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fail(ExitUsageError, "no subcommand given\nDo -h for help.\n")
		return
	}

	sub, rest := args[0], args[1:]

	var err error
	switch sub {
	case "compile":
		err = doCompile(rest)
	case "minimize":
		err = doMinimize(rest)
	case "build":
		err = doBuild(rest)
	case "rank":
		err = doRank(rest)
	case "unrank":
		err = doUnrank(rest)
	case "count":
		err = doCount(rest)
	case "repl":
		err = doRepl(rest)
	default:
		fail(ExitUsageError, "unknown subcommand %q\nDo -h for help.\n", sub)
		return
	}

	if err != nil {
		fail(ExitOpError, "%s\n", wrapDiag(err.Error()))
	}
}

func fail(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format, args...)
	returnCode = code
}

// wrapDiag wraps a diagnostic message (a regex compile error, a minimization
// failure) to the console width, the same way engine.go wrapped in-game
// error text for display.
func wrapDiag(msg string) string {
	return rosed.Edit(msg).Wrap(consoleOutputWidth).String()
}

func readATTText(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open AT&T file: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return "", fmt.Errorf("read AT&T listing: %w", err)
	}
	return string(data), nil
}

func doCompile(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("compile requires exactly one PATTERN argument")
	}
	attText, err := fterank.CompilePatternToATT(args[0], *flagMaxStat)
	if err != nil {
		return err
	}
	fmt.Println(attText)
	return nil
}

func doMinimize(args []string) error {
	attText, err := readATTText(*flagATTFile)
	if err != nil {
		return err
	}
	minified, err := fterank.Minimize(context.Background(), attText, "", minimize.Tools{})
	if err != nil {
		return err
	}
	fmt.Println(minified)
	return nil
}

func doBuild(args []string) error {
	attText, err := readATTText(*flagATTFile)
	if err != nil {
		return err
	}
	d, err := fterank.New(attText, *flagMaxLen)
	if err != nil {
		return err
	}
	fmt.Printf("digest: %s\n", d.Digest())
	fmt.Printf("max_len: %d\n", d.MaxLen())
	return nil
}

func doRank(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("rank requires exactly one WORD argument")
	}
	attText, err := readATTText(*flagATTFile)
	if err != nil {
		return err
	}
	d, err := fterank.New(attText, *flagMaxLen)
	if err != nil {
		return err
	}
	rank, err := d.Rank([]byte(args[0]))
	if err != nil {
		return err
	}
	fmt.Println(hostint.ToHostInt(rank))
	return nil
}

func doUnrank(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("unrank requires exactly one N argument")
	}
	rank, err := hostint.FromHostInt(args[0])
	if err != nil {
		return err
	}
	attText, err := readATTText(*flagATTFile)
	if err != nil {
		return err
	}
	d, err := fterank.New(attText, *flagMaxLen)
	if err != nil {
		return err
	}
	word, err := d.Unrank(rank)
	if err != nil {
		return err
	}
	fmt.Println(string(word))
	return nil
}

func doCount(args []string) error {
	attText, err := readATTText(*flagATTFile)
	if err != nil {
		return err
	}
	d, err := fterank.New(attText, *flagMaxLen)
	if err != nil {
		return err
	}
	count, err := d.Count(*flagMinLen, *flagMaxLen)
	if err != nil {
		return err
	}
	fmt.Println(hostint.ToHostInt(count))
	return nil
}

// doRepl compiles a pattern once and then reads rank/unrank/count requests
// interactively, one per line, until EOF or "quit".
func doRepl(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("repl requires exactly one PATTERN argument")
	}

	d, err := fterank.CompilePattern(args[0], *flagMaxLen, *flagMaxStat)
	if err != nil {
		return err
	}
	fmt.Printf("Compiled %q (max_len=%d, digest=%s)\n", args[0], d.MaxLen(), d.Digest())
	fmt.Println("Commands: rank WORD | unrank N | count MIN MAX | quit")

	reader, err := input.NewInteractiveReader()
	if err != nil {
		reader2 := input.NewDirectReader(os.Stdin)
		defer reader2.Close()
		return replLoop(reader2, d)
	}
	defer reader.Close()
	return replLoop(reader, d)
}

// commandReader is the subset of command.Reader the REPL needs.
type commandReader interface {
	ReadCommand() (string, error)
	AllowBlank(bool)
	Close() error
}

func replLoop(r commandReader, d fterank.DFA) error {
	for {
		line, err := r.ReadCommand()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var verb, rest string
		fmt.Sscanf(line, "%s", &verb)
		if len(line) > len(verb) {
			rest = line[len(verb):]
		}

		switch verb {
		case "quit", "QUIT":
			return nil
		case "rank":
			word := trimLeft(rest)
			rank, err := d.Rank([]byte(word))
			if err != nil {
				fmt.Println(wrapDiag(err.Error()))
				continue
			}
			fmt.Println(hostint.ToHostInt(rank))
		case "unrank":
			n, err := hostint.FromHostInt(trimLeft(rest))
			if err != nil {
				fmt.Println(wrapDiag(err.Error()))
				continue
			}
			word, err := d.Unrank(n)
			if err != nil {
				fmt.Println(wrapDiag(err.Error()))
				continue
			}
			fmt.Println(string(word))
		case "count":
			var min, max uint
			fmt.Sscanf(rest, "%d %d", &min, &max)
			c, err := d.Count(min, max)
			if err != nil {
				fmt.Println(wrapDiag(err.Error()))
				continue
			}
			fmt.Println(hostint.ToHostInt(c))
		default:
			fmt.Printf("unrecognized command %q\n", verb)
		}
	}
}

func trimLeft(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	return s
}
