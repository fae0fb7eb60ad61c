// Package minimize shells out to the OpenFst command-line tools
// (fstcompile, fstminimize, fstprint) to Hopcroft-minimize an AT&T
// transition listing, the same external-tool pipeline the original FTE
// project used (spec §4.7) rather than a from-scratch minimization
// algorithm. The subprocess plumbing follows aretext's shellcmd package:
// exec.CommandContext, explicit stdin/stdout/stderr wiring, and context
// cancellation rather than a hardcoded timeout.
package minimize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/google/uuid"
)

// Tools names the three OpenFst binaries the pipeline invokes. Callers
// that have them installed under non-default names (or want to stub them
// out in tests) can override any of the three; the zero value uses the
// binaries' conventional names, resolved via PATH.
type Tools struct {
	FSTCompile  string
	FSTMinimize string
	FSTPrint    string
}

func (t Tools) withDefaults() Tools {
	if t.FSTCompile == "" {
		t.FSTCompile = "fstcompile"
	}
	if t.FSTMinimize == "" {
		t.FSTMinimize = "fstminimize"
	}
	if t.FSTPrint == "" {
		t.FSTPrint = "fstprint"
	}
	return t
}

// Minimize runs attText through fstcompile | fstminimize | fstprint and
// returns the minimized AT&T transition listing. Each stage writes its
// output to a uuid-named temporary file (OpenFst's tools are not pipe
// transparent for binary FST data on every platform) in dir (os.TempDir()
// if dir is empty); all four temp files are removed before Minimize
// returns, on both the success and the error path.
func Minimize(ctx context.Context, attText string, dir string, tools Tools) (string, error) {
	tools = tools.withDefaults()
	if dir == "" {
		dir = os.TempDir()
	}

	base := uuid.NewString()
	inTxt := filepath.Join(dir, base+".in.att.txt")
	inFst := filepath.Join(dir, base+".in.fst")
	outFst := filepath.Join(dir, base+".min.fst")
	outTxt := filepath.Join(dir, base+".min.att.txt")

	files := []string{inTxt, inFst, outFst, outTxt}
	defer func() {
		for _, f := range files {
			os.Remove(f)
		}
	}()

	if err := os.WriteFile(inTxt, []byte(attText), 0o600); err != nil {
		return "", dfaerr.New("writing temporary input listing", dfaerr.ErrMinimization, err)
	}

	if err := runTool(ctx, tools.FSTCompile, []string{"--acceptor", "--keep_isymbols=false", "--keep_osymbols=false", inTxt, inFst}, nil); err != nil {
		return "", err
	}

	if err := runTool(ctx, tools.FSTMinimize, []string{inFst, outFst}, nil); err != nil {
		return "", err
	}

	var printed bytes.Buffer
	if err := runTool(ctx, tools.FSTPrint, []string{"--acceptor", outFst}, &printed); err != nil {
		return "", err
	}
	// fstprint can also be told to write straight to outTxt, but capturing
	// its stdout avoids a fifth temp file read just to hand the text back.
	_ = outTxt

	return printed.String(), nil
}

// runTool runs name with args, wiring stdout to capture if non-nil and
// stderr to an in-memory buffer so a failure's message can be attached to
// the returned error instead of being lost to the inherited terminal.
func runTool(ctx context.Context, name string, args []string, capture *bytes.Buffer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if capture != nil {
		cmd.Stdout = capture
	}

	if err := cmd.Run(); err != nil {
		return dfaerr.New(fmt.Sprintf("running %s: %s", name, stderr.String()), dfaerr.ErrMinimization, err)
	}
	return nil
}
