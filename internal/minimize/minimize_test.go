package minimize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStubTool writes an executable shell script at dir/name that prints
// stdoutBody to stdout and exits with exitCode.
func writeStubTool(t *testing.T, dir, name, stdoutBody string, exitCode int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n"
	if stdoutBody != "" {
		script += "cat <<'EOF'\n" + stdoutBody + "\nEOF\n"
	}
	script += "exit " + itoa(exitCode) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

func TestMinimize_HappyPath(t *testing.T) {
	dir := t.TempDir()
	compile := writeStubTool(t, dir, "fstcompile", "", 0)
	minimize := writeStubTool(t, dir, "fstminimize", "", 0)
	printed := "0\t1\t2\t2\n1\n"
	print := writeStubTool(t, dir, "fstprint", printed, 0)

	got, err := Minimize(context.Background(), "0\t1\t2\t2\n1\n", dir, Tools{
		FSTCompile:  compile,
		FSTMinimize: minimize,
		FSTPrint:    print,
	})
	require.NoError(t, err)
	assert.Equal(t, printed, got)
}

func TestMinimize_ToolFailureIsWrapped(t *testing.T) {
	dir := t.TempDir()
	compile := writeStubTool(t, dir, "fstcompile", "", 1)

	_, err := Minimize(context.Background(), "0\t1\t2\t2\n1\n", dir, Tools{FSTCompile: compile})
	assert.ErrorIs(t, err, dfaerr.ErrMinimization)
}

func TestMinimize_CleansUpTempFilesOnFailure(t *testing.T) {
	dir := t.TempDir()
	compile := writeStubTool(t, dir, "fstcompile", "", 1)

	before, err := os.ReadDir(dir)
	require.NoError(t, err)
	baseline := len(before)

	_, err = Minimize(context.Background(), "0\t1\t2\t2\n1\n", dir, Tools{FSTCompile: compile})
	require.Error(t, err)

	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	// only the stub tool script itself should remain; every temp file
	// Minimize created must have been removed.
	assert.Equal(t, baseline, len(after))
}
