package fteconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_MissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadFile_DecodesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fterank.toml")
	contents := `
listen = "0.0.0.0:9000"
default_max_len = 32
max_regex_states = 500

[minimize]
fstcompile_path = "/opt/openfst/bin/fstcompile"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Listen)
	assert.Equal(t, uint(32), cfg.DefaultMaxLen)
	assert.Equal(t, 500, cfg.MaxRegexStates)
	assert.Equal(t, "/opt/openfst/bin/fstcompile", cfg.Minimize.FSTCompilePath)
}

func TestApplyEnv_OverridesFileValues(t *testing.T) {
	t.Setenv(EnvListen, "127.0.0.1:1234")
	t.Setenv(EnvDefaultMaxLen, "16")

	cfg, err := ApplyEnv(Config{Listen: "localhost:8080", DefaultMaxLen: 64})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1234", cfg.Listen)
	assert.Equal(t, uint(16), cfg.DefaultMaxLen)
}

func TestApplyEnv_MalformedNumberIsError(t *testing.T) {
	t.Setenv(EnvDefaultMaxLen, "not-a-number")
	_, err := ApplyEnv(Config{})
	assert.Error(t, err)
}

func TestFillDefaults(t *testing.T) {
	cfg := Config{}.FillDefaults()
	assert.Equal(t, "localhost:8080", cfg.Listen)
	assert.Equal(t, uint(64), cfg.DefaultMaxLen)
	assert.Equal(t, 100_000, cfg.MaxRegexStates)
	assert.Equal(t, 1000, cfg.UnauthDelayMillis)
}
