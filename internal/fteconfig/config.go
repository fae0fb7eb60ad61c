// Package fteconfig loads fterank's TOML configuration file format: a
// small typed struct with "toml" tags, decoded with BurntSushi/toml.
package fteconfig

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is fterank's top-level configuration, loadable from a TOML file
// and then overlaid with FTERANK_*-prefixed environment variables and,
// ultimately, CLI flags (highest precedence, applied by the caller).
type Config struct {
	// Listen is the bind address the fterankd REST server listens on, in
	// ADDRESS:PORT or :PORT form.
	Listen string `toml:"listen"`

	// TokenSecret signs the admin JWTs fterankd issues. If empty, a random
	// secret is generated at startup and all tokens become invalid on
	// restart - fine for local development, unacceptable in production.
	TokenSecret string `toml:"token_secret"`

	// CacheDir is the directory the sqlite-backed DFA cache
	// (internal/dfacache) stores its database file in. Empty disables
	// the persistent cache: every compile request is recomputed.
	CacheDir string `toml:"cache_dir"`

	// DefaultMaxLen is the max_len used for a compile/build request that
	// does not specify one explicitly.
	DefaultMaxLen uint `toml:"default_max_len"`

	// MaxRegexStates caps the number of NFA states the regex front end
	// (internal/regexfe) will allocate for a single pattern before
	// refusing to compile it further.
	MaxRegexStates int `toml:"max_regex_states"`

	// Minimize holds the external OpenFst tool configuration used by
	// internal/minimize.
	Minimize MinimizeConfig `toml:"minimize"`

	// UnauthDelayMillis is additional latency added before responding to
	// an unauthenticated or unauthorized admin request, the same
	// anti-flood measure server/config.go's Config.UnauthDelayMillis
	// implements.
	UnauthDelayMillis int `toml:"unauth_delay_millis"`
}

// MinimizeConfig names the OpenFst binaries internal/minimize invokes.
// Empty fields fall back to the conventional binary names resolved via
// PATH (see minimize.Tools.withDefaults).
type MinimizeConfig struct {
	FSTCompilePath  string `toml:"fstcompile_path"`
	FSTMinimizePath string `toml:"fstminimize_path"`
	FSTPrintPath    string `toml:"fstprint_path"`
}

// LoadFile decodes a TOML config file at path into a Config. A missing
// file is not an error: LoadFile returns the zero Config, and the caller
// is expected to apply FillDefaults.
func LoadFile(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return cfg, nil
}

// Environment variable names fterank recognizes, overlaid onto a Config
// already loaded from file (see ApplyEnv).
const (
	EnvListen            = "FTERANK_LISTEN_ADDRESS"
	EnvTokenSecret       = "FTERANK_TOKEN_SECRET"
	EnvCacheDir          = "FTERANK_CACHE_DIR"
	EnvDefaultMaxLen     = "FTERANK_DEFAULT_MAX_LEN"
	EnvMaxRegexStates    = "FTERANK_MAX_REGEX_STATES"
	EnvUnauthDelayMillis = "FTERANK_UNAUTH_DELAY_MILLIS"
)

// ApplyEnv overlays any set FTERANK_* environment variables onto cfg,
// overriding whatever was loaded from a config file. Malformed numeric
// overrides are reported as an error rather than silently ignored.
func ApplyEnv(cfg Config) (Config, error) {
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv(EnvTokenSecret); v != "" {
		cfg.TokenSecret = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.CacheDir = v
	}
	if v := os.Getenv(EnvDefaultMaxLen); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDefaultMaxLen, err)
		}
		cfg.DefaultMaxLen = uint(n)
	}
	if v := os.Getenv(EnvMaxRegexStates); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvMaxRegexStates, err)
		}
		cfg.MaxRegexStates = n
	}
	if v := os.Getenv(EnvUnauthDelayMillis); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvUnauthDelayMillis, err)
		}
		cfg.UnauthDelayMillis = n
	}
	return cfg, nil
}

// FillDefaults returns a copy of cfg with zero-valued fields set to their
// defaults, the same shape as server.Config.FillDefaults in the server
// this package's caller is adapted from.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.Listen == "" {
		out.Listen = "localhost:8080"
	}
	if out.DefaultMaxLen == 0 {
		out.DefaultMaxLen = 64
	}
	if out.MaxRegexStates == 0 {
		out.MaxRegexStates = 100_000
	}
	if out.UnauthDelayMillis == 0 {
		out.UnauthDelayMillis = 1000
	}
	return out
}
