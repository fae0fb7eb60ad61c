/*
Fterankd starts a long-running REST server exposing fterank's compile,
minimize, rank, unrank, and count operations over HTTP, backed by a
persistent cache of compiled DFAs.

Usage:

	fterankd [flags]
	fterankd [flags] -l [[ADDRESS]:PORT]

Once started, fterankd listens for HTTP requests under /api/v1 and responds
using JSON. By default it listens on localhost:8080; this can be changed
with the --listen/-l flag or the FTERANK_LISTEN_ADDRESS environment
variable.

If a JWT token secret is not given, one is generated at startup. As a
consequence all tokens become invalid as soon as the server restarts; this
is fine for local development but must be set explicitly (via --secret,
FTERANK_TOKEN_SECRET, or the config file) for any long-lived deployment.

The flags are:

	-v, --version
		Give the current version of fterankd and then exit.

	-c, --config FILE
		Load configuration from the given TOML file. Defaults to
		"fterankd.toml" in the current working directory; a missing file
		is not an error.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Overrides the config file and FTERANK_LISTEN_ADDRESS.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. Overrides the
		config file and FTERANK_TOKEN_SECRET.

	--db DRIVER[:PARAMS]
		Use the given DB connection string for the admin credential store.
		DRIVER must be one of: inmem, sqlite. sqlite needs the path to a
		data directory, e.g. sqlite:path/to/db_dir. Defaults to inmem.

	--cache FILE
		Path to the sqlite file backing the compiled-DFA cache
		(internal/dfacache). Defaults to "fterank-cache.db" in the current
		working directory.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/dekarrin/fterank/internal/dfacache"
	"github.com/dekarrin/fterank/internal/fteconfig"
	"github.com/dekarrin/fterank/internal/minimize"
	"github.com/dekarrin/fterank/internal/version"
	"github.com/dekarrin/fterank/server"
	"github.com/dekarrin/fterank/server/api"
	"github.com/dekarrin/fterank/server/dao"
	"github.com/dekarrin/fterank/server/serr"
	"github.com/dekarrin/fterank/server/tunas"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad arguments or flags were given.
	ExitUsageError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the server.
	ExitInitError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of fterankd and then exit.")
	flagConfig  = pflag.StringP("config", "c", "fterankd.toml", "Load configuration from the given TOML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string for the admin credential store.")
	flagCache   = pflag.String("cache", "fterank-cache.db", "Path to the sqlite file backing the compiled-DFA cache.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (fterank v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	cfg, err := fteconfig.LoadFile(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(ExitInitError)
	}
	cfg, err = fteconfig.ApplyEnv(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(ExitInitError)
	}
	if pflag.Lookup("listen").Changed {
		cfg.Listen = *flagListen
	}
	if pflag.Lookup("secret").Changed {
		cfg.TokenSecret = *flagSecret
	}
	cfg = cfg.FillDefaults()

	addr, port, err := splitListenAddr(cfg.Listen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(ExitUsageError)
	}

	secret := resolveSecret(cfg.TokenSecret)

	dbConnStr := "inmem"
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	dbCfg, err := server.ParseDBConnString(dbConnStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(ExitUsageError)
	}
	store, err := dbCfg.Connect()
	if err != nil {
		log.Fatalf("FATAL could not connect to DB: %s", err.Error())
	}
	defer store.Close()

	cacheFile := *flagCache
	if !pflag.Lookup("cache").Changed && cfg.CacheDir != "" {
		cacheFile = cfg.CacheDir
	}
	cache, err := dfacache.Open(cacheFile)
	if err != nil {
		log.Fatalf("FATAL could not open DFA cache: %s", err.Error())
	}
	defer cache.Close()

	svc := tunas.Service{
		DB: store,
		FTE: tunas.FTE{
			Cache: cache,
			MinimizeTools: minimize.Tools{
				FSTCompile:  cfg.Minimize.FSTCompilePath,
				FSTMinimize: cfg.Minimize.FSTMinimizePath,
				FSTPrint:    cfg.Minimize.FSTPrintPath,
			},
			DefaultMaxLen:    cfg.DefaultMaxLen,
			DefaultMaxStates: cfg.MaxRegexStates,
		},
	}

	// immediately create the admin user so there is someone to log in as.
	ctx := context.Background()
	_, err = svc.CreateUser(ctx, "admin", "password", "", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(ExitInitError)
	}
	if !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}

	apiInst := api.API{
		Backend:     svc,
		UnauthDelay: server.Config{UnauthDelayMillis: cfg.UnauthDelayMillis}.UnauthDelay(),
		Secret:      secret,
	}

	router := server.Router(apiInst, store.Users(), apiInst.UnauthDelay)

	listenAddr := fmt.Sprintf("%s:%d", addr, port)
	log.Printf("INFO  Starting fterankd %s on %s...", version.ServerCurrent, listenAddr)
	if err := http.ListenAndServe(listenAddr, router); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func splitListenAddr(listenAddr string) (addr string, port int, err error) {
	bindParts := strings.SplitN(listenAddr, ":", 2)
	if len(bindParts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}
	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", bindParts[1])
	}
	return bindParts[0], port, nil
}

func resolveSecret(configured string) []byte {
	if configured != "" {
		secret := []byte(configured)
		for len(secret) < server.MinSecretSize {
			secret = append(secret, secret...)
		}
		if len(secret) > server.MaxSecretSize {
			secret = secret[:server.MaxSecretSize]
		}
		return secret
	}

	secret := make([]byte, server.MaxSecretSize)
	if _, err := rand.Read(secret); err != nil {
		log.Fatalf("FATAL could not generate token secret: %s", err.Error())
	}
	log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	return secret
}
