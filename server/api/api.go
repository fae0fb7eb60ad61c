// Package api provides the HTTP endpoints for fterankd: rank/unrank/count
// against an already-registered DFA, pattern compilation and minimization
// helpers, and an admin-only endpoint to register a new DFA into the cache.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/fterank/server/result"
	"github.com/dekarrin/fterank/server/serr"
	"github.com/dekarrin/fterank/server/tunas"
	"github.com/go-chi/chi/v5"
)

// PathPrefix is the prefix of all paths in the API. Routers should mount a
// sub-router that routes all requests to the API at this path.
const PathPrefix = "/api/v1"

func getURLParam(r *http.Request, key string) (string, error) {
	val := chi.URLParam(r, key)
	if val == "" {
		return "", fmt.Errorf("parameter %q does not exist", key)
	}
	return val, nil
}

// API holds parameters for endpoints needed to run and a service layer that
// performs most of the actual logic. Assign the result of its HTTP* methods
// as handlers to a router.
type API struct {
	// Backend is the service the API calls to perform requested actions.
	Backend tunas.Service

	// UnauthDelay is added before responding to an HTTP-401/403/500, to
	// deprioritize such requests and slow naive brute-force clients.
	UnauthDelay time.Duration

	// Secret signs the JWTs the admin login endpoint issues.
	Secret []byte
}

// EndpointFunc is the signature of a handler that produces a result.Result
// instead of writing directly to an http.ResponseWriter.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint adapts an EndpointFunc into an http.HandlerFunc: it recovers
// panics into an HTTP-500, marshals the result, logs it, and (for
// unauthorized/forbidden/server-error responses) sleeps UnauthDelay before
// writing.
func (api API) Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			log.Printf("ERROR endpoint result was never populated for %s %s", req.Method, req.URL.Path)
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := result.InternalServerError("could not marshal JSON response: " + err.Error())
			newResp.WriteResponse(w)
			newResp.Log(req)
			return
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(api.UnauthDelay)
		}

		r.WriteResponse(w)
		r.Log(req)
	}
}

// parseJSON decodes req's JSON body into v, which must be a pointer. The
// request body is replayed afterward so later middleware can still read it.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")
	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	if err := json.Unmarshal(bodyData, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		r.Log(req)
		return true
	}
	return false
}
