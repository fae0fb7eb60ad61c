package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/fterank/internal/dfacache"
	"github.com/dekarrin/fterank/internal/dfaerr"
	"github.com/dekarrin/fterank/internal/hostint"
	"github.com/dekarrin/fterank/server/dao"
	"github.com/dekarrin/fterank/server/middle"
	"github.com/dekarrin/fterank/server/result"
)

// HTTPRegisterDFA returns a HandlerFunc that compiles and/or registers a DFA
// in the cache, returning its digest for use by rank/unrank/count. Only an
// admin user may register a DFA.
func (api API) HTTPRegisterDFA() http.HandlerFunc {
	return api.Endpoint(api.epRegisterDFA)
}

func (api API) epRegisterDFA(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)
	if user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) register DFA: forbidden", user.Username, user.Role)
	}

	var body RegisterDFARequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.AttText == "" && body.Pattern == "" {
		return result.BadRequest("one of att_text or pattern must be set", "neither att_text nor pattern given")
	}
	if body.AttText != "" && body.Pattern != "" {
		return result.BadRequest("only one of att_text or pattern may be set", "both att_text and pattern given")
	}
	if body.MaxLen == 0 {
		return result.BadRequest("max_len: property is empty or missing from request", "empty max_len")
	}

	var digest string
	var err error
	if body.Pattern != "" {
		digest, err = api.Backend.RegisterPattern(req.Context(), body.Pattern, body.MaxLen, 0, body.Minify)
	} else {
		attText := body.AttText
		if body.Minify {
			attText, err = api.Backend.MinimizeATT(req.Context(), attText)
			if err != nil {
				return regexErrResult(err)
			}
		}
		digest, err = api.Backend.RegisterDFA(req.Context(), attText, body.MaxLen)
	}
	if err != nil {
		return regexErrResult(err)
	}

	resp := RegisterDFAResponse{Digest: digest, MaxLen: body.MaxLen}
	return result.Created(resp, "user '%s' registered DFA %s", user.Username, digest)
}

// HTTPCompile returns a HandlerFunc that compiles a pattern to an AT&T
// listing without registering it anywhere.
func (api API) HTTPCompile() http.HandlerFunc {
	return api.Endpoint(api.epCompile)
}

func (api API) epCompile(req *http.Request) result.Result {
	var body CompileRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.Pattern == "" {
		return result.BadRequest("pattern: property is empty or missing from request", "empty pattern")
	}

	attText, err := api.Backend.CompilePattern(body.Pattern, body.MaxRegexStates)
	if err != nil {
		return regexErrResult(err)
	}
	return result.OK(CompileResponse{AttText: attText}, "compiled pattern %q", body.Pattern)
}

// HTTPMinimize returns a HandlerFunc that runs the OpenFst minimization
// pipeline over an already-compiled AT&T listing.
func (api API) HTTPMinimize() http.HandlerFunc {
	return api.Endpoint(api.epMinimize)
}

func (api API) epMinimize(req *http.Request) result.Result {
	var body MinimizeRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.AttText == "" {
		return result.BadRequest("att_text: property is empty or missing from request", "empty att_text")
	}

	minified, err := api.Backend.MinimizeATT(req.Context(), body.AttText)
	if err != nil {
		if errors.Is(err, dfaerr.ErrMinimization) {
			return result.InternalServerError(err.Error())
		}
		return regexErrResult(err)
	}
	return result.OK(MinimizeResponse{AttText: minified}, "minimized AT&T listing")
}

// HTTPRank returns a HandlerFunc that ranks a word against a registered DFA.
func (api API) HTTPRank() http.HandlerFunc {
	return api.Endpoint(api.epRank)
}

func (api API) epRank(req *http.Request) result.Result {
	var body RankRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.Digest == "" {
		return result.BadRequest("digest: property is empty or missing from request", "empty digest")
	}

	rank, err := api.Backend.Rank(req.Context(), body.Digest, []byte(body.Word))
	if err != nil {
		return dfaErrResult(err)
	}
	return result.OK(RankResponse{Rank: hostint.ToHostInt(rank)}, "ranked word against DFA %s", body.Digest)
}

// HTTPUnrank returns a HandlerFunc that unranks an integer against a
// registered DFA.
func (api API) HTTPUnrank() http.HandlerFunc {
	return api.Endpoint(api.epUnrank)
}

func (api API) epUnrank(req *http.Request) result.Result {
	var body UnrankRequest
	if err := parseJSON(req, &body); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if body.Digest == "" {
		return result.BadRequest("digest: property is empty or missing from request", "empty digest")
	}
	rank, err := hostint.FromHostInt(body.Rank)
	if err != nil {
		return result.BadRequest("rank: "+err.Error(), "rank: %s", err.Error())
	}

	word, err := api.Backend.Unrank(req.Context(), body.Digest, rank)
	if err != nil {
		return dfaErrResult(err)
	}
	return result.OK(UnrankResponse{Word: string(word)}, "unranked against DFA %s", body.Digest)
}

// HTTPCount returns a HandlerFunc that counts the words of a registered
// DFA's language in a given length range.
func (api API) HTTPCount() http.HandlerFunc {
	return api.Endpoint(api.epCount)
}

func (api API) epCount(req *http.Request) result.Result {
	digest, err := getURLParam(req, "digest")
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	var body CountRequest
	body.Digest = digest
	if ctype := req.Header.Get("Content-Type"); ctype != "" {
		if err := parseJSON(req, &body); err != nil {
			return result.BadRequest(err.Error(), err.Error())
		}
		body.Digest = digest
	}

	count, err := api.Backend.Count(req.Context(), body.Digest, body.MinLen, body.MaxLen)
	if err != nil {
		return dfaErrResult(err)
	}
	return result.OK(CountResponse{Count: hostint.ToHostInt(count)}, "counted DFA %s", body.Digest)
}

// dfaErrResult maps an error from internal/dfa/internal/dfacache's rank,
// unrank, and count operations to the appropriate HTTP status.
func dfaErrResult(err error) result.Result {
	if errors.Is(err, dfacache.ErrNotFound) {
		return result.NotFound()
	}
	if errors.Is(err, dfaerr.ErrLengthExceeded) ||
		errors.Is(err, dfaerr.ErrSymbolOutOfAlphabet) ||
		errors.Is(err, dfaerr.ErrNotInLanguage) ||
		errors.Is(err, dfaerr.ErrRankOutOfRange) {
		return result.BadRequest(err.Error(), err.Error())
	}
	return result.InternalServerError(err.Error())
}

// regexErrResult maps an error from compiling or registering a pattern to
// the appropriate HTTP status.
func regexErrResult(err error) result.Result {
	if errors.Is(err, dfaerr.ErrRegexCompile) || errors.Is(err, dfaerr.ErrParse) {
		return result.BadRequest(err.Error(), err.Error())
	}
	if errors.Is(err, dfaerr.ErrMinimization) {
		return result.InternalServerError(err.Error())
	}
	return result.InternalServerError(err.Error())
}
