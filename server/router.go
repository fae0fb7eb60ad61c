package server

import (
	"net/http"
	"time"

	"github.com/dekarrin/fterank/server/api"
	"github.com/dekarrin/fterank/server/dao"
	"github.com/dekarrin/fterank/server/middle"
	"github.com/go-chi/chi/v5"
)

// Router builds the full chi.Router for fterankd: the /api/v1 routes backed
// by apiInst, wrapped in panic recovery and, for routes that need it,
// required or optional JWT auth.
func Router(apiInst api.API, users dao.UserRepository, unauthDelay time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware(middle.DontPanic()))

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middle.OptionalAuth(users, apiInst.Secret, unauthDelay, dao.User{})))
			r.Get("/info", apiInst.HTTPGetInfo())
			r.Post("/login", apiInst.HTTPCreateLogin())
			r.Post("/compile", apiInst.HTTPCompile())
			r.Post("/minimize", apiInst.HTTPMinimize())
			r.Post("/rank", apiInst.HTTPRank())
			r.Post("/unrank", apiInst.HTTPUnrank())
			r.Get("/dfas/{digest}/count", apiInst.HTTPCount())
		})

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware(middle.RequireAuth(users, apiInst.Secret, unauthDelay, dao.User{})))
			r.Delete("/login", apiInst.HTTPDeleteLogin())
			r.Post("/tokens", apiInst.HTTPCreateToken())
			r.Post("/dfas", apiInst.HTTPRegisterDFA())
		})
	})

	return r
}

// chiMiddleware adapts a middle.Middleware (func(http.Handler) http.Handler)
// into the function.Middleware shape chi.Router.Use expects; the two are
// structurally identical, this exists only to satisfy the type checker.
func chiMiddleware(mw middle.Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}
