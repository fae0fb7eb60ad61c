package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/fterank/server/dao"
	"github.com/dekarrin/fterank/server/middle"
	"github.com/dekarrin/fterank/server/result"
	"github.com/dekarrin/fterank/server/serr"
	"github.com/dekarrin/fterank/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that uses the API to log in a user with
// a username and password and return the auth token for that user.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.Endpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	user, err := api.Backend.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "user '%s': %s", loginData.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:  tok,
		UserID: user.ID.String(),
	}
	return result.Created(resp, "user '"+user.Username+"' successfully logged in")
}

// HTTPDeleteLogin returns a HandlerFunc that logs out the currently
// authenticated admin. fterankd has exactly one admin credential, so there
// is no other-user case to authorize against.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return api.Endpoint(api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	loggedOutUser, err := api.Backend.Logout(req.Context(), user.ID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out user: " + err.Error())
	}

	return result.NoContent("user '%s' successfully logged out", loggedOutUser.Username)
}
