package api

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// Auth guards the admin surface with HTTP basic auth. Leaving either
// credential empty disables authentication.
type Auth struct {
	username string
	password string
	realm    string
}

func InitAuth(username, password, realm string, log *zap.SugaredLogger) *Auth {
	auth := Auth{
		username: username,
		password: password,
		realm:    realm,
	}

	if auth.IsDisabled() {
		log.Warn("admin authentication disabled")
	}
	return &auth
}

func (auth *Auth) BasicAuth(nextHandler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var authenticated bool
		username, password, ok := r.BasicAuth()
		if ok {
			authenticated = auth.Authenticated(username, password)
		} else {
			// no credentials
			authenticated = auth.IsDisabled()
		}
		if !authenticated {
			w.Header().Set("WWW-Authenticate", fmt.Sprintf(`Basic realm="%s"`, auth.realm))
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, "Unauthorized")
			return
		}

		nextHandler(w, r)
	}
}

// Authenticated returns true if the credentials are correct.
func (auth *Auth) Authenticated(username, password string) bool {
	if auth.IsDisabled() {
		return true
	}
	return username == auth.username && password == auth.password
}

func (auth *Auth) IsDisabled() bool {
	return auth.username == "" || auth.password == ""
}
