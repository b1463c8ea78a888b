package internal

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const cookieKey = "quizrunner"

// CookieGenerator assigns every browser a uuid cookie. The uuid is the
// player id that keys the run registry.
type CookieGenerator struct {
	next func(w http.ResponseWriter, r *http.Request)
	log  *zap.SugaredLogger
}

func InitCookieGenerator(next func(w http.ResponseWriter, r *http.Request), log *zap.SugaredLogger) *CookieGenerator {
	return &CookieGenerator{next: next, log: log}
}

func (s CookieGenerator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(cookieKey); err != nil {
		id, _ := uuid.NewRandom()
		cookie := &http.Cookie{
			Name:  cookieKey,
			Value: id.String(),
			Path:  "/",
		}
		s.log.Debugf("cookie not found - generating new cookie %s", id)
		http.SetCookie(w, cookie)
	}
	s.next(w, r)
}

// PlayerIDFromRequest extracts the player id assigned by the cookie
// middleware, or "" if the browser has none yet.
func PlayerIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(cookieKey)
	if err != nil {
		return ""
	}
	return cookie.Value
}
