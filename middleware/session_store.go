// File: middleware/session_store.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
)

// NewSessionStore returns a cookie store whose cookies expire with the
// browser session (no MaxAge).
func NewSessionStore(secure bool, keyPairs ...[]byte) cookie.Store {
	store := cookie.NewStore(keyPairs...)
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
