package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionUserKey is the session value holding the authenticated username.
const SessionUserKey = "user"

// RequireSession gates ledger routes behind an authenticated session.
// Requests without one are redirected to the login view and aborted
// before any handler runs.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		username, ok := session.Get(SessionUserKey).(string)
		if !ok || username == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(SessionUserKey, username)
	}
}

// CurrentUser returns the username set by RequireSession.
func CurrentUser(c *gin.Context) string {
	return c.GetString(SessionUserKey)
}
