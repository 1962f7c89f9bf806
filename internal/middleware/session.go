package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Flash session cookie and context key.
const (
	SessionCookieName   = "records_sid"
	ContextKeySessionID = "session_id"
)

// FlashSession assigns every browser a random session id, kept in an HttpOnly cookie,
// under which flash notices are stored between requests.
func FlashSession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(ContextKeySessionID, sid)
		c.Next()
	}
}

// SessionID returns the flash session id set by FlashSession, or "" outside it.
func SessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
