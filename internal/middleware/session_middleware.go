package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCartKey = "session_cart_id"

	sessionCookieMaxAge = 30 * 24 * 60 * 60
)

// SessionCart makes sure every visitor carries a cart session id cookie so
// anonymous carts survive until sign-in.
func SessionCart(cookieName string, secure bool) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = "sessionCartId"
	}

	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id, sessionCookieMaxAge, "/", "", secure, true)

			GetLoggerFromContext(c).Debug("Issued cart session", map[string]interface{}{
				"session_cart_id": id,
			})
		}

		c.Set(SessionCartKey, id)
		c.Next()
	}
}

// GetSessionCartID returns the visitor's cart session id, or "".
func GetSessionCartID(c *gin.Context) string {
	return c.GetString(SessionCartKey)
}
