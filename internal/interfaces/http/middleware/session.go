// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookieName = "cart_session"

// GuestSession guarantees every request carries a guest session id, used
// to key guest carts in Redis. Authenticated requests keep their cookie so
// a login can still merge the guest cart.
func GuestSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookieName)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(sessionCookieName, sessionID, 86400, "/", "", false, true)
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}

// GetSessionIDFromContext extracts the guest session id from gin context
func GetSessionIDFromContext(c *gin.Context) string {
	sessionID, exists := c.Get("session_id")
	if !exists {
		return ""
	}
	return sessionID.(string)
}
