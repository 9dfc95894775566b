package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDKey is where authRequired stashes the resolved user id.
const userIDKey = "userID"

// corsMiddleware allows the single configured frontend origin with
// credentials, so the browser sends the session cookie cross-origin.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	origin := s.config.CORSAllowedOrigin
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// authRequired resolves the session cookie to a user id before the request
// reaches a gated handler. Anything short of a live session gets 401.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(s.config.SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}

		userID, err := s.sessions.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// currentUserID reads the id set by authRequired.
func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// setSessionCookie attaches the session token to the response. Lifetime
// follows the session TTL so cookie and Redis key expire together.
func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(s.config.SessionCookieName, token, int(s.config.SessionTTL.Seconds()), "/", "", s.config.SecureCookies, true)
}

// clearSessionCookie tells the browser to drop the cookie immediately.
func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetCookie(s.config.SessionCookieName, "", -1, "/", "", s.config.SecureCookies, true)
}
