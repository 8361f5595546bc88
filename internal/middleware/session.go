package middleware

import (
	"github.com/gin-gonic/gin"

	"arbor/internal/uuid"
)

const (
	// SessionHeader carries the client's session identifier. Navigation
	// state is persisted per session.
	SessionHeader = "X-Session-ID"

	sessionIDKey = "sessionID"
)

// Session returns a Gin middleware that reads the session ID from the
// request header, issuing a fresh one when absent or malformed. The
// effective ID is echoed back so clients can adopt it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" || !uuid.IsValid(sessionID) {
			sessionID = uuid.New()
		}
		c.Set(sessionIDKey, sessionID)
		c.Writer.Header().Set(SessionHeader, sessionID)
		c.Next()
	}
}

// SessionID extracts the effective session ID from the Gin context.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
