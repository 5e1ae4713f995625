package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/session"
)

const desktopKey = "desktop"

// Sessions resolves bearer tokens to desktops
type Sessions interface {
	Get(token string) (*session.Desktop, bool)
}

// Token extracts the bearer token from the Authorization header, or from
// the token query parameter for WebSocket upgrades.
func Token(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return c.Query("token")
}

// RequireDesktop rejects requests without a live session token and stores
// the session's desktop on the context.
func RequireDesktop(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := Token(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		desktop, ok := sessions.Get(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": session.ErrUnauthorized.Error()})
			return
		}

		c.Set(desktopKey, desktop)
		c.Next()
	}
}

// Desktop returns the desktop stored by RequireDesktop
func Desktop(c *gin.Context) *session.Desktop {
	d, _ := c.MustGet(desktopKey).(*session.Desktop)
	return d
}
