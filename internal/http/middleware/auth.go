package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/seobrain/internal/platform/logger"
)

// AdminAuth guards the decision API with a static bearer token. An empty
// token disables the check.
type AdminAuth struct {
	log   *logger.Logger
	token string
}

func NewAdminAuth(log *logger.Logger, token string) *AdminAuth {
	return &AdminAuth{log: log.With("middleware", "AdminAuth"), token: strings.TrimSpace(token)}
}

func (a *AdminAuth) Enabled() bool { return a != nil && a.token != "" }

func (a *AdminAuth) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled() {
			c.Next()
			return
		}
		got := extractBearer(c)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(a.token)) != 1 {
			a.log.Warn("rejected admin request", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
