package middleware

import (
	"net/http"

	constants "RescueHub/pkg/constant"
	"RescueHub/pkg/response"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Identity resolves the caller's account id and role and stores them on the
// context. The session is checked first; otherwise the trusted gateway
// headers are used. Credentials themselves are validated upstream — this
// service only consumes the resolved identity.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, role := identityFromSession(c)
		if accountID == "" {
			accountID = c.GetHeader(constants.HeaderAccountID)
			role = c.GetHeader(constants.HeaderRole)
		}

		if accountID != "" && constants.ValidRole(role) {
			c.Set(constants.AccountIDField, accountID)
			c.Set(constants.RoleField, role)
		}
		c.Next()
	}
}

func identityFromSession(c *gin.Context) (string, string) {
	session := sessions.Default(c)
	accountID, _ := session.Get(constants.SessionAccountID).(string)
	role, _ := session.Get(constants.SessionRole).(string)
	return accountID, role
}

// RequireAuth aborts when no identity was resolved.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(constants.AccountIDField); !exists {
			response.FailWithStatus(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole gates a route group on one of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(constants.RoleField)
		roleStr, _ := role.(string)
		if roleStr == "" {
			response.FailWithStatus(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		for _, allowed := range roles {
			if roleStr == allowed {
				c.Next()
				return
			}
		}
		response.FailWithStatus(c, http.StatusForbidden, "insufficient role")
		c.Abort()
	}
}
