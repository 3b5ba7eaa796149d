package middleware

import (
	"net/http"

	"criaprompt-api/database"
	"criaprompt-api/internal/domain/entitlement"

	"github.com/gin-gonic/gin"
)

// RequireQuota guards resource-creation routes with the advisory quota
// check. Denials return the full check result so the frontend can show the
// current usage against the limit. The check fails open by design, so this
// middleware never blocks on internal errors.
func RequireQuota(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
			return
		}

		result := entitlement.CheckQuota(database.DB, userID, kind)
		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, result)
			return
		}
		c.Next()
	}
}
