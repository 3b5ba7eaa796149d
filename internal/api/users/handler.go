package users

import (
	"errors"
	"net/http"

	"criaprompt-api/database"
	"criaprompt-api/internal/domain/entitlement"
	"criaprompt-api/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func GetCurrentUser(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var profile users.Profile
	if err := database.DB.First(&profile, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	ent, err := entitlement.Resolve(database.DB, userID)
	if err != nil {
		var cfgErr *entitlement.ConfigurationError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": cfgErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve entitlement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"perfil":      profile,
		"entitlement": ent,
	})
}

// GetEntitlement exposes the quota check so the frontend can disable
// creation buttons before the user even tries.
func GetEntitlement(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	kind := c.DefaultQuery("tipo", entitlement.ResourcePrompt)
	c.JSON(http.StatusOK, entitlement.CheckQuota(database.DB, userID, kind))
}
