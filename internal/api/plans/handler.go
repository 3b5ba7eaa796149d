package plans

import (
	"net/http"

	"criaprompt-api/database"
	"criaprompt-api/internal/domain/plans"

	"github.com/gin-gonic/gin"
)

func ListPlans(c *gin.Context) {
	var list []plans.Plan
	if err := database.DB.
		Where("active = ?", true).
		Order("ordem_exibicao ASC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load plans"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetPlan(c *gin.Context) {
	var uri struct {
		ID uint `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	var plan plans.Plan
	if err := database.DB.First(&plan, uri.ID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}
	c.JSON(http.StatusOK, plan)
}
