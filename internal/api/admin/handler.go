package admin

import (
	"net/http"

	"criaprompt-api/database"
	"criaprompt-api/internal/domain/billing"
	"criaprompt-api/internal/domain/stats"
	"criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func AdminDashboard(c *gin.Context) {
	var totalUsers int64
	var activeSubs int64
	var totalRevenue float64

	database.DB.Model(&users.Profile{}).Count(&totalUsers)
	database.DB.Model(&subscriptions.Subscription{}).
		Where("status IN ?", []string{subscriptions.StatusActive, subscriptions.StatusTrialing}).
		Count(&activeSubs)
	database.DB.Model(&stats.DailyStat{}).
		Select("COALESCE(SUM(receita_total), 0)").
		Scan(&totalRevenue)

	c.JSON(http.StatusOK, gin.H{
		"total_usuarios":     totalUsers,
		"assinaturas_ativas": activeSubs,
		"receita_total":      totalRevenue,
	})
}

func ListAllTransactions(c *gin.Context) {
	var txs []billing.Transaction
	if err := database.DB.
		Order("created_at DESC").
		Limit(200).
		Find(&txs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load transactions"})
		return
	}
	c.JSON(http.StatusOK, txs)
}
