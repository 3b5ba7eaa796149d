package plans

import (
	"net/http"
	"strconv"

	"criaprompt-api/database"
	"criaprompt-api/internal/domain/plans"
	stripeinfra "criaprompt-api/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
)

// SyncPlansFromStripe upserts the plan catalog from the active recurring
// Stripe prices. Quotas come from price metadata (prompt_quota and
// model_quota, "-1" for unlimited).
func SyncPlansFromStripe(c *gin.Context) {
	prices, err := stripeinfra.Active.ListActiveRecurringPrices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Stripe prices", "details": err.Error()})
		return
	}

	synced := 0
	created := 0
	updated := 0
	skipped := 0

	for _, p := range prices {
		if !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
			skipped++
			continue
		}
		if p.Metadata != nil && p.Metadata["visible"] == "false" {
			skipped++
			continue
		}

		amount := float64(p.UnitAmount) / 100.0
		interval := localInterval(p.Recurring.Interval)

		displayName := p.Product.Name
		if v := p.Metadata["plan"]; v != "" {
			displayName = v
		}

		promptQuota, _ := strconv.Atoi(p.Metadata["prompt_quota"])
		modelQuota, _ := strconv.Atoi(p.Metadata["model_quota"])
		displayOrder, _ := strconv.Atoi(p.Metadata["display_order"])

		var existing plans.Plan
		err := database.DB.Where("stripe_price_id = ?", p.ID).First(&existing).Error

		if err != nil {
			priceID := p.ID
			plan := plans.Plan{
				Name:          displayName,
				Price:         amount,
				Interval:      interval,
				PromptQuota:   promptQuota,
				ModelQuota:    modelQuota,
				Active:        true,
				StripePriceID: &priceID,
				DisplayOrder:  displayOrder,
			}
			if err := database.DB.Create(&plan).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan", "details": err.Error()})
				return
			}
			created++
		} else {
			existing.Name = displayName
			existing.Price = amount
			existing.Interval = interval
			existing.PromptQuota = promptQuota
			existing.ModelQuota = modelQuota
			existing.DisplayOrder = displayOrder

			if err := database.DB.Save(&existing).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update plan", "details": err.Error()})
				return
			}
			updated++
		}

		synced++
	}

	c.JSON(http.StatusOK, gin.H{
		"synced":  synced,
		"created": created,
		"updated": updated,
		"skipped": skipped,
	})
}

func localInterval(i stripego.PriceRecurringInterval) string {
	switch i {
	case stripego.PriceRecurringIntervalYear:
		return plans.IntervalYearly
	default:
		return plans.IntervalMonthly
	}
}
