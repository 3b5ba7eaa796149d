package stripewebhooks

import (
	"errors"
	"log"
	"time"

	"criaprompt-api/config"
	subs "criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"

	stripego "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionDeleted forces the local row to canceled as of now and
// drops the user back onto the free plan.
func handleSubscriptionDeleted(db *gorm.DB, ssub *stripego.Subscription) error {
	if ssub.ID == "" {
		return nil
	}

	var sub subs.Subscription
	if err := db.Where("stripe_subscription_id = ?", ssub.ID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ subscription.deleted: no local row for %s", ssub.ID)
			return nil
		}
		return err
	}

	now := time.Now()
	if err := db.Model(&subs.Subscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]interface{}{
			"status":               subs.StatusCanceled,
			"ends_at":              now,
			"cancel_at_period_end": false,
		}).Error; err != nil {
		return err
	}

	return db.Model(&users.Profile{}).
		Where("id = ?", sub.UserID).
		Update("plano_atual_id", config.FreePlanID).Error
}
