package stripewebhooks

import (
	"errors"
	"time"

	"criaprompt-api/config"
	subs "criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"
	stripeinfra "criaprompt-api/internal/infra/stripe"

	stripego "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionUpdated applies Stripe's status onto the matching local
// row. The bool result tells the caller whether a row matched so unmatched
// refs get logged instead of silently vanishing.
func handleSubscriptionUpdated(db *gorm.DB, ssub *stripego.Subscription) (matched bool, err error) {
	if ssub.ID == "" {
		return false, nil
	}

	var sub subs.Subscription
	if err := db.Where("stripe_subscription_id = ?", ssub.ID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	status := stripeinfra.LocalStatus(ssub.Status)

	updates := map[string]interface{}{
		"status":               status,
		"cancel_at_period_end": ssub.CancelAtPeriodEnd,
	}
	if ssub.CurrentPeriodEnd > 0 {
		updates["ends_at"] = time.Unix(ssub.CurrentPeriodEnd, 0)
	}
	if ssub.TrialEnd > 0 {
		updates["trial_ends_at"] = time.Unix(ssub.TrialEnd, 0)
	}

	if err := db.Model(&subs.Subscription{}).
		Where("id = ?", sub.ID).
		Updates(updates).Error; err != nil {
		return true, err
	}

	if status == subs.StatusCanceled {
		if err := db.Model(&users.Profile{}).
			Where("id = ?", sub.UserID).
			Update("plano_atual_id", config.FreePlanID).Error; err != nil {
			return true, err
		}
	}
	return true, nil
}
