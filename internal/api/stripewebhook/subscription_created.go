package stripewebhooks

import (
	"errors"
	"log"
	"strconv"
	"time"

	subs "criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"
	stripeinfra "criaprompt-api/internal/infra/stripe"

	stripego "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// handleSubscriptionCreated inserts the local row for a Stripe-side
// subscription, typically after a hosted checkout. Duplicate deliveries
// dedup on the Stripe subscription id.
func handleSubscriptionCreated(db *gorm.DB, ssub *stripego.Subscription) error {
	if ssub.ID == "" {
		return nil
	}

	var existing subs.Subscription
	err := db.Where("stripe_subscription_id = ?", ssub.ID).First(&existing).Error
	if err == nil {
		return nil // already reconciled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	userID := uintFromMetadata(ssub.Metadata, "user_id")
	planID := uintFromMetadata(ssub.Metadata, "plan_id")
	if userID == 0 || planID == 0 {
		// Cannot reconcile without both refs; retrying will not grow them.
		log.Printf("⚠️ subscription.created %s missing user_id/plan_id metadata", ssub.ID)
		return nil
	}

	now := time.Now()
	sub := subs.Subscription{
		UserID:               userID,
		PlanID:               planID,
		Status:               stripeinfra.LocalStatus(ssub.Status),
		StripeSubscriptionID: &ssub.ID,
		StartedAt:            now,
		CancelAtPeriodEnd:    ssub.CancelAtPeriodEnd,
	}
	if ssub.Customer != nil && ssub.Customer.ID != "" {
		sub.StripeCustomerID = &ssub.Customer.ID
	}
	if ssub.CurrentPeriodEnd > 0 {
		end := time.Unix(ssub.CurrentPeriodEnd, 0)
		sub.EndsAt = &end
	}
	if ssub.TrialEnd > 0 {
		trialEnd := time.Unix(ssub.TrialEnd, 0)
		sub.TrialEndsAt = &trialEnd
	}

	if err := db.Create(&sub).Error; err != nil {
		return err
	}

	return db.Model(&users.Profile{}).
		Where("id = ?", userID).
		Update("plano_atual_id", planID).Error
}

func uintFromMetadata(md map[string]string, key string) uint {
	if md == nil {
		return 0
	}
	s := md[key]
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
