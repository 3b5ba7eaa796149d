package subscriptions

import (
	"errors"
	"fmt"
	"log"
	"time"

	"criaprompt-api/config"
	"criaprompt-api/internal/domain/plans"
	subs "criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"
	stripeinfra "criaprompt-api/internal/infra/stripe"

	"gorm.io/gorm"
)

// CreateFreeSubscription puts the user on a zero-price plan. It never
// touches Stripe.
func CreateFreeSubscription(db *gorm.DB, userID, planID uint) (*subs.Subscription, error) {
	var plan plans.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subs.ErrPlanNotFound
		}
		return nil, err
	}
	if !plan.IsFree() {
		return nil, subs.ErrNotFreePlan
	}

	sub := &subs.Subscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    subs.StatusActive,
		StartedAt: time.Now(),
	}
	if err := db.Create(sub).Error; err != nil {
		return nil, err
	}

	if err := setCurrentPlan(db, userID, planID); err != nil {
		return nil, err
	}
	return sub, nil
}

// CreatePaidSubscription creates the Stripe subscription first and the
// local row second. If the local insert fails after Stripe succeeded, the
// Stripe subscription is canceled again so no orphaned billing survives.
func CreatePaidSubscription(db *gorm.DB, billing stripeinfra.API, userID, planID uint, paymentMethodID *string) (*subs.Subscription, error) {
	var plan plans.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subs.ErrPlanNotFound
		}
		return nil, err
	}
	if plan.StripePriceID == nil || *plan.StripePriceID == "" {
		return nil, subs.ErrUnconfiguredPlan
	}

	var profile users.Profile
	if err := db.First(&profile, userID).Error; err != nil {
		return nil, err
	}

	customerID, err := billing.EnsureCustomer(latestCustomerRef(db, userID), profile.Email, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	trialEnd := now.AddDate(0, 0, config.TrialDays)

	ssub, err := billing.CreateSubscription(customerID, *plan.StripePriceID, trialEnd, paymentMethodID, map[string]string{
		"user_id": fmt.Sprint(userID),
		"plan_id": fmt.Sprint(planID),
	})
	if err != nil {
		return nil, err
	}

	sub := &subs.Subscription{
		UserID:               userID,
		PlanID:               planID,
		Status:               subs.StatusTrialing,
		StripeCustomerID:     &customerID,
		StripeSubscriptionID: &ssub.ID,
		StartedAt:            now,
		TrialEndsAt:          &trialEnd,
	}
	if err := db.Create(sub).Error; err != nil {
		if cerr := billing.CancelNow(ssub.ID); cerr != nil {
			log.Printf("❌ Failed to cancel Stripe subscription %s after local insert failure: %v", ssub.ID, cerr)
		}
		return nil, &subs.PersistenceError{Op: "insert assinatura", Err: err}
	}

	if err := setCurrentPlan(db, userID, planID); err != nil {
		return nil, &subs.PersistenceError{Op: "update perfil", Err: err}
	}
	return sub, nil
}

// ChangePlan moves the user to planID. Free targets activate immediately;
// paid targets return a hosted checkout URL and the local subscription is
// created later by the webhook reconciler once Stripe confirms payment.
func ChangePlan(db *gorm.DB, billing stripeinfra.API, userID, planID uint, successURL, cancelURL string) (redirectURL string, sub *subs.Subscription, err error) {
	var plan plans.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, subs.ErrPlanNotFound
		}
		return "", nil, err
	}

	if plan.IsFree() {
		s, err := CreateFreeSubscription(db, userID, planID)
		return "", s, err
	}

	if plan.StripePriceID == nil || *plan.StripePriceID == "" {
		return "", nil, subs.ErrUnconfiguredPlan
	}

	var profile users.Profile
	if err := db.First(&profile, userID).Error; err != nil {
		return "", nil, err
	}

	customerID, err := billing.EnsureCustomer(latestCustomerRef(db, userID), profile.Email, userID)
	if err != nil {
		return "", nil, err
	}

	url, err := billing.NewCheckoutSession(customerID, *plan.StripePriceID, successURL, cancelURL, fmt.Sprint(userID), map[string]string{
		"user_id": fmt.Sprint(userID),
		"plan_id": fmt.Sprint(planID),
	})
	if err != nil {
		return "", nil, err
	}
	return url, nil, nil
}

// Cancel marks the subscription canceled locally right away and asks Stripe
// for a cancel-at-period-end. The profile drops to the free plan
// immediately: the UI reflects the cancel intent even though Stripe keeps
// the subscription billable until the period end.
func Cancel(db *gorm.DB, billing stripeinfra.API, subscriptionID, userID uint, isAdmin bool) (*subs.Subscription, error) {
	var sub subs.Subscription
	if err := db.First(&sub, subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subs.ErrSubscriptionNotFound
		}
		return nil, err
	}
	if sub.UserID != userID && !isAdmin {
		return nil, subs.ErrForbidden
	}

	if sub.StripeSubscriptionID != nil && *sub.StripeSubscriptionID != "" {
		if err := billing.CancelAtPeriodEnd(*sub.StripeSubscriptionID); err != nil {
			return nil, err
		}
	}

	if err := db.Model(&subs.Subscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]interface{}{
			"status":               subs.StatusCanceled,
			"cancel_at_period_end": true,
		}).Error; err != nil {
		return nil, err
	}
	sub.Status = subs.StatusCanceled
	sub.CancelAtPeriodEnd = true

	if err := setCurrentPlan(db, sub.UserID, config.FreePlanID); err != nil {
		return nil, err
	}
	return &sub, nil
}

// BillingPortal needs a Stripe customer on the newest subscription.
func BillingPortal(db *gorm.DB, billing stripeinfra.API, userID uint, returnURL string) (string, error) {
	var sub subs.Subscription
	err := db.Where("user_id = ? AND stripe_customer_id IS NOT NULL", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", subs.ErrNoSubscription
		}
		return "", err
	}
	return billing.NewPortalSession(*sub.StripeCustomerID, returnURL)
}

func setCurrentPlan(db *gorm.DB, userID, planID uint) error {
	return db.Model(&users.Profile{}).
		Where("id = ?", userID).
		Update("plano_atual_id", planID).Error
}

// latestCustomerRef digs up a previously stored Stripe customer id so we
// never create duplicate customers for the same user.
func latestCustomerRef(db *gorm.DB, userID uint) *string {
	var sub subs.Subscription
	err := db.Where("user_id = ? AND stripe_customer_id IS NOT NULL", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil
	}
	return sub.StripeCustomerID
}
