package stripewebhooks

import (
	"errors"
	"fmt"
	"log"

	"criaprompt-api/config"
	"criaprompt-api/internal/domain/billing"
	"criaprompt-api/internal/domain/stats"
	subs "criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"

	stripego "github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// maxPaymentAttempts: past this many dunning attempts the subscription is
// expired and the user downgraded. Mirrors Stripe's default retry window.
const maxPaymentAttempts = 3

// handleInvoicePaymentSucceeded records the payment in the ledger, promotes
// a trialing subscription to active on its first renewal cycle, and rolls
// the amount into today's revenue aggregate.
func handleInvoicePaymentSucceeded(db *gorm.DB, inv *stripego.Invoice) error {
	sub, err := subscriptionForInvoice(db, inv)
	if err != nil || sub == nil {
		return err
	}

	amount := float64(inv.AmountPaid) / 100.0

	tx := billing.Transaction{
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
		Amount:         amount,
		Currency:       string(inv.Currency),
		Status:         billing.StatusSuccess,
		Kind:           billing.KindPayment,
		Description:    fmt.Sprintf("Pagamento de fatura %s", inv.ID),
	}
	if inv.ID != "" {
		tx.StripeInvoiceID = &inv.ID
	}
	if inv.PaymentIntent != nil && inv.PaymentIntent.ID != "" {
		tx.StripePaymentIntentID = &inv.PaymentIntent.ID
	}
	if err := db.Create(&tx).Error; err != nil {
		return err
	}

	// Trial -> paid transition happens here, on the first renewal charge.
	if inv.BillingReason == stripego.InvoiceBillingReasonSubscriptionCycle &&
		sub.Status == subs.StatusTrialing {
		if err := db.Model(&subs.Subscription{}).
			Where("id = ?", sub.ID).
			Update("status", subs.StatusActive).Error; err != nil {
			return err
		}
	}

	return stats.AddRevenue(db, amount)
}

// handleInvoicePaymentFailed records the failure; once Stripe's cumulative
// attempt count passes the limit the subscription expires and the user is
// downgraded to the free plan. This is the sole automatic
// downgrade-on-dunning path.
func handleInvoicePaymentFailed(db *gorm.DB, inv *stripego.Invoice) error {
	sub, err := subscriptionForInvoice(db, inv)
	if err != nil || sub == nil {
		return err
	}

	tx := billing.Transaction{
		UserID:         sub.UserID,
		SubscriptionID: sub.ID,
		Amount:         float64(inv.AmountDue) / 100.0,
		Currency:       string(inv.Currency),
		Status:         billing.StatusFailure,
		Kind:           billing.KindPayment,
		Description:    fmt.Sprintf("Falha de pagamento da fatura %s (tentativa %d)", inv.ID, inv.AttemptCount),
	}
	if inv.ID != "" {
		tx.StripeInvoiceID = &inv.ID
	}
	if err := db.Create(&tx).Error; err != nil {
		return err
	}

	if inv.AttemptCount <= maxPaymentAttempts {
		return nil
	}

	if err := db.Model(&subs.Subscription{}).
		Where("id = ?", sub.ID).
		Update("status", subs.StatusExpired).Error; err != nil {
		return err
	}
	return db.Model(&users.Profile{}).
		Where("id = ?", sub.UserID).
		Update("plano_atual_id", config.FreePlanID).Error
}

// subscriptionForInvoice resolves the local row the invoice belongs to.
// A nil, nil return means the payment cannot be attributed; the event is
// logged and acked since a redelivery would fail identically.
func subscriptionForInvoice(db *gorm.DB, inv *stripego.Invoice) (*subs.Subscription, error) {
	if inv.Subscription == nil || inv.Subscription.ID == "" {
		log.Printf("⚠️ invoice %s has no subscription ref, skipping", inv.ID)
		return nil, nil
	}

	var sub subs.Subscription
	if err := db.Where("stripe_subscription_id = ?", inv.Subscription.ID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ invoice %s: no local subscription for %s", inv.ID, inv.Subscription.ID)
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}
