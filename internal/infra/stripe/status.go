package stripe

import (
	"criaprompt-api/internal/domain/subscriptions"

	stripego "github.com/stripe/stripe-go/v75"
)

// LocalStatus maps a Stripe subscription status onto our lifecycle.
// Anything unrecognized lands on pending so a later webhook can settle it.
func LocalStatus(s stripego.SubscriptionStatus) string {
	switch s {
	case stripego.SubscriptionStatusActive:
		return subscriptions.StatusActive
	case stripego.SubscriptionStatusTrialing:
		return subscriptions.StatusTrialing
	case stripego.SubscriptionStatusCanceled:
		return subscriptions.StatusCanceled
	case stripego.SubscriptionStatusUnpaid:
		return subscriptions.StatusExpired
	default:
		return subscriptions.StatusPending
	}
}
