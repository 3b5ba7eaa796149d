package stripewebhooks

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"criaprompt-api/config"
	"criaprompt-api/database"
	"criaprompt-api/internal/domain/appconfig"

	"github.com/gin-gonic/gin"
	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// StripeWebhook is the single entry point for Stripe's event delivery.
// Events are processed idempotently: Stripe delivers at-least-once and may
// reorder, so every handler keys off external refs, never sequence.
//
// Response contract: 200 ack (including unknown event types, so a new
// Stripe event can never poison the retry queue), 400 only for a bad
// signature or unparseable payload (permanent, no retry), 500 when a
// recognized event fails mid-processing (Stripe retries later).
func StripeWebhook(c *gin.Context) {
	endpointSecret := webhookSecret()
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe webhook secret not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Println("❌ Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	switch event.Type {
	case "customer.subscription.created":
		var sub stripego.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		if err := handleSubscriptionCreated(database.DB, &sub); err != nil {
			log.Printf("❌ subscription.created %s: %v", event.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

	case "customer.subscription.updated":
		var sub stripego.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		matched, err := handleSubscriptionUpdated(database.DB, &sub)
		if err != nil {
			log.Printf("❌ subscription.updated %s: %v", event.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !matched {
			// Drift between Stripe and local state; surfaced for operators
			// instead of swallowed, but still acked (a retry changes nothing).
			log.Printf("⚠️ subscription.updated %s: no local row for %s", event.ID, sub.ID)
		}

	case "customer.subscription.deleted":
		var sub stripego.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		if err := handleSubscriptionDeleted(database.DB, &sub); err != nil {
			log.Printf("❌ subscription.deleted %s: %v", event.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

	case "invoice.payment_succeeded":
		var inv stripego.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse invoice"})
			return
		}
		if err := handleInvoicePaymentSucceeded(database.DB, &inv); err != nil {
			log.Printf("❌ invoice.payment_succeeded %s: %v", event.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

	case "invoice.payment_failed":
		var inv stripego.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse invoice"})
			return
		}
		if err := handleInvoicePaymentFailed(database.DB, &inv); err != nil {
			log.Printf("❌ invoice.payment_failed %s: %v", event.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

	default:
		// Acknowledge unknown events to avoid retries
		c.JSON(http.StatusOK, gin.H{"received": true, "status": "ignored"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// webhookSecret picks the secret for the billing mode stored in the app
// config table, so flipping test/production does not need a redeploy.
func webhookSecret() string {
	if appconfig.BillingMode(database.DB) == appconfig.BillingModeTest {
		return config.STRIPE_WEBHOOK_SECRET_TEST
	}
	return config.STRIPE_WEBHOOK_SECRET
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
