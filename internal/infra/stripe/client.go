package stripe

import (
	"fmt"
	"net/http"
	"time"

	"criaprompt-api/config"

	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// API is the slice of Stripe the lifecycle controller and plan sync need.
// The live implementation is constructed once at startup; tests swap in a
// fake. Never reach for the SDK's package-level functions elsewhere.
type API interface {
	// EnsureCustomer reuses an existing customer ref (refreshing its email
	// and metadata) or creates a new one.
	EnsureCustomer(existingID *string, email string, userID uint) (string, error)

	CreateSubscription(customerID, priceID string, trialEnd time.Time, paymentMethodID *string, metadata map[string]string) (*stripego.Subscription, error)
	CancelNow(subscriptionID string) error
	CancelAtPeriodEnd(subscriptionID string) error

	NewCheckoutSession(customerID, priceID, successURL, cancelURL, clientRef string, metadata map[string]string) (string, error)
	NewPortalSession(customerID, returnURL string) (string, error)

	ListActiveRecurringPrices() ([]*stripego.Price, error)
}

// Active is the process-wide billing client, set by Init in main.
var Active API

func Init() {
	Active = New(config.STRIPE_SECRET_KEY)
}

// New builds a live client with an explicit outbound timeout and bounded
// retries, so a slow Stripe never hangs a request indefinitely.
func New(secretKey string) API {
	backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		HTTPClient:        &http.Client{Timeout: 15 * time.Second},
		MaxNetworkRetries: stripego.Int64(2),
	})
	sc := &client.API{}
	sc.Init(secretKey, &stripego.Backends{API: backend, Connect: backend, Uploads: backend})
	return &liveAPI{sc: sc}
}

type liveAPI struct {
	sc *client.API
}

func (a *liveAPI) EnsureCustomer(existingID *string, email string, userID uint) (string, error) {
	params := &stripego.CustomerParams{Email: stripego.String(email)}
	params.AddMetadata("user_id", fmt.Sprint(userID))

	if existingID != nil && *existingID != "" {
		if _, err := a.sc.Customers.Update(*existingID, params); err != nil {
			return "", err
		}
		return *existingID, nil
	}

	cus, err := a.sc.Customers.New(params)
	if err != nil {
		return "", err
	}
	return cus.ID, nil
}

func (a *liveAPI) CreateSubscription(customerID, priceID string, trialEnd time.Time, paymentMethodID *string, metadata map[string]string) (*stripego.Subscription, error) {
	params := &stripego.SubscriptionParams{
		Customer: stripego.String(customerID),
		Items: []*stripego.SubscriptionItemsParams{
			{Price: stripego.String(priceID), Quantity: stripego.Int64(1)},
		},
		TrialEnd: stripego.Int64(trialEnd.Unix()),
	}
	if paymentMethodID != nil && *paymentMethodID != "" {
		params.DefaultPaymentMethod = paymentMethodID
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	return a.sc.Subscriptions.New(params)
}

func (a *liveAPI) CancelNow(subscriptionID string) error {
	_, err := a.sc.Subscriptions.Cancel(subscriptionID, nil)
	return err
}

func (a *liveAPI) CancelAtPeriodEnd(subscriptionID string) error {
	_, err := a.sc.Subscriptions.Update(subscriptionID, &stripego.SubscriptionParams{
		CancelAtPeriodEnd: stripego.Bool(true),
	})
	return err
}

func (a *liveAPI) NewCheckoutSession(customerID, priceID, successURL, cancelURL, clientRef string, metadata map[string]string) (string, error) {
	params := &stripego.CheckoutSessionParams{
		SuccessURL: stripego.String(successURL),
		CancelURL:  stripego.String(cancelURL),
		Mode:       stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		Customer:   stripego.String(customerID),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{Price: stripego.String(priceID), Quantity: stripego.Int64(1)},
		},
		ClientReferenceID: stripego.String(clientRef),
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
	}
	s, err := a.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return s.URL, nil
}

func (a *liveAPI) NewPortalSession(customerID, returnURL string) (string, error) {
	portal, err := a.sc.BillingPortalSessions.New(&stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerID),
		ReturnURL: stripego.String(returnURL),
	})
	if err != nil {
		return "", err
	}
	return portal.URL, nil
}

func (a *liveAPI) ListActiveRecurringPrices() ([]*stripego.Price, error) {
	params := &stripego.PriceListParams{}
	params.Active = stripego.Bool(true)
	params.Type = stripego.String("recurring")
	params.AddExpand("data.product")

	it := a.sc.Prices.List(params)

	var prices []*stripego.Price
	for it.Next() {
		prices = append(prices, it.Price())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return prices, nil
}
