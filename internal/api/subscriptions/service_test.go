package subscriptions

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"criaprompt-api/config"
	"criaprompt-api/database"
	"criaprompt-api/internal/domain/plans"
	subs "criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v75"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeBilling struct {
	ensureCalls   int
	createdSubs   []string
	canceledNow   []string
	canceledSoft  []string
	checkoutCalls int
	portalCalls   int

	nextSubID string
	failure   error
}

func (f *fakeBilling) EnsureCustomer(existingID *string, email string, userID uint) (string, error) {
	f.ensureCalls++
	if f.failure != nil {
		return "", f.failure
	}
	if existingID != nil && *existingID != "" {
		return *existingID, nil
	}
	return "cus_fake", nil
}

func (f *fakeBilling) CreateSubscription(customerID, priceID string, trialEnd time.Time, paymentMethodID *string, metadata map[string]string) (*stripego.Subscription, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	id := f.nextSubID
	if id == "" {
		id = "sub_fake"
	}
	f.createdSubs = append(f.createdSubs, id)
	return &stripego.Subscription{ID: id}, nil
}

func (f *fakeBilling) CancelNow(subscriptionID string) error {
	f.canceledNow = append(f.canceledNow, subscriptionID)
	return nil
}

func (f *fakeBilling) CancelAtPeriodEnd(subscriptionID string) error {
	f.canceledSoft = append(f.canceledSoft, subscriptionID)
	return nil
}

func (f *fakeBilling) NewCheckoutSession(customerID, priceID, successURL, cancelURL, clientRef string, metadata map[string]string) (string, error) {
	f.checkoutCalls++
	if f.failure != nil {
		return "", f.failure
	}
	return "https://checkout.stripe.test/session", nil
}

func (f *fakeBilling) NewPortalSession(customerID, returnURL string) (string, error) {
	f.portalCalls++
	return "https://billing.stripe.test/portal", nil
}

func (f *fakeBilling) ListActiveRecurringPrices() ([]*stripego.Price, error) {
	return nil, nil
}

func (f *fakeBilling) totalCalls() int {
	return f.ensureCalls + len(f.createdSubs) + len(f.canceledNow) +
		len(f.canceledSoft) + f.checkoutCalls + f.portalCalls
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	require.NoError(t, db.Create(&users.Profile{
		ID:            id,
		Name:          "Joana",
		Email:         fmt.Sprintf("joana%d@example.com", id),
		CurrentPlanID: config.FreePlanID,
	}).Error)
}

func TestCreateFreeSubscriptionNeverCallsStripe(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, db.Create(&plans.Plan{ID: 1, Name: "Gratuito", Price: 0, Active: true}).Error)
	seedProfile(t, db, 10)

	sub, err := CreateFreeSubscription(db, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, subs.StatusActive, sub.Status)
	assert.Nil(t, sub.EndsAt)

	var profile users.Profile
	require.NoError(t, db.First(&profile, 10).Error)
	assert.Equal(t, uint(1), profile.CurrentPlanID)
}

func TestCreateFreeSubscriptionRejectsPaidPlan(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, db.Create(&plans.Plan{ID: 2, Name: "Pro", Price: 29.90, Active: true}).Error)
	seedProfile(t, db, 10)

	_, err := CreateFreeSubscription(db, 10, 2)
	assert.ErrorIs(t, err, subs.ErrNotFreePlan)
}

func TestCreatePaidSubscription(t *testing.T) {
	config.FreePlanID = 1
	config.TrialDays = 7
	db := newTestDB(t)
	priceID := "price_pro"
	require.NoError(t, db.Create(&plans.Plan{ID: 2, Name: "Pro", Price: 29.90, StripePriceID: &priceID, Active: true}).Error)
	seedProfile(t, db, 10)

	fake := &fakeBilling{nextSubID: "sub_abc"}
	sub, err := CreatePaidSubscription(db, fake, 10, 2, nil)
	require.NoError(t, err)

	assert.Equal(t, subs.StatusTrialing, sub.Status)
	require.NotNil(t, sub.StripeSubscriptionID)
	assert.Equal(t, "sub_abc", *sub.StripeSubscriptionID)
	require.NotNil(t, sub.TrialEndsAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), *sub.TrialEndsAt, time.Minute)

	var profile users.Profile
	require.NoError(t, db.First(&profile, 10).Error)
	assert.Equal(t, uint(2), profile.CurrentPlanID)
}

func TestCreatePaidSubscriptionUnconfiguredPlan(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, db.Create(&plans.Plan{ID: 2, Name: "Pro", Price: 29.90, Active: true}).Error)
	seedProfile(t, db, 10)

	fake := &fakeBilling{}
	_, err := CreatePaidSubscription(db, fake, 10, 2, nil)
	assert.ErrorIs(t, err, subs.ErrUnconfiguredPlan)
	assert.Zero(t, fake.totalCalls(), "no Stripe call may happen for an unconfigured plan")
}

func TestCreatePaidSubscriptionCompensatesOnInsertFailure(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	priceID := "price_pro"
	require.NoError(t, db.Create(&plans.Plan{ID: 2, Name: "Pro", Price: 29.90, StripePriceID: &priceID, Active: true}).Error)
	seedProfile(t, db, 10)

	// Breaking the table makes the local insert fail after Stripe succeeded.
	require.NoError(t, db.Migrator().DropTable(&subs.Subscription{}))

	fake := &fakeBilling{nextSubID: "sub_orphan"}
	_, err := CreatePaidSubscription(db, fake, 10, 2, nil)

	var perr *subs.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"sub_orphan"}, fake.canceledNow, "orphaned Stripe subscription must be canceled")
}

func TestChangePlanFreeTarget(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, db.Create(&plans.Plan{ID: 1, Name: "Gratuito", Price: 0, Active: true}).Error)
	seedProfile(t, db, 10)

	fake := &fakeBilling{}
	url, sub, err := ChangePlan(db, fake, 10, 1, "https://app/ok", "https://app/no")
	require.NoError(t, err)
	assert.Empty(t, url)
	require.NotNil(t, sub)
	assert.Equal(t, subs.StatusActive, sub.Status)
	assert.Zero(t, fake.totalCalls())
}

func TestChangePlanPaidTargetReturnsCheckoutURL(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	priceID := "price_pro"
	require.NoError(t, db.Create(&plans.Plan{ID: 2, Name: "Pro", Price: 29.90, StripePriceID: &priceID, Active: true}).Error)
	seedProfile(t, db, 10)

	fake := &fakeBilling{}
	url, sub, err := ChangePlan(db, fake, 10, 2, "https://app/ok", "https://app/no")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.test/session", url)
	assert.Nil(t, sub, "paid change-plan defers subscription creation to the webhook")

	var count int64
	db.Model(&subs.Subscription{}).Count(&count)
	assert.Zero(t, count)
}

func TestChangePlanUnconfiguredPaidPlan(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, db.Create(&plans.Plan{ID: 2, Name: "Pro", Price: 29.90, Active: true}).Error)
	seedProfile(t, db, 10)

	fake := &fakeBilling{}
	_, _, err := ChangePlan(db, fake, 10, 2, "https://app/ok", "https://app/no")
	assert.ErrorIs(t, err, subs.ErrUnconfiguredPlan)
	assert.Zero(t, fake.totalCalls())
}

func TestCancelResetsProfileAndFlagsPeriodEnd(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	seedProfile(t, db, 10)
	require.NoError(t, db.Model(&users.Profile{}).Where("id = ?", 10).Update("plano_atual_id", 2).Error)

	stripeID := "sub_live"
	row := subs.Subscription{UserID: 10, PlanID: 2, Status: subs.StatusActive, StripeSubscriptionID: &stripeID, StartedAt: time.Now()}
	require.NoError(t, db.Create(&row).Error)

	fake := &fakeBilling{}
	canceled, err := Cancel(db, fake, row.ID, 10, false)
	require.NoError(t, err)

	assert.Equal(t, subs.StatusCanceled, canceled.Status)
	assert.True(t, canceled.CancelAtPeriodEnd)
	assert.Equal(t, []string{"sub_live"}, fake.canceledSoft)

	var stored subs.Subscription
	require.NoError(t, db.First(&stored, row.ID).Error)
	assert.Equal(t, subs.StatusCanceled, stored.Status)
	assert.True(t, stored.CancelAtPeriodEnd)

	var profile users.Profile
	require.NoError(t, db.First(&profile, 10).Error)
	assert.Equal(t, config.FreePlanID, profile.CurrentPlanID)
}

func TestCancelForbiddenForOtherUser(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	seedProfile(t, db, 10)
	row := subs.Subscription{UserID: 10, PlanID: 2, Status: subs.StatusActive, StartedAt: time.Now()}
	require.NoError(t, db.Create(&row).Error)

	fake := &fakeBilling{}
	_, err := Cancel(db, fake, row.ID, 11, false)
	assert.ErrorIs(t, err, subs.ErrForbidden)
	assert.Zero(t, fake.totalCalls())

	// Admin override works.
	_, err = Cancel(db, fake, row.ID, 11, true)
	assert.NoError(t, err)
}

func TestBillingPortalRequiresCustomer(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	seedProfile(t, db, 10)

	fake := &fakeBilling{}
	_, err := BillingPortal(db, fake, 10, "https://app/conta")
	assert.ErrorIs(t, err, subs.ErrNoSubscription)

	cus := "cus_10"
	require.NoError(t, db.Create(&subs.Subscription{UserID: 10, PlanID: 2, Status: subs.StatusCanceled, StripeCustomerID: &cus, StartedAt: time.Now()}).Error)

	url, err := BillingPortal(db, fake, 10, "https://app/conta")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.test/portal", url)
}

func TestCreatePaidSubscriptionPropagatesBillingError(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	priceID := "price_pro"
	require.NoError(t, db.Create(&plans.Plan{ID: 2, Name: "Pro", Price: 29.90, StripePriceID: &priceID, Active: true}).Error)
	seedProfile(t, db, 10)

	boom := errors.New("stripe unavailable")
	fake := &fakeBilling{failure: boom}
	_, err := CreatePaidSubscription(db, fake, 10, 2, nil)
	assert.ErrorIs(t, err, boom)

	var count int64
	db.Model(&subs.Subscription{}).Count(&count)
	assert.Zero(t, count, "no local row without a Stripe subscription")
}
