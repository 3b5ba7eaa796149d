package subscriptions

import (
	"errors"
	"net/http"

	"criaprompt-api/config"
	"criaprompt-api/database"
	"criaprompt-api/internal/domain/plans"
	subs "criaprompt-api/internal/domain/subscriptions"
	stripeinfra "criaprompt-api/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ListSubscriptions(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var list []subs.Subscription
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func GetSubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := idParam(c)
	if !ok {
		return
	}

	var sub subs.Subscription
	if err := database.DB.First(&sub, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}
	if sub.UserID != userID && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CreateSubscription starts a subscription on the given plan: free plans
// activate locally, paid plans go through Stripe with a trial.
func CreateSubscription(c *gin.Context) {
	var body struct {
		PlanID          uint    `json:"plano_id"`
		PaymentMethodID *string `json:"payment_method_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PlanID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plano_id"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var plan plans.Plan
	if err := database.DB.First(&plan, body.PlanID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	var sub *subs.Subscription
	var err error
	if plan.IsFree() {
		sub, err = CreateFreeSubscription(database.DB, userID, body.PlanID)
	} else {
		sub, err = CreatePaidSubscription(database.DB, stripeinfra.Active, userID, body.PlanID, body.PaymentMethodID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// UpdateSubscription changes the plan. Paid targets return a checkout URL;
// the subscription row itself is written by the webhook once Stripe
// confirms payment.
func UpdateSubscription(c *gin.Context) {
	var body struct {
		PlanID     uint   `json:"plano_id"`
		SuccessURL string `json:"success_url"`
		CancelURL  string `json:"cancel_url"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PlanID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid plano_id"})
		return
	}

	userID := c.GetUint("user_id")
	id, ok := idParam(c)
	if !ok {
		return
	}

	var sub subs.Subscription
	if err := database.DB.First(&sub, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
		return
	}
	if sub.UserID != userID && !c.GetBool("is_admin") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	successURL := body.SuccessURL
	if successURL == "" {
		successURL = config.APP_URL + "/assinatura?sucesso=1"
	}
	cancelURL := body.CancelURL
	if cancelURL == "" {
		cancelURL = config.APP_URL + "/assinatura?cancelado=1"
	}

	url, created, err := ChangePlan(database.DB, stripeinfra.Active, sub.UserID, body.PlanID, successURL, cancelURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if url != "" {
		c.JSON(http.StatusOK, gin.H{"url": url})
		return
	}
	c.JSON(http.StatusOK, created)
}

func CancelSubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	id, ok := idParam(c)
	if !ok {
		return
	}

	sub, err := Cancel(database.DB, stripeinfra.Active, id, userID, c.GetBool("is_admin"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func OpenBillingPortal(c *gin.Context) {
	var body struct {
		ReturnURL string `json:"return_url"`
	}
	_ = c.ShouldBindJSON(&body)
	if body.ReturnURL == "" {
		body.ReturnURL = config.APP_URL + "/assinatura"
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	url, err := BillingPortal(database.DB, stripeinfra.Active, userID, body.ReturnURL)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func idParam(c *gin.Context) (uint, bool) {
	var uri struct {
		ID uint `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uri.ID, true
}

func respondServiceError(c *gin.Context, err error) {
	var perr *subs.PersistenceError
	switch {
	case errors.Is(err, subs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, subs.ErrPlanNotFound), errors.Is(err, subs.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, subs.ErrUnconfiguredPlan), errors.Is(err, subs.ErrNoSubscription), errors.Is(err, subs.ErrNotFreePlan):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &perr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": perr.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
