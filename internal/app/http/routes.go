package routes

import (
	adminapi "criaprompt-api/internal/api/admin"
	authapi "criaprompt-api/internal/api/auth"
	libraryapi "criaprompt-api/internal/api/library"
	plansapi "criaprompt-api/internal/api/plans"
	stripewebhooks "criaprompt-api/internal/api/stripewebhook"
	subscriptionsapi "criaprompt-api/internal/api/subscriptions"
	usersapi "criaprompt-api/internal/api/users"
	"criaprompt-api/internal/app/http/middleware"
	"criaprompt-api/internal/domain/entitlement"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Raw body required for signature verification, so no sanitizer here.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/planos", plansapi.ListPlans)
	public.GET("/planos/:id", plansapi.GetPlan)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", usersapi.GetCurrentUser)
	auth.GET("/entitlement", usersapi.GetEntitlement)

	auth.GET("/assinaturas", subscriptionsapi.ListSubscriptions)
	auth.POST("/assinaturas", subscriptionsapi.CreateSubscription)
	auth.GET("/assinaturas/:id", subscriptionsapi.GetSubscription)
	auth.PUT("/assinaturas/:id", subscriptionsapi.UpdateSubscription)
	auth.DELETE("/assinaturas/:id", subscriptionsapi.CancelSubscription)
	auth.POST("/assinaturas/portal", subscriptionsapi.OpenBillingPortal)

	auth.GET("/prompts", libraryapi.ListPrompts)
	auth.GET("/prompts/:id", libraryapi.GetPrompt)
	auth.POST("/prompts", middleware.RequireQuota(entitlement.ResourcePrompt), libraryapi.CreatePrompt)
	auth.PUT("/prompts/:id", libraryapi.UpdatePrompt)
	auth.DELETE("/prompts/:id", libraryapi.DeletePrompt)

	auth.GET("/modelos", libraryapi.ListModelos)
	auth.GET("/modelos/:id", libraryapi.GetModelo)
	auth.POST("/modelos", middleware.RequireQuota(entitlement.ResourceModel), libraryapi.CreateModelo)
	auth.PUT("/modelos/:id", libraryapi.UpdateModelo)
	auth.DELETE("/modelos/:id", libraryapi.DeleteModelo)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireAdmin())
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/transacoes", adminapi.ListAllTransactions)
	admin.POST("/sync-plans", plansapi.SyncPlansFromStripe)
}
