package entitlement

import (
	"fmt"
	"testing"

	"criaprompt-api/config"
	"criaprompt-api/database"
	"criaprompt-api/internal/domain/appconfig"
	"criaprompt-api/internal/domain/library"
	"criaprompt-api/internal/domain/plans"
	"criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUserOnPlan(t *testing.T, db *gorm.DB, userID uint, plan plans.Plan) {
	t.Helper()
	require.NoError(t, db.Create(&plan).Error)
	require.NoError(t, db.Create(&users.Profile{
		ID:            userID,
		Name:          "Maria",
		Email:         fmt.Sprintf("maria%d@example.com", userID),
		CurrentPlanID: plan.ID,
	}).Error)
}

func seedPrompts(t *testing.T, db *gorm.DB, userID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&library.Prompt{
			UserID: userID,
			Title:  fmt.Sprintf("prompt %d", i),
		}).Error)
	}
}

func TestCheckQuotaBoundaries(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	seedUserOnPlan(t, db, 10, plans.Plan{ID: 2, Name: "Pro", Price: 29.90, PromptQuota: 5, ModelQuota: 5, Active: true})

	seedPrompts(t, db, 10, 4)
	res := CheckQuota(db, 10, ResourcePrompt)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(4), res.Used)

	seedPrompts(t, db, 10, 1)
	res = CheckQuota(db, 10, ResourcePrompt)
	assert.False(t, res.Allowed)
	assert.Equal(t, 5, res.Limit)
	assert.Equal(t, int64(5), res.Used)
	assert.Equal(t, uint(2), res.CurrentPlan)
	assert.NotEmpty(t, res.Reason)
}

func TestCheckQuotaUnlimited(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	seedUserOnPlan(t, db, 10, plans.Plan{ID: 3, Name: "Ilimitado", Price: 99.90, PromptQuota: plans.UnlimitedQuota, ModelQuota: plans.UnlimitedQuota, Active: true})
	seedPrompts(t, db, 10, 200)

	res := CheckQuota(db, 10, ResourcePrompt)
	assert.True(t, res.Allowed)
}

func TestCheckQuotaDeniedAtFifty(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	seedUserOnPlan(t, db, 7, plans.Plan{ID: 2, Name: "Pro", Price: 29.90, PromptQuota: 50, ModelQuota: 10, Active: true})
	seedPrompts(t, db, 7, 50)

	res := CheckQuota(db, 7, ResourcePrompt)
	assert.False(t, res.Allowed)
	assert.Equal(t, 50, res.Limit)
	assert.Equal(t, int64(50), res.Used)
}

func TestCheckQuotaAdminBypass(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, db.Create(&users.Profile{ID: 5, Email: "admin@example.com", IsAdmin: true, CurrentPlanID: 1}).Error)

	res := CheckQuota(db, 5, ResourcePrompt)
	assert.True(t, res.Allowed)
}

func TestCheckQuotaSaaSDisabled(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, appconfig.Set(db, appconfig.KeySaaSEnabled, "false"))

	// No plans, no profile: the flag alone short-circuits everything.
	res := CheckQuota(db, 99, ResourcePrompt)
	assert.True(t, res.Allowed)
}

func TestCheckQuotaFailsOpenOnCountError(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	seedUserOnPlan(t, db, 10, plans.Plan{ID: 2, Name: "Pro", Price: 29.90, PromptQuota: 5, Active: true})

	// Breaking the prompts table makes the count fail; policy is to allow.
	require.NoError(t, db.Migrator().DropTable(&library.Prompt{}))

	res := CheckQuota(db, 10, ResourcePrompt)
	assert.True(t, res.Allowed)
}

func TestResolveConfigurationError(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, db.Create(&users.Profile{ID: 3, Email: "x@example.com", CurrentPlanID: 42}).Error)

	_, err := Resolve(db, 3)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, uint(42), cfgErr.PlanID)
}

func TestResolveHasActivePayment(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	seedUserOnPlan(t, db, 10, plans.Plan{ID: 2, Name: "Pro", Price: 29.90, PromptQuota: 50, Active: true})

	ent, err := Resolve(db, 10)
	require.NoError(t, err)
	assert.False(t, ent.HasActivePayment, "paid plan on profile but no live subscription")

	require.NoError(t, db.Create(&subscriptions.Subscription{
		UserID: 10,
		PlanID: 2,
		Status: subscriptions.StatusActive,
	}).Error)

	ent, err = Resolve(db, 10)
	require.NoError(t, err)
	assert.True(t, ent.HasActivePayment)
	assert.Equal(t, 50, ent.PromptQuota)
}

func TestResolveDefaultsToFreePlan(t *testing.T) {
	config.FreePlanID = 1
	db := newTestDB(t)
	require.NoError(t, db.Create(&plans.Plan{ID: 1, Name: "Gratuito", PromptQuota: 3, ModelQuota: 1, Active: true}).Error)

	// No profile row at all.
	ent, err := Resolve(db, 123)
	require.NoError(t, err)
	assert.Equal(t, uint(1), ent.PlanID)
	assert.Equal(t, 3, ent.PromptQuota)
}
