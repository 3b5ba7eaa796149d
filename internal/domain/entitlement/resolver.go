package entitlement

import (
	"errors"
	"fmt"

	"criaprompt-api/config"
	"criaprompt-api/internal/domain/plans"
	"criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"

	"gorm.io/gorm"
)

// Entitlement is the resolved set of quotas and flags a user currently has.
type Entitlement struct {
	PlanID           uint `json:"plano_id"`
	PromptQuota      int  `json:"limite_prompts"`
	ModelQuota       int  `json:"limite_modelos"`
	IsAdmin          bool `json:"is_admin"`
	HasActivePayment bool `json:"pagamento_ativo"`
}

// ConfigurationError signals a data-integrity problem (a profile pointing
// at a plan that does not exist), not a user error. Admins must fix the
// plan catalog.
type ConfigurationError struct {
	PlanID uint
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("plano %d referenciado mas inexistente", e.PlanID)
}

// Resolve determines the user's current plan and computed quotas. Users
// without a profile are treated as free-tier; admins get unlimited quotas
// regardless of plan.
func Resolve(db *gorm.DB, userID uint) (Entitlement, error) {
	planID := config.FreePlanID
	isAdmin := false

	var profile users.Profile
	if err := db.First(&profile, userID).Error; err == nil {
		if profile.CurrentPlanID != 0 {
			planID = profile.CurrentPlanID
		}
		isAdmin = profile.IsAdmin
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Entitlement{}, err
	}

	// Distinguishes "genuinely on a paid plan" from "profile says paid but
	// billing lapsed".
	var active int64
	if err := db.Model(&subscriptions.Subscription{}).
		Where("user_id = ? AND plan_id = ? AND status IN ?",
			userID, planID, []string{subscriptions.StatusActive, subscriptions.StatusTrialing}).
		Count(&active).Error; err != nil {
		return Entitlement{}, err
	}

	if isAdmin {
		return Entitlement{
			PlanID:           planID,
			PromptQuota:      plans.UnlimitedQuota,
			ModelQuota:       plans.UnlimitedQuota,
			IsAdmin:          true,
			HasActivePayment: active > 0,
		}, nil
	}

	var plan plans.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Entitlement{}, &ConfigurationError{PlanID: planID}
		}
		return Entitlement{}, err
	}

	return Entitlement{
		PlanID:           plan.ID,
		PromptQuota:      plan.PromptQuota,
		ModelQuota:       plan.ModelQuota,
		HasActivePayment: active > 0,
	}, nil
}
