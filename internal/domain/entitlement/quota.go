package entitlement

import (
	"fmt"
	"log"

	"criaprompt-api/internal/domain/appconfig"
	"criaprompt-api/internal/domain/library"
	"criaprompt-api/internal/domain/plans"

	"gorm.io/gorm"
)

const (
	ResourcePrompt = "prompt"
	ResourceModel  = "model"
)

// CheckResult is the quota verdict consumed by resource-creation routes.
// JSON field names match the contract the frontend already speaks.
type CheckResult struct {
	Allowed     bool   `json:"permitido"`
	Reason      string `json:"erro,omitempty"`
	CurrentPlan uint   `json:"planoAtual,omitempty"`
	Limit       int    `json:"limite,omitempty"`
	Used        int64  `json:"utilizado,omitempty"`
}

// CheckQuota is an advisory pre-check run immediately before creating a
// resource. It is not transactional: two concurrent creations can both
// pass and exceed the quota by one, which is accepted.
//
// Any internal failure fails OPEN (Allowed). Availability over strict
// enforcement is a deliberate policy here, do not tighten it silently.
func CheckQuota(db *gorm.DB, userID uint, kind string) CheckResult {
	if !appconfig.SaaSEnabled(db) {
		return CheckResult{Allowed: true}
	}

	ent, err := Resolve(db, userID)
	if err != nil {
		log.Printf("quota check: resolve failed for user %d, allowing: %v", userID, err)
		return CheckResult{Allowed: true}
	}
	if ent.IsAdmin {
		return CheckResult{Allowed: true, CurrentPlan: ent.PlanID, Limit: plans.UnlimitedQuota}
	}

	var limit int
	var model interface{}
	switch kind {
	case ResourcePrompt:
		limit = ent.PromptQuota
		model = &library.Prompt{}
	case ResourceModel:
		limit = ent.ModelQuota
		model = &library.Modelo{}
	default:
		log.Printf("quota check: unknown resource kind %q, allowing", kind)
		return CheckResult{Allowed: true}
	}

	if limit == plans.UnlimitedQuota {
		return CheckResult{Allowed: true, CurrentPlan: ent.PlanID, Limit: limit}
	}

	var used int64
	if err := db.Model(model).Where("user_id = ?", userID).Count(&used).Error; err != nil {
		log.Printf("quota check: count failed for user %d, allowing: %v", userID, err)
		return CheckResult{Allowed: true}
	}

	if used >= int64(limit) {
		return CheckResult{
			Allowed:     false,
			Reason:      fmt.Sprintf("Limite do plano atingido (%d de %d)", used, limit),
			CurrentPlan: ent.PlanID,
			Limit:       limit,
			Used:        used,
		}
	}

	return CheckResult{Allowed: true, CurrentPlan: ent.PlanID, Limit: limit, Used: used}
}
