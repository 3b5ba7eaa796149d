package subscriptions

import "time"

const (
	StatusPending  = "pending"
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

// Subscription links a user to a plan and to the Stripe objects backing it.
// Rows are never deleted; cancellation is a status transition. The newest
// row by created_at is the user's current subscription.
type Subscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"index;not null" json:"user_id"`
	PlanID               uint       `gorm:"not null" json:"plano_id"`
	Status               string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	StripeCustomerID     *string    `gorm:"column:stripe_customer_id" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string    `gorm:"column:stripe_subscription_id;uniqueIndex:idx_assinaturas_stripe_subscription_id" json:"stripe_subscription_id,omitempty"`
	StartedAt            time.Time  `json:"inicio"`
	EndsAt               *time.Time `json:"fim,omitempty"`
	TrialEndsAt          *time.Time `json:"fim_trial,omitempty"`
	CancelAtPeriodEnd    bool       `gorm:"default:false" json:"cancelar_fim_periodo"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string { return "assinaturas" }

// Entitled reports whether a status grants paid access.
func Entitled(status string) bool {
	return status == StatusActive || status == StatusTrialing
}
