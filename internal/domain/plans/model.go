package plans

// UnlimitedQuota marks a quota with no cap.
const UnlimitedQuota = -1

const (
	IntervalMonthly  = "monthly"
	IntervalYearly   = "yearly"
	IntervalLifetime = "lifetime"
)

type Plan struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Name          string   `gorm:"not null" json:"nome"`
	Price         float64  `gorm:"column:preco" json:"preco"`
	Interval      string   `gorm:"column:intervalo;type:varchar(20);not null;default:'monthly'" json:"intervalo"`
	PromptQuota   int      `gorm:"column:limite_prompts;default:0" json:"limite_prompts"`
	ModelQuota    int      `gorm:"column:limite_modelos;default:0" json:"limite_modelos"`
	Features      []string `gorm:"serializer:json" json:"recursos"`
	Active        bool     `gorm:"default:true" json:"ativo"`
	StripePriceID *string  `gorm:"column:stripe_price_id;uniqueIndex:idx_planos_stripe_price_id" json:"stripe_price_id,omitempty"`
	DisplayOrder  int      `gorm:"column:ordem_exibicao;default:0" json:"ordem_exibicao"`
}

func (Plan) TableName() string { return "planos" }

func (p *Plan) IsFree() bool { return p.Price == 0 }

// QuotaFor returns the plan's limit for a resource kind ("prompt" or
// "model"); unknown kinds get zero, never unlimited.
func (p *Plan) QuotaFor(kind string) int {
	switch kind {
	case "prompt":
		return p.PromptQuota
	case "model":
		return p.ModelQuota
	default:
		return 0
	}
}
