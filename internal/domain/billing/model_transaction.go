package billing

import "time"

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusRefund  = "refund"
)

const (
	KindPayment = "payment"
	KindRefund  = "refund"
)

// Transaction is an append-only ledger entry written by the webhook
// reconciler for Stripe invoice events. Duplicate deliveries produce
// duplicate rows on purpose; the invoice ref is indexed but not unique.
type Transaction struct {
	ID                    uint    `gorm:"primaryKey" json:"id"`
	UserID                uint    `gorm:"index;not null" json:"user_id"`
	SubscriptionID        uint    `gorm:"index;not null" json:"assinatura_id"`
	Amount                float64 `gorm:"column:valor" json:"valor"`
	Currency              string  `gorm:"column:moeda;type:varchar(10)" json:"moeda"`
	Status                string  `gorm:"type:varchar(20);not null" json:"status"`
	Kind                  string  `gorm:"column:tipo;type:varchar(20);not null" json:"tipo"`
	StripeInvoiceID       *string `gorm:"column:stripe_invoice_id;index" json:"stripe_invoice_id,omitempty"`
	StripePaymentIntentID *string `gorm:"column:stripe_payment_intent_id" json:"stripe_payment_intent_id,omitempty"`
	Description           string  `gorm:"column:descricao" json:"descricao"`

	CreatedAt time.Time `json:"created_at"`
}

func (Transaction) TableName() string { return "transacoes" }
