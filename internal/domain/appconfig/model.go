package appconfig

import "gorm.io/gorm"

const (
	// KeySaaSEnabled toggles quota enforcement globally. Anything other
	// than "false"/"0" counts as enabled.
	KeySaaSEnabled = "saas_enabled"

	// KeyBillingMode selects which webhook secret verifies signatures.
	KeyBillingMode = "billing_mode"

	BillingModeTest       = "test"
	BillingModeProduction = "production"
)

// Setting is a key/value application flag stored in the database so admins
// can flip it without a deploy.
type Setting struct {
	Key   string `gorm:"primaryKey;size:64" json:"chave"`
	Value string `gorm:"column:valor" json:"valor"`
}

func (Setting) TableName() string { return "configuracoes_app" }

func Get(db *gorm.DB, key, fallback string) string {
	var s Setting
	if err := db.First(&s, "key = ?", key).Error; err != nil {
		return fallback
	}
	return s.Value
}

func Set(db *gorm.DB, key, value string) error {
	return db.Save(&Setting{Key: key, Value: value}).Error
}

func SaaSEnabled(db *gorm.DB) bool {
	v := Get(db, KeySaaSEnabled, "true")
	return v != "false" && v != "0"
}

func BillingMode(db *gorm.DB) string {
	if Get(db, KeyBillingMode, BillingModeProduction) == BillingModeTest {
		return BillingModeTest
	}
	return BillingModeProduction
}
