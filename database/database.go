package database

import (
	"fmt"
	"log"
	"os"

	"criaprompt-api/internal/domain/appconfig"
	"criaprompt-api/internal/domain/billing"
	"criaprompt-api/internal/domain/library"
	"criaprompt-api/internal/domain/plans"
	"criaprompt-api/internal/domain/stats"
	"criaprompt-api/internal/domain/subscriptions"
	"criaprompt-api/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		log.Fatal("❌ DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("❌ Failed to connect to database:", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatal("❌ AutoMigrate error:", err)
	}

	fmt.Println("✅ Connected and migrated successfully")
}

// Migrate runs the schema migration for every domain model. Split out so
// tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// core entitlement/billing
		&users.Profile{},
		&plans.Plan{},
		&subscriptions.Subscription{},
		&billing.Transaction{},

		// aggregates and flags
		&stats.DailyStat{},
		&appconfig.Setting{},

		// quota-counted resources
		&library.Prompt{},
		&library.Modelo{},
	)
}
