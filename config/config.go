package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	PORT       string
	DB_URL     string
	JWT_SECRET string

	STRIPE_SECRET_KEY          string
	STRIPE_WEBHOOK_SECRET      string
	STRIPE_WEBHOOK_SECRET_TEST string

	APP_URL     string
	CORS_ORIGIN string

	// FreePlanID is the plan every user starts on and falls back to when a
	// paid subscription ends. Injected here so the sentinel is not a magic
	// number scattered across components.
	FreePlanID uint

	// TrialDays applied when creating a paid subscription directly.
	TrialDays int
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = mustEnv("STRIPE_WEBHOOK_SECRET")
	STRIPE_WEBHOOK_SECRET_TEST = getEnv("STRIPE_WEBHOOK_SECRET_TEST", STRIPE_WEBHOOK_SECRET)

	APP_URL = getEnv("APP_URL", "http://localhost:3000")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:3000")

	FreePlanID = uint(getEnvInt("FREE_PLAN_ID", 1))
	TrialDays = getEnvInt("TRIAL_DAYS", 7)
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, exists := os.LookupEnv(key)
	if !exists || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("Invalid integer for %s: %q", key, v)
	}
	return n
}
