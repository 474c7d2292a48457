package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string // "sqlite", "postgres" or "mysql"
	DatabasePath   string // sqlite file path
	DatabaseURL    string // postgres/mysql connection string
	MigrationsPath string

	AdminKey      string
	JWTSecret     string
	TokenDuration time.Duration

	WordBankPath string

	EmotionPredictorURL string

	SESRegion    string
	SESFromEmail string
	SESFromName  string
	AdminEmail   string
	EmailDebug   bool
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	return &Config{
		ServerPort:     getEnv("PORT", "5000"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./joyverse.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),

		AdminKey:      getEnv("ADMIN_KEY", "admin-secret-key"),
		JWTSecret:     getEnv("JWT_SECRET", "development-secret-do-not-use-in-production"),
		TokenDuration: 24 * time.Hour,

		WordBankPath: getEnv("WORD_BANK_PATH", ""),

		EmotionPredictorURL: getEnv("EMOTION_PREDICTOR_URL", "http://127.0.0.1:5001/predict"),

		SESRegion:    getEnv("SES_REGION", "eu-west-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Joyverse"),
		AdminEmail:   getEnv("ADMIN_EMAIL", ""),
		EmailDebug:   getEnv("EMAIL_DEBUG", "") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
