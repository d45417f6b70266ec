package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Income statement classification. Accounts whose code starts with the
	// income prefix are reported as income, the expense prefix as expense;
	// the account type is the fallback when neither prefix matches.
	IncomeCodePrefix  string
	ExpenseCodePrefix string
}

var appConfig *Config

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if present; environment variables win otherwise.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "defter"),
		DBPassword: getEnv("DB_PASSWORD", "defter"),
		DBName:     getEnv("DB_NAME", "defter"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		IncomeCodePrefix:  getEnv("INCOME_CODE_PREFIX", "6"),
		ExpenseCodePrefix: getEnv("EXPENSE_CODE_PREFIX", "7"),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
