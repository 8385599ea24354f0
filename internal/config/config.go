package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"bank-recon/internal/domain"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Recon    domain.ReconciliationConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type ServerConfig struct {
	Port string
}

type AppConfig struct {
	LogLevel string
}

func Load() (*Config, error) {
	recon := domain.DefaultReconciliationConfig()
	// The HTTP service runs with a wider date window than the matcher default.
	recon.DateToleranceDays = getEnvInt("RECON_DATE_TOLERANCE_DAYS", 3)
	recon.MaxSuggestions = getEnvInt("RECON_MAX_SUGGESTIONS", recon.MaxSuggestions)
	recon.MaxPartialSuggestions = getEnvInt("RECON_MAX_PARTIAL_SUGGESTIONS", recon.MaxPartialSuggestions)

	if raw := os.Getenv("RECON_AMOUNT_TOLERANCE"); raw != "" {
		tolerance, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid RECON_AMOUNT_TOLERANCE %q: %w", raw, err)
		}
		recon.AmountTolerance = tolerance
	}

	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "bank_recon_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Recon: recon,
	}, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
