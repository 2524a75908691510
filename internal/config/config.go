package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Office   OfficeConfig
	Bank     BankConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	// Pool sizing, tuned per deployment.
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// OfficeConfig holds the working-hours rules driving attendance flags.
type OfficeConfig struct {
	StartHour          int // office opens, default 09:00
	StartMinute        int
	EndHour            int // office closes, default 17:00
	EndMinute          int
	MaxBreaksPerDay    int
	OrphanBreakTimeout time.Duration
}

// BankConfig holds the payout collaborator credentials.
type BankConfig struct {
	BaseURL     string
	APIKey      string
	Provider    string
	Environment string
}

func Load() (*Config, error) {
	// A missing .env file is fine in deployed environments; variables
	// come from the process environment there.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	dbMaxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	dbMinConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "workpulse"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(dbMaxConns),
		MinConns: int32(dbMinConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Office rules
	officeStart, err := parseClock(getEnv("OFFICE_START_TIME", "09:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_START_TIME: %w", err)
	}
	officeEnd, err := parseClock(getEnv("OFFICE_END_TIME", "17:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid OFFICE_END_TIME: %w", err)
	}
	maxBreaks, err := strconv.Atoi(getEnv("MAX_BREAKS_PER_DAY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_BREAKS_PER_DAY: %w", err)
	}
	orphanTimeout, err := time.ParseDuration(getEnv("ORPHAN_BREAK_TIMEOUT", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORPHAN_BREAK_TIMEOUT: %w", err)
	}

	config.Office = OfficeConfig{
		StartHour:          officeStart.Hour(),
		StartMinute:        officeStart.Minute(),
		EndHour:            officeEnd.Hour(),
		EndMinute:          officeEnd.Minute(),
		MaxBreaksPerDay:    maxBreaks,
		OrphanBreakTimeout: orphanTimeout,
	}

	// Bank payout collaborator
	config.Bank = BankConfig{
		BaseURL:     getEnv("BANK_API_BASE_URL", "https://api.payouts.example.com"),
		APIKey:      getEnv("BANK_API_KEY", ""),
		Provider:    getEnv("BANK_PROVIDER", "razorpayx"),
		Environment: getEnv("BANK_ENVIRONMENT", "sandbox"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS/DB_MAX_CONNS must satisfy 0 <= min <= max, max >= 1")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Office.MaxBreaksPerDay < 1 {
		return fmt.Errorf("MAX_BREAKS_PER_DAY must be at least 1")
	}
	if c.Bank.APIKey == "" && c.Bank.Environment != "sandbox" {
		return fmt.Errorf("BANK_API_KEY is required outside sandbox")
	}
	return nil
}

// URL returns the PostgreSQL connection string.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseClock(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}
