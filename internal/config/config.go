package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode     string
	Port        string
	StoreDriver string
	Database    DatabaseConfig
	JWT         JWTConfig
	Latency     LatencyConfig
	Jobs        JobsConfig
}

// DatabaseConfig holds database configuration (STORE_DRIVER=mysql only)
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// JWTConfig holds session token configuration
type JWTConfig struct {
	Secret     string
	SessionTTL time.Duration
}

// LatencyConfig holds the simulated processing delays
type LatencyConfig struct {
	Payment           time.Duration
	Withdrawal        time.Duration
	Settings          time.Duration
	SubmissionTimeout time.Duration
}

// JobsConfig holds cron schedules
type JobsConfig struct {
	PayoutDigestSchedule string
	DialogReaperSchedule string
	DialogIdleTTL        time.Duration
}

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
)

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	driver := strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	if driver != StoreMemory && driver != StoreMySQL {
		return nil, fmt.Errorf("invalid STORE_DRIVER: '%s' (must be '%s' or '%s')", driver, StoreMemory, StoreMySQL)
	}

	jwtCfg, err := loadJWTConfig(appMode)
	if err != nil {
		return nil, err
	}
	latency, err := loadLatencyConfig()
	if err != nil {
		return nil, err
	}
	jobs, err := loadJobsConfig()
	if err != nil {
		return nil, err
	}
	dbCfg, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:     appMode,
		Port:        getEnv("PORT", "3000"),
		StoreDriver: driver,
		Database:    dbCfg,
		JWT:         jwtCfg,
		Latency:     latency,
		Jobs:        jobs,
	}

	if config.IsProd() && config.JWT.Secret == defaultJWTSecret {
		log.Println("⚠️ Warning: PROD_JWT_SECRET is not set, using default secret")
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, STORE: %s]", appMode, driver)
	return config, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	maxOpen, err := getInt("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return DatabaseConfig{}, err
	}
	maxIdle, err := getInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return DatabaseConfig{}, err
	}
	lifetime, err := getDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	if err != nil {
		return DatabaseConfig{}, err
	}
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}

	return DatabaseConfig{
		Host:            getEnv(prefix+"DB_HOST", "localhost"),
		Port:            getEnv(prefix+"DB_PORT", "3306"),
		User:            getEnv(prefix+"DB_USER", "root"),
		Password:        getEnv(prefix+"DB_PASS", ""),
		DBName:          getEnv(prefix+"DB_NAME", "tahfiz_portal"),
		MaxOpenConns:    maxOpen,
		MaxIdleConns:    maxIdle,
		ConnMaxLifetime: lifetime,
	}, nil
}

const defaultJWTSecret = "default_secret"

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) (JWTConfig, error) {
	ttl, err := getDuration("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return JWTConfig{}, err
	}

	return JWTConfig{
		Secret:     getEnv(modePrefix(mode)+"JWT_SECRET", defaultJWTSecret),
		SessionTTL: ttl,
	}, nil
}

func loadLatencyConfig() (LatencyConfig, error) {
	var (
		cfg LatencyConfig
		err error
	)
	if cfg.Payment, err = getDuration("PAYMENT_LATENCY", 1500*time.Millisecond); err != nil {
		return cfg, err
	}
	if cfg.Withdrawal, err = getDuration("WITHDRAWAL_LATENCY", 1500*time.Millisecond); err != nil {
		return cfg, err
	}
	if cfg.Settings, err = getDuration("SETTINGS_LATENCY", 1000*time.Millisecond); err != nil {
		return cfg, err
	}
	if cfg.SubmissionTimeout, err = getDuration("SUBMISSION_TIMEOUT", 30*time.Second); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadJobsConfig() (JobsConfig, error) {
	idle, err := getDuration("DIALOG_IDLE_TTL", 30*time.Minute)
	if err != nil {
		return JobsConfig{}, err
	}
	return JobsConfig{
		PayoutDigestSchedule: getEnv("PAYOUT_DIGEST_SCHEDULE", "30 8 * * *"),
		DialogReaperSchedule: getEnv("DIALOG_REAPER_SCHEDULE", "@every 5m"),
		DialogIdleTTL:        idle,
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a time.ParseDuration value, negative values are rejected
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

// getInt parses a positive integer
func getInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://portal.tahfiz.my"
	}
	return origins
}
