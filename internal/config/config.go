package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/domain/compliance"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cache"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheNone   = "none"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Compliance ComplianceConfig
	Export     ExportConfig
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	Timezone    string
	FrontendURL string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	Driver          string
	DefaultTTL      time.Duration
	ClosedMonthTTL  time.Duration
	EmployeeTTL     time.Duration
	RefreshInterval time.Duration
}

type ComplianceConfig struct {
	MinDaysPerMonth        int
	MaxDaysPerWeek         int
	MinHoursPerDay         float64
	MissingEntryCutoffHour int
}

type ExportConfig struct {
	BasePath string
}

// Load reads the environment, optionally seeded from a .env file.
func Load() (*Config, error) {
	// A missing .env is fine; the environment may be set by the runtime.
	_ = godotenv.Load()

	config, err := loadFromEnv()
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv() (*Config, error) {
	config := &Config{}
	var err error

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "office_attendance"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "attendance.db"),
	}

	// Redis configuration
	redisPort, err := getEnvInt("REDIS_PORT", 6379)
	if err != nil {
		return nil, err
	}
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     redisPort,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Cache configuration
	ttl := cache.DefaultTTLPolicy()
	config.Cache.Driver = strings.ToLower(getEnv("CACHE_DRIVER", CacheMemory))
	if config.Cache.DefaultTTL, err = getEnvDuration("CACHE_DEFAULT_TTL", ttl.Default); err != nil {
		return nil, err
	}
	if config.Cache.ClosedMonthTTL, err = getEnvDuration("CACHE_CLOSED_MONTH_TTL", ttl.ClosedMonth); err != nil {
		return nil, err
	}
	if config.Cache.EmployeeTTL, err = getEnvDuration("CACHE_EMPLOYEE_TTL", ttl.Employee); err != nil {
		return nil, err
	}
	if config.Cache.RefreshInterval, err = getEnvDuration("CACHE_REFRESH_INTERVAL", 12*time.Hour); err != nil {
		return nil, err
	}

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Timezone:    getEnv("APP_TIMEZONE", "UTC"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	accessExpiration, err := getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour)
	if err != nil {
		return nil, err
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Compliance thresholds
	defaults := compliance.DefaultPolicy()
	if config.Compliance.MinDaysPerMonth, err = getEnvInt("COMPLIANCE_MIN_DAYS_PER_MONTH", defaults.MinDaysPerMonth); err != nil {
		return nil, err
	}
	if config.Compliance.MaxDaysPerWeek, err = getEnvInt("COMPLIANCE_MAX_DAYS_PER_WEEK", defaults.MaxDaysPerWeek); err != nil {
		return nil, err
	}
	if config.Compliance.MinHoursPerDay, err = getEnvFloat("COMPLIANCE_MIN_HOURS_PER_DAY", defaults.MinHoursPerDay); err != nil {
		return nil, err
	}
	if config.Compliance.MissingEntryCutoffHour, err = getEnvInt("COMPLIANCE_MISSING_ENTRY_CUTOFF_HOUR", int(defaults.MissingEntryCutoff/time.Hour)); err != nil {
		return nil, err
	}

	config.Export = ExportConfig{
		BasePath: getEnv("EXPORT_BASE_PATH", "./storage"),
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %s or %s", DriverPostgres, DriverSQLite)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}

	switch c.Cache.Driver {
	case CacheRedis, CacheMemory, CacheNone:
	default:
		return fmt.Errorf("CACHE_DRIVER must be %s, %s or %s", CacheRedis, CacheMemory, CacheNone)
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE is invalid: %w", err)
	}

	if c.Compliance.MinDaysPerMonth <= 0 {
		return fmt.Errorf("COMPLIANCE_MIN_DAYS_PER_MONTH must be positive")
	}
	if c.Compliance.MaxDaysPerWeek <= 0 || c.Compliance.MaxDaysPerWeek > 7 {
		return fmt.Errorf("COMPLIANCE_MAX_DAYS_PER_WEEK must be between 1 and 7")
	}
	if c.Compliance.MinHoursPerDay <= 0 || c.Compliance.MinHoursPerDay > 24 {
		return fmt.Errorf("COMPLIANCE_MIN_HOURS_PER_DAY must be between 0 and 24")
	}
	if c.Compliance.MissingEntryCutoffHour < 0 || c.Compliance.MissingEntryCutoffHour > 23 {
		return fmt.Errorf("COMPLIANCE_MISSING_ENTRY_CUTOFF_HOUR must be between 0 and 23")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Location returns the configured timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Policy builds the compliance thresholds.
func (c *Config) Policy() compliance.Policy {
	return compliance.Policy{
		MinDaysPerMonth:    c.Compliance.MinDaysPerMonth,
		MaxDaysPerWeek:     c.Compliance.MaxDaysPerWeek,
		MinHoursPerDay:     c.Compliance.MinHoursPerDay,
		MissingEntryCutoff: time.Duration(c.Compliance.MissingEntryCutoffHour) * time.Hour,
		Location:           c.Location(),
	}
}

func (c *Config) TTLPolicy() cache.TTLPolicy {
	return cache.TTLPolicy{
		Default:     c.Cache.DefaultTTL,
		ClosedMonth: c.Cache.ClosedMonthTTL,
		Employee:    c.Cache.EmployeeTTL,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
