package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT (tokens are issued by the identity provider; this service only validates)
	JWTSecret      string
	JWTExpireHours string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// TOTP
	TOTPIssuer    string
	TOTPSkewSteps int

	// Lockout Policy
	MaxLoginAttempts int
	LockoutMinutes   int

	// Device Trust Policy
	DeviceVerificationRequired bool
	TrustRequiresTOTP          bool

	// Rate Limiting - general
	RateLimitMaxRequests          int
	RateLimitTimeWindowSeconds    int
	RateLimitBlockDurationMinutes int

	// Authenticate endpoint rate limiting (per IP, on top of the per-account lockout)
	AuthRateLimitMaxAttempts   int
	AuthRateLimitWindowSeconds int
	AuthRateLimitBlockMinutes  int

	// Monitoring (audit-sink failure reports)
	MonitoringURL string

	// Super Admin
	SuperAdminEmail string

	// Service URL
	SecurityServiceURL string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "autovista"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours: getEnv("JWT_EXPIRE_HOURS", "3"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// TOTP
		TOTPIssuer:    getEnv("TOTP_ISSUER", "AutoVista Admin"),
		TOTPSkewSteps: getEnvAsInt("TOTP_SKEW_STEPS", 1),

		// Lockout Policy
		MaxLoginAttempts: getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
		LockoutMinutes:   getEnvAsInt("LOCKOUT_MINUTES", 30),

		// Device Trust Policy
		DeviceVerificationRequired: getEnvAsBool("DEVICE_VERIFICATION_REQUIRED", false),
		TrustRequiresTOTP:          getEnvAsBool("TRUST_REQUIRES_TOTP", true),

		// Rate Limiting - general
		RateLimitMaxRequests:          getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitTimeWindowSeconds:    getEnvAsInt("RATE_LIMIT_TIME_WINDOW_SECONDS", 60),
		RateLimitBlockDurationMinutes: getEnvAsInt("RATE_LIMIT_BLOCK_DURATION_MINUTES", 15),

		// Authenticate endpoint rate limiting
		AuthRateLimitMaxAttempts:   getEnvAsInt("AUTH_RATE_LIMIT_MAX_ATTEMPTS", 20),
		AuthRateLimitWindowSeconds: getEnvAsInt("AUTH_RATE_LIMIT_WINDOW_SECONDS", 300),
		AuthRateLimitBlockMinutes:  getEnvAsInt("AUTH_RATE_LIMIT_BLOCK_MINUTES", 30),

		// Monitoring
		MonitoringURL: getEnv("MONITORING_URL", ""),

		// Super Admin
		SuperAdminEmail: getEnv("SUPER_ADMIN_EMAIL", "admin@autovista.com"),

		// Service URL
		SecurityServiceURL: getEnv("SECURITY_SERVICE_URL", "http://localhost:8001"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
