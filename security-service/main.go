package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "autovista-backend/docs"
	"autovista-backend/security-service/handlers"
	"autovista-backend/security-service/middleware"
	"autovista-backend/shared/clients"
	"autovista-backend/shared/config"
	"autovista-backend/shared/database"
	"autovista-backend/shared/security"
	"autovista-backend/shared/security/securitystore"
	"autovista-backend/shared/utils/cache"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Build the three-factor core
	store := securitystore.NewGormStore(database.GetDB())
	totpManager := security.NewTOTPManager(cfg.TOTPIssuer, cfg.TOTPSkewSteps)
	lockoutPolicy := security.NewLockoutPolicy(store, cfg.MaxLoginAttempts, cfg.LockoutMinutes)
	monitoring := clients.NewMonitoringClient()

	opts := []security.AuthenticatorOption{
		security.WithFailureReporter(monitoring),
	}

	// Replay guard is advisory; the service runs without Redis, with
	// skew-window-only replay protection.
	if err := cache.InitReplayGuard(); err != nil {
		log.Printf("Warning: replay guard disabled: %v", err)
	} else {
		opts = append(opts, security.WithReplayGuard(cache.GetReplayGuard()))
	}

	authenticator := security.NewAuthenticator(store, store, totpManager, lockoutPolicy, opts...)
	authenticator.DeviceVerificationRequired = cfg.DeviceVerificationRequired
	authenticator.TrustRequiresTOTP = cfg.TrustRequiresTOTP

	// Initialize handlers
	securityHandler := handlers.NewSecurityHandler(database.GetDB(), authenticator)

	// Initialize rate limiter
	rateLimiterCleanupTime := 30 * time.Minute
	rateLimiter := middleware.NewRateLimiter(rateLimiterCleanupTime)

	// Rate limiting configs
	generalConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.RateLimitMaxRequests,
		TimeWindow:    time.Duration(cfg.RateLimitTimeWindowSeconds) * time.Second,
		BlockDuration: time.Duration(cfg.RateLimitBlockDurationMinutes) * time.Minute,
	}

	authConfig := middleware.RateLimitConfig{
		MaxRequests:   cfg.AuthRateLimitMaxAttempts,
		TimeWindow:    time.Duration(cfg.AuthRateLimitWindowSeconds) * time.Second,
		BlockDuration: time.Duration(cfg.AuthRateLimitBlockMinutes) * time.Minute,
	}

	router := gin.Default()
	router.Use(cors.Default())

	// Three-factor decision endpoint, called by the identity provider's
	// login handler after the password check
	router.POST("/api/security/authenticate", rateLimiter.AuthenticateRateLimitMiddleware(authConfig), securityHandler.Authenticate)

	// TOTP enrollment endpoints
	router.POST("/api/security/totp/setup", middleware.AuthMiddleware(), securityHandler.SetupTOTP)
	router.POST("/api/security/totp/verify", rateLimiter.RateLimitMiddleware(generalConfig), middleware.AuthMiddleware(), securityHandler.VerifyTOTP)

	// Audit trail endpoint
	router.GET("/api/security/audit-log", middleware.AuthMiddleware(), securityHandler.GetAuditLog)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "security",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := strings.Split(cfg.SecurityServiceURL, ":")[2]
	log.Printf("Security Service starting on port %s...", port)
	router.Run(":" + port)
}
