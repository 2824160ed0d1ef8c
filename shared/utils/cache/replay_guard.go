package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"autovista-backend/shared/config"
)

// usedCodeTTL keeps an accepted TOTP code marked long enough to cover
// the full skew window (current step plus one on each side).
var usedCodeTTL = 90 * time.Second

// ReplayGuard remembers accepted TOTP codes in Redis so a captured code
// cannot be submitted a second time inside its validity window.
type ReplayGuard struct {
	client *redis.Client
}

var globalReplayGuard *ReplayGuard

// InitReplayGuard initializes the global replay guard
func InitReplayGuard() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	// Create Redis client
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	// Test connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalReplayGuard = &ReplayGuard{client: client}

	log.Printf("✅ Redis Replay Guard initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetReplayGuard returns the global replay guard instance
func GetReplayGuard() *ReplayGuard {
	if globalReplayGuard == nil {
		if err := InitReplayGuard(); err != nil {
			log.Printf("❌ Failed to initialize replay guard: %v", err)
			return nil
		}
	}
	return globalReplayGuard
}

// usedCodeKey generates the cache key for an accepted (user, code) pair
func usedCodeKey(userID uuid.UUID, code string) string {
	return fmt.Sprintf("totp:used:%s:%s", userID, code)
}

// MarkUsed records the accepted code; fresh is false when a previous
// attempt already consumed it inside the window.
func (g *ReplayGuard) MarkUsed(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	fresh, err := g.client.SetNX(ctx, usedCodeKey(userID, code), 1, usedCodeTTL).Result()
	if err != nil {
		return false, fmt.Errorf("replay guard unavailable: %w", err)
	}

	return fresh, nil
}
