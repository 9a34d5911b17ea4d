// api/db/redis.go
package db

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/vidora-labs/vidora/api/logging"
	"github.com/vidora-labs/vidora/api/model"
)

var (
	RedisClient   *redis.Client
	encryptionKey []byte
)

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
		PoolTimeout:  viper.GetDuration("redis.poolTimeout"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	encryptionKey = []byte(viper.GetString("redis.encryptionKey"))
	if len(encryptionKey) != 32 {
		return fmt.Errorf("invalid encryption key length: must be 32 bytes")
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

func encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decrypt(ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonceSize := gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// --- Token revocation ---

// tokenKey derives the revocation key from the raw token so the token
// itself is never stored.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("revoked:%s", hex.EncodeToString(sum[:]))
}

// RevokeToken writes a revocation marker whose TTL equals the token's
// remaining lifetime, so the store self-cleans with no background sweep.
// A non-positive TTL means the token is already expired and there is
// nothing to do.
func RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	err := RedisClient.Set(ctx, tokenKey(token), "revoked", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to store revocation marker: %w", err)
	}
	logger.Debug("Token revoked", zap.Duration("ttl", ttl))
	return nil
}

// IsTokenRevoked reports whether a revocation marker exists for the token.
func IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	n, err := RedisClient.Exists(ctx, tokenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation marker: %w", err)
	}
	return n > 0, nil
}

// --- Fixed-window rate counters ---

// RateLimitResult carries everything the middleware needs to emit the
// X-RateLimit-* headers.
type RateLimitResult struct {
	Allowed   bool
	Count     int64
	Remaining int64
	Reset     time.Duration
}

// CheckRateLimit performs a fixed-window check for (partition, route).
// The first request in a window creates the counter with the window as
// its expiry (SET NX, atomic with the TTL); later requests read the count
// and only increment below the limit, so the stored value never exceeds
// the limit. Serialization of concurrent increments is delegated to
// Redis; there is no read-modify-write of the counter value itself.
func CheckRateLimit(ctx context.Context, partition, route string, limit int, window time.Duration) (*RateLimitResult, error) {
	key := fmt.Sprintf("rate:%s:%s", partition, route)

	created, err := RedisClient.SetNX(ctx, key, 1, window).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rate counter: %w", err)
	}
	if created {
		return &RateLimitResult{
			Allowed:   true,
			Count:     1,
			Remaining: clampRemaining(int64(limit) - 1),
			Reset:     window,
		}, nil
	}

	count, err := RedisClient.Get(ctx, key).Int64()
	if err == redis.Nil {
		// Counter expired between SetNX and Get; treat as a fresh window.
		count = 0
	} else if err != nil {
		return nil, fmt.Errorf("failed to read rate counter: %w", err)
	}

	reset, err := RedisClient.TTL(ctx, key).Result()
	if err != nil || reset < 0 {
		reset = window
	}

	if count >= int64(limit) {
		// Denied requests never increment, so the counter stays bounded.
		return &RateLimitResult{
			Allowed:   false,
			Count:     count,
			Remaining: 0,
			Reset:     reset,
		}, nil
	}

	count, err = RedisClient.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count == 1 {
		// The counter expired after the SetNX check, so Incr recreated
		// it without an expiry. Re-arm the window or the key never
		// resets again.
		if err := RedisClient.Expire(ctx, key, window).Err(); err != nil {
			return nil, fmt.Errorf("failed to arm rate counter expiry: %w", err)
		}
		reset = window
	}

	return &RateLimitResult{
		Allowed:   true,
		Count:     count,
		Remaining: clampRemaining(int64(limit) - count),
		Reset:     reset,
	}, nil
}

func clampRemaining(remaining int64) int64 {
	if remaining < 0 {
		return 0
	}
	return remaining
}

// --- IP blocklist ---
//
// Block markers live in the same store as the counters so blocks
// survive restarts and apply across replicas.

func BlockIP(ctx context.Context, ip string, ttl time.Duration) error {
	err := RedisClient.Set(ctx, fmt.Sprintf("blockip:%s", ip), "blocked", ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to block IP: %w", err)
	}
	logger.Warn("IP blocked", zap.String("ip", ip), zap.Duration("ttl", ttl))
	return nil
}

func IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	n, err := RedisClient.Exists(ctx, fmt.Sprintf("blockip:%s", ip)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check IP blocklist: %w", err)
	}
	return n > 0, nil
}

// --- Entity cache ---

// CacheUser stores the user record encrypted, since it carries account
// details and quota state.
func CacheUser(ctx context.Context, user *model.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	encryptedUser, err := encrypt(userJSON)
	if err != nil {
		return fmt.Errorf("failed to encrypt user: %w", err)
	}

	key := fmt.Sprintf("user:%s", user.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, base64.StdEncoding.EncodeToString(encryptedUser), defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	logger.Debug("User cached successfully", zap.String("userID", user.ID))
	return nil
}

func GetCachedUser(ctx context.Context, userID string) (*model.User, error) {
	key := fmt.Sprintf("user:%s", userID)
	encryptedUserStr, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("User not found in cache", zap.String("userID", userID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	encryptedUser, err := base64.StdEncoding.DecodeString(encryptedUserStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	userJSON, err := decrypt(encryptedUser)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt user: %w", err)
	}

	var user model.User
	err = json.Unmarshal(userJSON, &user)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	logger.Debug("User retrieved from cache", zap.String("userID", userID))
	return &user, nil
}

func DeleteCachedUser(ctx context.Context, userID string) error {
	key := fmt.Sprintf("user:%s", userID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete user from cache: %w", err)
	}
	logger.Debug("User deleted from cache", zap.String("userID", userID))
	return nil
}

func CacheCampaign(ctx context.Context, campaign *model.Campaign) error {
	campaignJSON, err := json.Marshal(campaign)
	if err != nil {
		return fmt.Errorf("failed to marshal campaign: %w", err)
	}

	key := fmt.Sprintf("campaign:%s", campaign.ID)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, campaignJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache campaign: %w", err)
	}

	logger.Debug("Campaign cached successfully", zap.String("campaignID", campaign.ID))
	return nil
}

func GetCachedCampaign(ctx context.Context, campaignID string) (*model.Campaign, error) {
	key := fmt.Sprintf("campaign:%s", campaignID)
	campaignJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Campaign not found in cache", zap.String("campaignID", campaignID))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get campaign from cache: %w", err)
	}

	var campaign model.Campaign
	err = json.Unmarshal([]byte(campaignJSON), &campaign)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign: %w", err)
	}

	logger.Debug("Campaign retrieved from cache", zap.String("campaignID", campaignID))
	return &campaign, nil
}

func DeleteCachedCampaign(ctx context.Context, campaignID string) error {
	key := fmt.Sprintf("campaign:%s", campaignID)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete campaign from cache: %w", err)
	}
	logger.Debug("Campaign deleted from cache", zap.String("campaignID", campaignID))
	return nil
}
