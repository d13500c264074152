package redisutil

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ritikk978/next-nest/pkg/config"
)

var client *redis.Client

// InitRedis creates the shared Redis client
func InitRedis(cfg *config.Config) {
	client = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// GetClient returns the shared Redis client
func GetClient() *redis.Client {
	return client
}

// GetCached reads a JSON value from the cache. The bool reports a hit.
func GetCached(ctx context.Context, key string, dest interface{}) (bool, error) {
	if client == nil {
		return false, nil
	}
	data, err := client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(data), dest)
}

// SetCached stores a JSON value with a TTL
func SetCached(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}

// InvalidatePrefix drops every cached key under a prefix. Called after
// property mutations so stale listings never outlive the write.
func InvalidatePrefix(ctx context.Context, prefix string) error {
	if client == nil {
		return nil
	}
	iter := client.Scan(ctx, 0, prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// QueryCacheKey derives a stable cache key from query parameters
func QueryCacheKey(prefix string, queryParams map[string]string) string {
	keys := make([]string, 0, len(queryParams))
	for k := range queryParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(":")
		}
		builder.WriteString(k)
		builder.WriteString("=")
		builder.WriteString(queryParams[k])
	}

	hash := md5.Sum([]byte(builder.String()))
	hashStr := hex.EncodeToString(hash[:])

	return prefix + ":" + hashStr
}

const blacklistPrefix = "token:blacklist:"

// BlacklistToken marks a token as revoked until it would have expired.
// JWTs are otherwise stateless, so logout is best-effort.
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if client == nil || ttl <= 0 {
		return nil
	}
	return client.Set(ctx, blacklistPrefix+tokenKey(token), "1", ttl).Err()
}

// IsTokenBlacklisted reports whether a token was revoked by logout
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, blacklistPrefix+tokenKey(token)).Result()
	return err == nil && n > 0
}

// StoreToken persists a one-time token (password reset, email
// verification) against a user id with a TTL
func StoreToken(ctx context.Context, purpose, token string, userID uint, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	return client.Set(ctx, purpose+":"+token, userID, ttl).Err()
}

// ConsumeToken resolves and deletes a one-time token, returning the
// user id it was issued for. The bool reports whether it was valid.
func ConsumeToken(ctx context.Context, purpose, token string) (uint, bool) {
	if client == nil {
		return 0, false
	}
	key := purpose + ":" + token
	val, err := client.GetDel(ctx, key).Uint64()
	if err != nil {
		return 0, false
	}
	return uint(val), true
}

func tokenKey(token string) string {
	sum := md5.Sum([]byte(token))
	return hex.EncodeToString(sum[:])
}
