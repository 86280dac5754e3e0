package rdx

import (
	"log"
	"os"
	"time"

	"krumeku/globals"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	if err := Conn.Ping(globals.Ctx).Err(); err != nil {
		log.Println("Redis unreachable at startup:", err)
	}
}

// SetWithTTL stores a string value under key with an expiry.
func SetWithTTL(key, value string, ttl time.Duration) {
	if err := Conn.Set(globals.Ctx, key, value, ttl).Err(); err != nil {
		log.Println("Redis Set error for key", key, ":", err)
	}
}

// Get returns the cached value and whether it was present.
func Get(key string) (string, bool) {
	val, err := Conn.Get(globals.Ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Println("Redis Get error for key", key, ":", err)
		return "", false
	}
	return val, true
}

// PushCapped prepends a value to a list, dropping any earlier occurrence,
// keeps only the newest n entries and refreshes the expiry.
func PushCapped(key, value string, n int64, ttl time.Duration) {
	pipe := Conn.TxPipeline()
	pipe.LRem(globals.Ctx, key, 0, value)
	pipe.LPush(globals.Ctx, key, value)
	pipe.LTrim(globals.Ctx, key, 0, n-1)
	pipe.Expire(globals.Ctx, key, ttl)
	if _, err := pipe.Exec(globals.Ctx); err != nil {
		log.Println("Redis PushCapped error for key", key, ":", err)
	}
}

// Range returns up to n entries from the front of a list, newest first for
// lists written with PushCapped.
func Range(key string, n int64) []string {
	vals, err := Conn.LRange(globals.Ctx, key, 0, n-1).Result()
	if err != nil && err != redis.Nil {
		log.Println("Redis LRange error for key", key, ":", err)
	}
	return vals
}

// Del removes a key; used to invalidate cached coupons after admin edits.
func Del(key string) {
	if err := Conn.Del(globals.Ctx, key).Err(); err != nil {
		log.Println("Redis Del error for key", key, ":", err)
	}
}
