package helpers

import "github.com/redis/go-redis/v9"

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// SessionKey is the Redis hash holding a user's login session.
func SessionKey(userID string) string {
	return "user:session:" + userID
}
