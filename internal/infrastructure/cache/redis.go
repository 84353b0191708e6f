package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const verifyTokenTTL = 15 * time.Minute

// VerificationCache holds short-lived email-verification tokens.
type VerificationCache struct {
	client *redis.Client
}

func NewVerificationCache(client *redis.Client) *VerificationCache {
	return &VerificationCache{client: client}
}

func (c *VerificationCache) SaveToken(ctx context.Context, token string, email string) error {
	return c.client.Set(ctx, "verify_token:"+token, email, verifyTokenTTL).Err()
}

func (c *VerificationCache) GetToken(ctx context.Context, token string) (string, error) {
	val, err := c.client.Get(ctx, "verify_token:"+token).Result()
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *VerificationCache) DeleteToken(ctx context.Context, token string) error {
	return c.client.Del(ctx, "verify_token:"+token).Err()
}
