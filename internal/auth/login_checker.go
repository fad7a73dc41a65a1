package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

// IsLogged resolves the token into the owning user ID. An unknown or expired
// token is not an error, it just reports false.
func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	cmd := lc.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}

	session, err := decodeSession(cmd.Val())
	if err != nil {
		return "", false, err
	}

	if time.Since(session.CreatedAt) > lc.ttl {
		return "", false, nil
	}

	return session.UserID, true, nil
}
